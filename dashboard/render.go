package dashboard

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-book-catalog/catalog"
	"github.com/aluiziolira/go-book-catalog/models"
)

// Card is the display form of one record: a deterministic set of strings the
// template renders without further logic.
type Card struct {
	Title        string
	Stars        string
	RatingLabel  string
	Price        string
	Availability string
	ImageURL     string
	ImageNotice  string
	Description  string
	URL          string
}

// NewCard renders one record into its display strings. Image, description,
// and source link are shown only when present; a missing image becomes a
// placeholder notice.
func NewCard(b models.Book) Card {
	card := Card{
		Title:        b.Title,
		Stars:        Stars(b.Rating),
		RatingLabel:  fmt.Sprintf("%d/5", b.Rating),
		Price:        b.Price,
		Availability: b.Availability,
		ImageURL:     b.ImageURL,
		Description:  b.Description,
		URL:          b.URL,
	}
	if card.ImageURL == "" {
		card.ImageNotice = "No image available"
	}
	return card
}

// Cards renders one page of records.
func Cards(books []models.Book) []Card {
	out := make([]Card, 0, len(books))
	for _, b := range books {
		out = append(out, NewCard(b))
	}
	return out
}

// Stars renders a rating as filled and empty star glyphs. Ratings are always
// 0-5 by construction; anything else is clamped for display.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// FormatAverageRating formats the mean rating to one decimal place.
func FormatAverageRating(stats catalog.Stats) string {
	return fmt.Sprintf("%.1f", stats.AverageRating)
}

// FormatAveragePrice formats the mean price to the penny, or N/A when no
// record in the filtered set had a parseable price.
func FormatAveragePrice(stats catalog.Stats) string {
	if stats.PricedCount == 0 {
		return "N/A"
	}
	return fmt.Sprintf("£%.2f", stats.AveragePrice)
}
