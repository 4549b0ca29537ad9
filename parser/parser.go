// Package parser holds the pure extraction and normalization helpers shared
// by the crawler and the dashboard.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-book-catalog/models"
)

// InStockMarker is the substring that signals availability. Its presence in
// the free-text availability field is the sole semantic signal consumed by
// the in-stock filter and statistics.
const InStockMarker = "In stock"

var pricePattern = regexp.MustCompile(`£(\d+\.\d+)`)

// RatingFromLabel converts the textual rating label to its numeric value.
// The label set is closed; anything outside it maps to 0.
func RatingFromLabel(label string) int {
	switch strings.TrimSpace(label) {
	case "One":
		return 1
	case "Two":
		return 2
	case "Three":
		return 3
	case "Four":
		return 4
	case "Five":
		return 5
	default:
		// Includes "Zero" and any unrecognized text.
		return 0
	}
}

// RatingFromClass extracts the rating label from a space-separated class
// attribute value ("star-rating Three" -> "Three") and maps it to a number.
// The label is the final token of the attribute.
func RatingFromClass(class string) (string, int) {
	fields := strings.Fields(class)
	if len(fields) < 2 {
		return "", 0
	}
	label := fields[len(fields)-1]
	return label, RatingFromLabel(label)
}

// PriceValue extracts the numeric portion of a currency-prefixed price text.
// It reports false when the text does not match the expected shape, leaving
// the missing-value policy to the caller.
func PriceValue(price string) (float64, bool) {
	match := pricePattern.FindStringSubmatch(NormalizePrice(price))
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// NormalizePrice trims whitespace and repairs the mojibake pound sign that
// appears when the page encoding is mis-detected.
func NormalizePrice(price string) string {
	price = strings.ReplaceAll(price, "Â£", "£")
	return strings.TrimSpace(price)
}

// NormalizeAvailability trims spacing from the availability text.
func NormalizeAvailability(text string) string {
	return strings.TrimSpace(text)
}

// InStock reports whether the availability text carries the in-stock signal.
func InStock(availability string) bool {
	return strings.Contains(availability, InStockMarker)
}

// ValidateBook ensures the crawler captured the fields every record must have.
func ValidateBook(b *models.Book) error {
	if b == nil {
		return fmt.Errorf("book is nil")
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("book missing title")
	}
	if strings.TrimSpace(b.URL) == "" {
		return fmt.Errorf("book missing url for %s", b.Title)
	}
	if b.Rating < 0 || b.Rating > 5 {
		return fmt.Errorf("book rating %d out of range for %s", b.Rating, b.Title)
	}
	return nil
}
