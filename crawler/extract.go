package crawler

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-book-catalog/models"
	"github.com/aluiziolira/go-book-catalog/parser"
	"github.com/gocolly/colly/v2"
)

// extractBook builds one record from a detail page. Missing fields degrade
// to empty values; only a missing title discards the record entirely.
func extractBook(e *colly.HTMLElement) *models.Book {
	title := strings.TrimSpace(e.ChildText("div.product_main h1"))
	if title == "" {
		return nil
	}

	priceText := parser.NormalizePrice(e.ChildText("div.product_main p.price_color"))

	ratingText, rating := parser.RatingFromClass(e.ChildAttr("p.star-rating", "class"))

	// Availability is every text fragment inside the element, concatenated
	// and trimmed; the stock-count suffix lives in a separate text node.
	availability := parser.NormalizeAvailability(e.DOM.Find("p.availability").Text())

	description := strings.TrimSpace(e.DOM.Find("#product_description + p").Text())

	imageURL := ""
	if src := e.ChildAttr("div.image_container img", "src"); src != "" {
		imageURL = e.Request.AbsoluteURL(src)
	}

	return &models.Book{
		Title:        title,
		Price:        priceText,
		Availability: availability,
		Rating:       rating,
		RatingText:   ratingText,
		Description:  description,
		ImageURL:     imageURL,
		ProductInfo:  extractProductInfo(e.DOM),
		URL:          e.Request.URL.String(),
		ScrapedAt:    time.Now().UTC(),
	}
}

// extractProductInfo pairs the first and last cell of every row in the
// specifications table. Rows missing either side are skipped; keys are not
// fixed in advance.
func extractProductInfo(doc *goquery.Selection) map[string]string {
	info := make(map[string]string)
	doc.Find("table.table-striped tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() == 0 {
			return
		}
		key := strings.TrimSpace(cells.First().Text())
		value := strings.TrimSpace(cells.Last().Text())
		if key == "" || value == "" {
			return
		}
		info[key] = value
	})
	if len(info) == 0 {
		return nil
	}
	return info
}
