// Package models defines data structures shared by the crawler and dashboard.
package models

import "time"

// Book represents one catalog entry extracted from a detail page.
//
// Every record carries at least Title, Rating, and URL; the remaining fields
// degrade to empty values when the source page omits them.
type Book struct {
	Title        string            `csv:"title" json:"title"`
	Price        string            `csv:"price" json:"price"`
	Availability string            `csv:"availability" json:"availability"`
	Rating       int               `csv:"rating" json:"rating"`
	RatingText   string            `csv:"rating_text" json:"rating_text"`
	Description  string            `csv:"description" json:"description,omitempty"`
	ImageURL     string            `csv:"image_url" json:"image_url,omitempty"`
	ProductInfo  map[string]string `csv:"-" json:"product_info,omitempty"`
	URL          string            `csv:"url" json:"url"`
	ScrapedAt    time.Time         `csv:"scraped_at" json:"scraped_at"`
}

// CrawlResult holds the overall result of one crawl run.
type CrawlResult struct {
	StartTime    time.Time
	EndTime      time.Time
	TotalCount   int
	ErrorCount   int
	FailedURLs   []string
	ErrorsByType map[string]int
	RetryCount   int
	RequestCount int
	PageCount    int
}
