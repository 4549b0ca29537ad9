// Package catalog implements the filter, sort, and pagination engine the
// dashboard runs over the loaded book table. All operations are pure: they
// take the full record table plus the requested parameters and return a
// derived view without mutating the input.
package catalog

import (
	"sort"
	"strings"

	"github.com/aluiziolira/go-book-catalog/models"
	"github.com/aluiziolira/go-book-catalog/parser"
)

// PageSize is the fixed number of records per dashboard page.
const PageSize = 10

// SortKey selects the field the view is ordered by.
type SortKey int

const (
	SortByTitle SortKey = iota
	SortByRating
	SortByPrice
)

// SortKeyFromString maps a request parameter to a SortKey, defaulting to
// title for anything unrecognized.
func SortKeyFromString(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rating":
		return SortByRating
	case "price":
		return SortByPrice
	default:
		return SortByTitle
	}
}

// String returns the request-parameter form of the key.
func (k SortKey) String() string {
	switch k {
	case SortByRating:
		return "rating"
	case SortByPrice:
		return "price"
	default:
		return "title"
	}
}

// Order is the sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

// OrderFromString maps a request parameter to an Order, defaulting to
// ascending.
func OrderFromString(s string) Order {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return Descending
	}
	return Ascending
}

// String returns the request-parameter form of the order.
func (o Order) String() string {
	if o == Descending {
		return "desc"
	}
	return "asc"
}

// Query holds one set of user-selected view parameters.
type Query struct {
	Search      string
	MinRating   int // 0 means no lower bound
	MaxRating   int // 5 means no upper bound
	InStockOnly bool
	SortBy      SortKey
	Order       Order
	Page        int // 1-indexed, clamped into range
}

// DefaultQuery returns the untouched-controls state: no filters, title
// ascending, first page.
func DefaultQuery() Query {
	return Query{
		MaxRating: 5,
		SortBy:    SortByTitle,
		Order:     Ascending,
		Page:      1,
	}
}

// Stats aggregates the currently filtered set, not the full catalog.
type Stats struct {
	Total         int     `json:"total"`
	AverageRating float64 `json:"average_rating"`
	AveragePrice  float64 `json:"average_price"`
	PricedCount   int     `json:"priced_count"`
	InStockCount  int     `json:"in_stock_count"`
}

// View is one page of the filtered, sorted catalog plus its statistics.
type View struct {
	Books      []models.Book `json:"books"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Stats      Stats         `json:"stats"`
}

// Select runs the full filter -> sort -> paginate pipeline and computes
// statistics over the filtered set.
func Select(books []models.Book, q Query) View {
	filtered := Filter(books, q)
	Sort(filtered, q.SortBy, q.Order)
	stats := Summarize(filtered)

	page, totalPages := clampPage(q.Page, len(filtered))
	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return View{
		Books:      filtered[start:end],
		Page:       page,
		TotalPages: totalPages,
		Stats:      stats,
	}
}

// Filter returns the records matching the query's search term, rating range,
// and availability mode. The input is never modified.
func Filter(books []models.Book, q Query) []models.Book {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if search != "" && !strings.Contains(strings.ToLower(b.Title), search) {
			continue
		}
		// A minimum of 0 and a maximum of 5 are the untouched-slider
		// states and apply no constraint at all.
		if q.MinRating > 0 && b.Rating < q.MinRating {
			continue
		}
		if q.MaxRating < 5 && b.Rating > q.MaxRating {
			continue
		}
		if q.InStockOnly && !parser.InStock(b.Availability) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Sort orders books in place by the selected key and direction. Records
// whose price text does not yield a numeric value sort after all priced
// records in both directions.
func Sort(books []models.Book, key SortKey, order Order) {
	var less func(i, j int) bool

	switch key {
	case SortByRating:
		less = func(i, j int) bool {
			if order == Descending {
				return books[i].Rating > books[j].Rating
			}
			return books[i].Rating < books[j].Rating
		}
	case SortByPrice:
		less = func(i, j int) bool {
			pi, iok := parser.PriceValue(books[i].Price)
			pj, jok := parser.PriceValue(books[j].Price)
			if iok != jok {
				return iok
			}
			if !iok {
				return false
			}
			if order == Descending {
				return pi > pj
			}
			return pi < pj
		}
	default:
		less = func(i, j int) bool {
			if order == Descending {
				return books[i].Title > books[j].Title
			}
			return books[i].Title < books[j].Title
		}
	}

	sort.SliceStable(books, less)
}

// Summarize computes the aggregate statistics row for a filtered set. An
// empty input yields all-zero metrics. The average price covers only records
// whose price text parses; PricedCount says how many that was.
func Summarize(books []models.Book) Stats {
	stats := Stats{Total: len(books)}
	if len(books) == 0 {
		return stats
	}

	ratingSum := 0
	priceSum := 0.0
	for _, b := range books {
		ratingSum += b.Rating
		if value, ok := parser.PriceValue(b.Price); ok {
			priceSum += value
			stats.PricedCount++
		}
		if parser.InStock(b.Availability) {
			stats.InStockCount++
		}
	}

	stats.AverageRating = float64(ratingSum) / float64(len(books))
	if stats.PricedCount > 0 {
		stats.AveragePrice = priceSum / float64(stats.PricedCount)
	}
	return stats
}

// clampPage resolves the requested 1-indexed page against the filtered count.
// Out-of-range requests clamp to the nearest valid page; an empty set shows a
// single empty page.
func clampPage(page, total int) (int, int) {
	totalPages := (total + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}
