package catalog

import (
	"fmt"
	"testing"

	"github.com/aluiziolira/go-book-catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func book(title, price, availability string, rating int) models.Book {
	return models.Book{
		Title:        title,
		Price:        price,
		Availability: availability,
		Rating:       rating,
		URL:          "http://example.test/catalogue/" + title,
	}
}

func TestFilterSearchTerm(t *testing.T) {
	books := []models.Book{
		book("The Go Programming Language", "£30.00", "In stock", 5),
		book("Learning Python", "£25.00", "In stock", 4),
		book("Going Postal", "£12.00", "Out of stock", 3),
	}

	q := DefaultQuery()
	q.Search = "go"
	got := Filter(books, q)

	require.Len(t, got, 2)
	assert.Equal(t, "The Go Programming Language", got[0].Title)
	assert.Equal(t, "Going Postal", got[1].Title)
}

func TestFilterNoMatchYieldsEmptyAndZeroStats(t *testing.T) {
	books := []models.Book{
		book("Alpha", "£10.00", "In stock", 3),
		book("Beta", "£20.00", "In stock", 4),
	}

	q := DefaultQuery()
	q.Search = "no such title"
	filtered := Filter(books, q)
	stats := Summarize(filtered)

	assert.Empty(t, filtered)
	assert.Equal(t, 0, stats.Total)
	assert.Zero(t, stats.AverageRating)
	assert.Zero(t, stats.AveragePrice)
	assert.Zero(t, stats.InStockCount)
}

func TestFilterDefaultRatingBoundsAreNoOp(t *testing.T) {
	books := []models.Book{
		book("Alpha", "£10.00", "In stock", 0),
		book("Beta", "£20.00", "In stock", 3),
		book("Gamma", "£30.00", "In stock", 5),
	}

	got := Filter(books, DefaultQuery())
	require.Len(t, got, len(books))
}

func TestFilterRatingRange(t *testing.T) {
	books := []models.Book{
		book("Zero", "£1.00", "In stock", 0),
		book("Two", "£2.00", "In stock", 2),
		book("Four", "£4.00", "In stock", 4),
		book("Five", "£5.00", "In stock", 5),
	}

	q := DefaultQuery()
	q.MinRating = 2
	q.MaxRating = 4
	got := Filter(books, q)

	require.Len(t, got, 2)
	assert.Equal(t, "Two", got[0].Title)
	assert.Equal(t, "Four", got[1].Title)
}

func TestFilterInStockOnly(t *testing.T) {
	books := []models.Book{
		book("Available", "£10.00", "In stock (19 available)", 3),
		book("Gone", "£10.00", "Out of stock", 3),
	}

	q := DefaultQuery()
	q.InStockOnly = true
	got := Filter(books, q)

	require.Len(t, got, 1)
	assert.Equal(t, "Available", got[0].Title)
}

func TestSortByTitle(t *testing.T) {
	books := []models.Book{
		book("Zebra", "£1.00", "In stock", 1),
		book("Apple", "£2.00", "In stock", 2),
		book("Mango", "£3.00", "In stock", 3),
	}

	Sort(books, SortByTitle, Ascending)
	assert.Equal(t, []string{"Apple", "Mango", "Zebra"}, titles(books))

	Sort(books, SortByTitle, Descending)
	assert.Equal(t, []string{"Zebra", "Mango", "Apple"}, titles(books))
}

func TestSortByRating(t *testing.T) {
	books := []models.Book{
		book("Mid", "£1.00", "In stock", 3),
		book("Top", "£1.00", "In stock", 5),
		book("Low", "£1.00", "In stock", 1),
	}

	Sort(books, SortByRating, Descending)
	assert.Equal(t, []string{"Top", "Mid", "Low"}, titles(books))
}

func TestSortByPriceMissingValuesLast(t *testing.T) {
	books := []models.Book{
		book("Cheap", "£5.50", "In stock", 1),
		book("Unpriced", "contact us", "In stock", 1),
		book("Dear", "£20.25", "In stock", 1),
		book("Mid", "£10.00", "In stock", 1),
	}

	Sort(books, SortByPrice, Ascending)
	assert.Equal(t, []string{"Cheap", "Mid", "Dear", "Unpriced"}, titles(books))

	Sort(books, SortByPrice, Descending)
	assert.Equal(t, []string{"Dear", "Mid", "Cheap", "Unpriced"}, titles(books))
}

func TestSummarizeMeanPrice(t *testing.T) {
	books := []models.Book{
		book("A", "£10.00", "In stock (19 available)", 2),
		book("B", "£5.50", "Out of stock", 4),
		book("C", "£20.25", "In stock", 3),
	}

	stats := Summarize(books)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.PricedCount)
	assert.Equal(t, "11.92", fmt.Sprintf("%.2f", stats.AveragePrice))
	assert.Equal(t, 3.0, stats.AverageRating)
	assert.Equal(t, 2, stats.InStockCount)
}

func TestSummarizeSkipsUnparseablePrices(t *testing.T) {
	books := []models.Book{
		book("A", "£10.00", "In stock", 2),
		book("B", "priceless", "In stock", 4),
	}

	stats := Summarize(books)
	assert.Equal(t, 1, stats.PricedCount)
	assert.Equal(t, 10.0, stats.AveragePrice)
}

func TestSelectPagination(t *testing.T) {
	books := make([]models.Book, 0, 25)
	for i := 0; i < 25; i++ {
		books = append(books, book(fmt.Sprintf("Book %02d", i), "£10.00", "In stock", 3))
	}

	q := DefaultQuery()
	q.Page = 3
	view := Select(books, q)

	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 3, view.Page)
	assert.Len(t, view.Books, 5)
	assert.Equal(t, 25, view.Stats.Total)
}

func TestSelectClampsOutOfRangePages(t *testing.T) {
	books := make([]models.Book, 0, 12)
	for i := 0; i < 12; i++ {
		books = append(books, book(fmt.Sprintf("Book %02d", i), "£10.00", "In stock", 3))
	}

	q := DefaultQuery()
	q.Page = 99
	view := Select(books, q)
	assert.Equal(t, 2, view.Page)
	assert.Len(t, view.Books, 2)

	q.Page = -1
	view = Select(books, q)
	assert.Equal(t, 1, view.Page)
	assert.Len(t, view.Books, PageSize)
}

func TestSelectEmptyInputShowsSingleEmptyPage(t *testing.T) {
	view := Select(nil, DefaultQuery())

	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 1, view.TotalPages)
	assert.Empty(t, view.Books)
	assert.Zero(t, view.Stats.Total)
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	books := []models.Book{
		book("Zebra", "£1.00", "In stock", 1),
		book("Apple", "£2.00", "In stock", 2),
	}

	q := DefaultQuery()
	q.SortBy = SortByTitle
	_ = Select(books, q)

	assert.Equal(t, "Zebra", books[0].Title)
	assert.Equal(t, "Apple", books[1].Title)
}

func TestSortKeyAndOrderParsing(t *testing.T) {
	assert.Equal(t, SortByRating, SortKeyFromString("rating"))
	assert.Equal(t, SortByPrice, SortKeyFromString("Price"))
	assert.Equal(t, SortByTitle, SortKeyFromString("anything"))
	assert.Equal(t, Descending, OrderFromString("DESC"))
	assert.Equal(t, Ascending, OrderFromString(""))
}

func titles(books []models.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}
