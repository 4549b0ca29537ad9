package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-book-catalog/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureBooks(n int) []*models.Book {
	scrapedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	books := make([]*models.Book, 0, n)
	for i := 0; i < n; i++ {
		books = append(books, &models.Book{
			Title:        fmt.Sprintf("Book %02d", i),
			Price:        fmt.Sprintf("£%d.50", 10+i),
			Availability: "In stock (5 available)",
			Rating:       (i % 5) + 1,
			RatingText:   "Three",
			Description:  "A book about books.",
			ImageURL:     fmt.Sprintf("http://example.test/media/book-%d.jpg", i),
			ProductInfo: map[string]string{
				"UPC":  fmt.Sprintf("upc-%04d", i),
				"Tax":  "£0.00",
				"Type": "Books",
			},
			URL:       fmt.Sprintf("http://example.test/catalogue/book-%d/index.html", i),
			ScrapedAt: scrapedAt,
		})
	}
	return books
}

func TestCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")

	written := fixtureBooks(7)
	writer, err := NewCatalogWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(written[:3]))
	require.NoError(t, writer.Write(written[3:]))
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Validate())

	loaded, reloaded, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.True(t, reloaded)
	require.Len(t, loaded, len(written))

	// Round-trip fidelity: the records must serialize back to the same
	// bytes they were stored from.
	for i := range written {
		want, err := json.Marshal(written[i])
		require.NoError(t, err)
		got, err := json.Marshal(&loaded[i])
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}
}

func TestCatalogWriterCreatesOutputDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "books.json")

	writer, err := NewCatalogWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(fixtureBooks(1)))
	require.NoError(t, writer.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestCatalogWriterWholesaleReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")

	first, err := NewCatalogWriter(path)
	require.NoError(t, err)
	require.NoError(t, first.Write(fixtureBooks(5)))
	require.NoError(t, first.Close())

	second, err := NewCatalogWriter(path)
	require.NoError(t, err)
	require.NoError(t, second.Write(fixtureBooks(2)))
	require.NoError(t, second.Close())

	loaded, _, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestCatalogWriterValidateEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")

	writer, err := NewCatalogWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	err = writer.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestCatalogWriterCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")

	writer, err := NewCatalogWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(fixtureBooks(1)))
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close())

	require.Error(t, writer.Write(fixtureBooks(1)))
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.json"))

	_, _, err := loader.Load()
	require.Error(t, err)
}

func TestLoaderUnparsableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := NewLoader(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse catalog")
}

func TestLoaderCachesUntilFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")

	writer, err := NewCatalogWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(fixtureBooks(3)))
	require.NoError(t, writer.Close())

	loader := NewLoader(path)
	first, reloaded, err := loader.Load()
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Len(t, first, 3)

	// Unchanged file: served from cache.
	_, reloaded, err = loader.Load()
	require.NoError(t, err)
	assert.False(t, reloaded)

	// Replace the store with a different catalog.
	replacement, err := NewCatalogWriter(path)
	require.NoError(t, err)
	require.NoError(t, replacement.Write(fixtureBooks(6)))
	require.NoError(t, replacement.Close())

	second, reloaded, err := loader.Load()
	require.NoError(t, err)
	assert.True(t, reloaded)
	assert.Len(t, second, 6)
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")

	writer, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.Write(fixtureBooks(2)))
	require.NoError(t, writer.Validate())
	require.NoError(t, writer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "title")
	assert.Contains(t, lines[1], "Book 00")
	assert.Contains(t, lines[2], "£11.50")
}

func TestDualWriterFeedsBothOutputs(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "books.json")
	csvPath := filepath.Join(dir, "books.csv")

	writer, err := NewDualWriter(jsonPath, csvPath)
	require.NoError(t, err)
	require.NoError(t, writer.Write(fixtureBooks(4)))
	require.NoError(t, writer.Close())
	require.NoError(t, writer.Validate())

	loaded, _, err := NewLoader(jsonPath).Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 4)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 5)
}
