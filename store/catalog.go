// Package store implements the catalog store: the single JSON file that is
// the hand-off artifact between the crawler and the dashboard.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aluiziolira/go-book-catalog/models"
)

// CatalogWriter accumulates records during a crawl run and writes them
// wholesale as one JSON array when the run finishes. The previous catalog is
// only replaced once the new one is fully written: the array is flushed to a
// temporary file and renamed into place, so an interrupted run never leaves a
// torn file behind.
type CatalogWriter struct {
	path string

	mu     sync.Mutex
	books  []*models.Book
	closed bool
}

// NewCatalogWriter prepares a writer targeting path, creating the output
// directory if needed.
func NewCatalogWriter(path string) (*CatalogWriter, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return &CatalogWriter{path: path}, nil
}

// Write buffers books for the end-of-run flush.
func (cw *CatalogWriter) Write(books []*models.Book) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.closed {
		return fmt.Errorf("catalog writer is closed")
	}
	cw.books = append(cw.books, books...)
	return nil
}

// Close flushes the accumulated records as a JSON array. Calling Close more
// than once is a no-op.
func (cw *CatalogWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.closed {
		return nil
	}
	cw.closed = true

	records := make([]*models.Book, len(cw.books))
	copy(records, cw.books)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	data = append(data, '\n')

	tmp := cw.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, cw.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}

// Validate ensures the run produced at least one record.
func (cw *CatalogWriter) Validate() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if len(cw.books) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	info, err := os.Stat(cw.path)
	if err != nil {
		return fmt.Errorf("stat catalog file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("catalog file is empty")
	}
	return nil
}

// Count reports how many records have been buffered so far.
func (cw *CatalogWriter) Count() int {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return len(cw.books)
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
