package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aluiziolira/go-book-catalog/models"
)

// Loader reads the catalog file and caches the parsed records until the file
// changes on disk. The cached slice is shared read-only between callers and
// must not be mutated.
type Loader struct {
	path string

	mu      sync.Mutex
	books   []models.Book
	modTime time.Time
	size    int64
	loaded  bool
}

// NewLoader builds a loader for the catalog at path. Nothing is read until
// the first Load call.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the catalog file location.
func (l *Loader) Path() string {
	return l.path
}

// Load returns the catalog records, re-reading the file only when it changed
// since the last successful load. The boolean reports whether this call hit
// the disk. A missing or unparsable file returns an error and leaves any
// previously cached records untouched.
func (l *Loader) Load() ([]models.Book, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, err := os.Stat(l.path)
	if err != nil {
		return nil, false, fmt.Errorf("stat catalog %s: %w", l.path, err)
	}

	if l.loaded && info.ModTime().Equal(l.modTime) && info.Size() == l.size {
		return l.books, false, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, false, fmt.Errorf("read catalog %s: %w", l.path, err)
	}

	var books []models.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, false, fmt.Errorf("parse catalog %s: %w", l.path, err)
	}

	l.books = books
	l.modTime = info.ModTime()
	l.size = info.Size()
	l.loaded = true
	return l.books, true, nil
}
