package store

import (
	"fmt"
	"sync"

	"github.com/aluiziolira/go-book-catalog/models"
)

// DualWriter feeds the canonical JSON catalog and a CSV export at once.
type DualWriter struct {
	catalog *CatalogWriter
	csv     *CSVWriter
	mu      sync.Mutex
}

// NewDualWriter creates writers for both the catalog and a CSV export.
func NewDualWriter(catalogFilename, csvFilename string) (*DualWriter, error) {
	catalog, err := NewCatalogWriter(catalogFilename)
	if err != nil {
		return nil, fmt.Errorf("create catalog writer: %w", err)
	}

	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("create csv writer: %w", err)
	}

	return &DualWriter{
		catalog: catalog,
		csv:     csvWriter,
	}, nil
}

// Write sends books to both outputs.
func (dw *DualWriter) Write(books []*models.Book) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if err := dw.catalog.Write(books); err != nil {
		return fmt.Errorf("catalog write failed: %w", err)
	}
	if err := dw.csv.Write(books); err != nil {
		return fmt.Errorf("csv write failed: %w", err)
	}
	return nil
}

// Close closes both writers.
func (dw *DualWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	var errs []error
	if err := dw.catalog.Close(); err != nil {
		errs = append(errs, fmt.Errorf("catalog close failed: %w", err))
	}
	if err := dw.csv.Close(); err != nil {
		errs = append(errs, fmt.Errorf("csv close failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors: %v", errs)
	}
	return nil
}

// Validate validates both output files.
func (dw *DualWriter) Validate() error {
	var errs []error
	if err := dw.catalog.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("catalog validation failed: %w", err))
	}
	if err := dw.csv.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("csv validation failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}
