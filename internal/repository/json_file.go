package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dcrew/floortrack/internal/domain"
)

// JSONFile persists one JSON document. Saves go through a temp file and a rename, so a
// concurrent Load sees either the previous or the new document, never a partial one.
type JSONFile[T any] struct {
	path string
	mu   sync.Mutex // serialises writers
}

// NewJSONFile returns a store for the document at path.
func NewJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{path: path}
}

// NewFileRegistry stores the employee registry in dir/employees.json.
func NewFileRegistry(dir string) *JSONFile[[]domain.Employee] {
	return NewJSONFile[[]domain.Employee](filepath.Join(dir, "employees.json"))
}

// NewFileProductionLedger stores daily production entries in dir/daily_products.json.
func NewFileProductionLedger(dir string) *JSONFile[map[string][]domain.ProductionEntry] {
	return NewJSONFile[map[string][]domain.ProductionEntry](filepath.Join(dir, "daily_products.json"))
}

// NewFileStockStore stores raw-material stock in dir/stock.json.
func NewFileStockStore(dir string) *JSONFile[[]domain.StockItem] {
	return NewJSONFile[[]domain.StockItem](filepath.Join(dir, "stock.json"))
}

// Path returns the document location.
func (f *JSONFile[T]) Path() string { return f.path }

// Load reads the document. A missing file yields the zero value.
func (f *JSONFile[T]) Load(ctx context.Context) (T, error) {
	var out T
	if err := ctx.Err(); err != nil {
		return out, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, domain.WrapPersistence("read "+f.path, err)
	}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, domain.WrapPersistence("decode "+f.path, err)
	}
	return out, nil
}

// Save replaces the document with v.
func (f *JSONFile[T]) Save(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return domain.WrapPersistence("encode "+f.path, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := writeFileAtomic(f.path, data); err != nil {
		return domain.WrapPersistence("write "+f.path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func(cause error) error {
		tmp.Close()
		os.Remove(tmpName)
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
