// Package importer turns bank and fintrack CSV files into transactions.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fintrack-dev/fintrack/internal/model"
	"github.com/fintrack-dev/fintrack/internal/tracker"
)

// DefaultCategory is used for rows whose source carries no category.
const DefaultCategory = "Imported"

// Row is one parsed line of an import file.
type Row struct {
	Date        time.Time
	Description string
	Amount      float64
	Category    string // empty when the source has none
}

// Parser converts a CSV file into Rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&FintrackParser{})
	return r
}

// Adder records one dated transaction. *tracker.Service satisfies it.
type Adder interface {
	AddTransactionAt(ctx context.Context, at time.Time, amount float64, category, description string) (model.Transaction, error)
}

// Apply adds every row through a. Rows without a category get
// defaultCategory. It stops at the first error and reports how many rows
// were added. A row whose save failed with tracker.ErrNotSaved is still in
// the record and is counted.
func Apply(ctx context.Context, a Adder, rows []Row, defaultCategory string) (int, error) {
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	for i, row := range rows {
		category := row.Category
		if category == "" {
			category = defaultCategory
		}
		if _, err := a.AddTransactionAt(ctx, row.Date, row.Amount, category, row.Description); err != nil {
			added := i
			if errors.Is(err, tracker.ErrNotSaved) {
				added++
			}
			return added, fmt.Errorf("adding row %d: %w", i+1, err)
		}
	}
	return len(rows), nil
}

const (
	importDir    = "import"
	processedDir = "processed"
)

// Dir returns the import directory under dataDir.
func Dir(dataDir string) string {
	return filepath.Join(dataDir, importDir)
}

// Scan lists the CSV files waiting in <dataDir>/import, sorted by name.
// Subdirectories, processed/ included, are not descended into.
func Scan(dataDir string) ([]FileInfo, error) {
	dir := Dir(dataDir)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{Name: e.Name(), Path: filepath.Join(dir, e.Name()), Size: info.Size()})
	}
	return files, nil
}

// MarkProcessed moves fileName from import/ to import/processed/. An
// earlier file of the same name is kept; the new one gets a numeric suffix.
func MarkProcessed(dataDir, fileName string) error {
	done := filepath.Join(Dir(dataDir), processedDir)
	if err := os.MkdirAll(done, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	dst := filepath.Join(done, fileName)
	for n := 1; ; n++ {
		_, err := os.Stat(dst)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return fmt.Errorf("checking %s: %w", dst, err)
		}
		dst = filepath.Join(done, fmt.Sprintf("%s-%d%s", stem, n, ext))
	}

	if err := os.Rename(filepath.Join(Dir(dataDir), fileName), dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
