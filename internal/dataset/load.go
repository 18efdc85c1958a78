package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrUnsupported indicates a file format no loader accepts.
var ErrUnsupported = errors.New("unsupported file format")

// LoadError wraps any failure to turn an input file into a dataset. No partial
// dataset is ever returned alongside it.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Name, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// LoadOptions controls file loading.
type LoadOptions struct {
	Parse ParseOptions
	// Delimiter for CSV. If 0, sniffed from the file name and header line.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
}

// DefaultLoadOptions returns the options used by the dashboard.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Parse: DefaultParseOptions()}
}

// Loader reads a header row and records from a supported file format.
type Loader interface {
	CanLoad(filename string) bool
	Read(r io.Reader, opt LoadOptions) (header []string, records [][]string, err error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(xlsLoader{})
}

// Load picks a loader by file name and builds a typed dataset from r.
func Load(name string, r io.Reader, opt LoadOptions) (*Dataset, error) {
	base := filepath.Base(name)
	for _, l := range registry {
		if !l.CanLoad(base) {
			continue
		}
		header, records, err := l.Read(r, opt)
		if err != nil {
			return nil, &LoadError{Name: base, Err: err}
		}
		if len(header) == 0 {
			return nil, &LoadError{Name: base, Err: errors.New("missing header row")}
		}
		ds, err := Build(base, header, records, opt.Parse)
		if err != nil {
			return nil, &LoadError{Name: base, Err: err}
		}
		log.Debug().Str("file", base).Int("rows", ds.Rows()).Int("cols", len(ds.Columns)).Msg("dataset loaded")
		if ds.Empty() {
			return nil, fmt.Errorf("%s: %w", base, ErrEmptyDataset)
		}
		return ds, nil
	}
	return nil, &LoadError{Name: base, Err: ErrUnsupported}
}

// LoadFile opens path and calls Load.
func LoadFile(path string, opt LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Name: filepath.Base(path), Err: err}
	}
	defer f.Close()
	return Load(path, f, opt)
}

type xlsLoader struct{}

func (xlsLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xls")
}

func (xlsLoader) Read(io.Reader, LoadOptions) ([]string, [][]string, error) {
	return nil, nil, fmt.Errorf("legacy .xls workbooks: %w; save as .xlsx or .csv", ErrUnsupported)
}
