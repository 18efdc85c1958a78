// Package session holds the per-user dashboard state: the loaded dataset and
// the current filter controls. Every interaction recomputes the filtered view
// from those two inputs.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/chart"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/export"
	"github.com/KaramelBytes/dataloom-cli/internal/filter"
)

// ErrNoDataset is returned by operations that need a loaded dataset.
var ErrNoDataset = errors.New("no dataset loaded")

// Options configures new sessions.
type Options struct {
	// DefaultRowLimit preselects min(DefaultRowLimit, rows) after a load.
	DefaultRowLimit int
	// PreviewRows caps the rows returned by Preview.
	PreviewRows int
	// ClassifierSize bounds the classification memo.
	ClassifierSize int
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{DefaultRowLimit: filter.DefaultRowLimit, PreviewRows: 50, ClassifierSize: 16}
}

// Session is safe for concurrent use; calls are serialized.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	opts       Options
	ds         *dataset.Dataset
	spec       filter.Spec
	classifier *dataset.Classifier
	lastUsed   time.Time
}

// New creates an empty session.
func New(id string, opts Options) *Session {
	if opts.DefaultRowLimit < 1 {
		opts.DefaultRowLimit = filter.DefaultRowLimit
	}
	now := time.Now()
	return &Session{
		ID:         id,
		CreatedAt:  now,
		opts:       opts,
		classifier: dataset.NewClassifier(opts.ClassifierSize),
		lastUsed:   now,
	}
}

// State is one recomputation of the filtered view.
type State struct {
	Dataset        *dataset.Dataset
	View           *dataset.Dataset
	Classification dataset.Classification
	Spec           filter.Spec
}

// Preview is the JSON summary of the current view.
type Preview struct {
	Dataset        string                 `json:"dataset"`
	TotalRows      int                    `json:"total_rows"`
	Rows           int                    `json:"rows"`
	Columns        []ColumnInfo           `json:"columns"`
	Classification dataset.Classification `json:"classification"`
	Filters        filter.Spec            `json:"filters"`
	Head           [][]string             `json:"head"`
}

// ColumnInfo describes one active column.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SetDataset replaces the dataset and resets the filters to their defaults.
func (s *Session) SetDataset(ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.ds = ds
	s.spec = s.defaultSpec(ds)
	log.Debug().Str("session", s.ID).Str("dataset", ds.Name).Int("rows", ds.Rows()).Msg("dataset set")
}

// LoadSample loads one of the bundled sample datasets.
func (s *Session) LoadSample(name string) error {
	ds, err := dataset.Sample(name)
	if err != nil {
		return err
	}
	s.SetDataset(ds)
	return nil
}

// SetFilters stores spec for subsequent recomputations. A zero row limit
// selects the default.
func (s *Session) SetFilters(spec filter.Spec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.ds == nil {
		return ErrNoDataset
	}
	if spec.RowLimit == 0 {
		spec.RowLimit = s.defaultSpec(s.ds).RowLimit
	}
	s.spec = spec
	return nil
}

// Filters returns the current filter controls.
func (s *Session) Filters() filter.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Recompute derives the filtered view and its classification. An empty view
// is returned together with filter.ErrEmptyView.
func (s *Session) Recompute() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recompute()
}

func (s *Session) recompute() (*State, error) {
	s.touch()
	if s.ds == nil {
		return nil, ErrNoDataset
	}
	view, err := filter.Apply(s.ds, s.spec)
	st := &State{Dataset: s.ds, View: view, Classification: s.classifier.Classify(view), Spec: s.spec}
	return st, err
}

// Preview summarizes the current view.
func (s *Session) Preview() (*Preview, error) {
	st, err := s.Recompute()
	if st == nil {
		return nil, err
	}
	p := &Preview{
		Dataset:        st.Dataset.Name,
		TotalRows:      st.Dataset.Rows(),
		Rows:           st.View.Rows(),
		Classification: st.Classification,
		Filters:        st.Spec,
		Head:           [][]string{},
	}
	for _, c := range st.View.Columns {
		p.Columns = append(p.Columns, ColumnInfo{Name: c.Name, Type: c.Type.String()})
	}
	n := st.View.Rows()
	if n > s.opts.PreviewRows {
		n = s.opts.PreviewRows
	}
	for i := 0; i < n; i++ {
		p.Head = append(p.Head, st.View.Row(i))
	}
	return p, err
}

// CategoryOptions lists the values a category filter on column can select.
// They come from the view before any category filter is applied.
func (s *Session) CategoryOptions(column string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.ds == nil {
		return nil, ErrNoDataset
	}
	spec := s.spec
	spec.Category = nil
	view, err := filter.Apply(s.ds, spec)
	if err != nil {
		return nil, err
	}
	if !s.classifier.Classify(view).IsCategorical(column) {
		return nil, fmt.Errorf("column %q is not a categorical column of the current view", column)
	}
	return filter.Options(view, column), nil
}

// Chart validates and builds req over the current view. Validation failures
// are reported in the Result; the error covers a missing or empty view only.
func (s *Session) Chart(req chart.Request) (chart.Result, error) {
	st, err := s.Recompute()
	if err != nil {
		return chart.Result{Kind: req.Kind}, err
	}
	res := chart.Build(st.View, st.Classification, req)
	log.Debug().Str("session", s.ID).Str("kind", string(req.Kind)).Bool("ok", res.OK).Str("reason", res.Message()).Msg("chart")
	return res, nil
}

// Stats describes the current view.
func (s *Session) Stats() (*analysis.Summary, error) {
	st, err := s.Recompute()
	if err != nil {
		return nil, err
	}
	return analysis.Describe(st.View, st.Classification), nil
}

// Correlation returns the Pearson matrix over the numeric columns of the view.
func (s *Session) Correlation() (*analysis.CorrMatrix, error) {
	st, err := s.Recompute()
	if err != nil {
		return nil, err
	}
	return analysis.Correlation(st.View, st.Classification.Numeric), nil
}

// Export writes the current view in format f and returns the download name.
func (s *Session) Export(f export.Format, w io.Writer, at time.Time) (string, error) {
	ex, err := export.New(f)
	if err != nil {
		return "", err
	}
	st, err := s.Recompute()
	if err != nil {
		return "", err
	}
	if err := ex.Export(st.View, w); err != nil {
		return "", fmt.Errorf("export %s: %w", ex.FileExtension(), err)
	}
	return export.FileName("data", ex.FileExtension(), at), nil
}

// LastUsed reports when the session was last touched.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch() { s.lastUsed = time.Now() }

func (s *Session) defaultSpec(ds *dataset.Dataset) filter.Spec {
	limit := s.opts.DefaultRowLimit
	if n := ds.Rows(); n < limit {
		limit = n
	}
	return filter.Spec{RowLimit: limit}
}
