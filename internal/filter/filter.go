// Package filter derives the working view of a dataset from the user's filter
// controls: a row limit, a column subset and an optional category filter,
// always applied in that order.
package filter

import (
	"errors"
	"sort"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// ErrEmptyView signals that the filters matched no rows. Charts and
// statistics are undefined on an empty view.
var ErrEmptyView = errors.New("no data matches your filters")

// DefaultRowLimit is the row limit preselected by the dashboard.
const DefaultRowLimit = 1000

// CategoryFilter keeps rows whose value in Column is one of Values.
type CategoryFilter struct {
	Column string   `json:"column" mapstructure:"column"`
	Values []string `json:"values" mapstructure:"values"`
}

// Spec is rebuilt from user input on every interaction.
type Spec struct {
	// RowLimit keeps the first N rows, clamped to [1, rows].
	RowLimit int `json:"row_limit"`
	// Columns restricts the view. Empty means all columns.
	Columns  []string        `json:"columns,omitempty"`
	Category *CategoryFilter `json:"category,omitempty"`
}

// DefaultSpec mirrors the initial state of the dashboard controls for ds:
// min(1000, rows) rows, all columns, no category filter.
func DefaultSpec(ds *dataset.Dataset) Spec {
	limit := DefaultRowLimit
	if n := ds.Rows(); n < limit {
		limit = n
	}
	return Spec{RowLimit: limit}
}

// Apply derives the filtered view. It never fails on bad input: the row limit
// is clamped, unknown columns are dropped, and a category filter whose column
// is absent, not categorical, or has no selected values is ignored.
// When the view ends up with zero rows, Apply returns it together with
// ErrEmptyView.
func Apply(ds *dataset.Dataset, spec Spec) (*dataset.Dataset, error) {
	view := ds.Head(clampRows(spec.RowLimit, ds.Rows()))
	if len(spec.Columns) > 0 {
		view = view.Select(spec.Columns)
	}
	if cf := spec.Category; cf != nil && len(cf.Values) > 0 {
		cls := dataset.Classify(view)
		if col, ok := view.Column(cf.Column); ok && cls.IsCategorical(cf.Column) {
			keep := make(map[string]bool, len(cf.Values))
			for _, v := range cf.Values {
				keep[v] = true
			}
			view = view.Where(func(i int) bool {
				v := col.Values[i]
				return !v.Missing && keep[v.Raw]
			})
		}
	}
	if view.Empty() {
		return view, ErrEmptyView
	}
	return view, nil
}

func clampRows(limit, rows int) int {
	if limit < 1 {
		limit = 1
	}
	if limit > rows {
		limit = rows
	}
	return limit
}

// Options lists the sorted distinct values of a categorical column in view,
// used to populate the category value selector. Non-categorical or unknown
// columns yield nil.
func Options(view *dataset.Dataset, column string) []string {
	col, ok := view.Column(column)
	if !ok || col.Type.IsNumeric() {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range col.Values {
		if v.Missing || seen[v.Raw] {
			continue
		}
		seen[v.Raw] = true
		out = append(out, v.Raw)
	}
	sort.Strings(out)
	return out
}
