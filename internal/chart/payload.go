package chart

import (
	"fmt"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
)

// Request is a chart selection from the UI. Empty strings mean "none".
type Request struct {
	Kind    Kind   `json:"kind"`
	X       string `json:"x"`
	Y       string `json:"y,omitempty"`
	GroupBy string `json:"group_by,omitempty"`
}

// Failure explains which constraint a request violated. Reason is shown to
// the user as-is.
type Failure struct {
	Axis     string   `json:"axis,omitempty"`
	Column   string   `json:"column,omitempty"`
	Expected AxisType `json:"expected,omitempty"`
	Reason   string   `json:"reason"`
}

func (f *Failure) Error() string { return f.Reason }

// Result is either a renderable Spec or a Failure, never both.
type Result struct {
	Kind    Kind     `json:"kind"`
	OK      bool     `json:"ok"`
	Failure *Failure `json:"failure,omitempty"`
	Spec    *Spec    `json:"spec,omitempty"`
}

// Message returns the failure reason, or "" for a successful result.
func (r Result) Message() string {
	if r.Failure == nil {
		return ""
	}
	return r.Failure.Reason
}

func fail(k Kind, f Failure) Result { return Result{Kind: k, Failure: &f} }

func ok(s *Spec) Result { return Result{Kind: s.Kind, OK: true, Spec: s} }

// Spec is the renderer-facing chart description. Only the fields relevant to
// Kind are populated.
type Spec struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title,omitempty"`
	X       string `json:"x,omitempty"`
	Y       string `json:"y,omitempty"`
	GroupBy string `json:"group_by,omitempty"`

	// Pass-through series, one per group_by value.
	Series []Series `json:"series,omitempty"`

	// Pie and Donut.
	Slices []Slice `json:"slices,omitempty"`
	Hole   float64 `json:"hole,omitempty"`

	// Sunburst.
	Nodes []Node `json:"nodes,omitempty"`

	// Heatmap.
	Matrix *analysis.CorrMatrix `json:"matrix,omitempty"`

	// Histogram.
	Bins     []Bin  `json:"bins,omitempty"`
	NBins    int    `json:"nbins,omitempty"`
	Marginal string `json:"marginal,omitempty"`

	// Scatter.
	Trendlines []Trendline `json:"trendlines,omitempty"`

	BarMode string `json:"barmode,omitempty"`
	Markers bool   `json:"markers,omitempty"`
	Box     bool   `json:"box,omitempty"`
}

// Series holds X (and Y, when the chart has one) in view row order. X values
// are float64 for numeric columns, string otherwise, nil when missing.
type Series struct {
	Name string    `json:"name,omitempty"`
	X    []any     `json:"x"`
	Y    []float64 `json:"y,omitempty"`
}

// ByX groups Y values by their X label, preserving row order within a group.
func (s Series) ByX() map[string][]float64 {
	out := make(map[string][]float64)
	for i, x := range s.X {
		if i >= len(s.Y) {
			break
		}
		k := fmt.Sprint(x)
		out[k] = append(out[k], s.Y[i])
	}
	return out
}

// Slice is one Pie/Donut wedge.
type Slice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Node is a sunburst segment. Parent is empty for the single level used here.
type Node struct {
	Label  string  `json:"label"`
	Parent string  `json:"parent"`
	Value  float64 `json:"value"`
}

// Bin is a histogram bucket [Lo, Hi); the last bucket is closed.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Trendline is an ordinary least squares fit y = Slope*x + Intercept.
type Trendline struct {
	Series    string  `json:"series,omitempty"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}
