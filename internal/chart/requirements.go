package chart

import (
	"fmt"
	"strings"
)

// Kind is one of the chart types the dispatcher recognizes.
type Kind string

const (
	KindBar       Kind = "Bar"
	KindLine      Kind = "Line"
	KindScatter   Kind = "Scatter"
	KindHistogram Kind = "Histogram"
	KindBox       Kind = "Box Plot"
	KindPie       Kind = "Pie"
	KindDonut     Kind = "Donut"
	KindSunburst  Kind = "Sunburst"
	KindHeatmap   Kind = "Heatmap"
	KindViolin    Kind = "Violin"
	KindArea      Kind = "Area"
)

// Kinds lists every chart kind in menu order.
var Kinds = []Kind{
	KindBar, KindLine, KindScatter, KindHistogram, KindBox, KindPie,
	KindDonut, KindSunburst, KindHeatmap, KindViolin, KindArea,
}

// ParseKind matches a display name case-insensitively, ignoring spaces,
// dashes and underscores ("Box Plot", "box-plot" and "boxplot" are the same).
func ParseKind(s string) (Kind, error) {
	want := normKind(s)
	for _, k := range Kinds {
		if normKind(string(k)) == want {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

func normKind(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}

// AxisType is the column type an axis accepts.
type AxisType int

const (
	AxisNone AxisType = iota
	AxisAny
	AxisNumeric
	AxisCategorical
)

func (a AxisType) String() string {
	switch a {
	case AxisAny:
		return "any"
	case AxisNumeric:
		return "numeric"
	case AxisCategorical:
		return "categorical"
	default:
		return "n/a"
	}
}

// MarshalText renders the axis type by name in JSON payloads.
func (a AxisType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Requirement is the static axis rule set for one chart kind.
type Requirement struct {
	Kind      Kind     `json:"kind"`
	RequiresY bool     `json:"requires_y"`
	XType     AxisType `json:"x_type"`
	YType     AxisType `json:"y_type"`
	// MinNumericColumns applies to matrix charts computed over all numeric columns.
	MinNumericColumns int `json:"min_numeric_columns,omitempty"`
	// NeedsGroups fails a validated request whose grouping is empty.
	NeedsGroups bool `json:"needs_groups,omitempty"`
	// UsesGroupBy marks kinds that overlay series by the group column.
	UsesGroupBy bool   `json:"uses_group_by"`
	Hint        string `json:"hint"`
}

var requirements = map[Kind]Requirement{
	KindBar:       {Kind: KindBar, RequiresY: true, XType: AxisAny, YType: AxisNumeric, UsesGroupBy: true, Hint: "X: any, Y: numeric"},
	KindLine:      {Kind: KindLine, RequiresY: true, XType: AxisAny, YType: AxisNumeric, UsesGroupBy: true, Hint: "X: numeric/date, Y: numeric"},
	KindScatter:   {Kind: KindScatter, RequiresY: true, XType: AxisNumeric, YType: AxisNumeric, UsesGroupBy: true, Hint: "X: numeric, Y: numeric (no text!)"},
	KindHistogram: {Kind: KindHistogram, XType: AxisNumeric, UsesGroupBy: true, Hint: "X: numeric only"},
	KindBox:       {Kind: KindBox, RequiresY: true, XType: AxisCategorical, YType: AxisNumeric, UsesGroupBy: true, Hint: "X: categorical, Y: numeric"},
	KindPie:       {Kind: KindPie, XType: AxisCategorical, NeedsGroups: true, Hint: "X: categorical only"},
	KindDonut:     {Kind: KindDonut, XType: AxisCategorical, NeedsGroups: true, Hint: "X: categorical only"},
	KindSunburst:  {Kind: KindSunburst, RequiresY: true, XType: AxisCategorical, YType: AxisNumeric, Hint: "X: categorical, Y: numeric"},
	KindHeatmap:   {Kind: KindHeatmap, XType: AxisNone, MinNumericColumns: 2, Hint: "Auto-correlates numeric columns"},
	KindViolin:    {Kind: KindViolin, RequiresY: true, XType: AxisCategorical, YType: AxisNumeric, UsesGroupBy: true, Hint: "X: categorical, Y: numeric"},
	KindArea:      {Kind: KindArea, RequiresY: true, XType: AxisAny, YType: AxisNumeric, UsesGroupBy: true, Hint: "X: numeric/date, Y: numeric"},
}

// Lookup returns the requirement for k.
func Lookup(k Kind) (Requirement, bool) {
	r, found := requirements[k]
	return r, found
}

// Requirements returns the whole table in menu order.
func Requirements() []Requirement {
	out := make([]Requirement, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, requirements[k])
	}
	return out
}
