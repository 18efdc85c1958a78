package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom-cli/internal/chart"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

var (
	chartData    dataFlags
	chartKind    string
	chartX       string
	chartY       string
	chartGroupBy string
	chartJSON    bool
)

var chartCmd = &cobra.Command{
	Use:   "chart [file]",
	Short: "Validate a chart request and print the chart specification",
	Long: `Loads a file (or --sample), applies the filter flags and builds one chart.
A request that violates the chart's axis requirements prints the reason and
exits non-zero.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := chart.ParseKind(chartKind)
		if err != nil {
			return err
		}
		sess, err := chartData.open(args)
		if err != nil {
			return err
		}
		res, err := sess.Chart(chart.Request{Kind: kind, X: chartX, Y: chartY, GroupBy: chartGroupBy})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if chartJSON {
			b, err := utils.PrettyJSON(res)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		} else if res.OK {
			printSpec(out, res.Spec)
		}
		if !res.OK {
			return fmt.Errorf("%s: %s", kind, res.Message())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartData.register(chartCmd)
	chartCmd.Flags().StringVarP(&chartKind, "kind", "k", string(chart.KindBar), "chart kind (see 'dataloom charts')")
	chartCmd.Flags().StringVarP(&chartX, "x", "x", "", "X axis column")
	chartCmd.Flags().StringVarP(&chartY, "y", "y", "", "Y axis column")
	chartCmd.Flags().StringVar(&chartGroupBy, "group-by", "", "categorical column to split series by")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print the full result as JSON")
}

// printSpec writes a compact text rendering of a chart spec.
func printSpec(w io.Writer, s *chart.Spec) {
	title := s.Title
	if title == "" {
		parts := []string{s.X}
		if s.Y != "" {
			parts = append(parts, s.Y)
		}
		title = strings.Join(parts, " × ")
	}
	fmt.Fprintf(w, "✓ %s: %s\n", s.Kind, title)
	switch {
	case len(s.Slices) > 0:
		for _, sl := range s.Slices {
			fmt.Fprintf(w, "  %-20s %d\n", sl.Label, sl.Count)
		}
		if s.Hole > 0 {
			fmt.Fprintf(w, "  hole: %.1f\n", s.Hole)
		}
	case len(s.Nodes) > 0:
		for _, n := range s.Nodes {
			fmt.Fprintf(w, "  %-20s %.2f\n", n.Label, n.Value)
		}
	case s.Matrix != nil:
		fmt.Fprint(w, s.Matrix.Markdown())
	default:
		for _, ser := range s.Series {
			name := ser.Name
			if name == "" {
				name = "(all)"
			}
			fmt.Fprintf(w, "  series %s: %d points\n", name, len(ser.X))
			if s.Kind == chart.KindBar || s.Kind == chart.KindBox || s.Kind == chart.KindViolin {
				printGroups(w, ser)
			}
		}
		for _, b := range s.Bins {
			if b.Count > 0 {
				fmt.Fprintf(w, "  [%.2f, %.2f) %d\n", b.Lo, b.Hi, b.Count)
			}
		}
		for _, tl := range s.Trendlines {
			fmt.Fprintf(w, "  trend %s: y = %.4fx + %.4f (R²=%.3f)\n", tl.Series, tl.Slope, tl.Intercept, tl.R2)
		}
	}
}

// printGroups lists the Y total and count per X label of one series.
func printGroups(w io.Writer, ser chart.Series) {
	groups := ser.ByX()
	labels := make([]string, 0, len(groups))
	for k := range groups {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	for _, l := range labels {
		var sum float64
		for _, y := range groups[l] {
			sum += y
		}
		fmt.Fprintf(w, "    %-18s n=%d sum=%.2f\n", l, len(groups[l]), sum)
	}
}
