package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/filter"
	"github.com/KaramelBytes/dataloom-cli/internal/session"
)

// dataFlags are the input and filter flags shared by chart, stats and export.
type dataFlags struct {
	sample       string
	sheet        string
	delimiter    string
	decimal      string
	thousands    string
	rows         int
	columns      []string
	filterColumn string
	filterValues []string
}

func (f *dataFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.sample, "sample", "", "use a bundled sample dataset instead of a file ("+strings.Join(dataset.SampleNames(), "|")+")")
	fl.StringVar(&f.sheet, "sheet-name", "", "XLSX: sheet name to load (default first sheet)")
	fl.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	fl.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'|'auto'")
	fl.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	fl.IntVar(&f.rows, "rows", 0, "row limit (default min(default_row_limit, rows))")
	fl.StringSliceVar(&f.columns, "columns", nil, "comma-separated columns to keep (default all)")
	fl.StringVar(&f.filterColumn, "filter-column", "", "categorical column to filter on")
	fl.StringSliceVar(&f.filterValues, "filter-values", nil, "comma-separated values to keep in --filter-column")
}

func (f *dataFlags) loadOptions() (dataset.LoadOptions, error) {
	opt := dataset.DefaultLoadOptions()
	opt.Delimiter = currentConfig().Delimiter()
	opt.Sheet = f.sheet
	switch f.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.Parse.DecimalSeparator = ','
	case ".", "dot", "":
	case "auto":
		opt.Parse.AutoLocale = true
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma'|'auto')", f.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.Parse.ThousandsSeparator = ','
	case ".":
		opt.Parse.ThousandsSeparator = '.'
	case "space", " ":
		opt.Parse.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	return opt, nil
}

// open loads the dataset named by args or --sample into a fresh session and
// applies the filter flags.
func (f *dataFlags) open(args []string) (*session.Session, error) {
	c := currentConfig()
	sess := session.New("cli", session.Options{
		DefaultRowLimit: c.DefaultRowLimit,
		PreviewRows:     c.PreviewRows,
		ClassifierSize:  4,
	})
	switch {
	case len(args) == 1 && f.sample != "":
		return nil, fmt.Errorf("pass either a file or --sample, not both")
	case len(args) == 1:
		opt, err := f.loadOptions()
		if err != nil {
			return nil, err
		}
		ds, err := dataset.LoadFile(args[0], opt)
		if err != nil {
			return nil, err
		}
		sess.SetDataset(ds)
	case f.sample != "":
		if err := sess.LoadSample(f.sample); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no input: pass a file or --sample NAME (e.g. --sample %s)", c.SampleDataset)
	}
	spec := filter.Spec{RowLimit: f.rows, Columns: f.columns}
	if f.filterColumn != "" {
		spec.Category = &filter.CategoryFilter{Column: f.filterColumn, Values: f.filterValues}
	}
	if err := sess.SetFilters(spec); err != nil {
		return nil, err
	}
	return sess, nil
}
