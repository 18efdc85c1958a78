package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseOptions controls how cell text is interpreted while inferring column types.
type ParseOptions struct {
	// DecimalSeparator defaults to '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped before parsing; 0 means none.
	ThousandsSeparator rune
	// AutoLocale detects ',' vs '.' decimals per value, the way the summary
	// analyzer does for European exports.
	AutoLocale bool
	// ParseDates recognizes date/time columns. They remain categorical for
	// charting; the flag only affects the reported storage type.
	ParseDates bool
}

// DefaultParseOptions matches pandas' read_csv defaults closely: '.' decimals,
// no thousands separator, dates detected but treated as categorical.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{DecimalSeparator: '.', ParseDates: true}
}

// Build turns a header and string records into a typed dataset. Short records
// are padded with missing cells; extra fields are an error.
func Build(name string, header []string, records [][]string, opt ParseOptions) (*Dataset, error) {
	header = normalizeHeader(header)
	ncol := len(header)
	if ncol == 0 {
		return nil, fmt.Errorf("no columns")
	}
	for i, rec := range records {
		if len(rec) > ncol {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+2, len(rec), ncol)
		}
	}
	cols := make([]*Column, ncol)
	for j := 0; j < ncol; j++ {
		raw := make([]string, len(records))
		for i, rec := range records {
			if j < len(rec) {
				raw[i] = rec[j]
			}
		}
		cols[j] = InferColumn(header[j], raw, opt)
	}
	return New(name, cols)
}

// InferColumn decides the storage type of a column from its cell text.
// A column is int when every non-missing cell is an integer, float when every
// non-missing cell is a number, datetime when every non-missing cell is a date,
// and string otherwise. All-missing columns are string.
func InferColumn(name string, raw []string, opt ParseOptions) *Column {
	vals := make([]Value, len(raw))
	nonMissing := 0
	allInt, allNum, allDate := true, true, opt.ParseDates
	for i, s := range raw {
		if isMissing(s) {
			vals[i] = Value{Raw: s, Missing: true}
			continue
		}
		nonMissing++
		vals[i] = Value{Raw: s}
		if allNum {
			if x, ok := parseNumeric(s, opt); ok {
				vals[i].Num = x
				if allInt && !isInteger(s, opt) {
					allInt = false
				}
			} else {
				allNum, allInt = false, false
			}
		}
		if allDate && !allNum {
			if _, ok := parseTimeMaybe(s); !ok {
				allDate = false
			}
		}
	}
	col := &Column{Name: name, Values: vals, Type: TypeString}
	switch {
	case nonMissing == 0:
	case allNum && allInt:
		col.Type = TypeInt
	case allNum:
		col.Type = TypeFloat
	case allDate && allDateCells(raw):
		col.Type = TypeDatetime
	}
	if !col.Type.IsNumeric() {
		for i := range col.Values {
			col.Values[i].Num = 0
		}
	}
	return col
}

// allDateCells re-checks cells that were skipped while the column still
// looked numeric.
func allDateCells(raw []string) bool {
	for _, s := range raw {
		if isMissing(s) {
			continue
		}
		if _, ok := parseTimeMaybe(s); !ok {
			return false
		}
	}
	return true
}

// Infinity spellings strconv.ParseFloat accepts count as missing so no
// non-finite number reaches charts or JSON payloads.
var missingTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "nan": true, "null": true, "none": true, "#n/a": true,
	"inf": true, "+inf": true, "-inf": true, "infinity": true, "+infinity": true, "-infinity": true,
}

func isMissing(s string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(s))]
}

func isInteger(s string, opt ParseOptions) bool {
	raw := stripThousands(strings.TrimSpace(s), opt)
	_, err := strconv.ParseInt(raw, 10, 64)
	return err == nil
}

func stripThousands(raw string, opt ParseOptions) string {
	if opt.ThousandsSeparator != 0 && opt.ThousandsSeparator != opt.DecimalSeparator {
		raw = strings.ReplaceAll(raw, string(opt.ThousandsSeparator), "")
	}
	return raw
}

func parseNumeric(s string, opt ParseOptions) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if opt.AutoLocale {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec, thou = ',', '.'
		case cpos >= 0 && dpos >= 0:
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if dec == 0 {
		dec = '.'
	}
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseTimeMaybe(s string) (time.Time, bool) {
	t, err := dateparse.ParseStrict(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// normalizeHeader strips a UTF-8 BOM, names blank headers "Unnamed: i" and
// disambiguates duplicates with ".1", ".2" suffixes.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if n, dup := seen[h]; dup {
			for k := n + 1; ; k++ {
				cand := fmt.Sprintf("%s.%d", h, k)
				if _, taken := seen[cand]; !taken {
					name = cand
					seen[h] = k
					break
				}
			}
		}
		if _, ok := seen[name]; !ok {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}
