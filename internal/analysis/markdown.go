package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Markdown renders a compact text report for the terminal or a .md file.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	for _, k := range s.KPIs {
		b.WriteString(fmt.Sprintf("%s: %s\n", k.Label, k.Value))
	}

	b.WriteString("\n[NUMERIC COLUMNS]\n")
	if len(s.Numeric) == 0 {
		b.WriteString("No numeric columns\n")
	} else {
		b.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, n := range s.Numeric {
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				safeVal(n.Column), n.Count, num(n.Mean), num(n.Std), num(n.Min),
				num(n.Q25), num(n.Q50), num(n.Q75), num(n.Max)))
		}
	}

	if len(s.Categorical) > 0 {
		b.WriteString("\n[CATEGORICAL COLUMNS]\n")
		for _, c := range s.Categorical {
			b.WriteString(fmt.Sprintf("- %s: %d unique values", safeVal(c.Column), c.Unique))
			if len(c.Top) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.Top {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Markdown lists the strongest pairs of the matrix by |r|.
func (m *CorrMatrix) Markdown() string {
	type pr struct {
		A, B string
		R    float64
	}
	var pairs []pr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, pr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	var b strings.Builder
	b.WriteString("[CORRELATIONS]\n")
	for i, p := range pairs {
		if i == 10 {
			break
		}
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
	}
	return b.String()
}

func num(f *float64) string {
	if f == nil {
		return "NaN"
	}
	return fmt.Sprintf("%.4g", *f)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
