package dataset

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"
)

// DefaultSample is loaded when the user opts into sample data without naming one.
const DefaultSample = "sales"

type sampleFunc func(rng *rand.Rand) ([]string, [][]string)

var samples = map[string]sampleFunc{
	"sales":     salesSample,
	"students":  studentSample,
	"analytics": analyticsSample,
}

// SampleNames lists the built-in datasets.
func SampleNames() []string {
	out := make([]string, 0, len(samples))
	for k := range samples {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Sample returns a deterministic built-in dataset. Every sample exposes at
// least one numeric and one categorical column.
func Sample(name string) (*Dataset, error) {
	if name == "" {
		name = DefaultSample
	}
	fn, ok := samples[name]
	if !ok {
		return nil, fmt.Errorf("unknown sample %q (available: %v)", name, SampleNames())
	}
	header, records := fn(rand.New(rand.NewSource(42)))
	return Build("sample:"+name, header, records, DefaultParseOptions())
}

func pick(rng *rand.Rand, opts ...string) string { return opts[rng.Intn(len(opts))] }

func intBetween(rng *rand.Rand, lo, hi int) string { return strconv.Itoa(lo + rng.Intn(hi-lo)) }

func floatBetween(rng *rand.Rand, lo, hi float64, prec int) string {
	return strconv.FormatFloat(lo+rng.Float64()*(hi-lo), 'f', prec, 64)
}

func salesSample(rng *rand.Rand) ([]string, [][]string) {
	header := []string{"Date", "Product", "Category", "Region", "Sales", "Units_Sold", "Discount"}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var rows [][]string
	for d := start; d.Year() == 2023; d = d.AddDate(0, 0, 1) {
		rows = append(rows, []string{
			d.Format("2006-01-02"),
			pick(rng, "Laptop", "Phone", "Tablet", "Watch"),
			pick(rng, "Electronics", "Accessories"),
			pick(rng, "North", "South", "East", "West"),
			intBetween(rng, 500, 5000),
			intBetween(rng, 1, 50),
			floatBetween(rng, 0, 0.3, 4),
		})
	}
	return header, rows
}

func studentSample(rng *rand.Rand) ([]string, [][]string) {
	header := []string{"Student_Name", "Department", "Math_Score", "Science_Score", "English_Score", "Attendance", "Study_Hours", "GPA"}
	rows := make([][]string, 0, 100)
	for i := 0; i < 100; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("Student_%d", i),
			pick(rng, "CS", "Physics", "Chemistry", "Biology"),
			intBetween(rng, 40, 100),
			intBetween(rng, 35, 98),
			intBetween(rng, 30, 95),
			intBetween(rng, 60, 100),
			floatBetween(rng, 1, 8, 1),
			floatBetween(rng, 2, 4, 2),
		})
	}
	return header, rows
}

func analyticsSample(rng *rand.Rand) ([]string, [][]string) {
	header := []string{"Date", "Page", "Device", "Sessions", "Users", "Bounce_Rate", "Avg_Session_Duration"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([][]string, 0, 90)
	for i := 0; i < 90; i++ {
		rows = append(rows, []string{
			start.AddDate(0, 0, i).Format("2006-01-02"),
			pick(rng, "Home", "About", "Contact", "Blog", "Products"),
			pick(rng, "Mobile", "Desktop", "Tablet"),
			intBetween(rng, 100, 5000),
			intBetween(rng, 50, 3000),
			floatBetween(rng, 20, 80, 1),
			floatBetween(rng, 1, 10, 2),
		})
	}
	return header, rows
}
