// Package csvstats produces a per-column statistical summary of CSV data,
// numeric columns first and categorical columns when no numeric ones exist.
package csvstats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/joseph-ayodele/file-analyzer/internal/common"
)

// NumericColumn summarizes a column whose every present value is a number.
type NumericColumn struct {
	Name  string
	Count int
	Mean  float64
	Std   float64 // sample standard deviation; NaN when Count < 2
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// ObjectColumn summarizes a non-numeric column.
type ObjectColumn struct {
	Name   string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// Summary is the result of Describe.
type Summary struct {
	Rows    int
	Columns []string
	Numeric []NumericColumn
	Object  []ObjectColumn // only filled when Numeric is empty
}

// Describe reads CSV with a header row. Blank cells and missing trailing
// cells are treated as missing values.
func Describe(r io.Reader) (Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Summary{}, common.InvalidInputErrorf("csv has no header row")
	}
	if err != nil {
		return Summary{}, fmt.Errorf("read csv header: %w", err)
	}

	cols := make([][]string, len(header))
	rows := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Summary{}, fmt.Errorf("read csv row %d: %w", rows+2, err)
		}
		if len(rec) > len(header) {
			return Summary{}, common.InvalidInputErrorf("row %d has %d fields, header has %d", rows+2, len(rec), len(header))
		}
		for i := range header {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			cols[i] = append(cols[i], v)
		}
		rows++
	}

	sum := Summary{Rows: rows, Columns: header}
	for i, name := range header {
		if nums, ok := parseNumbers(cols[i]); ok {
			sum.Numeric = append(sum.Numeric, describeNumbers(name, nums))
		}
	}
	if len(sum.Numeric) == 0 {
		for i, name := range header {
			sum.Object = append(sum.Object, describeObjects(name, cols[i]))
		}
	}
	return sum, nil
}

func parseNumbers(values []string) ([]float64, bool) {
	var out []float64
	for _, v := range values {
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, f)
	}
	return out, len(out) > 0
}

func describeNumbers(name string, nums []float64) NumericColumn {
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	var total float64
	for _, v := range sorted {
		total += v
	}
	n := float64(len(sorted))
	mean := total / n

	std := math.NaN()
	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - mean) * (v - mean)
		}
		std = math.Sqrt(sq / (n - 1))
	}

	return NumericColumn{
		Name:  name,
		Count: len(sorted),
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		Q25:   quantile(sorted, 0.25),
		Q50:   quantile(sorted, 0.50),
		Q75:   quantile(sorted, 0.75),
		Max:   sorted[len(sorted)-1],
	}
}

// quantile interpolates linearly between the two nearest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// describeObjects counts non-empty values. Top is the most frequent value;
// among values tied at that count the one seen first wins.
func describeObjects(name string, values []string) ObjectColumn {
	counts := map[string]int{}
	var order []string
	col := ObjectColumn{Name: name}
	for _, v := range values {
		if v == "" {
			continue
		}
		col.Count++
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	for _, v := range order {
		if counts[v] > col.Freq {
			col.Top, col.Freq = v, counts[v]
		}
	}
	col.Unique = len(counts)
	return col
}

// String renders the summary as a table followed by the shape line.
func (s Summary) String() string {
	var b strings.Builder
	table := tablewriter.NewWriter(&b)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	switch {
	case len(s.Numeric) > 0:
		header := []string{""}
		for _, c := range s.Numeric {
			header = append(header, c.Name)
		}
		table.SetHeader(header)
		stats := []struct {
			label string
			get   func(NumericColumn) float64
		}{
			{"count", func(c NumericColumn) float64 { return float64(c.Count) }},
			{"mean", func(c NumericColumn) float64 { return c.Mean }},
			{"std", func(c NumericColumn) float64 { return c.Std }},
			{"min", func(c NumericColumn) float64 { return c.Min }},
			{"25%", func(c NumericColumn) float64 { return c.Q25 }},
			{"50%", func(c NumericColumn) float64 { return c.Q50 }},
			{"75%", func(c NumericColumn) float64 { return c.Q75 }},
			{"max", func(c NumericColumn) float64 { return c.Max }},
		}
		for _, st := range stats {
			row := []string{st.label}
			for _, c := range s.Numeric {
				row = append(row, formatFloat(st.get(c)))
			}
			table.Append(row)
		}
	case len(s.Object) > 0:
		header := []string{""}
		for _, c := range s.Object {
			header = append(header, c.Name)
		}
		table.SetHeader(header)
		count, unique, top, freq := []string{"count"}, []string{"unique"}, []string{"top"}, []string{"freq"}
		for _, c := range s.Object {
			count = append(count, strconv.Itoa(c.Count))
			unique = append(unique, strconv.Itoa(c.Unique))
			top = append(top, c.Top)
			freq = append(freq, strconv.Itoa(c.Freq))
		}
		table.AppendBulk([][]string{count, unique, top, freq})
	}
	if len(s.Numeric) > 0 || len(s.Object) > 0 {
		table.Render()
	}

	fmt.Fprintf(&b, "\nTotal Rows: %d, Columns: %d\n", s.Rows, len(s.Columns))
	fmt.Fprintf(&b, "Column Names: [%s]\n", strings.Join(s.Columns, ", "))
	return b.String()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
