package extract

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrNotTabular reports that a file has too few regular rows to be profiled.
var ErrNotTabular = errors.New("not tabular")

// ColumnReport is the finalized profile of one column. Min, Max and Avg are
// set only for numeric columns with at least one parsed value.
type ColumnReport struct {
	Type string    `json:"type" yaml:"type"`
	Mode string    `json:"mode" yaml:"mode"`
	Min  []float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max  []float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Avg  *float64  `json:"avg,omitempty" yaml:"avg,omitempty"`
}

// Result is the structural and statistical profile of one file.
type Result struct {
	Columns  map[string]ColumnReport `json:"columns" yaml:"columns"`
	Headers  []string                `json:"headers" yaml:"headers"`
	Preamble string                  `json:"preamble,omitempty" yaml:"preamble,omitempty"`
	// Partial is set when the table stopped at a ragged row before the
	// start of the file.
	Partial bool `json:"partial,omitempty" yaml:"partial,omitempty"`
	// Rows counts the data rows folded into the column aggregates.
	Rows int `json:"rows" yaml:"rows"`

	order []string
}

// ColumnNames returns the column keys in positional order. Results decoded
// from JSON or YAML fall back to sorted key order.
func (r *Result) ColumnNames() []string {
	if len(r.order) == len(r.Columns) {
		return r.order
	}
	names := make([]string, 0, len(r.Columns))
	for k := range r.Columns {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Markdown renders a compact profile suitable for terminals or docs.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET PROFILE]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Columns)))
	if r.Partial {
		b.WriteString("Table: partial (stopped at an irregular row)\n")
	}

	if len(r.Headers) > 0 {
		b.WriteString("\n[HEADERS]\n")
		b.WriteString(strings.Join(r.Headers, " | "))
		b.WriteString("\n")
	}

	b.WriteString("\n[COLUMNS]\n")
	for _, name := range r.ColumnNames() {
		c := r.Columns[name]
		b.WriteString(fmt.Sprintf("- %s: %s — mode %s", safeName(name), c.Type, safeVal(c.Mode)))
		if len(c.Min) > 0 {
			b.WriteString(fmt.Sprintf(", min %s", joinFloats(c.Min)))
		}
		if len(c.Max) > 0 {
			b.WriteString(fmt.Sprintf(", max %s", joinFloats(c.Max)))
		}
		if c.Avg != nil {
			b.WriteString(fmt.Sprintf(", avg %s", formatFloat(*c.Avg)))
		}
		b.WriteString("\n")
	}

	if r.Preamble != "" {
		b.WriteString("\n[PREAMBLE]\n")
		b.WriteString(strings.TrimSpace(r.Preamble))
		b.WriteString("\n")
	}
	return b.String()
}

func joinFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
