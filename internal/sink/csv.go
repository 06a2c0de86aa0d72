package sink

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/KaramelBytes/tabprobe/internal/catalog"
)

var columnsHeader = []string{
	"path", "file", "column",
	"min_1", "min_diff_1", "min_2", "min_diff_2", "min_3",
	"max_1", "max_diff_1", "max_2", "max_diff_2", "max_3",
	"avg", "mode",
	"null_1", "null_2", "null_3",
}

var rollupHeader = []string{"file extension", "number of files", "total size (bytes)", "average size (bytes)"}

// WriteColumnsCSV writes one row per profiled column. The null_* cells are
// left blank for manual annotation.
func WriteColumnsCSV(w io.Writer, records []catalog.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columnsHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Content == nil || len(rec.Content.Columns) == 0 {
			continue
		}
		for _, name := range rec.Content.ColumnNames() {
			col := rec.Content.Columns[name]
			row := []string{rec.Path, rec.File, name}
			row = append(row, ascending(col.Min)...)
			row = append(row, descending(col.Max)...)
			avg := ""
			if col.Avg != nil {
				avg = formatFloat(*col.Avg)
			}
			row = append(row, avg, col.Mode, "", "", "")
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write %s/%s: %w", rec.File, name, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRollupCSV writes the per-extension size rollup.
func WriteRollupCSV(w io.Writer, stats []catalog.ExtensionStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rollupHeader); err != nil {
		return err
	}
	for _, s := range stats {
		row := []string{
			s.Ext,
			strconv.Itoa(s.Files),
			strconv.FormatInt(s.TotalBytes, 10),
			strconv.FormatInt(s.AvgBytes, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ascending lays out v1, v2-v1, v2, v3-v2, v3.
func ascending(v []float64) []string {
	return spread(v, func(a, b decimal.Decimal) decimal.Decimal { return b.Sub(a) })
}

// descending lays out v1, v1-v2, v2, v2-v3, v3.
func descending(v []float64) []string {
	return spread(v, func(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) })
}

// Gaps are computed in decimal so 0.3-0.1 prints as 0.2.
func spread(v []float64, gap func(a, b decimal.Decimal) decimal.Decimal) []string {
	out := make([]string, 5)
	for i := 0; i < 3 && i < len(v); i++ {
		out[2*i] = formatFloat(v[i])
		if i > 0 {
			out[2*i-1] = gap(decimal.NewFromFloat(v[i-1]), decimal.NewFromFloat(v[i])).String()
		}
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
