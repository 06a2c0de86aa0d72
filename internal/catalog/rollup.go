package catalog

import (
	"sort"

	"github.com/samber/lo"
)

// ExtensionStat aggregates the files sharing one extension.
type ExtensionStat struct {
	Ext        string `json:"ext"`
	Files      int    `json:"files"`
	TotalBytes int64  `json:"total_bytes"`
	// AvgBytes is TotalBytes / Files, truncated.
	AvgBytes int64 `json:"avg_bytes"`
}

// Rollup groups entries by extension, sorted by extension.
func Rollup(entries []Entry) []ExtensionStat {
	groups := lo.GroupBy(entries, func(e Entry) string { return e.Ext })
	stats := make([]ExtensionStat, 0, len(groups))
	for ext, es := range groups {
		total := lo.SumBy(es, func(e Entry) int64 { return e.Size })
		stats = append(stats, ExtensionStat{
			Ext:        ext,
			Files:      len(es),
			TotalBytes: total,
			AvgBytes:   total / int64(len(es)),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Ext < stats[j].Ext })
	return stats
}
