// Package sink writes catalog results to files and databases.
package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/KaramelBytes/tabprobe/internal/catalog"
)

// WriteJSONL writes one JSON object per record.
func WriteJSONL(w io.Writer, records []catalog.Record) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode %s: %w", rec.File, err)
		}
	}
	return nil
}
