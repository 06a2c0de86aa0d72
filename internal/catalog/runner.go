package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tabprobe/internal/extract"
)

// Record statuses.
const (
	StatusOK         = "ok"
	StatusNotTabular = "not_tabular"
	StatusSkipped    = "skipped"
	StatusError      = "error"
)

// Record is the catalog line for one file.
type Record struct {
	ID      string          `json:"id"`
	File    string          `json:"file"`
	Path    string          `json:"path"`
	Type    string          `json:"type"`
	Size    int64           `json:"size"`
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Content *extract.Result `json:"content,omitempty"`
}

// Catalog is the outcome of one Run.
type Catalog struct {
	ID        string
	Root      string
	StartedAt time.Time
	Records   []Record
	Rollup    []ExtensionStat
}

// Count returns the number of records with the given status.
func (c *Catalog) Count(status string) int {
	return lo.CountBy(c.Records, func(r Record) bool { return r.Status == status })
}

// Runner profiles every tabular file under a root directory.
type Runner struct {
	Fs      afero.Fs
	Options extract.Options
	// Workers bounds concurrent extractions; values below 1 mean 1.
	Workers int
	// TabularExts selects which extensions are profiled. Others are
	// recorded as skipped.
	TabularExts []string
	Logger      *zap.Logger
	// Progress, when set, is called once per finished file. Calls are
	// serialized.
	Progress func(done, total int, rec Record)
}

// Run walks root and profiles its files. A file that cannot be profiled is
// recorded with its status and never fails the run; only the walk itself
// and context cancellation return an error.
func (r *Runner) Run(ctx context.Context, root string) (*Catalog, error) {
	fs := r.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := Walk(fs, root)
	if err != nil {
		return nil, err
	}
	cat := &Catalog{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now().UTC(),
		Records:   make([]Record, len(entries)),
		Rollup:    Rollup(entries),
	}
	log = log.With(zap.String("run", cat.ID))
	log.Info("catalog started", zap.String("root", root), zap.Int("files", len(entries)))

	tabular := lo.SliceToMap(r.TabularExts, func(e string) (string, struct{}) {
		return strings.ToLower(strings.TrimPrefix(e, ".")), struct{}{}
	})
	workers := max(r.Workers, 1)

	var (
		mu   sync.Mutex
		done int
	)
	p := pool.New().WithMaxGoroutines(workers)
	for i, e := range entries {
		if ctx.Err() != nil {
			break
		}
		i, e := i, e
		p.Go(func() {
			rec := r.profile(fs, e, tabular, log)
			cat.Records[i] = rec
			mu.Lock()
			done++
			if r.Progress != nil {
				r.Progress(done, len(entries), rec)
			}
			mu.Unlock()
		})
	}
	p.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("catalog finished",
		zap.Int("ok", cat.Count(StatusOK)),
		zap.Int("not_tabular", cat.Count(StatusNotTabular)),
		zap.Int("errors", cat.Count(StatusError)))
	return cat, nil
}

func (r *Runner) profile(fs afero.Fs, e Entry, tabular map[string]struct{}, log *zap.Logger) Record {
	rec := Record{
		ID:     uuid.NewString(),
		File:   e.Name,
		Path:   e.Dir,
		Type:   e.Ext,
		Size:   e.Size,
		Status: StatusSkipped,
	}
	if _, ok := tabular[e.Ext]; !ok {
		return rec
	}
	opt := r.Options
	opt.Logger = log
	res, err := extract.ExtractFile(fs, e.Path(), opt)
	switch {
	case err == nil:
		rec.Status = StatusOK
		rec.Content = res
	case errors.Is(err, extract.ErrNotTabular):
		rec.Status = StatusNotTabular
		log.Debug("not tabular", zap.String("file", e.Path()), zap.Error(err))
	default:
		rec.Status = StatusError
		rec.Error = err.Error()
		log.Warn("extract failed", zap.String("file", e.Path()), zap.Error(err))
	}
	return rec
}
