package extract

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Options controls extraction behavior.
type Options struct {
	// Dialect used to split rows. Auto resolves from the file name in
	// ExtractFile and is rejected by Extract.
	Dialect Dialect
	// CommaExtensions lists extensions read with the Comma dialect when
	// Dialect is Auto.
	CommaExtensions []string
	// TailRows is the number of trailing rows held back until the row
	// length is known.
	TailRows int
	// MinDataRows is the number of regular data rows required before a
	// header row or an irregular row is trusted.
	MinDataRows int
	// PreambleChars bounds the free text recovered above a partial table.
	PreambleChars int
	// Logger receives debug events; nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{
		Dialect:         Auto,
		CommaExtensions: []string{"csv"},
		TailRows:        3,
		MinDataRows:     3,
		PreambleChars:   1000,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.TailRows <= 0 {
		o.TailRows = def.TailRows
	}
	if o.MinDataRows <= 0 {
		o.MinDataRows = def.MinDataRows
	}
	if o.PreambleChars <= 0 {
		o.PreambleChars = def.PreambleChars
	}
	if len(o.CommaExtensions) == 0 {
		o.CommaExtensions = def.CommaExtensions
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// ExtractFile opens path on fs, resolves the dialect from its name when
// opt.Dialect is Auto, and profiles it. The file is closed on every path.
func ExtractFile(fs afero.Fs, path string, opt Options) (*Result, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	opt = opt.normalized()
	if opt.Dialect == Auto {
		opt.Dialect = DialectFor(path, opt.CommaExtensions)
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	opt.Logger = opt.Logger.With(zap.String("file", path), zap.Stringer("dialect", opt.Dialect))
	return Extract(f, opt)
}

// Extract profiles the delimited table in rs in one backward pass.
// It returns an error wrapping ErrNotTabular when fewer than
// opt.MinDataRows regular data rows precede a header row or an irregular
// row.
func Extract(rs io.ReadSeeker, opt Options) (*Result, error) {
	opt = opt.normalized()
	if opt.Dialect == Auto {
		return nil, errors.New("extract: dialect must be comma or whitespace")
	}
	rr, err := NewReverseReader(rs, opt.Dialect)
	if err != nil {
		return nil, err
	}
	e := &extractor{opt: opt, log: opt.Logger, tracker: newTracker()}
	if err := e.run(rr); err != nil {
		return nil, err
	}
	res := e.result()
	if e.partial {
		pre, err := readPreamble(rs, e.boundary, opt.PreambleChars)
		if err != nil {
			return nil, fmt.Errorf("read preamble: %w", err)
		}
		res.Preamble = pre
	}
	return res, nil
}

type extractor struct {
	opt Options
	log *zap.Logger

	tail      [][]string
	rowLength int
	lengthSet bool
	aliases   []string
	kinds     []columnKind
	headers   []string
	tracker   *tracker

	// evidence counts regular data rows seen so far, including held-back
	// tail rows of the established length.
	evidence int
	partial  bool
	boundary int64
}

func (e *extractor) run(rr *ReverseReader) error {
	for len(e.tail) < e.opt.TailRows {
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		e.tail = append(e.tail, row)
	}

	for {
		row, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if !e.lengthSet {
			e.establish(len(row))
		} else if len(row) != e.rowLength {
			if e.evidence < e.opt.MinDataRows {
				return fmt.Errorf("%w: row of %d fields after %d data rows (expected %d fields)",
					ErrNotTabular, len(row), e.evidence, e.rowLength)
			}
			e.partial = true
			e.boundary = rr.PrevPosition()
			e.log.Debug("table boundary found",
				zap.Int64("offset", e.boundary),
				zap.Int("fields", len(row)),
				zap.Int("expected", e.rowLength))
			break
		}

		if IsHeaderRow(row) {
			if e.evidence < e.opt.MinDataRows {
				return fmt.Errorf("%w: header row after %d data rows", ErrNotTabular, e.evidence)
			}
			e.header(row)
			continue
		}
		if e.kinds == nil {
			e.kinds = classifyKinds(row)
		}
		e.tracker.update(row, e.aliases, e.kinds)
		e.evidence++
	}

	if !e.lengthSet {
		return fmt.Errorf("%w: only %d rows", ErrNotTabular, len(e.tail))
	}
	if e.kinds == nil {
		for _, row := range e.tail {
			if len(row) == e.rowLength && !IsHeaderRow(row) {
				e.kinds = classifyKinds(row)
				break
			}
		}
		if e.kinds == nil {
			return fmt.Errorf("%w: no data rows", ErrNotTabular)
		}
	}
	for _, row := range e.tail {
		if len(row) != e.rowLength {
			e.log.Debug("dropping irregular trailing row", zap.Int("fields", len(row)))
			continue
		}
		e.tracker.update(row, e.aliases, e.kinds)
	}
	return nil
}

// establish fixes the row length and the positional aliases, and credits
// held-back tail data rows of that length as evidence.
func (e *extractor) establish(n int) {
	e.rowLength = n
	e.lengthSet = true
	e.aliases = make([]string, n)
	for i := range e.aliases {
		e.aliases[i] = fmt.Sprintf("__%d__", i)
	}
	for _, row := range e.tail {
		if len(row) == n && !IsHeaderRow(row) {
			e.evidence++
		}
	}
}

// header records the non-empty fields of row and, when they are all
// distinct, renames every column to its header text.
func (e *extractor) header(row []string) {
	for _, f := range row {
		if f != "" {
			e.headers = append(e.headers, f)
		}
	}
	if !allDistinct(row) {
		e.log.Debug("header row has duplicate fields; keeping aliases", zap.Strings("row", row))
		return
	}
	next := make([]string, len(row))
	copy(next, row)
	e.tracker.rename(e.aliases, next)
	e.aliases = next
}

func (e *extractor) result() *Result {
	cols := e.tracker.finalize(e.aliases, e.kinds)
	order := make([]string, 0, len(cols))
	for _, a := range e.aliases {
		if _, ok := cols[a]; ok {
			order = append(order, a)
		}
	}
	return &Result{
		Columns: cols,
		Headers: lo.Uniq(e.headers),
		Partial: e.partial,
		Rows:    e.tracker.rows,
		order:   order,
	}
}

// readPreamble returns up to maxChars characters ending at offset end,
// decoding backward one rune at a time so multi-byte characters are never
// split.
func readPreamble(rs io.ReadSeeker, end int64, maxChars int) (string, error) {
	start := end - int64(maxChars*utf8.UTFMax)
	if start < 0 {
		start = 0
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return "", err
	}
	buf := make([]byte, end-start)
	if _, err := io.ReadFull(rs, buf); err != nil {
		return "", err
	}
	i, n := len(buf), 0
	for i > 0 && n < maxChars {
		_, size := utf8.DecodeLastRune(buf[:i])
		i -= size
		n++
	}
	return string(buf[i:]), nil
}
