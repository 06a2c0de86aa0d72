package extract

import (
	"math"

	"github.com/shopspring/decimal"
)

type columnKind int

const (
	kindText columnKind = iota
	kindNumeric
)

func (k columnKind) String() string {
	if k == kindNumeric {
		return "numeric"
	}
	return "text"
}

// classifyKinds tags each column from the first data row.
func classifyKinds(row []string) []columnKind {
	kinds := make([]columnKind, len(row))
	for i, f := range row {
		if IsNumber(f) {
			kinds[i] = kindNumeric
		}
	}
	return kinds
}

// columnState accumulates one column across data rows.
type columnState struct {
	counts map[string]int
	order  []string // first-seen order of counts keys

	seeded bool
	// min slots ascending; +Inf marks an unused slot.
	min [3]float64
	// max slots descending; maxUsed[i] false marks an unused slot.
	max     [3]float64
	maxUsed [3]bool
	total   float64
}

func newColumnState() *columnState {
	return &columnState{counts: make(map[string]int)}
}

func (c *columnState) count(v string) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *columnState) add(v float64) {
	if !c.seeded {
		c.min = [3]float64{v, math.Inf(1), math.Inf(1)}
		c.max = [3]float64{v, 0, 0}
		c.maxUsed = [3]bool{true, false, false}
		c.total = v
		c.seeded = true
		return
	}
	c.addMin(v)
	c.addMax(v)
	c.total += v
}

// addMin applies the first matching rule. A value equal to a smaller slot
// is never promoted into a later slot.
func (c *columnState) addMin(v float64) {
	m := &c.min
	switch {
	case v < m[0]:
		m[1] = m[0]
		m[0] = v
	case v < m[1] && v != m[0]:
		m[2] = m[1]
		m[1] = v
	case v < m[2] && v != m[0] && v != m[1]:
		m[2] = v
	}
}

// addMax mirrors addMin; an unused slot compares below every value.
func (c *columnState) addMax(v float64) {
	above := func(i int) bool { return !c.maxUsed[i] || v > c.max[i] }
	differs := func(i int) bool { return !c.maxUsed[i] || v != c.max[i] }
	switch {
	case above(0):
		c.max[1], c.maxUsed[1] = c.max[0], c.maxUsed[0]
		c.max[0] = v
	case above(1) && differs(0):
		c.max[2], c.maxUsed[2] = c.max[1], c.maxUsed[1]
		c.max[1], c.maxUsed[1] = v, true
	case above(2) && differs(0) && differs(1):
		c.max[2], c.maxUsed[2] = v, true
	}
}

// mode returns the most frequent value; ties go to the value seen first.
func (c *columnState) mode() string {
	var best string
	bestN := 0
	for _, v := range c.order {
		if n := c.counts[v]; n > bestN {
			best, bestN = v, n
		}
	}
	return best
}

func (c *columnState) minValues() []float64 {
	out := make([]float64, 0, 3)
	for _, v := range c.min {
		if !math.IsInf(v, 1) {
			out = append(out, v)
		}
	}
	return out
}

func (c *columnState) maxValues() []float64 {
	out := make([]float64, 0, 3)
	for i, v := range c.max {
		if c.maxUsed[i] {
			out = append(out, v)
		}
	}
	return out
}

// tracker holds the aggregate state of every column keyed by alias.
type tracker struct {
	columns map[string]*columnState
	rows    int
}

func newTracker() *tracker {
	return &tracker{columns: make(map[string]*columnState)}
}

// update folds one data row into the columns named by aliases. Cells of a
// numeric column that fail to parse, or parse to a non-finite value, are
// counted but left out of min/max/total.
func (t *tracker) update(row []string, aliases []string, kinds []columnKind) {
	t.rows++
	for i, field := range row {
		if i >= len(aliases) {
			break
		}
		st, ok := t.columns[aliases[i]]
		if !ok {
			st = newColumnState()
			t.columns[aliases[i]] = st
		}
		st.count(field)
		if i >= len(kinds) || kinds[i] != kindNumeric {
			continue
		}
		v, ok := parseNumber(field)
		if !ok || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		st.add(v)
	}
}

// rename moves the state of each column from its alias in from to the
// matching name in to. All states are detached before any is reinserted so
// overlapping names cannot clobber each other.
func (t *tracker) rename(from, to []string) {
	moved := make([]*columnState, len(from))
	for i, old := range from {
		if st, ok := t.columns[old]; ok {
			moved[i] = st
			delete(t.columns, old)
		}
	}
	for i, st := range moved {
		if st != nil && i < len(to) {
			t.columns[to[i]] = st
		}
	}
}

// finalize reports every tracked column named in aliases.
func (t *tracker) finalize(aliases []string, kinds []columnKind) map[string]ColumnReport {
	out := make(map[string]ColumnReport, len(aliases))
	for i, alias := range aliases {
		st, ok := t.columns[alias]
		if !ok {
			continue
		}
		kind := kindText
		if i < len(kinds) {
			kind = kinds[i]
		}
		rep := ColumnReport{Type: kind.String(), Mode: st.mode()}
		if kind == kindNumeric && st.seeded {
			rep.Min = st.minValues()
			rep.Max = st.maxValues()
			if len(rep.Min) > 0 && len(rep.Max) > 0 && t.rows > 0 {
				prec := decimalPlaces(rep.Min[0])
				if p := decimalPlaces(rep.Max[0]); p > prec {
					prec = p
				}
				avg := decimal.NewFromFloat(st.total / float64(t.rows)).Round(prec).InexactFloat64()
				rep.Avg = &avg
			}
		}
		out[alias] = rep
	}
	return out
}

// decimalPlaces counts the fractional digits of the shortest decimal text
// that round-trips v.
func decimalPlaces(v float64) int32 {
	if e := decimal.NewFromFloat(v).Exponent(); e < 0 {
		return -e
	}
	return 0
}
