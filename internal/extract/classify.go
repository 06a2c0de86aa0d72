package extract

import (
	"errors"
	"strconv"
	"strings"
)

// IsNumber reports whether a field parses as a floating-point literal.
// Surrounding whitespace is ignored; an empty field is never a number.
// Literals that overflow float64 still count as numbers.
func IsNumber(field string) bool {
	_, ok := parseNumber(field)
	return ok
}

// IsHeaderRow reports whether no field of row is numeric. An empty row
// counts as a header row.
func IsHeaderRow(row []string) bool {
	for _, f := range row {
		if IsNumber(f) {
			return false
		}
	}
	return true
}

func parseNumber(field string) (float64, bool) {
	s := strings.TrimSpace(field)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			// ParseFloat returns ±Inf or ±0 for out-of-range literals.
			return v, true
		}
		return 0, false
	}
	return v, true
}

// allDistinct reports whether every field of row is pairwise distinct.
func allDistinct(row []string) bool {
	seen := make(map[string]struct{}, len(row))
	for _, f := range row {
		if _, ok := seen[f]; ok {
			return false
		}
		seen[f] = struct{}{}
	}
	return true
}
