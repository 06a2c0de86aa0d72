package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect selects how a line is split into fields.
type Dialect int

const (
	// Auto resolves the dialect from the file name.
	Auto Dialect = iota
	// Comma splits strictly on ',' and keeps empty fields.
	Comma
	// Whitespace splits on runs of whitespace and drops empty fields.
	Whitespace
)

// NoExtension is the extension reported for names without a '.'.
const NoExtension = "no extension"

func (d Dialect) String() string {
	switch d {
	case Comma:
		return "comma"
	case Whitespace:
		return "whitespace"
	default:
		return "auto"
	}
}

// ParseDialect parses a --dialect flag value.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "comma", ",", "csv":
		return Comma, nil
	case "whitespace", "space", "ws":
		return Whitespace, nil
	default:
		return Auto, fmt.Errorf("unsupported dialect: %s (use auto|comma|whitespace)", s)
	}
}

// Extension returns everything after the first '.' of the base name,
// lowercased, so "data.tar.csv" yields "tar.csv".
func Extension(name string) string {
	base := filepath.Base(name)
	i := strings.Index(base, ".")
	if i < 0 {
		return NoExtension
	}
	return strings.ToLower(base[i+1:])
}

// DialectFor picks Comma when the extension of name is one of commaExts,
// Whitespace otherwise.
func DialectFor(name string, commaExts []string) Dialect {
	ext := Extension(name)
	for _, c := range commaExts {
		if strings.EqualFold(strings.TrimPrefix(c, "."), ext) {
			return Comma
		}
	}
	return Whitespace
}

func (d Dialect) split(line string) []string {
	if d == Comma {
		return strings.Split(line, ",")
	}
	return strings.Fields(line)
}
