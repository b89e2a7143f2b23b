package fwd

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/qobs-build/qtvendor/internal/errors"
)

// DefaultPrefix is the namespace prefix of Qt's public classes
const DefaultPrefix = "Q"

// TypeScanner finds the public type names declared in a header.
type TypeScanner interface {
	Scan(text []byte) ([]string, error)
}

// LexicalScanner is a whitespace-token heuristic, not a parser.
//
// It slides a three token window (a, b, c) over the text. When a is "class",
// it emits b if b qualifies, else c if c qualifies; c covers
// "class Q_CORE_EXPORT QObject". A token qualifies when it starts with Prefix
// and contains none of ; : # _ < >, which rules out export macros,
// qualified names and template arguments.
//
// It misses a name preceded by two macro tokens and emits any token that
// merely looks like a class name. Both are accepted.
type LexicalScanner struct {
	Prefix string
}

const disqualifying = ";:#_<>"

func (s LexicalScanner) qualifies(token string) bool {
	return strings.HasPrefix(token, s.Prefix) && !strings.ContainsAny(token, disqualifying)
}

// Scan returns the detected names, de-duplicated, in order of first appearance.
func (s LexicalScanner) Scan(text []byte) ([]string, error) {
	if !utf8.Valid(text) {
		return nil, errors.ErrNonTextContent
	}

	tokens := strings.Fields(string(text))
	var names []string
	seen := make(map[string]bool)
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i] != "class" {
			continue
		}

		var name string
		switch next, nextNext := tokens[i+1], tokens[i+2]; {
		case s.qualifies(next):
			name = next
		case s.qualifies(nextNext):
			name = nextNext
		default:
			continue
		}

		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// ScanFile reads the header at path and scans it
func ScanFile(scanner TypeScanner, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SourceNotFound(err, path)
	}
	names, err := scanner.Scan(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", path)
	}
	return names, nil
}
