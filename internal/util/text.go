package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeName uppercases, trims and collapses inner whitespace of a
// name or address coming from an upstream data source. Entity keys are
// matched by exact string equality, so every signal goes through the
// same normalization before it reaches the graph builder.
func NormalizeName(s string) string {
	return CollapseWhitespace(strings.ToUpper(strings.TrimSpace(s)))
}

// CollapseWhitespace replaces every run of whitespace with a single space.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// SanitizePostgresText strips null bytes and invalid UTF-8 sequences,
// which Postgres text columns reject. Upstream assessor data is not
// guaranteed to be clean UTF-8.
func SanitizePostgresText(s string) string {
	if !strings.ContainsRune(s, 0) && utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0 || r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
