package transform

import "strings"

// Split partitions a statement body on sep.
// A double quote toggles string mode; sep inside a string is ordinary content.
// There is no escape sequence, so an unterminated string swallows every later separator.
// The result always has at least one element.
func Split(body string, sep byte) []string {
	var (
		parts   []string
		start   int
		inQuote bool
	)

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, body[start:])
}

// Join is the inverse of Split
func Join(parts []string, sep byte) string {
	return strings.Join(parts, string(sep))
}
