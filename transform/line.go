package transform

import (
	"strconv"
	"strings"
	"unicode"
)

// Line is one non-blank source line split into its line number and statement body.
// Number is empty for lines that carry no leading line number.
type Line struct {
	Number string
	Body   string
}

// Numbered reports whether the line carries a line number
func (l Line) Numbered() bool {
	return l.Number != ""
}

// Value returns the numeric value of the line number.
// ok is false for unnumbered lines and for numbers that do not fit in an int.
func (l Line) Value() (int, bool) {
	if !l.Numbered() {
		return 0, false
	}

	n, err := strconv.Atoi(trimIndent(l.Number))
	if err != nil {
		return 0, false
	}

	return n, true
}

// String reassembles the line
func (l Line) String() string {
	return l.Number + l.Body
}

// Classify strips the line ending from raw and separates the leading line number.
// ok is false when the line is blank and contributes nothing to the output.
func Classify(raw string) (line Line, ok bool) {
	raw = strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(raw) == "" {
		return Line{}, false
	}

	// leading whitespace, then at least one digit
	i := len(raw) - len(trimIndent(raw))

	j := i
	for j < len(raw) && isDigit(raw[j]) {
		j++
	}

	if j == i {
		return Line{Body: raw}, true
	}

	return Line{Number: raw[:j], Body: raw[j:]}, true
}

// trimIndent removes leading whitespace. Line numbers and statements share this set.
func trimIndent(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
