package testhelper

import (
	"strings"
	"testing"
)

// Program turns an indented raw-string listing into source lines.
// The first line (right after the opening backquote) is dropped and the
// indentation of the second line is removed from every line. Each line
// keeps its trailing newline, as if read from a file.
func Program(t *testing.T, src string) []string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		t.Fatalf("listing must start with a newline: %q", src)
	}

	lines = lines[1:]
	first := lines[0]
	indent := first[:len(first)-len(strings.TrimLeft(first, " \t"))]

	// closing backquote on its own line
	if strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent) + "\n"
	}

	return lines
}
