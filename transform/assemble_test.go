package transform

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/basiccapture/testhelper"
)

func newTestAssembler(t *testing.T, opts Options) *Assembler {
	t.Helper()

	assembler, err := NewAssembler(opts)
	assert.NoError(t, err)

	return assembler
}

func TestAssembler_Assemble(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	result, err := assembler.Assemble([]string{`10 PRINT "HI":PRINT X:END` + "\n"}, "out.txt")
	assert.NoError(t, err)

	assert.Equal(t, []string{
		`0 OPEN "out.txt" FOR OUTPUT AS #9`,
		`10 PRINT #9,"HI":PRINT #9,X: CLOSE #9:SYSTEM`,
		`63999 CLOSE #9:SYSTEM`,
	}, result.Lines)
}

func TestAssembler_ColonInsideString(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	result, err := assembler.Assemble([]string{`20 PRINT "A:B"`}, "out.txt")
	assert.NoError(t, err)
	assert.Equal(t, `20 PRINT #9,"A:B"`, result.Lines[1])
}

func TestAssembler_Bracketing(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	input := []string{
		"10 CLS\n",
		"\n",
		"   \r\n",
		"' unnumbered comment\n",
		"  20 PRINT A\n",
		"30 STOP\n",
	}

	result, err := assembler.Assemble(input, "cap.txt")
	assert.NoError(t, err)

	assert.Equal(t, []string{
		`0 OPEN "cap.txt" FOR OUTPUT AS #9`,
		"10 CLS",
		"' unnumbered comment",
		"  20 PRINT #9,A",
		"30 CLOSE #9:SYSTEM",
		"63999 CLOSE #9:SYSTEM",
	}, result.Lines)

	// non-blank input lines plus the two injected ones
	assert.Equal(t, 4+2, len(result.Lines))

	assert.Equal(t, Stats{
		LinesRead:   6,
		BlankLines:  2,
		Verbatim:    1,
		Prints:      1,
		Terminators: 1,
		MaxLine:     30,
		Sentinel:    63999,
	}, result.Stats)
}

func TestAssembler_EmptyProgram(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	result, err := assembler.Assemble(nil, "empty.txt")
	assert.NoError(t, err)
	assert.Equal(t, []string{
		`0 OPEN "empty.txt" FOR OUTPUT AS #9`,
		"63999 CLOSE #9:SYSTEM",
	}, result.Lines)
	assert.Equal(t, -1, result.Stats.MaxLine)
}

func TestAssembler_CaptureFileIsVerbatim(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	assert.Equal(t, `0 OPEN "C:\OUT\RESULT.TXT" FOR OUTPUT AS #9`, assembler.OpenLine(`C:\OUT\RESULT.TXT`))
}

func TestAssembler_Sentinel(t *testing.T) {
	tests := []struct {
		name         string
		lines        []string
		autoSentinel bool
		expected     string
		expectedErr  error
	}{
		{
			name:         "below sentinel",
			lines:        []string{"63998 END"},
			autoSentinel: true,
			expected:     "63999 CLOSE #9:SYSTEM",
		},
		{
			name:         "collision moves sentinel",
			lines:        []string{"10 GOSUB 63999", "63999 RETURN"},
			autoSentinel: true,
			expected:     "64000 CLOSE #9:SYSTEM",
		},
		{
			name:         "above sentinel",
			lines:        []string{"64500 PRINT", "100 GOTO 64500"},
			autoSentinel: true,
			expected:     "64501 CLOSE #9:SYSTEM",
		},
		{
			name:         "whitespace before line number",
			lines:        []string{"\v64000 END"},
			autoSentinel: true,
			expected:     "64001 CLOSE #9:SYSTEM",
		},
		{
			name:         "out of range line numbers are ignored",
			lines:        []string{"70000 PRINT"},
			autoSentinel: true,
			expected:     "63999 CLOSE #9:SYSTEM",
		},
		{
			name:         "no room above last line",
			lines:        []string{"65529 END"},
			autoSentinel: true,
			expectedErr:  ErrSentinelCollision,
		},
		{
			name:         "collision without auto sentinel",
			lines:        []string{"63999 END"},
			autoSentinel: false,
			expectedErr:  ErrSentinelCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.AutoSentinel = tt.autoSentinel

			result, err := newTestAssembler(t, opts).Assemble(tt.lines, "out.txt")
			if tt.expectedErr != nil {
				assert.IsError(t, err, tt.expectedErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result.Lines[len(result.Lines)-1])
		})
	}
}

func TestNewAssembler_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Channel = 0

	_, err := NewAssembler(opts)
	assert.IsError(t, err, ErrInvalidOptions)
}

func TestAssembler_Transform(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	var out bytes.Buffer

	result, err := assembler.Transform(strings.NewReader("10 PRINT 1\r\n20 END"), &out, "t.txt")
	assert.NoError(t, err)
	assert.Equal(t, "0 OPEN \"t.txt\" FOR OUTPUT AS #9\n10 PRINT #9,1\n20 CLOSE #9:SYSTEM\n63999 CLOSE #9:SYSTEM\n", out.String())
	assert.Equal(t, 2, result.Stats.LinesRead)
}

func TestAssembler_TransformCollisionWritesNothing(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoSentinel = false

	var out bytes.Buffer

	_, err := newTestAssembler(t, opts).Transform(strings.NewReader("63999 END\n"), &out, "t.txt")
	assert.True(t, errors.Is(err, ErrSentinelCollision))
	assert.Equal(t, 0, out.Len())
}

func TestReadLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"lf", "10 A=1\n20 B=2\n", []string{"10 A=1", "20 B=2"}},
		{"no final newline", "10 A=1\n20 B=2", []string{"10 A=1", "20 B=2"}},
		{"crlf", "10 A=1\r\n20 B=2\r\n", []string{"10 A=1", "20 B=2"}},
		{"cr only", "10 PRINT 1\r20 END\r", []string{"10 PRINT 1", "20 END"}},
		{"mixed endings", "10 A=1\r\n20 B=2\r30 C=3\n40 D=4", []string{"10 A=1", "20 B=2", "30 C=3", "40 D=4"}},
		{"blank lines kept", "10 A=1\r\r\n\n20 B=2", []string{"10 A=1", "", "", "20 B=2"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := ReadLines(strings.NewReader(tt.input))
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, lines)
		})
	}
}

func TestAssembler_CarriageReturnOnly(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	var out bytes.Buffer

	result, err := assembler.Transform(strings.NewReader("10 PRINT 1\r20 END\r"), &out, "out.txt")
	assert.NoError(t, err)
	assert.Equal(t, "0 OPEN \"out.txt\" FOR OUTPUT AS #9\n10 PRINT #9,1\n20 CLOSE #9:SYSTEM\n63999 CLOSE #9:SYSTEM\n", out.String())
	assert.Equal(t, 20, result.Stats.MaxLine)
	assert.Equal(t, 1, result.Stats.Terminators)
}

func TestAssembler_Golden(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	sources, err := filepath.Glob(filepath.Join("testdata", "*.bas"))
	assert.NoError(t, err)
	assert.NotZero(t, len(sources))

	for _, source := range sources {
		name := strings.TrimSuffix(filepath.Base(source), ".bas")

		t.Run(name, func(t *testing.T) {
			input, err := os.Open(source)
			assert.NoError(t, err)

			defer input.Close()

			expected, err := os.ReadFile(filepath.Join("testdata", name+".golden"))
			assert.NoError(t, err)

			var out bytes.Buffer

			_, err = assembler.Transform(input, &out, name+".txt")
			assert.NoError(t, err)
			assert.Equal(t, string(expected), out.String())
		})
	}
}

func TestAssembler_Listing(t *testing.T) {
	assembler := newTestAssembler(t, DefaultOptions())

	result, err := assembler.Assemble(testhelper.Program(t, `
		10 INPUT "Count";N
		20 FOR I=1 TO N
		30   PRINT I, I*I
		40 NEXT I
		50 IF N>10 THEN STOP
		60 PRINT "done":SYSTEM
		`), "squares.txt")
	assert.NoError(t, err)

	assert.Equal(t, []string{
		`0 OPEN "squares.txt" FOR OUTPUT AS #9`,
		`10 INPUT "Count";N`,
		`20 FOR I=1 TO N`,
		`30   PRINT #9,I, I*I`,
		`40 NEXT I`,
		`50 IF N>10 THEN STOP`,
		`60 PRINT #9,"done": CLOSE #9:SYSTEM`,
		`63999 CLOSE #9:SYSTEM`,
	}, result.Lines)
	assert.Equal(t, 2, result.Stats.Prints)
	assert.Equal(t, 1, result.Stats.Terminators)
}
