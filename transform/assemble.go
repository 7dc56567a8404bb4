package transform

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Stats summarizes what an assembly pass did
type Stats struct {
	LinesRead     int
	BlankLines    int
	Verbatim      int
	Prints        int
	ChannelPrints int
	Terminators   int

	// MaxLine is the highest program line number seen, -1 when there is none.
	MaxLine  int
	Sentinel int
}

func (s *Stats) count(kind StatementKind) {
	if s == nil {
		return
	}

	switch kind {
	case KindPrint:
		s.Prints++
	case KindChannelPrint:
		s.ChannelPrints++
	case KindTerminator:
		s.Terminators++
	}
}

// Result is an assembled capture program
type Result struct {
	Lines []string
	Stats Stats
}

// WriteTo writes every output line terminated by a newline
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)

	var total int64

	for _, line := range r.Lines {
		n, err := bw.WriteString(line + "\n")
		total += int64(n)

		if err != nil {
			return total, err
		}
	}

	return total, bw.Flush()
}

// Assembler frames a rewritten program between the channel OPEN line and
// the CLOSE/SYSTEM terminator.
type Assembler struct {
	opts     Options
	rewriter *Rewriter
}

// NewAssembler creates an Assembler. The options are validated up front.
func NewAssembler(opts Options) (*Assembler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Assembler{
		opts:     opts,
		rewriter: NewRewriter(opts),
	}, nil
}

// OpenLine returns the injected line 0 that opens captureFile on the channel.
// captureFile is embedded verbatim; quotes in it are not escaped.
func (a *Assembler) OpenLine(captureFile string) string {
	return fmt.Sprintf("0 OPEN \"%s\" FOR OUTPUT AS #%d", captureFile, a.opts.Channel)
}

// Assemble rewrites the program lines in order.
// The output holds the OPEN line, every non-blank input line, and the terminator line.
func (a *Assembler) Assemble(lines []string, captureFile string) (*Result, error) {
	result := &Result{
		Lines: make([]string, 0, len(lines)+2),
		Stats: Stats{MaxLine: -1},
	}
	stats := &result.Stats

	result.Lines = append(result.Lines, a.OpenLine(captureFile))

	for _, raw := range lines {
		stats.LinesRead++

		line, ok := Classify(raw)
		if !ok {
			stats.BlankLines++
			continue
		}

		if !line.Numbered() {
			stats.Verbatim++
			result.Lines = append(result.Lines, line.Body)

			continue
		}

		if n, ok := line.Value(); ok && n <= a.opts.MaxLineNumber && n > stats.MaxLine {
			stats.MaxLine = n
		}

		result.Lines = append(result.Lines, line.Number+a.rewriter.rewriteBody(line.Body, stats))
	}

	sentinel, err := a.sentinel(stats.MaxLine)
	if err != nil {
		return nil, err
	}

	stats.Sentinel = sentinel
	result.Lines = append(result.Lines, strconv.Itoa(sentinel)+" "+a.rewriter.CloseStatement())

	return result, nil
}

// sentinel picks the terminator line number for a program whose highest line is maxLine
func (a *Assembler) sentinel(maxLine int) (int, error) {
	if maxLine < a.opts.SentinelLine {
		return a.opts.SentinelLine, nil
	}

	if a.opts.AutoSentinel && maxLine < a.opts.MaxLineNumber {
		return maxLine + 1, nil
	}

	return 0, fmt.Errorf("%w: program uses line %d, terminator needs a line above it (limit %d)",
		ErrSentinelCollision, maxLine, a.opts.MaxLineNumber)
}

// Transform reads a whole program from r and writes the capture program to w.
// Nothing is written when the program cannot be assembled.
func (a *Assembler) Transform(r io.Reader, w io.Writer, captureFile string) (*Result, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}

	result, err := a.Assemble(lines, captureFile)
	if err != nil {
		return nil, err
	}

	if _, err := result.WriteTo(w); err != nil {
		return nil, fmt.Errorf("failed to write program: %w", err)
	}

	return result, nil
}

// ReadLines reads r to the end and splits it into lines.
// "\r\n", "\n" and a lone "\r" all end a line; the terminators are dropped.
func ReadLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(nil, max(len(data)+1, bufio.MaxScanTokenSize))
	scanner.Split(scanLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to split program: %w", err)
	}

	return lines, nil
}

// scanLines is bufio.ScanLines with a lone carriage return also ending a line
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}

		// a trailing \r may be the first half of \r\n
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}

		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}

		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}
