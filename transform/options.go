package transform

import (
	"fmt"
	"unicode"
)

const (
	// DefaultChannel is the file channel PRINT output is redirected to.
	DefaultChannel = 9
	// DefaultSentinelLine is the line number of the injected CLOSE/SYSTEM line.
	DefaultSentinelLine = 63999
	// DefaultSeparator divides statements sharing one program line.
	DefaultSeparator = ':'
	// MaxGWBasicLine is the highest line number GW-BASIC accepts.
	MaxGWBasicLine = 65529
)

// Options controls how a program is rewritten
type Options struct {
	Channel       int
	SentinelLine  int
	Separator     byte
	MaxLineNumber int
	// AutoSentinel moves the terminator above the highest program line on collision.
	AutoSentinel bool
}

// DefaultOptions returns the options used by the capture harness
func DefaultOptions() Options {
	return Options{
		Channel:       DefaultChannel,
		SentinelLine:  DefaultSentinelLine,
		Separator:     DefaultSeparator,
		MaxLineNumber: MaxGWBasicLine,
		AutoSentinel:  true,
	}
}

// Validate checks that the options describe a usable channel and terminator line
func (o Options) Validate() error {
	if o.Channel < 1 || o.Channel > 255 {
		return fmt.Errorf("%w: channel %d out of range 1..255", ErrInvalidOptions, o.Channel)
	}

	if o.MaxLineNumber < 1 {
		return fmt.Errorf("%w: max line number %d must be positive", ErrInvalidOptions, o.MaxLineNumber)
	}

	if o.SentinelLine < 1 || o.SentinelLine > o.MaxLineNumber {
		return fmt.Errorf("%w: sentinel line %d out of range 1..%d", ErrInvalidOptions, o.SentinelLine, o.MaxLineNumber)
	}

	if !validSeparator(o.Separator) {
		return fmt.Errorf("%w: separator %q cannot delimit statements", ErrInvalidOptions, o.Separator)
	}

	return nil
}

// validSeparator rejects bytes that already mean something in a line number,
// a channel reference or a string literal.
func validSeparator(c byte) bool {
	switch {
	case c == 0, c == '"', c == '#':
		return false
	case c >= '0' && c <= '9':
		return false
	case c < 0x80 && unicode.IsSpace(rune(c)):
		return false
	}

	return true
}
