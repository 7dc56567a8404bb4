package transform

import (
	"strconv"
	"strings"
)

// StatementKind classifies a statement by its leading keyword
type StatementKind int

const (
	// KindOther is any statement passed through unchanged
	KindOther StatementKind = iota
	// KindPrint is a screen PRINT redirected to the capture channel
	KindPrint
	// KindChannelPrint is a PRINT that already targets a channel
	KindChannelPrint
	// KindTerminator is END, STOP or SYSTEM
	KindTerminator
)

func (k StatementKind) String() string {
	switch k {
	case KindPrint:
		return "print"
	case KindChannelPrint:
		return "channel-print"
	case KindTerminator:
		return "terminator"
	default:
		return "other"
	}
}

var terminators = []string{"END", "STOP", "SYSTEM"}

// Rewriter redirects PRINT statements to a file channel and makes every
// program exit close that channel first.
type Rewriter struct {
	sep       byte
	printHead string
	closeStmt string
}

// NewRewriter creates a Rewriter for the channel and separator in opts
func NewRewriter(opts Options) *Rewriter {
	ch := strconv.Itoa(opts.Channel)

	return &Rewriter{
		sep:       opts.Separator,
		printHead: "PRINT #" + ch + ",",
		closeStmt: " CLOSE #" + ch + string(opts.Separator) + "SYSTEM",
	}
}

// CloseStatement returns the statement that closes the channel and halts
func (r *Rewriter) CloseStatement() string {
	return strings.TrimLeft(r.closeStmt, " ")
}

// Rewrite transforms a single statement
func (r *Rewriter) Rewrite(stmt string) string {
	out, _ := r.Analyze(stmt)
	return out
}

// Analyze transforms a single statement and reports how it was classified
func (r *Rewriter) Analyze(stmt string) (string, StatementKind) {
	trimmed := trimIndent(stmt)
	indent := stmt[:len(stmt)-len(trimmed)]

	if hasKeyword(trimmed, "PRINT") {
		after := trimmed[len("PRINT"):]
		args := strings.TrimLeft(after, " \t")

		if strings.HasPrefix(args, "#") {
			return stmt, KindChannelPrint
		}

		if after != "" && !strings.ContainsRune(" \t;,\"", rune(after[0])) {
			// PRINTER=5 and friends are identifiers
			return stmt, KindOther
		}

		return indent + r.printHead + args, KindPrint
	}

	for _, kw := range terminators {
		if hasKeyword(trimmed, kw) {
			return r.closeStmt, KindTerminator
		}
	}

	return stmt, KindOther
}

// RewriteBody splits a line body into statements, rewrites each and joins them back
func (r *Rewriter) RewriteBody(body string) string {
	return r.rewriteBody(body, nil)
}

func (r *Rewriter) rewriteBody(body string, stats *Stats) string {
	parts := Split(body, r.sep)

	for i, part := range parts {
		var kind StatementKind

		parts[i], kind = r.Analyze(part)
		stats.count(kind)
	}

	return Join(parts, r.sep)
}

// hasKeyword reports whether s starts with the upper-case keyword kw in any case.
// Only the keyword slice is uppercased so the rest of s keeps its casing.
func hasKeyword(s, kw string) bool {
	return len(s) >= len(kw) && strings.ToUpper(s[:len(kw)]) == kw
}
