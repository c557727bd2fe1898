// Package diag is the shared diagnostic sink for the scanner, parser,
// resolver, and interpreter: every static or runtime error that the
// driver eventually turns into an exit code flows through here first.
package diag

import (
	"fmt"
	"io"

	"glox/internal/token"
)

// Kind distinguishes where in the pipeline a diagnostic originated.
type Kind int

const (
	Lex Kind = iota
	Parse
	Resolve
	Runtime
)

// Diagnostic is one reported error.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Reporter accumulates diagnostics for one run (a script, or a single
// REPL line) and answers whether execution should proceed.
type Reporter struct {
	diags      []Diagnostic
	hadError   bool
	hadRuntime bool
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Error reports a static error at a bare line number (used by the
// scanner, which has no token yet).
func (r *Reporter) Error(line int, message string) {
	r.add(Lex, line, "", message)
}

// ErrorAtToken reports a static error located at a token, following the
// book's `error(Token, String)` overload: EOF tokens report " at end",
// others report " at '<lexeme>'".
func (r *Reporter) ErrorAtToken(kind Kind, t token.Token, message string) {
	where := fmt.Sprintf(" at '%s'", t.Lexeme)
	if t.Type == token.EOF {
		where = " at end"
	}
	r.add(kind, t.Line, where, message)
}

// RuntimeError reports a runtime error triggered by the token `t`.
func (r *Reporter) RuntimeError(t token.Token, message string) {
	r.hadRuntime = true
	r.diags = append(r.diags, Diagnostic{Kind: Runtime, Line: t.Line, Message: message})
}

func (r *Reporter) add(kind Kind, line int, where, message string) {
	r.hadError = true
	r.diags = append(r.diags, Diagnostic{Kind: kind, Line: line, Where: where, Message: message})
}

// HadError reports whether any static (lex/parse/resolve) error was recorded.
func (r *Reporter) HadError() bool { return r.hadError }

// HadRuntimeError reports whether a runtime error was recorded.
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntime }

// Diagnostics returns every diagnostic recorded so far, in report order.
func (r *Reporter) Diagnostics() []Diagnostic { return r.diags }

// Reset clears all recorded diagnostics, for REPL reuse between lines.
func (r *Reporter) Reset() {
	r.diags = nil
	r.hadError = false
	r.hadRuntime = false
}

// Print writes every diagnostic to w, one per line.
func (r *Reporter) Print(w io.Writer) {
	for _, d := range r.diags {
		fmt.Fprintln(w, d.String())
	}
}
