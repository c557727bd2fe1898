// Package driver wires scanner, parser, resolver, and interp into the
// single script-mode pipeline that both cmd/glox and cmd/conformance
// run a source file through, so the exit-code mapping lives in one
// place instead of being reimplemented per entry point.
package driver

import (
	"io"

	"glox/internal/diag"
	"glox/internal/interp"
	"glox/internal/parser"
	"glox/internal/resolver"
	"glox/internal/scanner"
)

// Exit codes follow the Unix sysexits.h convention used by command-line
// tools: 65 for a data/format problem (here, a static lex/parse/resolve
// error), 70 for an internal software error (a runtime failure).
const (
	ExitOK      = 0
	ExitDataErr = 65
	ExitRuntime = 70
)

// RunSource scans, parses, resolves, and interprets source, writing
// `print` output to stdout and diagnostics to stderr. It returns the
// process exit code the outcome maps to.
func RunSource(source []byte, stdout, stderr io.Writer) int {
	reporter := diag.NewReporter()

	tokens := scanner.New(source, reporter).Scan()
	if reporter.HadError() {
		reporter.Print(stderr)
		return ExitDataErr
	}

	stmts := parser.New(tokens, reporter).Parse()
	if reporter.HadError() {
		reporter.Print(stderr)
		return ExitDataErr
	}

	res := resolver.New(reporter)
	res.Resolve(stmts)
	if reporter.HadError() {
		reporter.Print(stderr)
		return ExitDataErr
	}

	i := interp.New(stdout, reporter)
	i.SetLocals(res.Locals())
	i.Run(stmts)
	if reporter.HadRuntimeError() {
		reporter.Print(stderr)
		return ExitRuntime
	}

	return ExitOK
}
