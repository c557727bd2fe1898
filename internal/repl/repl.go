// Package repl implements the interactive Read-Eval-Print Loop for
// glox: readline for line editing/history, fatih/color for banner and
// diagnostic coloring, a panic-recovering execute step so one bad line
// never kills the session. The resolver and the top-level environment
// stay alive across lines so `var`/`fun`/`class` declared on one line
// stay visible on the next; each line gets its own diagnostic reporter
// so one line's error never poisons the next line's evaluation.
package repl

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"glox/internal/diag"
	"glox/internal/interp"
	"glox/internal/parser"
	"glox/internal/resolver"
	"glox/internal/scanner"
)

const banner = `glox -- a tree-walking Lox interpreter`

var (
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
	valColor  = color.New(color.FgYellow)
)

// REPL is one interactive session.
type REPL struct {
	Prompt string
}

// New creates a REPL with the default prompt.
func New() *REPL {
	return &REPL{Prompt: "glox> "}
}

// Run drives the loop until EOF (Ctrl-D) or a readline error. Both the
// interpreter's globals and the resolver's accumulated scope state
// persist across lines; each line gets a fresh diag.Reporter so one
// line's errors never poison the next.
func (r *REPL) Run(out io.Writer) error {
	fmt.Fprintln(out, banner)
	infoColor.Fprintln(out, "Type Lox statements or expressions. Ctrl-D to exit.")

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	interpreter := interp.New(out, diag.NewReporter())
	res := resolver.New(diag.NewReporter())

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			fmt.Fprintln(out, "bye")
			return nil
		}
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		r.evalLine(out, line, interpreter, res)
	}
}

func (r *REPL) evalLine(out io.Writer, line string, interpreter *interp.Interpreter, res *resolver.Resolver) {
	defer func() {
		if rec := recover(); rec != nil {
			errColor.Fprintf(out, "[internal error] %v\n", rec)
		}
	}()

	scanReporter := diag.NewReporter()
	tokens := scanner.New([]byte(line), scanReporter).Scan()
	if scanReporter.HadError() {
		printDiagnostics(out, scanReporter)
		return
	}

	// Try it as a bare expression first (auto-print); a trial parser
	// runs against a scratch reporter so a failed attempt reports
	// nothing and falls through to full statement parsing.
	trialReporter := diag.NewReporter()
	if expr, ok := parser.New(tokens, trialReporter).ParseExpression(); ok && !trialReporter.HadError() {
		lineReporter := diag.NewReporter()
		res.SetReporter(lineReporter)
		res.ResolveExpr(expr)
		if lineReporter.HadError() {
			printDiagnostics(out, lineReporter)
			return
		}

		interpreter.SetLocals(res.Locals())
		interpreter.SetReporter(lineReporter)
		val, err := interpreter.EvalExpr(expr)
		if err != nil {
			if re, ok := err.(*interp.RuntimeError); ok {
				lineReporter.RuntimeError(re.Token, re.Message)
				printDiagnostics(out, lineReporter)
				return
			}
			errColor.Fprintln(out, err.Error())
			return
		}
		valColor.Fprintln(out, interp.Stringify(val))
		return
	}

	lineReporter := diag.NewReporter()
	p := parser.New(tokens, lineReporter)
	stmts := p.Parse()
	if lineReporter.HadError() {
		printDiagnostics(out, lineReporter)
		return
	}

	res.SetReporter(lineReporter)
	res.Resolve(stmts)
	if lineReporter.HadError() {
		printDiagnostics(out, lineReporter)
		return
	}

	interpreter.SetLocals(res.Locals())
	interpreter.SetReporter(lineReporter)
	interpreter.RunLine(stmts)
	if lineReporter.HadRuntimeError() {
		printDiagnostics(out, lineReporter)
	}
}

func printDiagnostics(out io.Writer, r *diag.Reporter) {
	for _, d := range r.Diagnostics() {
		errColor.Fprintln(out, d.String())
	}
}
