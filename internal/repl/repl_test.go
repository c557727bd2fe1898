package repl

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"glox/internal/diag"
	"glox/internal/interp"
	"glox/internal/resolver"
)

func newSession() (*REPL, *interp.Interpreter, *resolver.Resolver) {
	return New(), interp.New(new(strings.Builder), diag.NewReporter()), resolver.New(diag.NewReporter())
}

func TestEvalLine_BareExpressionAutoPrints(t *testing.T) {
	color.NoColor = true
	r, i, res := newSession()
	var out strings.Builder
	r.evalLine(&out, "1 + 2", i, res)
	assert.Equal(t, "3\n", out.String())
}

func TestEvalLine_StatementsDoNotAutoPrint(t *testing.T) {
	color.NoColor = true
	r, i, res := newSession()
	var out strings.Builder
	r.evalLine(&out, "var x = 5;", i, res)
	assert.Empty(t, out.String())
}

func TestEvalLine_DeclarationsPersistAcrossLines(t *testing.T) {
	color.NoColor = true
	r, i, res := newSession()
	var out strings.Builder
	r.evalLine(&out, "var x = 5;", i, res)
	out.Reset()
	r.evalLine(&out, "x + 1", i, res)
	assert.Equal(t, "6\n", out.String())
}

func TestEvalLine_FunctionPersistsAcrossLines(t *testing.T) {
	color.NoColor = true
	r, i, res := newSession()
	var out strings.Builder
	r.evalLine(&out, "fun add(a, b) { return a + b; }", i, res)
	out.Reset()
	r.evalLine(&out, "add(2, 3)", i, res)
	assert.Equal(t, "5\n", out.String())
}

func TestEvalLine_ScanErrorReportedNotPanicking(t *testing.T) {
	color.NoColor = true
	r, i, res := newSession()
	var out strings.Builder
	assert.NotPanics(t, func() {
		r.evalLine(&out, "@", i, res)
	})
	assert.Contains(t, out.String(), "Error")
}

func TestEvalLine_RuntimeErrorReportedNotPanicking(t *testing.T) {
	color.NoColor = true
	r, i, res := newSession()
	var out strings.Builder
	assert.NotPanics(t, func() {
		r.evalLine(&out, "undefinedVar + 1", i, res)
	})
	assert.Contains(t, out.String(), "Error")
}

func TestEvalLine_ErrorOnOneLineDoesNotPoisonNext(t *testing.T) {
	color.NoColor = true
	r, i, res := newSession()
	var out strings.Builder
	r.evalLine(&out, "undefinedVar + 1", i, res)
	out.Reset()
	r.evalLine(&out, "1 + 1", i, res)
	assert.Equal(t, "2\n", out.String())
}
