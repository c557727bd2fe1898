package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glox/internal/ast"
	"glox/internal/diag"
	"glox/internal/scanner"
)

func parse(t *testing.T, source string) ([]ast.Stmt, *diag.Reporter) {
	t.Helper()
	r := diag.NewReporter()
	toks := scanner.New([]byte(source), r).Scan()
	require.False(t, r.HadError(), "source failed to scan")
	stmts := New(toks, r).Parse()
	return stmts, r
}

func TestParse_ArithmeticPrecedence(t *testing.T) {
	stmts, r := parse(t, "1 + 2 * 3;")
	require.False(t, r.HadError())
	require.Len(t, stmts, 1)
	expr := stmts[0].(*ast.Expression).Expr
	assert.Equal(t, "(+ 1 (* 2 3))", expr.String())
}

func TestParse_Associativity(t *testing.T) {
	stmts, r := parse(t, "10 - 2 - 3;")
	require.False(t, r.HadError())
	expr := stmts[0].(*ast.Expression).Expr
	assert.Equal(t, "(- (- 10 2) 3)", expr.String())
}

func TestParse_Grouping(t *testing.T) {
	stmts, r := parse(t, "(1 + 2) * 3;")
	require.False(t, r.HadError())
	expr := stmts[0].(*ast.Expression).Expr
	assert.Equal(t, "(* (group (+ 1 2)) 3)", expr.String())
}

func TestParse_LogicalOperators(t *testing.T) {
	stmts, r := parse(t, "true and false or true;")
	require.False(t, r.HadError())
	expr := stmts[0].(*ast.Expression).Expr
	_, isLogical := expr.(*ast.Logical)
	assert.True(t, isLogical)
}

func TestParse_VarDeclaration(t *testing.T) {
	stmts, r := parse(t, "var x = 1 + 2;")
	require.False(t, r.HadError())
	require.Len(t, stmts, 1)
	v, ok := stmts[0].(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name.Lexeme)
	assert.NotNil(t, v.Initializer)
}

func TestParse_IfElse(t *testing.T) {
	stmts, r := parse(t, "if (x) print 1; else print 2;")
	require.False(t, r.HadError())
	ifStmt, ok := stmts[0].(*ast.If)
	require.True(t, ok)
	assert.NotNil(t, ifStmt.Then)
	assert.NotNil(t, ifStmt.Else)
}

func TestParse_ForDesugarsToWhile(t *testing.T) {
	stmts, r := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, r.HadError())
	// the whole loop desugars into a block containing the init and a While
	block, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Stmts, 2)
	_, isVar := block.Stmts[0].(*ast.Var)
	assert.True(t, isVar)
	whileStmt, isWhile := block.Stmts[1].(*ast.While)
	require.True(t, isWhile)
	assert.NotNil(t, whileStmt.Condition)
}

func TestParse_ClassWithSuperclassAndMethods(t *testing.T) {
	stmts, r := parse(t, `
		class Animal {
			speak() { print "..."; }
		}
		class Dog < Animal {
			speak() { print "woof"; }
		}
	`)
	require.False(t, r.HadError())
	require.Len(t, stmts, 2)
	dog, ok := stmts[1].(*ast.Class)
	require.True(t, ok)
	require.NotNil(t, dog.Superclass)
	assert.Equal(t, "Animal", dog.Superclass.Name.Lexeme)
	require.Len(t, dog.Methods, 1)
	assert.Equal(t, "speak", dog.Methods[0].Name.Lexeme)
}

func TestParse_CallAndGetChain(t *testing.T) {
	stmts, r := parse(t, "a.b().c;")
	require.False(t, r.HadError())
	expr := stmts[0].(*ast.Expression).Expr
	get, ok := expr.(*ast.Get)
	require.True(t, ok)
	assert.Equal(t, "c", get.Name.Lexeme)
	_, isCall := get.Object.(*ast.Call)
	assert.True(t, isCall)
}

func TestParse_MissingSemicolonReportsError(t *testing.T) {
	_, r := parse(t, "var x = 1")
	assert.True(t, r.HadError())
}

func TestParse_SynchronizesAfterError(t *testing.T) {
	// the first statement is malformed; the second should still be parsed
	r := diag.NewReporter()
	toks := scanner.New([]byte("var ; var y = 2;"), r).Scan()
	stmts := New(toks, r).Parse()
	assert.True(t, r.HadError())
	found := false
	for _, s := range stmts {
		if v, ok := s.(*ast.Var); ok && v.Name.Lexeme == "y" {
			found = true
		}
	}
	assert.True(t, found, "parser should recover and still parse `var y = 2;`")
}

func TestParseExpression_BareExpressionSucceeds(t *testing.T) {
	r := diag.NewReporter()
	toks := scanner.New([]byte("1 + 2"), r).Scan()
	expr, ok := New(toks, r).ParseExpression()
	require.True(t, ok)
	assert.Equal(t, "(+ 1 2)", expr.String())
}

func TestParseExpression_StatementFails(t *testing.T) {
	r := diag.NewReporter()
	toks := scanner.New([]byte("var x = 1;"), r).Scan()
	_, ok := New(toks, r).ParseExpression()
	assert.False(t, ok)
}

func TestParseExpression_TrailingTokensFail(t *testing.T) {
	r := diag.NewReporter()
	toks := scanner.New([]byte("1 + 2 3"), r).Scan()
	_, ok := New(toks, r).ParseExpression()
	assert.False(t, ok)
}
