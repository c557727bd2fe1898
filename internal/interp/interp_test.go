package interp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glox/internal/diag"
	"glox/internal/parser"
	"glox/internal/resolver"
	"glox/internal/scanner"
)

// run is the same scanner -> parser -> resolver -> interpreter pipeline
// cmd/glox wires up, used here so tests exercise the public seams the
// real driver exercises rather than poking at evaluate/execute directly.
func run(t *testing.T, source string) (stdout string, r *diag.Reporter) {
	t.Helper()
	reporter := diag.NewReporter()
	toks := scanner.New([]byte(source), reporter).Scan()
	require.False(t, reporter.HadError(), "scan")

	stmts := parser.New(toks, reporter).Parse()
	require.False(t, reporter.HadError(), "parse")

	res := resolver.New(reporter)
	res.Resolve(stmts)
	require.False(t, reporter.HadError(), "resolve")

	var out strings.Builder
	i := New(&out, reporter)
	i.SetLocals(res.Locals())
	i.Run(stmts)
	return out.String(), reporter
}

func TestInterp_ArithmeticAndPrint(t *testing.T) {
	out, r := run(t, `print 1 + 2 * 3;`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "7\n", out)
}

func TestInterp_StringConcatenation(t *testing.T) {
	out, r := run(t, `print "foo" + "bar";`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "foobar\n", out)
}

func TestInterp_LogicalShortCircuit(t *testing.T) {
	// the right side of `or` must never execute once the left is truthy
	out, r := run(t, `
		fun boom() { return undefinedVar; }
		print true or boom();
	`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "true\n", out)
}

func TestInterp_LogicalReturnsOperandNotBoolean(t *testing.T) {
	out, r := run(t, `print 1 or 2;`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "1\n", out)
}

func TestInterp_WhileLoop(t *testing.T) {
	out, r := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterp_ForLoopDesugaring(t *testing.T) {
	out, r := run(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestInterp_ClosureCapturesEnvironmentAtDefinition(t *testing.T) {
	out, r := run(t, `
		fun makeCounter() {
			var count = 0;
			fun counter() {
				count = count + 1;
				return count;
			}
			return counter;
		}
		var counter1 = makeCounter();
		var counter2 = makeCounter();
		print counter1();
		print counter1();
		print counter2();
	`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "1\n2\n1\n", out)
}

func TestInterp_ClassInstanceFieldsAndMethods(t *testing.T) {
	out, r := run(t, `
		class Counter {
			init() { self.count = 0; }
			increment() {
				self.count = self.count + 1;
				return self.count;
			}
		}
		var c = Counter();
		print c.increment();
		print c.increment();
	`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "1\n2\n", out)
}

func TestInterp_InheritanceAndSuper(t *testing.T) {
	out, r := run(t, `
		class Animal {
			speak() { return "..."; }
		}
		class Dog < Animal {
			speak() { return super.speak() + " woof"; }
		}
		print Dog().speak();
	`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "... woof\n", out)
}

func TestInterp_UndefinedVariableIsRuntimeError(t *testing.T) {
	_, r := run(t, `print undefinedVar;`)
	assert.True(t, r.HadRuntimeError())
}

func TestInterp_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, r := run(t, `
		var notAFunction = 1;
		notAFunction();
	`)
	assert.True(t, r.HadRuntimeError())
}

func TestInterp_WrongArityIsRuntimeError(t *testing.T) {
	_, r := run(t, `
		fun needsOne(a) { return a; }
		needsOne(1, 2);
	`)
	assert.True(t, r.HadRuntimeError())
}

func TestInterp_OperatorTypeMismatchIsRuntimeError(t *testing.T) {
	_, r := run(t, `print "a" - 1;`)
	assert.True(t, r.HadRuntimeError())
}

func TestInterp_PropertyOnNonInstanceIsRuntimeError(t *testing.T) {
	_, r := run(t, `
		var x = 1;
		print x.field;
	`)
	assert.True(t, r.HadRuntimeError())
}

func TestInterp_StringifyNilAndNumbers(t *testing.T) {
	out, r := run(t, `
		print nil;
		print 1;
		print 1.5;
	`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "nil\n1\n1.5\n", out)
}

func TestInterp_BuiltinStrAndType(t *testing.T) {
	out, r := run(t, `
		print str(42);
		print type(42);
		print type("hi");
	`)
	assert.False(t, r.HadRuntimeError())
	assert.Equal(t, "42\nnumber\nstring\n", out)
}

func TestInterp_EvalExprForREPL(t *testing.T) {
	reporter := diag.NewReporter()
	toks := scanner.New([]byte("1 + 2"), reporter).Scan()
	expr, ok := parser.New(toks, reporter).ParseExpression()
	require.True(t, ok)

	res := resolver.New(reporter)
	res.ResolveExpr(expr)

	var out strings.Builder
	i := New(&out, reporter)
	i.SetLocals(res.Locals())
	val, err := i.EvalExpr(expr)
	require.NoError(t, err)
	assert.Equal(t, "3", Stringify(val))
}
