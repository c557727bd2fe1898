// Package interp: the tree-walking evaluator itself. Variable lookups
// and assignments go through the resolver's precomputed scope distance
// (Environment.GetAt/AssignAt) rather than walking the enclosing chain
// by name, falling back to Globals for anything the resolver left
// unmapped.
package interp

import (
	"fmt"
	"io"
	"time"

	"glox/internal/ast"
	"glox/internal/diag"
	"glox/internal/token"
)

// Interpreter executes a resolved program against a chain of
// environments.
type Interpreter struct {
	Globals *Environment

	environment *Environment
	locals      map[ast.Expr]int
	reporter    *diag.Reporter
	stdout      io.Writer
}

// New creates an Interpreter whose `print` output goes to stdout and
// whose runtime errors are reported to reporter. The globals
// environment is pre-populated with the clock/str/type natives.
func New(stdout io.Writer, reporter *diag.Reporter) *Interpreter {
	globals := NewEnvironment(nil)
	i := &Interpreter{
		Globals:     globals,
		environment: globals,
		locals:      make(map[ast.Expr]int),
		reporter:    reporter,
		stdout:      stdout,
	}
	i.defineBuiltins()
	return i
}

func (i *Interpreter) defineBuiltins() {
	i.Globals.Define("clock", &Native{
		Name:    "clock",
		NumArgs: 0,
		Fn: func(*Interpreter, []Value) (Value, error) {
			return Number{Value: float64(time.Now().UnixNano()) / 1e9}, nil
		},
	})
	i.Globals.Define("str", &Native{
		Name:    "str",
		NumArgs: 1,
		Fn: func(_ *Interpreter, args []Value) (Value, error) {
			return String{Value: Stringify(args[0])}, nil
		},
	})
	i.Globals.Define("type", &Native{
		Name:    "type",
		NumArgs: 1,
		Fn: func(_ *Interpreter, args []Value) (Value, error) {
			return String{Value: TypeName(args[0])}, nil
		},
	})
}

// SetLocals installs the resolver's distance map. Must be called before
// Run/RunLine for any non-global variable reference to resolve
// correctly.
func (i *Interpreter) SetLocals(locals map[ast.Expr]int) {
	i.locals = locals
}

// SetReporter rebinds the reporter runtime errors are sent to. The
// REPL uses this to give each line its own Reporter while reusing one
// Interpreter (and its global environment) across the whole session.
func (i *Interpreter) SetReporter(reporter *diag.Reporter) {
	i.reporter = reporter
}

// Run executes a full program in script mode. A runtime error aborts
// execution and is reported to i.reporter.
func (i *Interpreter) Run(stmts []ast.Stmt) {
	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			i.reportRuntimeError(err)
			return
		}
	}
}

// RunLine executes one REPL line's statements against the persistent
// global/top-level environment. As in Run, a runtime error stops the
// line's remaining statements and is reported to i.reporter; the global
// environment keeps whatever earlier statements defined.
func (i *Interpreter) RunLine(stmts []ast.Stmt) {
	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			i.reportRuntimeError(err)
			return
		}
	}
}

func (i *Interpreter) reportRuntimeError(err error) {
	if re, ok := err.(*RuntimeError); ok {
		i.reporter.RuntimeError(re.Token, re.Message)
		return
	}
	// A returnSignal escaping every call frame means `return` appeared
	// outside any function; the resolver should have already rejected
	// that statically, so this is unreachable for resolved programs.
	i.reporter.RuntimeError(token.Token{}, err.Error())
}

// --- statement execution ---

func (i *Interpreter) execute(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Expression:
		_, err := i.evaluate(n.Expr)
		return err

	case *ast.Print:
		v, err := i.evaluate(n.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.stdout, Stringify(v))
		return nil

	case *ast.Var:
		var value Value = Nil{}
		if n.Initializer != nil {
			v, err := i.evaluate(n.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.environment.Define(n.Name.Lexeme, value)
		return nil

	case *ast.Block:
		return i.executeBlock(n.Stmts, NewEnvironment(i.environment))

	case *ast.If:
		cond, err := i.evaluate(n.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return i.execute(n.Then)
		} else if n.Else != nil {
			return i.execute(n.Else)
		}
		return nil

	case *ast.While:
		for {
			cond, err := i.evaluate(n.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := i.execute(n.Body); err != nil {
				return err
			}
		}

	case *ast.Function:
		fn := &Function{Decl: n, Closure: i.environment}
		i.environment.Define(n.Name.Lexeme, fn)
		return nil

	case *ast.Return:
		var value Value = Nil{}
		if n.Value != nil {
			v, err := i.evaluate(n.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{value: value}

	case *ast.Class:
		return i.executeClass(n)

	default:
		panic("interp: unhandled statement type")
	}
}

// executeBlock runs stmts in env, restoring the previous environment on
// every exit path: normal completion, a runtime error, or a return
// unwind.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := i.environment
	i.environment = env
	defer func() { i.environment = previous }()

	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeClass(n *ast.Class) error {
	var superclass *Class
	if n.Superclass != nil {
		sv, err := i.evaluate(n.Superclass)
		if err != nil {
			return err
		}
		sc, ok := sv.(*Class)
		if !ok {
			return &RuntimeError{Token: n.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	// Two-phase definition: the class's own name resolves to Nil while
	// its methods are built, so a method can reference the class by
	// name.
	i.environment.Define(n.Name.Lexeme, Nil{})

	env := i.environment
	if superclass != nil {
		env = NewEnvironment(i.environment)
		env.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(n.Methods))
	for _, m := range n.Methods {
		methods[m.Name.Lexeme] = &Function{
			Decl:          m,
			Closure:       env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: n.Name.Lexeme, Superclass: superclass, Methods: methods}
	return i.environment.Assign(n.Name, class)
}

// --- expression evaluation ---

func (i *Interpreter) evaluate(e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.Literal:
		return literalValue(n.Value), nil

	case *ast.Grouping:
		return i.evaluate(n.Inner)

	case *ast.Unary:
		right, err := i.evaluate(n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Op.Type {
		case token.Bang:
			return Bool{Value: !IsTruthy(right)}, nil
		case token.Minus:
			num, err := i.asNumber(n.Op, right)
			if err != nil {
				return nil, err
			}
			return Number{Value: -num}, nil
		}
		panic("interp: unreachable unary operator")

	case *ast.Binary:
		return i.evalBinary(n)

	case *ast.Logical:
		left, err := i.evaluate(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op.Type == token.Or {
			if IsTruthy(left) {
				return left, nil
			}
		} else {
			if !IsTruthy(left) {
				return left, nil
			}
		}
		return i.evaluate(n.Right)

	case *ast.Variable:
		return i.lookUpVariable(n.Name, n)

	case *ast.Assign:
		value, err := i.evaluate(n.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[n]; ok {
			i.environment.AssignAt(distance, n.Name, value)
		} else if err := i.Globals.Assign(n.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.Call:
		return i.evalCall(n)

	case *ast.Get:
		obj, err := i.evaluate(n.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: n.Name, Message: "Only instances have properties."}
		}
		if field, ok := instance.Fields[n.Name.Lexeme]; ok {
			return field, nil
		}
		if method := instance.Class.FindMethod(n.Name.Lexeme); method != nil {
			return method.bind(instance), nil
		}
		return nil, &RuntimeError{Token: n.Name, Message: "Undefined property '" + n.Name.Lexeme + "'."}

	case *ast.Set:
		obj, err := i.evaluate(n.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := obj.(*Instance)
		if !ok {
			return nil, &RuntimeError{Token: n.Name, Message: "Only instances have fields."}
		}
		value, err := i.evaluate(n.Value)
		if err != nil {
			return nil, err
		}
		instance.Fields[n.Name.Lexeme] = value
		return value, nil

	case *ast.Self:
		return i.lookUpVariable(n.Keyword, n)

	case *ast.Super:
		return i.evalSuper(n)

	default:
		panic("interp: unhandled expression type")
	}
}

func literalValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Nil{}
	case bool:
		return Bool{Value: t}
	case float64:
		return Number{Value: t}
	case string:
		return String{Value: t}
	default:
		panic(fmt.Sprintf("interp: unexpected literal payload %T", v))
	}
}

func (i *Interpreter) lookUpVariable(name token.Token, expr ast.Expr) (Value, error) {
	if distance, ok := i.locals[expr]; ok {
		return i.environment.GetAt(distance, name.Lexeme), nil
	}
	return i.Globals.Get(name)
}

func (i *Interpreter) evalSuper(n *ast.Super) (Value, error) {
	distance := i.locals[n]
	superVal := i.environment.GetAt(distance, "super")
	super := superVal.(*Class)
	self := i.environment.GetAt(distance-1, "self").(*Instance)

	method := super.FindMethod(n.Method.Lexeme)
	if method == nil {
		return nil, &RuntimeError{Token: n.Method, Message: "Undefined property '" + n.Method.Lexeme + "'."}
	}
	return method.bind(self), nil
}

func (i *Interpreter) evalCall(n *ast.Call) (Value, error) {
	callee, err := i.evaluate(n.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: n.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != fn.Arity() {
		return nil, &RuntimeError{
			Token:   n.Paren,
			Message: fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)),
		}
	}
	return fn.Call(i, args)
}

func (i *Interpreter) evalBinary(n *ast.Binary) (Value, error) {
	left, err := i.evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op.Type {
	case token.Plus:
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return String{Value: ls.Value + rs.Value}, nil
			}
		}
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return Number{Value: ln.Value + rn.Value}, nil
			}
		}
		return nil, &RuntimeError{Token: n.Op, Message: "Operands must be two numbers or two strings."}

	case token.Minus:
		a, b, err := i.asNumbers(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Number{Value: a - b}, nil

	case token.Star:
		a, b, err := i.asNumbers(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Number{Value: a * b}, nil

	case token.Slash:
		a, b, err := i.asNumbers(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Number{Value: a / b}, nil

	case token.Greater:
		a, b, err := i.asNumbers(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool{Value: a > b}, nil

	case token.GreaterEqual:
		a, b, err := i.asNumbers(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool{Value: a >= b}, nil

	case token.Less:
		a, b, err := i.asNumbers(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool{Value: a < b}, nil

	case token.LessEqual:
		a, b, err := i.asNumbers(n.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool{Value: a <= b}, nil

	case token.EqualEqual:
		return Bool{Value: Equal(left, right)}, nil

	case token.BangEqual:
		return Bool{Value: !Equal(left, right)}, nil
	}

	panic("interp: unreachable binary operator")
}

func (i *Interpreter) asNumber(op token.Token, v Value) (float64, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, &RuntimeError{Token: op, Message: "Operand must be a number."}
	}
	return n.Value, nil
}

func (i *Interpreter) asNumbers(op token.Token, a, b Value) (float64, float64, error) {
	an, aok := a.(Number)
	bn, bok := b.(Number)
	if !aok || !bok {
		return 0, 0, &RuntimeError{Token: op, Message: "Operands must be numbers."}
	}
	return an.Value, bn.Value, nil
}

// Stringify renders v the way `print` and the REPL auto-printer do.
func Stringify(v Value) string {
	return v.String()
}

// EvalExpr evaluates a single standalone expression, used by the REPL
// for bare-expression auto-print. A runtime error
// here is returned directly rather than routed through i.reporter,
// since the REPL reports it itself alongside the coloring it applies to
// every other diagnostic.
func (i *Interpreter) EvalExpr(e ast.Expr) (Value, error) {
	return i.evaluate(e)
}
