package interp

import (
	"fmt"

	"glox/internal/ast"
)

// Callable is any Value that can appear on the left of a Call
// expression: native builtins, user functions, and classes (whose call
// constructs an instance).
type Callable interface {
	Value
	Arity() int
	Call(i *Interpreter, args []Value) (Value, error)
}

// Function is a user-defined function or method, capturing the
// environment active at its declaration site as its closure.
type Function struct {
	Decl          *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (*Function) Kind() Kind { return KindFunction }
func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme)
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

// Call runs the function body in a fresh environment whose enclosing
// scope is the closure: missing args bind to Nil, a normal fall-through
// returns Nil (or `self` for an initializer), and a `return` unwind is
// caught here.
func (f *Function) Call(i *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for idx, param := range f.Decl.Params {
		var arg Value = Nil{}
		if idx < len(args) {
			arg = args[idx]
		}
		env.Define(param.Lexeme, arg)
	}

	err := i.executeBlock(f.Decl.Body, env)
	if ret, ok := err.(returnSignal); ok {
		if f.IsInitializer {
			return f.Closure.GetAt(0, "self"), nil
		}
		return ret.value, nil
	}
	if err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "self"), nil
	}
	return Nil{}, nil
}

// bind returns a copy of f whose closure additionally binds `self` to
// instance, used both for ordinary method lookup (Get) and for
// `super.method` resolution.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("self", instance)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// Native is a built-in callable backed by a Go function rather than an
// ast.Function, e.g. clock/str/type.
type Native struct {
	Name    string
	NumArgs int
	Fn      func(i *Interpreter, args []Value) (Value, error)
}

func (*Native) Kind() Kind       { return KindFunction }
func (n *Native) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }
func (n *Native) Arity() int     { return n.NumArgs }
func (n *Native) Call(i *Interpreter, args []Value) (Value, error) {
	return n.Fn(i, args)
}
