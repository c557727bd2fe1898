// Package interp implements environments, runtime values, and the
// tree-walking evaluator. Value is a tagged-variant interface rather
// than bare `any` so Callable/Class/Instance identity and the
// Kind()/String() contract stay explicit at every call site.
package interp

import "fmt"

// Kind identifies a Value's runtime tag.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindClass
	KindInstance
)

// Value is the dynamically-typed runtime value every expression
// evaluates to.
type Value interface {
	Kind() Kind
	String() string
}

// Nil is the single nil value.
type Nil struct{}

func (Nil) Kind() Kind      { return KindNil }
func (Nil) String() string { return "nil" }

// Bool wraps a boolean value.
type Bool struct{ Value bool }

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return fmt.Sprintf("%t", b.Value) }

// Number wraps an IEEE-754 double.
type Number struct{ Value float64 }

func (Number) Kind() Kind { return KindNumber }

// String stringifies a number with no trailing ".0" for whole values,
// at 10 significant digits of precision.
func (n Number) String() string {
	return fmt.Sprintf("%.10g", n.Value)
}

// String is a Lox string value (value semantics).
type String struct{ Value string }

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return s.Value }

// IsTruthy applies Lox truthiness: nil and false are falsey, everything
// else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch t := v.(type) {
	case Nil:
		return false
	case Bool:
		return t.Value
	default:
		return true
	}
}

// Equal implements `==`/`!=` semantics: structural equality for
// Number/String/Bool, Nil equals only Nil, and identity
// (pointer equality via Go's `==` over the boxed value) for
// callables/instances, with no cross-kind equality ever being true.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Nil:
		return true
	case Bool:
		return av.Value == b.(Bool).Value
	case Number:
		return av.Value == b.(Number).Value
	case String:
		return av.Value == b.(String).Value
	default:
		return a == b
	}
}

// TypeName returns the surface-level type name used by the `type`
// native.
func TypeName(v Value) string {
	switch v.(type) {
	case Nil:
		return "nil"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *Function, *Native:
		return "function"
	case *Class:
		return "class"
	case *Instance:
		return "instance"
	default:
		return "unknown"
	}
}
