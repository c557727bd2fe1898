// Package resolver performs the static scope-distance analysis that
// lets the interpreter jump straight to the right environment for each
// variable reference instead of walking the enclosing chain by name.
// It tracks a scope stack plus the enclosing function/class kind so it
// can reject `return`, `self`, and `super` where they don't belong, and
// reports errors through internal/diag instead of exiting the process.
package resolver

import (
	"glox/internal/ast"
	"glox/internal/diag"
	"glox/internal/token"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Resolver walks an already-parsed program and records, for every
// non-global variable use, how many enclosing scopes to skip.
type Resolver struct {
	reporter *diag.Reporter

	locals map[ast.Expr]int
	scopes []map[string]bool

	currentFunction functionType
	currentClass    classType
}

// New creates a Resolver that reports static errors to reporter.
func New(reporter *diag.Reporter) *Resolver {
	return &Resolver{reporter: reporter, locals: make(map[ast.Expr]int)}
}

// Resolve walks every statement in program. Call Locals afterward (and
// check reporter.HadError first) to retrieve the resolution map.
func (r *Resolver) Resolve(program []ast.Stmt) {
	r.resolveStmts(program)
}

// Locals returns the resolution map: expression identity -> scope hops.
// Expressions absent from the map resolve against globals.
func (r *Resolver) Locals() map[ast.Expr]int {
	return r.locals
}

// ResolveExpr resolves a single standalone expression, used by the REPL
// for bare-expression auto-print.
func (r *Resolver) ResolveExpr(e ast.Expr) {
	r.resolveExpr(e)
}

// SetReporter rebinds the reporter static errors are sent to. The REPL
// uses this to give each line its own Reporter while reusing one
// Resolver (and its accumulated scope state) across the whole session.
func (r *Resolver) SetReporter(reporter *diag.Reporter) {
	r.reporter = reporter
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(n.Stmts)
		r.endScope()

	case *ast.Class:
		r.resolveClass(n)

	case *ast.Var:
		r.declare(n.Name)
		if n.Initializer != nil {
			r.resolveExpr(n.Initializer)
		}
		r.define(n.Name)

	case *ast.Function:
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n, fnFunction)

	case *ast.Expression:
		r.resolveExpr(n.Expr)

	case *ast.If:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}

	case *ast.Print:
		r.resolveExpr(n.Expr)

	case *ast.Return:
		if r.currentFunction == fnNone {
			r.reporter.ErrorAtToken(diag.Resolve, n.Keyword, "Can't return from top-level code.")
		}
		if n.Value != nil {
			if r.currentFunction == fnInitializer {
				r.reporter.ErrorAtToken(diag.Resolve, n.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(n.Value)
		}

	case *ast.While:
		r.resolveExpr(n.Condition)
		r.resolveStmt(n.Body)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.reporter.ErrorAtToken(diag.Resolve, c.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["self"] = true

	for _, method := range c.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][n.Name.Lexeme]; declared && !defined {
				r.reporter.ErrorAtToken(diag.Resolve, n.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(n, n.Name)

	case *ast.Assign:
		r.resolveExpr(n.Value)
		r.resolveLocal(n, n.Name)

	case *ast.Binary:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.Logical:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.Call:
		r.resolveExpr(n.Callee)
		for _, a := range n.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(n.Object)

	case *ast.Set:
		r.resolveExpr(n.Value)
		r.resolveExpr(n.Object)

	case *ast.Grouping:
		r.resolveExpr(n.Inner)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Unary:
		r.resolveExpr(n.Right)

	case *ast.Self:
		if r.currentClass == classNone {
			r.reporter.ErrorAtToken(diag.Resolve, n.Keyword, "Can't use 'self' outside of a class.")
			return
		}
		r.resolveLocal(n, n.Keyword)

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.reporter.ErrorAtToken(diag.Resolve, n.Keyword, "Can't use 'super' outside of a class.")
			return
		case classClass:
			r.reporter.ErrorAtToken(diag.Resolve, n.Keyword, "Can't use 'super' in a class with no superclass.")
			return
		}
		r.resolveLocal(n, n.Keyword)

	default:
		panic("resolver: unhandled expression type")
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reporter.ErrorAtToken(diag.Resolve, name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack innermost-out and, on the first
// match, records how many scopes back the binding was found.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any local scope: resolves against globals
}
