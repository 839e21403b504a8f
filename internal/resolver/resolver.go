// internal/resolver/resolver.go
package resolver

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/stacks/arraystack"

	"shimmer/internal/errors"
	"shimmer/internal/parser"
)

// Locals maps each resolved variable or assignment node to the number of
// scopes between its use and its declaration. Names missing from the map
// are globals.
type Locals map[parser.Expr]int

type functionType int

const (
	noFunction functionType = iota
	inFunction
)

// scope maps a declared name to whether its initializer has finished.
type scope map[string]bool

type Resolver struct {
	scopes    *arraystack.Stack
	locals    Locals
	function  functionType
	loopDepth int

	Errors []error
	errOut io.Writer
}

type Option func(*Resolver)

// WithErrorWriter sets the sink each resolution error is written to.
func WithErrorWriter(w io.Writer) Option {
	return func(r *Resolver) {
		r.errOut = w
	}
}

func New(opts ...Option) *Resolver {
	r := &Resolver{
		scopes: arraystack.New(),
		locals: make(Locals),
		errOut: io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) HadError() bool {
	return len(r.Errors) > 0
}

// Resolve walks a program and returns the scope distance of every local
// variable reference in it. Resolution continues past errors so that all
// of them are reported.
func (r *Resolver) Resolve(stmts []parser.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) resolveStmts(stmts []parser.Stmt) {
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
}

func (r *Resolver) resolveStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		r.resolveExpr(s.Expr)
	case *parser.PrintStmt:
		r.resolveExpr(s.Expr)
	case *parser.VarStmt:
		r.declare(s.Name.Lexeme, s.Name.Line)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name.Lexeme)
	case *parser.BlockStmt:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *parser.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *parser.WhileStmt:
		r.resolveExpr(s.Condition)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
		if s.Increment != nil {
			r.resolveStmt(s.Increment)
		}
	case *parser.DoWhileStmt:
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
		r.resolveExpr(s.Condition)
	case *parser.BreakStmt:
		if r.loopDepth == 0 {
			r.report(s.Keyword.Line, "Must be inside a loop to break.")
		}
	case *parser.ContinueStmt:
		if r.loopDepth == 0 {
			r.report(s.Keyword.Line, "Must be inside a loop to continue.")
		}
	case *parser.ReturnStmt:
		if r.function == noFunction {
			r.report(s.Keyword.Line, "Can't return from top-level code.")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *parser.FunctionStmt:
		// Declared and defined up front so the body can recurse.
		r.declare(s.Name.Lexeme, s.Name.Line)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s)
	case *parser.SwitchStmt:
		r.resolveExpr(s.Subject)
		for _, c := range s.Cases {
			r.resolveExpr(c.Condition)
			r.resolveStmt(c.Body)
		}
		if s.Default != nil {
			r.resolveStmt(s.Default)
		}
	default:
		panic(fmt.Sprintf("resolver: unexpected statement %T", stmt))
	}
}

// resolveFunction resolves parameters and body statements in a single new
// scope, matching the environment a call creates.
func (r *Resolver) resolveFunction(fn *parser.FunctionStmt) {
	enclosingFunction, enclosingLoops := r.function, r.loopDepth
	r.function, r.loopDepth = inFunction, 0
	defer func() {
		r.function, r.loopDepth = enclosingFunction, enclosingLoops
	}()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param.Lexeme, param.Line)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body.Stmts)
	r.endScope()
}

func (r *Resolver) resolveExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.Literal:
	case *parser.Variable:
		if s, ok := r.innermost(); ok {
			if ready, declared := s[e.Name.Lexeme]; declared && !ready {
				r.report(e.Name.Line, fmt.Sprintf("Can't read local variable '%s' in its own initializer.", e.Name.Lexeme))
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)
	case *parser.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)
	case *parser.Unary:
		r.resolveExpr(e.Right)
	case *parser.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *parser.Grouping:
		r.resolveExpr(e.Expr)
	case *parser.Conditional:
		r.resolveExpr(e.Condition)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *parser.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	default:
		panic(fmt.Sprintf("resolver: unexpected expression %T", expr))
	}
}

// resolveLocal records the distance to the innermost scope declaring name.
func (r *Resolver) resolveLocal(expr parser.Expr, name string) {
	// Values lists the innermost scope first.
	for depth, v := range r.scopes.Values() {
		if _, ok := v.(scope)[name]; ok {
			r.locals[expr] = depth
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes.Push(make(scope))
}

func (r *Resolver) endScope() {
	r.scopes.Pop()
}

func (r *Resolver) innermost() (scope, bool) {
	v, ok := r.scopes.Peek()
	if !ok {
		return nil, false
	}
	return v.(scope), true
}

func (r *Resolver) declare(name string, line int) {
	s, ok := r.innermost()
	if !ok {
		return
	}
	if _, exists := s[name]; exists {
		r.report(line, fmt.Sprintf("Variable '%s' already defined in this scope.", name))
	}
	s[name] = false
}

func (r *Resolver) define(name string) {
	if s, ok := r.innermost(); ok {
		s[name] = true
	}
}

func (r *Resolver) report(line int, message string) {
	err := errors.NewResolveError(message, line)
	r.Errors = append(r.Errors, err)
	fmt.Fprintln(r.errOut, err)
}
