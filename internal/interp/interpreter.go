package interp

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	perrors "github.com/pkg/errors"

	"shimmer/internal/errors"
	"shimmer/internal/lexer"
	"shimmer/internal/parser"
	"shimmer/internal/resolver"
)

// Interpreter executes resolved programs against a global environment that
// persists across calls to Interpret.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  resolver.Locals

	out    io.Writer
	logger *slog.Logger
	depth  int

	// stopped is set from another goroutine to end a run at the next
	// loop iteration.
	stopped atomic.Bool
}

type Option func(*Interpreter)

// WithOutput sets the sink print writes to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = l
	}
}

func New(opts ...Option) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(resolver.Locals),
		out:     os.Stdout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Globals returns the outermost environment. Native functions are
// registered here before the first run.
func (in *Interpreter) Globals() *Environment {
	return in.globals
}

// Stop makes the current run, and every later one, fail with ErrStopped
// at the next loop iteration. It is safe to call from any goroutine.
func (in *Interpreter) Stop() {
	in.stopped.Store(true)
}

// Interpret runs statements in order and stops at the first runtime error.
// Resolution results accumulate across calls so closures created by an
// earlier run keep their distances.
func (in *Interpreter) Interpret(stmts []parser.Stmt, locals resolver.Locals) error {
	for expr, depth := range locals {
		in.locals[expr] = depth
	}

	in.env = in.globals
	for _, stmt := range stmts {
		if _, err := in.execute(stmt); err != nil {
			in.logger.Debug("runtime error", "error", err)
			return err
		}
	}
	return nil
}

func (in *Interpreter) define(name lexer.Token, val Value) error {
	if err := in.env.Define(name.Lexeme, val); err != nil {
		return in.environmentError(err, name)
	}
	return nil
}

func (in *Interpreter) lookUpVariable(name lexer.Token, expr parser.Expr) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		return in.env.GetAt(distance, name.Lexeme), nil
	}
	val, err := in.globals.Get(name.Lexeme)
	if err != nil {
		return nil, in.environmentError(err, name)
	}
	return val, nil
}

func (in *Interpreter) assignVariable(name lexer.Token, expr parser.Expr, val Value) error {
	if distance, ok := in.locals[expr]; ok {
		in.env.AssignAt(distance, name.Lexeme, val)
		return nil
	}
	if err := in.globals.Assign(name.Lexeme, val); err != nil {
		return in.environmentError(err, name)
	}
	return nil
}

// environmentError turns an environment failure into a runtime diagnostic
// reported at name.
func (in *Interpreter) environmentError(err error, name lexer.Token) error {
	switch perrors.Cause(err) {
	case ErrUndefined:
		return errors.NewRuntimeError(fmt.Sprintf("Undefined variable '%s'.", name.Lexeme), name.Line)
	case ErrRedefined:
		return errors.NewRuntimeError(fmt.Sprintf("Variable '%s' already defined in this scope.", name.Lexeme), name.Line)
	}
	return err
}
