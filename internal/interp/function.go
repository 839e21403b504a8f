package interp

import (
	"fmt"

	"shimmer/internal/errors"
	"shimmer/internal/parser"
)

// Function is a callable value. The interpreter checks the argument count
// against Arity before calling.
type Function interface {
	Name() string
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// NativeFn implements a built-in function
type NativeFn func(in *Interpreter, args []Value) (Value, error)

// NativeFunction represents a built-in function
type NativeFunction struct {
	name  string
	arity int
	fn    NativeFn
}

func NewNativeFunction(name string, arity int, fn NativeFn) *NativeFunction {
	return &NativeFunction{name: name, arity: arity, fn: fn}
}

func (n *NativeFunction) Name() string { return n.name }
func (n *NativeFunction) Arity() int   { return n.arity }

func (n *NativeFunction) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}

func (n *NativeFunction) String() string {
	return fmt.Sprintf("<native %s>", n.name)
}

// UserFunction is a function declared in source, closed over the
// environment active at its declaration.
type UserFunction struct {
	decl    *parser.FunctionStmt
	closure *Environment
}

func (f *UserFunction) Name() string { return f.decl.Name.Lexeme }
func (f *UserFunction) Arity() int   { return len(f.decl.Params) }

func (f *UserFunction) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		if err := env.Define(param.Lexeme, args[i]); err != nil {
			return nil, errors.NewRuntimeError(
				fmt.Sprintf("Variable '%s' already defined in this scope.", param.Lexeme), param.Line)
		}
	}

	c, err := in.executeBlock(f.decl.Body.Stmts, env)
	if err != nil {
		return nil, err
	}
	if c.kind == completionReturn {
		return c.value, nil
	}
	return nil, nil
}

func (f *UserFunction) String() string {
	return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme)
}
