package interp

import (
	"fmt"
	"math"

	perrors "github.com/pkg/errors"

	"shimmer/internal/errors"
	"shimmer/internal/lexer"
	"shimmer/internal/parser"
)

func (in *Interpreter) evaluate(expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil
	case *parser.Grouping:
		return in.evaluate(e.Expr)
	case *parser.Variable:
		return in.lookUpVariable(e.Name, e)
	case *parser.Assign:
		val, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := in.assignVariable(e.Name, e, val); err != nil {
			return nil, err
		}
		return val, nil
	case *parser.Unary:
		return in.evalUnary(e)
	case *parser.Binary:
		return in.evalBinary(e)
	case *parser.Conditional:
		cond, err := in.evaluate(e.Condition)
		if err != nil {
			return nil, err
		}
		if IsTruthy(cond) {
			return in.evaluate(e.Then)
		}
		return in.evaluate(e.Else)
	case *parser.Call:
		return in.evalCall(e)
	}
	panic(perrors.Errorf("interp: unexpected expression %T", expr))
}

func (in *Interpreter) evalUnary(e *parser.Unary) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case lexer.TokenMinus:
		n, ok := right.(float64)
		if !ok {
			return nil, errors.NewRuntimeError(
				fmt.Sprintf("Bad operand type for unary '%s': '%s'.", e.Operator.Lexeme, TypeName(right)), e.Operator.Line)
		}
		return -n, nil
	case lexer.TokenNot:
		return !IsTruthy(right), nil
	}
	panic(perrors.Errorf("interp: unexpected unary operator %s", e.Operator.Type))
}

func (in *Interpreter) evalBinary(e *parser.Binary) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	// Logical operators return the deciding operand itself.
	switch e.Operator.Type {
	case lexer.TokenAnd:
		if !IsTruthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right)
	case lexer.TokenOr:
		if IsTruthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right)
	}

	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case lexer.TokenComma:
		return right, nil
	case lexer.TokenEqualEq:
		return Equal(left, right), nil
	case lexer.TokenNotEqual:
		return !Equal(left, right), nil
	case lexer.TokenPlus:
		if l, ok := left.(string); ok {
			if r, ok := right.(string); ok {
				return l + r, nil
			}
		}
	}

	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return nil, errors.NewRuntimeError(
			fmt.Sprintf("Unsupported operand type(s) for '%s': '%s' and '%s'.",
				e.Operator.Lexeme, TypeName(left), TypeName(right)),
			e.Operator.Line)
	}

	switch e.Operator.Type {
	case lexer.TokenPlus:
		return l + r, nil
	case lexer.TokenMinus:
		return l - r, nil
	case lexer.TokenStar:
		return l * r, nil
	case lexer.TokenSlash:
		if r == 0 {
			return nil, errors.NewRuntimeError("Division by 0.", e.Operator.Line)
		}
		return l / r, nil
	case lexer.TokenPercent:
		return math.Mod(l, r), nil
	case lexer.TokenLT:
		return l < r, nil
	case lexer.TokenLE:
		return l <= r, nil
	case lexer.TokenGT:
		return l > r, nil
	case lexer.TokenGE:
		return l >= r, nil
	}
	panic(perrors.Errorf("interp: unexpected binary operator %s", e.Operator.Type))
}

func (in *Interpreter) evalCall(e *parser.Call) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := in.evaluate(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	fn, ok := callee.(Function)
	if !ok {
		return nil, errors.NewRuntimeError("Can only call functions.", e.Paren.Line)
	}
	if len(args) != fn.Arity() {
		return nil, errors.NewRuntimeError(
			fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)), e.Paren.Line)
	}

	if in.stopped.Load() {
		return nil, ErrStopped
	}
	in.depth++
	defer func() { in.depth-- }()
	in.logger.Debug("call", "function", fn.Name(), "args", len(args), "depth", in.depth)
	val, err := fn.Call(in, args)
	if err == ErrStopped {
		return nil, err
	}
	if err != nil {
		// Natives fail with plain errors; they are reported at the call site.
		if _, ok := err.(*errors.ShimmerError); !ok {
			return nil, errors.NewRuntimeError(err.Error(), e.Paren.Line)
		}
		return nil, err
	}
	return val, nil
}
