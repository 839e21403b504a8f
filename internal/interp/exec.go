package interp

import (
	"fmt"

	"github.com/pkg/errors"

	"shimmer/internal/parser"
)

type completionKind int

const (
	completionNormal completionKind = iota
	completionBreak
	completionContinue
	completionReturn
)

// completion is how a statement finished. Loops consume break and continue;
// calls consume return.
type completion struct {
	kind  completionKind
	value Value
}

var normal = completion{}

// ErrStopped is returned by a run interrupted with Stop.
var ErrStopped = errors.New("Execution stopped.")

func (in *Interpreter) execute(stmt parser.Stmt) (completion, error) {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		_, err := in.evaluate(s.Expr)
		return normal, err

	case *parser.PrintStmt:
		val, err := in.evaluate(s.Expr)
		if err != nil {
			return normal, err
		}
		fmt.Fprintln(in.out, Stringify(val))
		return normal, nil

	case *parser.VarStmt:
		var val Value
		if s.Initializer != nil {
			var err error
			if val, err = in.evaluate(s.Initializer); err != nil {
				return normal, err
			}
		}
		return normal, in.define(s.Name, val)

	case *parser.BlockStmt:
		return in.executeBlock(s.Stmts, NewEnvironment(in.env))

	case *parser.IfStmt:
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if IsTruthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return normal, nil

	case *parser.WhileStmt:
		return in.executeWhile(s)

	case *parser.DoWhileStmt:
		return in.executeDoWhile(s)

	case *parser.BreakStmt:
		return completion{kind: completionBreak}, nil

	case *parser.ContinueStmt:
		return completion{kind: completionContinue}, nil

	case *parser.ReturnStmt:
		var val Value
		if s.Value != nil {
			var err error
			if val, err = in.evaluate(s.Value); err != nil {
				return normal, err
			}
		}
		return completion{kind: completionReturn, value: val}, nil

	case *parser.FunctionStmt:
		fn := &UserFunction{decl: s, closure: in.env}
		return normal, in.define(s.Name, fn)

	case *parser.SwitchStmt:
		return in.executeSwitch(s)
	}
	panic(errors.Errorf("interp: unexpected statement %T", stmt))
}

// executeBlock runs stmts with env as the current environment and restores
// the previous one on every exit path.
func (in *Interpreter) executeBlock(stmts []parser.Stmt, env *Environment) (completion, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		c, err := in.execute(stmt)
		if err != nil || c.kind != completionNormal {
			return c, err
		}
	}
	return normal, nil
}

func (in *Interpreter) executeWhile(s *parser.WhileStmt) (completion, error) {
	for {
		if in.stopped.Load() {
			return normal, ErrStopped
		}
		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if !IsTruthy(cond) {
			return normal, nil
		}

		c, err := in.execute(s.Body)
		if err != nil {
			return normal, err
		}
		switch c.kind {
		case completionBreak:
			return normal, nil
		case completionReturn:
			return c, nil
		}

		if s.Increment != nil {
			if _, err := in.execute(s.Increment); err != nil {
				return normal, err
			}
		}
	}
}

func (in *Interpreter) executeDoWhile(s *parser.DoWhileStmt) (completion, error) {
	for {
		if in.stopped.Load() {
			return normal, ErrStopped
		}
		c, err := in.execute(s.Body)
		if err != nil {
			return normal, err
		}
		switch c.kind {
		case completionBreak:
			return normal, nil
		case completionReturn:
			return c, nil
		}

		cond, err := in.evaluate(s.Condition)
		if err != nil {
			return normal, err
		}
		if !IsTruthy(cond) {
			return normal, nil
		}
	}
}

// executeSwitch runs the first case equal to the subject, else the default.
// Cases never fall through.
func (in *Interpreter) executeSwitch(s *parser.SwitchStmt) (completion, error) {
	subject, err := in.evaluate(s.Subject)
	if err != nil {
		return normal, err
	}
	for _, c := range s.Cases {
		val, err := in.evaluate(c.Condition)
		if err != nil {
			return normal, err
		}
		if Equal(subject, val) {
			return in.execute(c.Body)
		}
	}
	if s.Default != nil {
		return in.execute(s.Default)
	}
	return normal, nil
}
