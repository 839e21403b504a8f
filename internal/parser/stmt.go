// internal/parser/stmt.go
package parser

import (
	"fmt"
	"strings"

	"shimmer/internal/lexer"
)

// Stmt is implemented by every statement node.
type Stmt interface {
	fmt.Stringer
	stmtNode()
}

// ExpressionStmt wraps a raw expression as a statement.
type ExpressionStmt struct {
	Expr Expr
}

// PrintStmt wraps an expression to print.
type PrintStmt struct {
	Expr Expr
}

// VarStmt represents a variable declaration: var x = expr;
// Initializer is nil when omitted.
type VarStmt struct {
	Name        lexer.Token
	Initializer Expr
}

// BlockStmt opens a new scope around its statements.
type BlockStmt struct {
	Stmts []Stmt
}

type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

// WhileStmt is also the target of for-loop desugaring, in which case
// Increment holds the loop's increment clause. The increment runs after
// every iteration, including one cut short by continue.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
	Increment Stmt
}

type DoWhileStmt struct {
	Body      Stmt
	Condition Expr
}

type BreakStmt struct {
	Keyword lexer.Token
}

type ContinueStmt struct {
	Keyword lexer.Token
}

// ReturnStmt represents a return statement. Value is nil for a bare return.
type ReturnStmt struct {
	Keyword lexer.Token
	Value   Expr
}

// FunctionStmt represents a function declaration.
type FunctionStmt struct {
	Name   lexer.Token
	Params []lexer.Token
	Body   *BlockStmt
}

type CaseClause struct {
	Condition Expr
	Body      Stmt
}

// SwitchStmt runs the first case whose condition equals Subject, or Default.
type SwitchStmt struct {
	Subject Expr
	Cases   []CaseClause
	Default Stmt
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*DoWhileStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()      {}
func (*ContinueStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*FunctionStmt) stmtNode()   {}
func (*SwitchStmt) stmtNode()     {}

func (e *ExpressionStmt) String() string {
	return fmt.Sprintf("(expr %s)", e.Expr)
}

func (p *PrintStmt) String() string {
	return fmt.Sprintf("(print %s)", p.Expr)
}

func (v *VarStmt) String() string {
	if v.Initializer == nil {
		return fmt.Sprintf("(var %s)", v.Name.Lexeme)
	}
	return fmt.Sprintf("(var %s %s)", v.Name.Lexeme, v.Initializer)
}

func (b *BlockStmt) String() string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, stmt := range b.Stmts {
		sb.WriteByte(' ')
		sb.WriteString(stmt.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (i *IfStmt) String() string {
	if i.Else == nil {
		return fmt.Sprintf("(if %s %s)", i.Condition, i.Then)
	}
	return fmt.Sprintf("(if %s %s %s)", i.Condition, i.Then, i.Else)
}

func (w *WhileStmt) String() string {
	if w.Increment == nil {
		return fmt.Sprintf("(while %s %s)", w.Condition, w.Body)
	}
	return fmt.Sprintf("(while %s %s %s)", w.Condition, w.Body, w.Increment)
}

func (d *DoWhileStmt) String() string {
	return fmt.Sprintf("(do %s %s)", d.Body, d.Condition)
}

func (*BreakStmt) String() string    { return "(break)" }
func (*ContinueStmt) String() string { return "(continue)" }

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %s)", r.Value)
}

func (f *FunctionStmt) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}
	return fmt.Sprintf("(function %s (%s) %s)", f.Name.Lexeme, strings.Join(params, " "), f.Body)
}

func (s *SwitchStmt) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "(switch %s", s.Subject)
	for _, c := range s.Cases {
		fmt.Fprintf(&sb, " (case %s %s)", c.Condition, c.Body)
	}
	if s.Default != nil {
		fmt.Fprintf(&sb, " (default %s)", s.Default)
	}
	sb.WriteByte(')')
	return sb.String()
}
