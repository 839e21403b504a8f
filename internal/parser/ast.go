package parser

import (
	"fmt"
	"strconv"
	"strings"

	"shimmer/internal/lexer"
)

// Expr is implemented by every expression node. Nodes are always handled by
// pointer, so a node's address is its identity.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// Literal expression: 1, "abc", true, nil.
// Value holds a float64, string, bool or nil.
type Literal struct {
	Value interface{}
}

// Unary expression: !x, -x
type Unary struct {
	Operator lexer.Token
	Right    Expr
}

// Binary expression: a + b. Logical and comma operators are binaries too.
type Binary struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

// Grouping expression: (a)
type Grouping struct {
	Expr Expr
}

// Conditional expression: cond ? a : b
type Conditional struct {
	Condition Expr
	Then      Expr
	Else      Expr
}

// Assignment expression: x = 42
type Assign struct {
	Name  lexer.Token
	Value Expr
}

// Variable expression: x
type Variable struct {
	Name lexer.Token
}

// Call expression: callee(args...). Paren is the closing parenthesis.
type Call struct {
	Callee Expr
	Paren  lexer.Token
	Args   []Expr
}

func (*Literal) exprNode()     {}
func (*Unary) exprNode()       {}
func (*Binary) exprNode()      {}
func (*Grouping) exprNode()    {}
func (*Conditional) exprNode() {}
func (*Assign) exprNode()      {}
func (*Variable) exprNode()    {}
func (*Call) exprNode()        {}

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprintf("%v", l.Value)
}

func (u *Unary) String() string {
	return fmt.Sprintf("(%s %s)", u.Operator.Lexeme, u.Right)
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator.Lexeme, b.Right)
}

func (g *Grouping) String() string {
	return fmt.Sprintf("(group %s)", g.Expr)
}

func (c *Conditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Condition, c.Then, c.Else)
}

func (a *Assign) String() string {
	return fmt.Sprintf("(%s = %s)", a.Name.Lexeme, a.Value)
}

func (v *Variable) String() string {
	return v.Name.Lexeme
}

func (c *Call) String() string {
	var sb strings.Builder
	sb.WriteString("(call ")
	sb.WriteString(c.Callee.String())
	for _, arg := range c.Args {
		sb.WriteByte(' ')
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
