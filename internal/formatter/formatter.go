package formatter

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"shimmer/internal/parser"
)

// Formatter prints a parsed program back as canonical source. Parsing the
// output yields a tree equal to the input.
type Formatter struct {
	indent    int
	indentStr string
	output    strings.Builder
	lineBreak string
}

func NewFormatter() *Formatter {
	return &Formatter{
		indentStr: "    ",
		lineBreak: "\n",
	}
}

// Source parses and formats source. Syntax errors are returned, not written.
func Source(source string) (string, error) {
	p := parser.NewParser(source)
	stmts := p.Parse()
	if p.HadError() {
		return "", errors.Wrap(p.Errors[0], "format")
	}
	return NewFormatter().Format(stmts), nil
}

func (f *Formatter) Format(stmts []parser.Stmt) string {
	f.output.Reset()
	f.indent = 0

	for i, stmt := range stmts {
		f.writeIndent()
		f.formatStmt(stmt)
		f.output.WriteString(f.lineBreak)
		if i < len(stmts)-1 && f.needsBlankLine(stmt, stmts[i+1]) {
			f.output.WriteString(f.lineBreak)
		}
	}

	return f.output.String()
}

func (f *Formatter) needsBlankLine(curr, next parser.Stmt) bool {
	_, currIsFunc := curr.(*parser.FunctionStmt)
	_, nextIsFunc := next.(*parser.FunctionStmt)
	return currIsFunc || nextIsFunc
}

func (f *Formatter) writeIndent() {
	for i := 0; i < f.indent; i++ {
		f.output.WriteString(f.indentStr)
	}
}

// forLoop recognizes the block a for statement with an initializer turns into.
func forLoop(b *parser.BlockStmt) (parser.Stmt, *parser.WhileStmt, bool) {
	if len(b.Stmts) != 2 {
		return nil, nil, false
	}
	loop, ok := b.Stmts[1].(*parser.WhileStmt)
	if !ok || loop.Increment == nil {
		return nil, nil, false
	}
	switch b.Stmts[0].(type) {
	case *parser.VarStmt, *parser.ExpressionStmt:
		return b.Stmts[0], loop, true
	}
	return nil, nil, false
}

// formatStmt writes stmt starting at the current position, without a
// leading indent or trailing line break.
func (f *Formatter) formatStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.VarStmt:
		f.output.WriteString("var ")
		f.output.WriteString(s.Name.Lexeme)
		if s.Initializer != nil {
			f.output.WriteString(" = ")
			f.formatExpr(s.Initializer)
		}
		f.output.WriteString(";")

	case *parser.ExpressionStmt:
		f.formatExpr(s.Expr)
		f.output.WriteString(";")

	case *parser.PrintStmt:
		f.output.WriteString("print ")
		f.formatExpr(s.Expr)
		f.output.WriteString(";")

	case *parser.BlockStmt:
		if init, loop, ok := forLoop(s); ok {
			f.formatFor(init, loop)
			return
		}
		f.formatBlock(s.Stmts)

	case *parser.FunctionStmt:
		f.output.WriteString("function ")
		f.output.WriteString(s.Name.Lexeme)
		f.output.WriteString("(")
		for i, param := range s.Params {
			if i > 0 {
				f.output.WriteString(", ")
			}
			f.output.WriteString(param.Lexeme)
		}
		f.output.WriteString(") ")
		f.formatBlock(s.Body.Stmts)

	case *parser.ReturnStmt:
		f.output.WriteString("return")
		if s.Value != nil {
			f.output.WriteString(" ")
			f.formatExpr(s.Value)
		}
		f.output.WriteString(";")

	case *parser.IfStmt:
		f.output.WriteString("if (")
		f.formatExpr(s.Condition)
		f.output.WriteString(")")
		f.formatBody(s.Then)
		if s.Else != nil {
			if _, ok := s.Then.(*parser.BlockStmt); ok {
				f.output.WriteString(" ")
			} else {
				f.output.WriteString(f.lineBreak)
				f.writeIndent()
			}
			f.output.WriteString("else")
			if elseIf, ok := s.Else.(*parser.IfStmt); ok {
				f.output.WriteString(" ")
				f.formatStmt(elseIf)
				return
			}
			f.formatBody(s.Else)
		}

	case *parser.WhileStmt:
		if s.Increment != nil {
			f.formatFor(nil, s)
			return
		}
		f.output.WriteString("while (")
		f.formatExpr(s.Condition)
		f.output.WriteString(")")
		f.formatBody(s.Body)

	case *parser.DoWhileStmt:
		f.output.WriteString("do")
		f.formatBody(s.Body)
		if _, ok := s.Body.(*parser.BlockStmt); ok {
			f.output.WriteString(" ")
		} else {
			f.output.WriteString(f.lineBreak)
			f.writeIndent()
		}
		f.output.WriteString("while (")
		f.formatExpr(s.Condition)
		f.output.WriteString(");")

	case *parser.SwitchStmt:
		f.output.WriteString("switch (")
		f.formatExpr(s.Subject)
		f.output.WriteString(") {")
		f.output.WriteString(f.lineBreak)
		f.indent++
		for _, c := range s.Cases {
			f.writeIndent()
			f.output.WriteString("case ")
			f.formatExpr(c.Condition)
			f.output.WriteString(":")
			f.formatBody(c.Body)
			f.output.WriteString(f.lineBreak)
		}
		if s.Default != nil {
			f.writeIndent()
			f.output.WriteString("default:")
			f.formatBody(s.Default)
			f.output.WriteString(f.lineBreak)
		}
		f.indent--
		f.writeIndent()
		f.output.WriteString("}")

	case *parser.BreakStmt:
		f.output.WriteString("break;")

	case *parser.ContinueStmt:
		f.output.WriteString("continue;")

	default:
		panic(errors.Errorf("formatter: unexpected statement %T", stmt))
	}
}

func (f *Formatter) formatFor(init parser.Stmt, loop *parser.WhileStmt) {
	f.output.WriteString("for (")
	if init != nil {
		f.formatStmt(init)
	} else {
		f.output.WriteString(";")
	}
	f.output.WriteString(" ")
	f.formatExpr(loop.Condition)
	f.output.WriteString("; ")
	if inc, ok := loop.Increment.(*parser.ExpressionStmt); ok {
		f.formatExpr(inc.Expr)
	}
	f.output.WriteString(")")
	f.formatBody(loop.Body)
}

// formatBody writes the body of a control statement: blocks stay on the
// same line, anything else goes on its own indented line.
func (f *Formatter) formatBody(body parser.Stmt) {
	if b, ok := body.(*parser.BlockStmt); ok {
		if _, _, isFor := forLoop(b); !isFor {
			f.output.WriteString(" ")
			f.formatBlock(b.Stmts)
			return
		}
	}
	f.output.WriteString(f.lineBreak)
	f.indent++
	f.writeIndent()
	f.formatStmt(body)
	f.indent--
}

func (f *Formatter) formatBlock(stmts []parser.Stmt) {
	if len(stmts) == 0 {
		f.output.WriteString("{}")
		return
	}
	f.output.WriteString("{")
	f.output.WriteString(f.lineBreak)
	f.indent++
	for _, stmt := range stmts {
		f.writeIndent()
		f.formatStmt(stmt)
		f.output.WriteString(f.lineBreak)
	}
	f.indent--
	f.writeIndent()
	f.output.WriteString("}")
}

func (f *Formatter) formatExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.Binary:
		f.formatExpr(e.Left)
		if e.Operator.Lexeme != "," {
			f.output.WriteString(" ")
		}
		f.output.WriteString(e.Operator.Lexeme)
		f.output.WriteString(" ")
		f.formatExpr(e.Right)

	case *parser.Literal:
		switch v := e.Value.(type) {
		case string:
			f.output.WriteString("\"")
			f.output.WriteString(v)
			f.output.WriteString("\"")
		case float64:
			f.output.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			f.output.WriteString(strconv.FormatBool(v))
		case nil:
			f.output.WriteString("nil")
		}

	case *parser.Unary:
		f.output.WriteString(e.Operator.Lexeme)
		f.formatExpr(e.Right)

	case *parser.Grouping:
		f.output.WriteString("(")
		f.formatExpr(e.Expr)
		f.output.WriteString(")")

	case *parser.Conditional:
		f.formatExpr(e.Condition)
		f.output.WriteString(" ? ")
		f.formatExpr(e.Then)
		f.output.WriteString(" : ")
		f.formatExpr(e.Else)

	case *parser.Variable:
		f.output.WriteString(e.Name.Lexeme)

	case *parser.Assign:
		f.output.WriteString(e.Name.Lexeme)
		f.output.WriteString(" = ")
		f.formatExpr(e.Value)

	case *parser.Call:
		f.formatExpr(e.Callee)
		f.output.WriteString("(")
		for i, arg := range e.Args {
			if i > 0 {
				f.output.WriteString(", ")
			}
			f.formatExpr(arg)
		}
		f.output.WriteString(")")

	default:
		panic(errors.Errorf("formatter: unexpected expression %T", expr))
	}
}
