// internal/parser/parser.go
package parser

import (
	"fmt"
	"io"
	"strconv"

	"shimmer/internal/errors"
	"shimmer/internal/lexer"
)

// MaxArguments caps both call arguments and declared parameters.
const MaxArguments = 255

// Binary operator precedence above the ternary conditional; higher binds tighter.
var precedence = map[lexer.TokenType]int{
	lexer.TokenOr:       1,
	lexer.TokenAnd:      2,
	lexer.TokenEqualEq:  3,
	lexer.TokenNotEqual: 3,
	lexer.TokenLT:       4,
	lexer.TokenLE:       4,
	lexer.TokenGT:       4,
	lexer.TokenGE:       4,
	lexer.TokenPlus:     5,
	lexer.TokenMinus:    5,
	lexer.TokenPercent:  5,
	lexer.TokenStar:     6,
	lexer.TokenSlash:    6,
}

// bailout unwinds the parser to the enclosing declaration after an error
// has been reported.
type bailout struct{}

type Parser struct {
	scanner *lexer.Scanner
	curr    lexer.Token
	prev    lexer.Token

	Errors []error
	errOut io.Writer

	maxArgs    int
	loopDepth  int
	blockDepth int
	// consumed counts tokens moved past, for recovery progress.
	consumed int
}

type Option func(*Parser)

// WithErrorWriter sets the sink each syntax error is written to as it is found.
func WithErrorWriter(w io.Writer) Option {
	return func(p *Parser) {
		p.errOut = w
	}
}

func WithMaxArguments(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxArgs = n
		}
	}
}

func NewParser(source string, opts ...Option) *Parser {
	p := &Parser{
		scanner: lexer.NewScanner(source),
		errOut:  io.Discard,
		maxArgs: MaxArguments,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.next()
	return p
}

func (p *Parser) HadError() bool {
	return len(p.Errors) > 0
}

// Parse parses the whole program. Statements that failed to parse are left
// out; check HadError before using the result.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *Parser) declaration() (stmt Stmt) {
	mark := p.consumed
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			p.synchronize(mark)
			stmt = nil
		}
	}()

	if p.match(lexer.TokenVar) {
		return p.varDeclaration()
	}
	if p.match(lexer.TokenFunction) {
		return p.function()
	}
	return p.statement()
}

func (p *Parser) varDeclaration() Stmt {
	name := p.consume(lexer.TokenIdent, "Expected variable name.")
	var initializer Expr
	if p.match(lexer.TokenEqual) {
		initializer = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) function() Stmt {
	name := p.consume(lexer.TokenIdent, "Expect function name.")
	p.consume(lexer.TokenLParen, "Expect '(' after function name.")

	var params []lexer.Token
	if !p.check(lexer.TokenRParen) {
		for {
			if len(params) >= p.maxArgs {
				p.errorAt(p.curr, fmt.Sprintf("Exceeded maximum of %d parameters.", p.maxArgs))
			}
			params = append(params, p.consume(lexer.TokenIdent, "Expect parameter name."))
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRParen, "Expect ')' after parameters.")
	p.consume(lexer.TokenLBrace, "Expect '{' before function body.")

	// A loop around the declaration does not make break legal in the body.
	enclosingLoops := p.loopDepth
	p.loopDepth = 0
	defer func() { p.loopDepth = enclosingLoops }()

	body := p.block()
	return &FunctionStmt{Name: name, Params: params, Body: body}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(lexer.TokenPrint):
		return p.printStatement()
	case p.match(lexer.TokenLBrace):
		return p.block()
	case p.match(lexer.TokenIf):
		return p.ifStatement()
	case p.match(lexer.TokenSwitch):
		return p.switchStatement()
	case p.match(lexer.TokenWhile):
		return p.whileStatement()
	case p.match(lexer.TokenFor):
		return p.forStatement()
	case p.match(lexer.TokenDo):
		return p.doWhileStatement()
	case p.match(lexer.TokenBreak):
		return p.breakStatement()
	case p.match(lexer.TokenContinue):
		return p.continueStatement()
	case p.match(lexer.TokenReturn):
		return p.returnStatement()
	}
	return p.expressionStatement()
}

func (p *Parser) printStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after print expression.")
	return &PrintStmt{Expr: expr}
}

// block parses the statements after an opening brace, up to and including
// the closing one.
func (p *Parser) block() *BlockStmt {
	p.blockDepth++
	defer func() { p.blockDepth-- }()

	var stmts []Stmt
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(lexer.TokenRBrace, "Expect '}' at end of block.")
	return &BlockStmt{Stmts: stmts}
}

func (p *Parser) ifStatement() Stmt {
	p.consume(lexer.TokenLParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after 'if' condition.")

	then := p.statement()
	var elseBranch Stmt
	if p.match(lexer.TokenElse) {
		elseBranch = p.statement()
	}
	return &IfStmt{Condition: condition, Then: then, Else: elseBranch}
}

func (p *Parser) switchStatement() Stmt {
	p.consume(lexer.TokenLParen, "Expect '(' after 'switch'.")
	subject := p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after 'switch' expression.")
	p.consume(lexer.TokenLBrace, "Expect '{' at start of 'switch' body.")

	var cases []CaseClause
	for p.match(lexer.TokenCase) {
		condition := p.expression()
		p.consume(lexer.TokenColon, "Expect ':' after 'case' expression.")
		cases = append(cases, CaseClause{Condition: condition, Body: p.statement()})
	}

	var defaultCase Stmt
	if p.match(lexer.TokenDefault) {
		p.consume(lexer.TokenColon, "Expect ':' after 'default'.")
		defaultCase = p.statement()
	}
	p.consume(lexer.TokenRBrace, "Expect '}' at end of 'switch' body.")
	return &SwitchStmt{Subject: subject, Cases: cases, Default: defaultCase}
}

func (p *Parser) whileStatement() Stmt {
	p.consume(lexer.TokenLParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after 'while' condition.")
	return &WhileStmt{Condition: condition, Body: p.loopBody()}
}

// forStatement desugars for (init; cond; incr) body into
// { init; while (cond) body } with the increment attached to the while.
func (p *Parser) forStatement() Stmt {
	p.consume(lexer.TokenLParen, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(lexer.TokenSemicolon):
	case p.match(lexer.TokenVar):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition Expr = &Literal{Value: true}
	if !p.check(lexer.TokenSemicolon) {
		condition = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after 'for' condition.")

	var increment Stmt
	if !p.check(lexer.TokenRParen) {
		increment = &ExpressionStmt{Expr: p.expression()}
	}
	p.consume(lexer.TokenRParen, "Expect ')' after 'for' clauses.")

	loop := &WhileStmt{Condition: condition, Body: p.loopBody(), Increment: increment}
	if initializer == nil {
		return loop
	}
	return &BlockStmt{Stmts: []Stmt{initializer, loop}}
}

func (p *Parser) doWhileStatement() Stmt {
	body := p.loopBody()
	p.consume(lexer.TokenWhile, "Expect 'while' after 'do' body.")
	p.consume(lexer.TokenLParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after 'while' condition.")
	p.consume(lexer.TokenSemicolon, "Expect ';' after 'do-while' condition.")
	return &DoWhileStmt{Body: body, Condition: condition}
}

func (p *Parser) loopBody() Stmt {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.statement()
}

func (p *Parser) breakStatement() Stmt {
	keyword := p.prev
	if p.loopDepth == 0 {
		p.errorAt(keyword, "Must be inside a loop to break.")
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after 'break'.")
	return &BreakStmt{Keyword: keyword}
}

func (p *Parser) continueStatement() Stmt {
	keyword := p.prev
	if p.loopDepth == 0 {
		p.errorAt(keyword, "Must be inside a loop to continue.")
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after 'continue'.")
	return &ContinueStmt{Keyword: keyword}
}

func (p *Parser) returnStatement() Stmt {
	keyword := p.prev
	var value Expr
	if !p.check(lexer.TokenSemicolon) {
		value = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' at end of 'return' statement.")
	return &ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after previous expression.")
	return &ExpressionStmt{Expr: expr}
}

// --- Expression Parsing with Precedence ---

func (p *Parser) expression() Expr {
	expr := p.assignment()
	for p.match(lexer.TokenComma) {
		op := p.prev
		right := p.assignment()
		expr = &Binary{Left: expr, Operator: op, Right: right}
	}
	return expr
}

func (p *Parser) assignment() Expr {
	expr := p.conditional()
	if !p.check(lexer.TokenEqual) {
		return expr
	}
	target := p.prev
	p.advance()
	value := p.assignment()

	if v, ok := expr.(*Variable); ok {
		return &Assign{Name: v.Name, Value: value}
	}
	p.errorAt(target, "Invalid assignment target.")
	return expr
}

func (p *Parser) conditional() Expr {
	expr := p.parseBinary(1)
	if !p.match(lexer.TokenQuestion) {
		return expr
	}
	then := p.expression()
	p.consume(lexer.TokenColon, "Expect ':' after truthy branch of conditional.")
	return &Conditional{Condition: expr, Then: then, Else: p.conditional()}
}

func (p *Parser) parseBinary(minPrec int) Expr {
	left := p.unary()
	for {
		tok := p.curr
		prec, ok := precedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		left = &Binary{
			Left:     left,
			Operator: tok,
			Right:    right,
		}
	}
	return left
}

func (p *Parser) unary() Expr {
	if p.match(lexer.TokenNot, lexer.TokenMinus) {
		operator := p.prev
		return &Unary{Operator: operator, Right: p.unary()}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	expr := p.primary()
	for p.match(lexer.TokenLParen) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(lexer.TokenRParen) {
		for {
			if len(args) >= p.maxArgs {
				p.errorAt(p.curr, fmt.Sprintf("Exceeded maximum of %d arguments.", p.maxArgs))
			}
			args = append(args, p.assignment())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	paren := p.consume(lexer.TokenRParen, "Expect ')' after arguments.")
	return &Call{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(lexer.TokenNumber):
		val, err := strconv.ParseFloat(p.prev.Lexeme, 64)
		if err != nil {
			p.errorAt(p.prev, "Invalid number literal.")
		}
		return &Literal{Value: val}
	case p.match(lexer.TokenString):
		lexeme := p.prev.Lexeme
		return &Literal{Value: lexeme[1 : len(lexeme)-1]}
	case p.match(lexer.TokenTrue):
		return &Literal{Value: true}
	case p.match(lexer.TokenFalse):
		return &Literal{Value: false}
	case p.match(lexer.TokenNil):
		return &Literal{Value: nil}
	case p.match(lexer.TokenIdent):
		return &Variable{Name: p.prev}
	case p.match(lexer.TokenLParen):
		expr := p.expression()
		p.consume(lexer.TokenRParen, "Expected ')' after previous expression.")
		return &Grouping{Expr: expr}
	}
	p.errorAt(p.curr, "Expected expression.")
	panic(bailout{})
}

// --- Error recovery ---

// synchronize discards tokens until a statement boundary: just past a ';'
// or '}', before a statement keyword, or before the '}' closing the
// enclosing block. mark is the token count when the failed declaration
// started; a ';' or '}' consumed before it does not count, so every
// recovery moves past at least one token.
func (p *Parser) synchronize(mark int) {
	for !p.isAtEnd() {
		switch {
		case p.consumed > mark && (p.prev.Type == lexer.TokenSemicolon || p.prev.Type == lexer.TokenRBrace):
			return
		case lexer.StartsStatement(p.curr.Type):
			return
		case p.blockDepth > 0 && p.curr.Type == lexer.TokenRBrace:
			return
		}
		p.next()
	}
}

func (p *Parser) errorAt(tok lexer.Token, message string) {
	var where string
	switch tok.Type {
	case lexer.TokenEOF:
		where = " at end"
	case lexer.TokenError:
	default:
		where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	err := errors.NewSyntaxError(message, where, tok.Line, tok.Column)
	p.Errors = append(p.Errors, err)
	fmt.Fprintln(p.errOut, err)
}

// --- Utility methods ---

// next moves to the following token, reporting and skipping scanner error
// tokens. It reports whether any were skipped.
func (p *Parser) next() bool {
	p.prev = p.curr
	p.consumed++
	skipped := false
	for {
		p.curr = p.scanner.NextToken()
		if p.curr.Type != lexer.TokenError {
			return skipped
		}
		p.errorAt(p.curr, p.curr.Lexeme)
		skipped = true
	}
}

// advance consumes the current token and returns it. Running into a scanner
// error abandons the statement being parsed, unless tok just finished it.
func (p *Parser) advance() lexer.Token {
	tok := p.curr
	if p.next() && tok.Type != lexer.TokenSemicolon && tok.Type != lexer.TokenRBrace {
		panic(bailout{})
	}
	return tok
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	p.errorAt(p.curr, msg)
	panic(bailout{})
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.curr.Type == t
}

func (p *Parser) isAtEnd() bool {
	return p.curr.Type == lexer.TokenEOF
}
