package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Scanner turns source text into tokens one at a time. After the end of
// input every call to NextToken returns a TokenEOF token.
type Scanner struct {
	source  string
	start   int
	current int
	line    int
	column  int

	startLine   int
	startColumn int
}

func NewScanner(source string) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
		column: 1,
	}
}

// ScanTokens drains the scanner, including the trailing EOF token.
func (s *Scanner) ScanTokens() []Token {
	var tokens []Token
	for {
		tok := s.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (s *Scanner) NextToken() Token {
	if tok, ok := s.sanitize(); !ok {
		return tok
	}
	s.mark()
	if s.isAtEnd() {
		return s.addToken(TokenEOF)
	}

	c := s.advance()
	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.addToken(TokenLParen)
	case ')':
		return s.addToken(TokenRParen)
	case '{':
		return s.addToken(TokenLBrace)
	case '}':
		return s.addToken(TokenRBrace)
	case '+':
		return s.addToken(TokenPlus)
	case '-':
		return s.addToken(TokenMinus)
	case '*':
		return s.addToken(TokenStar)
	case '/':
		return s.addToken(TokenSlash)
	case '%':
		return s.addToken(TokenPercent)
	case ',':
		return s.addToken(TokenComma)
	case ':':
		return s.addToken(TokenColon)
	case '?':
		return s.addToken(TokenQuestion)
	case ';':
		return s.addToken(TokenSemicolon)
	case '=':
		if s.match('=') {
			return s.addToken(TokenEqualEq)
		}
		return s.addToken(TokenEqual)
	case '!':
		if s.match('=') {
			return s.addToken(TokenNotEqual)
		}
		return s.addToken(TokenNot)
	case '<':
		if s.match('=') {
			return s.addToken(TokenLE)
		}
		return s.addToken(TokenLT)
	case '>':
		if s.match('=') {
			return s.addToken(TokenGE)
		}
		return s.addToken(TokenGT)
	case '&':
		if s.match('&') {
			return s.addToken(TokenAnd)
		}
		return s.errorToken("'&' not supported. Did you mean '&&'?")
	case '|':
		if s.match('|') {
			return s.addToken(TokenOr)
		}
		return s.errorToken("'|' not supported. Did you mean '||'?")
	case '"':
		return s.string()
	}
	return s.errorToken(fmt.Sprintf("Unexpected character '%c'.", c))
}

func (s *Scanner) identifier() Token {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	return s.addToken(LookupIdent(s.source[s.start:s.current]))
}

func (s *Scanner) number() Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.addToken(TokenNumber)
}

// string scans a literal whose lexeme keeps the surrounding quotes.
func (s *Scanner) string() Token {
	for s.peek() != '"' && !s.isAtEnd() {
		s.advance()
	}
	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.advance()
	return s.addToken(TokenString)
}

// sanitize skips whitespace and comments. It reports false together with an
// error token when a block comment is never closed.
func (s *Scanner) sanitize() (Token, bool) {
	for !s.isAtEnd() {
		c := s.peek()
		switch {
		case unicode.IsSpace(c):
			s.advance()
		case c == '/' && s.peekNext() == '/':
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
		case c == '/' && s.peekNext() == '*':
			s.mark()
			s.advance()
			s.advance()
			for !(s.peek() == '*' && s.peekNext() == '/') {
				if s.isAtEnd() {
					return s.errorToken("Unterminated block comment."), false
				}
				s.advance()
			}
			s.advance()
			s.advance()
		default:
			return Token{}, true
		}
	}
	return Token{}, true
}

func (s *Scanner) mark() {
	s.start = s.current
	s.startLine = s.line
	s.startColumn = s.column
}

func (s *Scanner) addToken(t TokenType) Token {
	return Token{
		Type:   t,
		Lexeme: s.source[s.start:s.current],
		Line:   s.startLine,
		Column: s.startColumn,
	}
}

func (s *Scanner) errorToken(message string) Token {
	return Token{
		Type:   TokenError,
		Lexeme: message,
		Line:   s.startLine,
		Column: s.startColumn,
	}
}

func (s *Scanner) match(expected rune) bool {
	if s.isAtEnd() || s.peek() != expected {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.source[s.current:])
	s.current += size
	if r == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return r
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current:])
	return r
}

func (s *Scanner) peekNext() rune {
	if s.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(s.source[s.current:])
	if s.current+size >= len(s.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.source[s.current+size:])
	return r
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func isAlpha(c rune) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c rune) bool {
	return isAlpha(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
