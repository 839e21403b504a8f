package lexer

import "fmt"

type TokenType string

const (
	// Keywords
	TokenBreak    TokenType = "BREAK"
	TokenCase     TokenType = "CASE"
	TokenContinue TokenType = "CONTINUE"
	TokenDefault  TokenType = "DEFAULT"
	TokenDo       TokenType = "DO"
	TokenElse     TokenType = "ELSE"
	TokenFalse    TokenType = "FALSE"
	TokenFor      TokenType = "FOR"
	TokenFunction TokenType = "FUNCTION"
	TokenIf       TokenType = "IF"
	TokenNil      TokenType = "NIL"
	TokenPrint    TokenType = "PRINT"
	TokenReturn   TokenType = "RETURN"
	TokenSwitch   TokenType = "SWITCH"
	TokenTrue     TokenType = "TRUE"
	TokenVar      TokenType = "VAR"
	TokenWhile    TokenType = "WHILE"

	// Literals
	TokenIdent  TokenType = "IDENT"
	TokenString TokenType = "STRING"
	TokenNumber TokenType = "NUMBER"

	// Symbols
	TokenLParen    TokenType = "("
	TokenRParen    TokenType = ")"
	TokenLBrace    TokenType = "{"
	TokenRBrace    TokenType = "}"
	TokenPlus      TokenType = "+"
	TokenMinus     TokenType = "-"
	TokenStar      TokenType = "*"
	TokenSlash     TokenType = "/"
	TokenPercent   TokenType = "%"
	TokenEqual     TokenType = "="
	TokenEqualEq   TokenType = "=="
	TokenNotEqual  TokenType = "!="
	TokenNot       TokenType = "!"
	TokenLT        TokenType = "<"
	TokenLE        TokenType = "<="
	TokenGT        TokenType = ">"
	TokenGE        TokenType = ">="
	TokenAnd       TokenType = "&&"
	TokenOr        TokenType = "||"
	TokenComma     TokenType = ","
	TokenColon     TokenType = ":"
	TokenQuestion  TokenType = "?"
	TokenSemicolon TokenType = ";"

	// TokenError carries a scanner diagnostic in its lexeme.
	TokenError TokenType = "ERROR"
	TokenEOF   TokenType = "EOF"
)

var keywords = map[string]TokenType{
	"break":    TokenBreak,
	"case":     TokenCase,
	"continue": TokenContinue,
	"default":  TokenDefault,
	"do":       TokenDo,
	"else":     TokenElse,
	"false":    TokenFalse,
	"for":      TokenFor,
	"function": TokenFunction,
	"if":       TokenIf,
	"nil":      TokenNil,
	"print":    TokenPrint,
	"return":   TokenReturn,
	"switch":   TokenSwitch,
	"true":     TokenTrue,
	"var":      TokenVar,
	"while":    TokenWhile,
}

// statementStarters are the tokens the parser may resume at after a syntax error.
var statementStarters = map[TokenType]bool{
	TokenBreak:    true,
	TokenContinue: true,
	TokenDo:       true,
	TokenFor:      true,
	TokenFunction: true,
	TokenIf:       true,
	TokenPrint:    true,
	TokenReturn:   true,
	TokenSwitch:   true,
	TokenVar:      true,
	TokenWhile:    true,
}

// LookupIdent returns the keyword type for text, or TokenIdent.
func LookupIdent(text string) TokenType {
	if t, ok := keywords[text]; ok {
		return t
	}
	return TokenIdent
}

func StartsStatement(t TokenType) bool {
	return statementStarters[t]
}

type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("[%s] '%s' %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}
