// File: lexer.go
// Title: DocScript Lexical Analyzer (Tokenizer)
// Description: Implements the lexical analysis phase of DocScript parsing.
//              Converts script source into streams of tokens for the
//              parser. Skips characters it cannot classify so that
//              malformed input degrades instead of failing, and provides
//              detailed position information for error reporting.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial lexer implementation

package parser

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenIllegal
	TokenNewline // statement separator

	// Identifiers and literals
	TokenIdentifier // variable, function, or namespace name
	TokenString     // "string literal"
	TokenNumber     // 123, 123.45

	// Operators
	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenPercent   // %
	TokenAssign    // =
	TokenEquals    // ==
	TokenNotEquals // !=
	TokenLess      // <
	TokenLessEq    // <=
	TokenGreater   // >
	TokenGreaterEq // >=
	TokenDot       // .

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenComma        // ,

	// Keywords
	TokenSet
	TokenIf
	TokenElse
	TokenEndIf
	TokenFor
	TokenIn
	TokenEndFor
	TokenWhile
	TokenEndWhile
	TokenDef
	TokenEndDef
	TokenPrint
	TokenReturn
	TokenState
	TokenGet
	TokenAnd
	TokenOr
	TokenNot
	TokenTrue
	TokenFalse
	TokenNull
)

// keywords maps uppercase keyword text to token types. Lookup folds the
// scanned identifier to uppercase, so keywords are case-insensitive.
var keywords = map[string]TokenType{
	"SET":      TokenSet,
	"IF":       TokenIf,
	"ELSE":     TokenElse,
	"ENDIF":    TokenEndIf,
	"FOR":      TokenFor,
	"IN":       TokenIn,
	"ENDFOR":   TokenEndFor,
	"WHILE":    TokenWhile,
	"ENDWHILE": TokenEndWhile,
	"DEF":      TokenDef,
	"ENDDEF":   TokenEndDef,
	"PRINT":    TokenPrint,
	"RETURN":   TokenReturn,
	"STATE":    TokenState,
	"GET":      TokenGet,
	"AND":      TokenAnd,
	"OR":       TokenOr,
	"NOT":      TokenNot,
	"TRUE":     TokenTrue,
	"FALSE":    TokenFalse,
	"NULL":     TokenNull,
}

// tokenTypeNames maps token types to display names for diagnostics
var tokenTypeNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenIllegal:      "ILLEGAL",
	TokenNewline:      "NEWLINE",
	TokenIdentifier:   "IDENTIFIER",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
	TokenPlus:         "PLUS",
	TokenMinus:        "MINUS",
	TokenStar:         "STAR",
	TokenSlash:        "SLASH",
	TokenPercent:      "PERCENT",
	TokenAssign:       "ASSIGN",
	TokenEquals:       "EQUALS",
	TokenNotEquals:    "NOT_EQUALS",
	TokenLess:         "LESS",
	TokenLessEq:       "LESS_EQ",
	TokenGreater:      "GREATER",
	TokenGreaterEq:    "GREATER_EQ",
	TokenDot:          "DOT",
	TokenLeftParen:    "LEFT_PAREN",
	TokenRightParen:   "RIGHT_PAREN",
	TokenLeftBracket:  "LEFT_BRACKET",
	TokenRightBracket: "RIGHT_BRACKET",
	TokenComma:        "COMMA",
	TokenSet:          "SET",
	TokenIf:           "IF",
	TokenElse:         "ELSE",
	TokenEndIf:        "ENDIF",
	TokenFor:          "FOR",
	TokenIn:           "IN",
	TokenEndFor:       "ENDFOR",
	TokenWhile:        "WHILE",
	TokenEndWhile:     "ENDWHILE",
	TokenDef:          "DEF",
	TokenEndDef:       "ENDDEF",
	TokenPrint:        "PRINT",
	TokenReturn:       "RETURN",
	TokenState:        "STATE",
	TokenGet:          "GET",
	TokenAnd:          "AND",
	TokenOr:           "OR",
	TokenNot:          "NOT",
	TokenTrue:         "TRUE",
	TokenFalse:        "FALSE",
	TokenNull:         "NULL",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenTypeNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token with position information
type Token struct {
	Type     TokenType // Token type
	Value    string    // Token text
	Position int       // Byte position in input
	Line     int       // Line number (1-based)
	Column   int       // Column number (1-based)
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "NEWLINE"
	case TokenIllegal:
		return fmt.Sprintf("ILLEGAL(%s)", t.Value)
	default:
		return fmt.Sprintf("%s(%s)", t.Type.String(), t.Value)
	}
}

// IsKeyword reports whether the token is a reserved keyword
func (t Token) IsKeyword() bool {
	_, ok := keywords[strings.ToUpper(t.Value)]
	return ok && t.Type != TokenIdentifier
}

// Lexer performs lexical analysis of DocScript input
type Lexer struct {
	input    string // Input string
	position int    // Current position in input (points to current char)
	readPos  int    // Current reading position (after current char)
	ch       byte   // Current char under examination
	line     int    // Current line number (1-based)
	column   int    // Current column number (1-based)
	strict   bool   // Emit TokenIllegal instead of skipping unknown chars
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar() // Initialize first character
	return l
}

// NewStrictLexer creates a lexer that reports unknown characters as
// illegal tokens instead of skipping them
func NewStrictLexer(input string) *Lexer {
	l := NewLexer(input)
	l.strict = true
	return l
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.skipComment()

	pos := l.position
	line := l.line
	column := l.column

	switch l.ch {
	case '\n':
		l.readChar()
		return Token{Type: TokenNewline, Value: "\n", Position: pos, Line: line, Column: column}
	case '+':
		return l.single(TokenPlus, pos, line, column)
	case '-':
		return l.single(TokenMinus, pos, line, column)
	case '*':
		return l.single(TokenStar, pos, line, column)
	case '/':
		return l.single(TokenSlash, pos, line, column)
	case '%':
		return l.single(TokenPercent, pos, line, column)
	case '.':
		return l.single(TokenDot, pos, line, column)
	case ',':
		return l.single(TokenComma, pos, line, column)
	case '(':
		return l.single(TokenLeftParen, pos, line, column)
	case ')':
		return l.single(TokenRightParen, pos, line, column)
	case '[':
		return l.single(TokenLeftBracket, pos, line, column)
	case ']':
		return l.single(TokenRightBracket, pos, line, column)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenEquals, Value: "==", Position: pos, Line: line, Column: column}
		}
		return l.single(TokenAssign, pos, line, column)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenNotEquals, Value: "!=", Position: pos, Line: line, Column: column}
		}
		return l.skipOrIllegal(pos, line, column)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenLessEq, Value: "<=", Position: pos, Line: line, Column: column}
		}
		return l.single(TokenLess, pos, line, column)
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenGreaterEq, Value: ">=", Position: pos, Line: line, Column: column}
		}
		return l.single(TokenGreater, pos, line, column)
	case '"', '\'':
		value := l.readString(l.ch)
		return Token{Type: TokenString, Value: value, Position: pos, Line: line, Column: column}
	case 0:
		return Token{Type: TokenEOF, Position: pos, Line: line, Column: column}
	default:
		if isLetter(l.ch) {
			value := l.readIdentifier()
			return Token{Type: lookupIdent(value), Value: value, Position: pos, Line: line, Column: column}
		}
		if isDigit(l.ch) {
			value := l.readNumber()
			return Token{Type: TokenNumber, Value: value, Position: pos, Line: line, Column: column}
		}
		return l.skipOrIllegal(pos, line, column)
	}
}

// Tokenize returns all tokens from the input as a slice. In strict mode
// the first illegal character aborts with an error.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)

		if tok.Type == TokenEOF {
			break
		}

		if tok.Type == TokenIllegal {
			return tokens, fmt.Errorf("illegal character %q at line %d, column %d",
				tok.Value, tok.Line, tok.Column)
		}
	}

	return tokens, nil
}

// single emits a one-character token and advances
func (l *Lexer) single(tt TokenType, pos, line, column int) Token {
	tok := Token{Type: tt, Value: string(l.ch), Position: pos, Line: line, Column: column}
	l.readChar()
	return tok
}

// skipOrIllegal handles a character that belongs to no token class. The
// default lexer drops it and resumes scanning; strict mode surfaces it.
func (l *Lexer) skipOrIllegal(pos, line, column int) Token {
	ch := l.ch
	l.readChar()
	if l.strict {
		return Token{Type: TokenIllegal, Value: string(ch), Position: pos, Line: line, Column: column}
	}
	return l.NextToken()
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL represents EOF
	} else {
		l.ch = l.input[l.readPos]
	}

	l.position = l.readPos
	l.readPos++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// skipWhitespace skips spaces, tabs, and carriage returns. Newlines are
// tokens of their own and are not skipped here.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips a '#' comment through end of line
func (l *Lexer) skipComment() {
	if l.ch != '#' {
		return
	}
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads an integer or decimal number
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readString reads a string delimited by the given quote character
// (single or double) with backslash escapes. An unterminated string runs
// to end of line or input.
func (l *Lexer) readString(quote byte) string {
	var b strings.Builder

	l.readChar() // consume opening quote
	for l.ch != quote && l.ch != '\n' && l.ch != 0 {
		if l.ch == '\\' {
			switch l.peekChar() {
			case 'n':
				b.WriteByte('\n')
				l.readChar()
			case 't':
				b.WriteByte('\t')
				l.readChar()
			case '"':
				b.WriteByte('"')
				l.readChar()
			case '\'':
				b.WriteByte('\'')
				l.readChar()
			case '\\':
				b.WriteByte('\\')
				l.readChar()
			default:
				b.WriteByte(l.ch)
			}
		} else {
			b.WriteByte(l.ch)
		}
		l.readChar()
	}
	if l.ch == quote {
		l.readChar() // consume closing quote
	}

	return b.String()
}

// lookupIdent maps an identifier to its keyword token type, folding to
// uppercase so keywords are case-insensitive
func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[strings.ToUpper(ident)]; ok {
		return tt
	}
	return TokenIdentifier
}

// isLetter reports whether ch can start or continue an identifier
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit reports whether ch is an ASCII digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
