// File: parser.go
// Title: DocScript Recursive-Descent Parser
// Description: Implements the syntactic analysis phase of DocScript.
//              Converts token streams into AST programs, dispatching
//              statements on their leading keyword and parsing expressions
//              with a precedence ladder. Reports the first structural
//              error with source position.
// Author: msto63
// Version: v0.1.0
// Created: 2025-08-20
// Modified: 2025-08-20
//
// Change History:
// - 2025-08-20 v0.1.0: Initial parser implementation

package parser

import (
	"fmt"
	"strconv"
	"strings"

	mdserror "github.com/msto63/mDS/core/error"
	mdslog "github.com/msto63/mDS/core/log"
	mdsast "github.com/msto63/mDS/docscript/ast"
)

// Options configures parser behavior
type Options struct {
	Logger         *mdslog.Logger // Logger for parse diagnostics (default: package default)
	MaxInputLength int            // Maximum script length in bytes (default: 65536)
	Strict         bool           // Reject unknown characters instead of skipping them
}

// DefaultMaxInputLength bounds script size before tokenization
const DefaultMaxInputLength = 65536

// Parser converts DocScript source into an AST
type Parser struct {
	options Options
	tokens  []Token
	pos     int
}

// New creates a parser with the given options
func New(options Options) *Parser {
	if options.Logger == nil {
		options.Logger = mdslog.GetDefault().WithName("parser")
	}
	if options.MaxInputLength <= 0 {
		options.MaxInputLength = DefaultMaxInputLength
	}
	return &Parser{options: options}
}

// Parse tokenizes and parses a complete script
func (p *Parser) Parse(source string) (*mdsast.Program, error) {
	if len(source) > p.options.MaxInputLength {
		return nil, mdserror.Newf("script exceeds maximum length of %d bytes", p.options.MaxInputLength).
			WithCode(mdserror.CodeScriptSyntax).
			WithOperation("parser.Parse").
			WithDetail("length", len(source))
	}

	var lexer *Lexer
	if p.options.Strict {
		lexer = NewStrictLexer(source)
	} else {
		lexer = NewLexer(source)
	}

	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, mdserror.Wrap(err, "tokenization failed").
			WithCode(mdserror.CodeScriptSyntax).
			WithOperation("parser.Parse")
	}

	p.tokens = tokens
	p.pos = 0

	program, err := p.parseProgram()
	if err != nil {
		p.options.Logger.Debug("parse failed", mdslog.Fields{"error": err.Error()})
		return nil, err
	}

	if err := program.Validate(); err != nil {
		return nil, mdserror.Wrap(err, "program validation failed").
			WithCode(mdserror.CodeScriptSyntax).
			WithOperation("parser.Parse")
	}

	return program, nil
}

// parseProgram parses statements until EOF
func (p *Parser) parseProgram() (*mdsast.Program, error) {
	program := &mdsast.Program{Pos: p.position()}

	p.skipNewlines()
	for !p.check(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
		p.skipNewlines()
	}

	return program, nil
}

// parseStatement dispatches on the leading token
func (p *Parser) parseStatement() (mdsast.Stmt, error) {
	switch p.current().Type {
	case TokenSet:
		return p.parseSet()
	case TokenIf:
		return p.parseIf()
	case TokenFor:
		return p.parseFor()
	case TokenWhile:
		return p.parseWhile()
	case TokenDef:
		return p.parseDef()
	case TokenPrint:
		return p.parsePrint()
	case TokenReturn:
		return p.parseReturn()
	case TokenState:
		return p.parseState()
	default:
		return p.parseExprStatement()
	}
}

// parseSet parses: SET name = expr
func (p *Parser) parseSet() (mdsast.Stmt, error) {
	pos := p.position()
	p.advance() // consume SET

	name, err := p.expectIdentifier("variable name after SET")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenAssign, "'=' after variable name"); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &mdsast.SetStmt{Name: name, Value: value, Pos: pos}, nil
}

// parseIf parses: IF cond <nl> stmts [ELSE stmts] ENDIF
func (p *Parser) parseIf() (mdsast.Stmt, error) {
	pos := p.position()
	p.advance() // consume IF

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	thenBlock, terminator, err := p.parseBlock(TokenElse, TokenEndIf)
	if err != nil {
		return nil, err
	}

	stmt := &mdsast.IfStmt{Condition: condition, Then: thenBlock, Pos: pos}

	if terminator == TokenElse {
		elseBlock, _, err := p.parseBlock(TokenEndIf)
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}

	return stmt, nil
}

// parseFor parses: FOR var IN expr <nl> stmts ENDFOR
func (p *Parser) parseFor() (mdsast.Stmt, error) {
	pos := p.position()
	p.advance() // consume FOR

	variable, err := p.expectIdentifier("loop variable after FOR")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenIn, "IN after loop variable"); err != nil {
		return nil, err
	}

	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	body, _, err := p.parseBlock(TokenEndFor)
	if err != nil {
		return nil, err
	}

	return &mdsast.ForStmt{Variable: variable, Iterable: iterable, Body: body, Pos: pos}, nil
}

// parseWhile parses: WHILE cond <nl> stmts ENDWHILE
func (p *Parser) parseWhile() (mdsast.Stmt, error) {
	pos := p.position()
	p.advance() // consume WHILE

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	body, _, err := p.parseBlock(TokenEndWhile)
	if err != nil {
		return nil, err
	}

	return &mdsast.WhileStmt{Condition: condition, Body: body, Pos: pos}, nil
}

// parseDef parses: DEF name(params) <nl> stmts ENDDEF
func (p *Parser) parseDef() (mdsast.Stmt, error) {
	pos := p.position()
	p.advance() // consume DEF

	name, err := p.expectIdentifier("function name after DEF")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenLeftParen, "'(' after function name"); err != nil {
		return nil, err
	}

	var params []string
	if !p.check(TokenRightParen) {
		for {
			param, err := p.expectIdentifier("parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)

			if !p.check(TokenComma) {
				break
			}
			p.advance() // consume comma
		}
	}

	if _, err := p.expect(TokenRightParen, "')' after parameters"); err != nil {
		return nil, err
	}

	body, _, err := p.parseBlock(TokenEndDef)
	if err != nil {
		return nil, err
	}

	return &mdsast.DefStmt{Name: name, Params: params, Body: body, Pos: pos}, nil
}

// parsePrint parses: PRINT expr
func (p *Parser) parsePrint() (mdsast.Stmt, error) {
	pos := p.position()
	p.advance() // consume PRINT

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &mdsast.PrintStmt{Value: value, Pos: pos}, nil
}

// parseReturn parses: RETURN [expr]
func (p *Parser) parseReturn() (mdsast.Stmt, error) {
	pos := p.position()
	p.advance() // consume RETURN

	stmt := &mdsast.ReturnStmt{Pos: pos}
	if !p.atStatementEnd() {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}

	return stmt, nil
}

// parseState parses: STATE SET path = expr | STATE GET path (statement form)
func (p *Parser) parseState() (mdsast.Stmt, error) {
	pos := p.position()
	p.advance() // consume STATE

	switch p.current().Type {
	case TokenSet:
		p.advance()
		path, err := p.parseStatePath()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenAssign, "'=' after state path"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &mdsast.StateSetStmt{Path: path, Value: value, Pos: pos}, nil

	case TokenGet:
		p.advance()
		path, err := p.parseStatePath()
		if err != nil {
			return nil, err
		}
		return &mdsast.ExprStmt{Value: &mdsast.StateGetExpr{Path: path, Pos: pos}, Pos: pos}, nil

	default:
		return nil, p.syntaxError("SET or GET after STATE")
	}
}

// parseExprStatement parses a bare expression used as a statement
func (p *Parser) parseExprStatement() (mdsast.Stmt, error) {
	pos := p.position()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &mdsast.ExprStmt{Value: value, Pos: pos}, nil
}

// parseBlock parses statements until one of the terminator tokens, which
// is consumed. Returns the block and the terminator found. A block left
// open at end of input is closed implicitly, except in strict mode where
// the missing terminator is a syntax error.
func (p *Parser) parseBlock(terminators ...TokenType) ([]mdsast.Stmt, TokenType, error) {
	var block []mdsast.Stmt

	p.skipNewlines()
	for {
		if p.check(TokenEOF) {
			if p.options.Strict {
				return nil, TokenEOF, p.syntaxError(describeTerminators(terminators))
			}
			return block, TokenEOF, nil
		}
		for _, term := range terminators {
			if p.check(term) {
				p.advance() // consume terminator
				return block, term, nil
			}
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, TokenEOF, err
		}
		block = append(block, stmt)
		p.skipNewlines()
	}
}

// parseStatePath parses a dot-separated identifier path
func (p *Parser) parseStatePath() (string, error) {
	var parts []string

	part, err := p.expectIdentifier("state path")
	if err != nil {
		return "", err
	}
	parts = append(parts, part)

	for p.check(TokenDot) {
		p.advance() // consume dot
		part, err := p.expectIdentifier("state path segment after '.'")
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, "."), nil
}

// Expression parsing: precedence ladder from lowest (OR) to highest.

func (p *Parser) parseExpression() (mdsast.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (mdsast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.check(TokenOr) {
		pos := p.position()
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &mdsast.BinaryExpr{Op: "OR", Left: left, Right: right, Pos: pos}
	}

	return left, nil
}

func (p *Parser) parseAnd() (mdsast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	for p.check(TokenAnd) {
		pos := p.position()
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &mdsast.BinaryExpr{Op: "AND", Left: left, Right: right, Pos: pos}
	}

	return left, nil
}

func (p *Parser) parseEquality() (mdsast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.check(TokenEquals) || p.check(TokenNotEquals) {
		op := p.current().Value
		pos := p.position()
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &mdsast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}

	return left, nil
}

func (p *Parser) parseComparison() (mdsast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for p.check(TokenLess) || p.check(TokenLessEq) || p.check(TokenGreater) || p.check(TokenGreaterEq) {
		op := p.current().Value
		pos := p.position()
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &mdsast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}

	return left, nil
}

func (p *Parser) parseAdditive() (mdsast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.check(TokenPlus) || p.check(TokenMinus) {
		op := p.current().Value
		pos := p.position()
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &mdsast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}

	return left, nil
}

func (p *Parser) parseMultiplicative() (mdsast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.check(TokenStar) || p.check(TokenSlash) || p.check(TokenPercent) {
		op := p.current().Value
		pos := p.position()
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &mdsast.BinaryExpr{Op: op, Left: left, Right: right, Pos: pos}
	}

	return left, nil
}

func (p *Parser) parseUnary() (mdsast.Expr, error) {
	if p.check(TokenMinus) || p.check(TokenNot) {
		op := p.current().Value
		if p.check(TokenNot) {
			op = "NOT"
		}
		pos := p.position()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &mdsast.UnaryExpr{Op: op, Operand: operand, Pos: pos}, nil
	}

	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (mdsast.Expr, error) {
	tok := p.current()
	pos := p.position()

	switch tok.Type {
	case TokenNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.syntaxErrorAt(pos, fmt.Sprintf("invalid number %q", tok.Value))
		}
		return &mdsast.LiteralExpr{Value: value, Pos: pos}, nil

	case TokenString:
		p.advance()
		return &mdsast.LiteralExpr{Value: tok.Value, Pos: pos}, nil

	case TokenTrue:
		p.advance()
		return &mdsast.LiteralExpr{Value: true, Pos: pos}, nil

	case TokenFalse:
		p.advance()
		return &mdsast.LiteralExpr{Value: false, Pos: pos}, nil

	case TokenNull:
		p.advance()
		return &mdsast.LiteralExpr{Value: nil, Pos: pos}, nil

	case TokenLeftParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen, "')' after expression"); err != nil {
			return nil, err
		}
		return inner, nil

	case TokenLeftBracket:
		return p.parseList()

	case TokenState:
		p.advance()
		if _, err := p.expect(TokenGet, "GET after STATE in expression"); err != nil {
			return nil, err
		}
		path, err := p.parseStatePath()
		if err != nil {
			return nil, err
		}
		return &mdsast.StateGetExpr{Path: path, Pos: pos}, nil

	case TokenIdentifier:
		return p.parseIdentifierExpr()

	default:
		return nil, p.syntaxError("expression")
	}
}

// parseList parses a list literal: [expr, expr, ...]
func (p *Parser) parseList() (mdsast.Expr, error) {
	pos := p.position()
	p.advance() // consume '['

	list := &mdsast.ListExpr{Pos: pos}
	if !p.check(TokenRightBracket) {
		for {
			element, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			list.Elements = append(list.Elements, element)

			if !p.check(TokenComma) {
				break
			}
			p.advance() // consume comma
		}
	}

	if _, err := p.expect(TokenRightBracket, "']' after list elements"); err != nil {
		return nil, err
	}

	return list, nil
}

// parseIdentifierExpr parses a variable reference, a function call, or a
// namespaced capability call (IDENT.IDENT(args))
func (p *Parser) parseIdentifierExpr() (mdsast.Expr, error) {
	tok := p.current()
	pos := p.position()
	p.advance() // consume identifier

	if p.check(TokenDot) {
		p.advance() // consume dot
		opTok, err := p.expect(TokenIdentifier, "operation name after '.'")
		if err != nil {
			return nil, err
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		// Namespace comparison is case-insensitive throughout
		return &mdsast.CapabilityCallExpr{
			Namespace: strings.ToUpper(tok.Value),
			Operation: strings.ToUpper(opTok.Value),
			Args:      args,
			Pos:       pos,
		}, nil
	}

	if p.check(TokenLeftParen) {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &mdsast.CallExpr{Name: tok.Value, Args: args, Pos: pos}, nil
	}

	return &mdsast.IdentifierExpr{Name: tok.Value, Pos: pos}, nil
}

// parseArgs parses a parenthesized argument list
func (p *Parser) parseArgs() ([]mdsast.Expr, error) {
	if _, err := p.expect(TokenLeftParen, "'(' before arguments"); err != nil {
		return nil, err
	}

	var args []mdsast.Expr
	if !p.check(TokenRightParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if !p.check(TokenComma) {
				break
			}
			p.advance() // consume comma
		}
	}

	if _, err := p.expect(TokenRightParen, "')' after arguments"); err != nil {
		return nil, err
	}

	return args, nil
}

// Token stream helpers.

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt TokenType) bool {
	return p.current().Type == tt
}

func (p *Parser) atStatementEnd() bool {
	switch p.current().Type {
	case TokenNewline, TokenEOF, TokenEndIf, TokenEndFor, TokenEndWhile, TokenEndDef, TokenElse:
		return true
	default:
		return false
	}
}

func (p *Parser) skipNewlines() {
	for p.check(TokenNewline) {
		p.advance()
	}
}

func (p *Parser) position() mdsast.Position {
	tok := p.current()
	return mdsast.Position{Line: tok.Line, Column: tok.Column, Offset: tok.Position}
}

// expect consumes a token of the given type or reports a syntax error
func (p *Parser) expect(tt TokenType, expected string) (Token, error) {
	if !p.check(tt) {
		return Token{}, p.syntaxError(expected)
	}
	return p.advance(), nil
}

// expectIdentifier consumes an identifier token and returns its text
func (p *Parser) expectIdentifier(expected string) (string, error) {
	tok, err := p.expect(TokenIdentifier, expected)
	if err != nil {
		return "", err
	}
	return tok.Value, nil
}

// syntaxError builds a structured syntax error at the current token
func (p *Parser) syntaxError(expected string) error {
	tok := p.current()
	pos := mdsast.Position{Line: tok.Line, Column: tok.Column, Offset: tok.Position}
	return p.syntaxErrorAt(pos, fmt.Sprintf("expected %s, found %s", expected, tok.String()))
}

func (p *Parser) syntaxErrorAt(pos mdsast.Position, message string) error {
	return mdserror.Newf("syntax error at %s: %s", pos, message).
		WithCode(mdserror.CodeScriptSyntax).
		WithOperation("parser.Parse").
		WithDetail("line", pos.Line).
		WithDetail("column", pos.Column)
}

// describeTerminators renders expected block terminators for errors
func describeTerminators(terminators []TokenType) string {
	names := make([]string, len(terminators))
	for i, t := range terminators {
		names[i] = t.String()
	}
	return strings.Join(names, " or ")
}
