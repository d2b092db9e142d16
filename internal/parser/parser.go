package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/pipeline"
	"github.com/velalang/vela/internal/token"
)

const MaxRecursionDepth = 500

const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // =, +=
	TERNARY     // ?:
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // ==, !=, is
	LESSGREATER // <, >, <=, >=
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	SHIFT       // <<, >>
	SUM         // +, -
	PRODUCT     // *, /, %
	PREFIX      // -x, !x, ~x
	CALL        // f(x)
	INDEX       // a[i], a.b
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:          ASSIGNMENT,
	token.PLUS_ASSIGN:     ASSIGNMENT,
	token.MINUS_ASSIGN:    ASSIGNMENT,
	token.ASTERISK_ASSIGN: ASSIGNMENT,
	token.SLASH_ASSIGN:    ASSIGNMENT,
	token.QUESTION:        TERNARY,
	token.OR:              LOGIC_OR,
	token.AND:             LOGIC_AND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.IS:              EQUALS,
	token.LT:              LESSGREATER,
	token.GT:              LESSGREATER,
	token.LT_EQ:           LESSGREATER,
	token.GT_EQ:           LESSGREATER,
	token.PIPE:            BIT_OR,
	token.CARET:           BIT_XOR,
	token.AMPERSAND:       BIT_AND,
	token.SHL:             SHIFT,
	token.SHR:             SHIFT,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.PERCENT:         PRODUCT,
	token.LPAREN:          CALL,
	token.LBRACKET:        INDEX,
	token.DOT:             INDEX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream *token.Stream
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth               int
	inRecursionRecovery bool
}

func New(stream *token.Stream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:    p.parseIdentifier,
		token.INT:      p.parseIntegerLiteral,
		token.FLOAT:    p.parseFloatLiteral,
		token.STRING:   p.parseStringLiteral,
		token.TRUE:     p.parseBooleanLiteral,
		token.FALSE:    p.parseBooleanLiteral,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
		token.TILDE:    p.parsePrefixExpression,
		token.LPAREN:   p.parseGroupedExpression,
		token.LBRACKET: p.parseArrayLiteral,
		token.LBRACE:   p.parseObjectLiteral,
		token.NEW:      p.parseNewExpression,
		token.REF:      p.parseRefExpression,
	}

	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:            p.parseInfixExpression,
		token.MINUS:           p.parseInfixExpression,
		token.ASTERISK:        p.parseInfixExpression,
		token.SLASH:           p.parseInfixExpression,
		token.PERCENT:         p.parseInfixExpression,
		token.EQ:              p.parseInfixExpression,
		token.NOT_EQ:          p.parseInfixExpression,
		token.LT:              p.parseInfixExpression,
		token.GT:              p.parseInfixExpression,
		token.LT_EQ:           p.parseInfixExpression,
		token.GT_EQ:           p.parseInfixExpression,
		token.AND:             p.parseInfixExpression,
		token.OR:              p.parseInfixExpression,
		token.AMPERSAND:       p.parseInfixExpression,
		token.PIPE:            p.parseInfixExpression,
		token.CARET:           p.parseInfixExpression,
		token.SHL:             p.parseInfixExpression,
		token.SHR:             p.parseInfixExpression,
		token.ASSIGN:          p.parseAssignExpression,
		token.PLUS_ASSIGN:     p.parseAssignExpression,
		token.MINUS_ASSIGN:    p.parseAssignExpression,
		token.ASTERISK_ASSIGN: p.parseAssignExpression,
		token.SLASH_ASSIGN:    p.parseAssignExpression,
		token.QUESTION:        p.parseTernaryExpression,
		token.LPAREN:          p.parseCallExpression,
		token.LBRACKET:        p.parseIndexExpression,
		token.DOT:             p.parseMemberExpression,
		token.IS:              p.parseIsExpression,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	if t == token.IDENT {
		p.addError(diagnostics.ErrP002, p.peekToken, "expected identifier, got %q", p.peekToken.Lexeme)
	} else {
		p.addError(diagnostics.ErrP001, p.peekToken, "expected %q, got %q", string(t), p.peekToken.Lexeme)
	}
	return false
}

func (p *Parser) addError(code diagnostics.ErrorCode, tok token.Token, msg string, args ...interface{}) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, msg, args...))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	if tok.Type == token.BADSTRING {
		p.addError(diagnostics.ErrP003, tok, "unterminated string literal")
		return
	}
	if tok.Type == token.ILLEGAL {
		p.addError(diagnostics.ErrP010, tok, "illegal character %q", tok.Lexeme)
		return
	}
	p.addError(diagnostics.ErrP001, tok, "unexpected token %q", tok.Lexeme)
}

// skipToStatementBoundary advances past the current statement so one
// syntax error does not cascade.
func (p *Parser) skipToStatementBoundary() {
	for !p.curTokenIs(token.SEMICOLON) &&
		!p.curTokenIs(token.RBRACE) &&
		!p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			if imp, ok := stmt.(*ast.ImportStatement); ok {
				program.Imports = append(program.Imports, imp)
			}
			program.Statements = append(program.Statements, stmt)
		} else {
			p.skipToStatementBoundary()
		}
		p.nextToken()
	}

	return program
}

// ParseExpressionInput parses a single expression. Used by constant
// folding tests and the debug REPL of velac.
func (p *Parser) ParseExpressionInput() ast.Expression {
	return p.parseExpression(LOWEST)
}
