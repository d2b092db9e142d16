package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		if !p.inRecursionRecovery {
			p.addError(diagnostics.ErrP007, p.curToken,
				"expression too complex: recursion depth limit exceeded")
			p.inRecursionRecovery = true
		}
		// Skip the rest of the statement to avoid a cascade of errors.
		p.skipToStatementBoundary()
		p.inRecursionRecovery = false
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, ok := p.curToken.Literal.(int64)
	if !ok {
		p.addError(diagnostics.ErrP004, p.curToken, "malformed integer literal %q", p.curToken.Lexeme)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, ok := p.curToken.Literal.(float64)
	if !ok {
		p.addError(diagnostics.ErrP004, p.curToken, "malformed float literal %q", p.curToken.Lexeme)
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Lexeme}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Lexeme,
	}
	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	switch left.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.IndexExpression:
	default:
		p.addError(diagnostics.ErrP006, p.curToken, "invalid assignment target")
		return nil
	}

	expr := &ast.AssignExpression{
		Token:  p.curToken,
		Target: left,
		Op:     p.curToken.Type,
	}
	p.nextToken()
	// Right associative: a = b = c.
	expr.Value = p.parseExpression(ASSIGNMENT - 1)
	if expr.Value == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseTernaryExpression(cond ast.Expression) ast.Expression {
	expr := &ast.TernaryExpression{Token: p.curToken, Cond: cond}

	p.nextToken()
	expr.Then = p.parseExpression(LOWEST)
	if expr.Then == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	expr.Else = p.parseExpression(TERNARY - 1)
	if expr.Else == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayLiteral{Token: p.curToken}

	for !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, elem)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RBRACKET) {
			p.addError(diagnostics.ErrP001, p.peekToken, "expected ',' or ']' in array literal")
			return nil
		}
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return arr
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectLiteral{Token: p.curToken}

	for !p.peekTokenIs(token.RBRACE) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := &ast.ObjectField{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)},
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Value = p.parseExpression(LOWEST)
		if field.Value == nil {
			return nil
		}
		obj.Fields = append(obj.Fields, field)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RBRACE) {
			p.addError(diagnostics.ErrP001, p.peekToken, "expected ',' or '}' in object literal")
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return obj
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: fn}

	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		call.Arguments = append(call.Arguments, arg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.addError(diagnostics.ErrP001, p.peekToken, "expected ',' or ')' in call arguments")
			return nil
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{Token: p.curToken, Object: left}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Property = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}
	return expr
}

// parseIsExpression parses a pattern test:
//
//	v is Shape.Circle(let r)
//	v is Circle(let r)
//	v is Shape.Point
func (p *Parser) parseIsExpression(left ast.Expression) ast.Expression {
	expr := &ast.IsExpression{Token: p.curToken, Value: left}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	first := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}

	if p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		expr.EnumName = first
		expr.Variant = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}
	} else {
		expr.Variant = first
	}

	if !p.peekTokenIs(token.LPAREN) {
		return expr
	}
	p.nextToken()

	for !p.peekTokenIs(token.RPAREN) {
		binding := p.parsePatternBinding()
		if binding == nil {
			return nil
		}
		expr.Bindings = append(expr.Bindings, binding)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.addError(diagnostics.ErrP009, p.peekToken, "expected ',' or ')' in pattern")
			return nil
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parsePatternBinding() *ast.PatternBinding {
	switch p.peekToken.Type {
	case token.LET, token.VAR:
		p.nextToken()
		binding := &ast.PatternBinding{Token: p.curToken, Mutable: p.curTokenIs(token.VAR)}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		binding.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}
		return binding
	case token.IDENT:
		if p.peekToken.Literal.(string) == "_" {
			p.nextToken()
			return &ast.PatternBinding{Token: p.curToken, Wildcard: true}
		}
	}
	p.addError(diagnostics.ErrP009, p.peekToken,
		"pattern bindings must be 'let name', 'var name' or '_'")
	return nil
}

func (p *Parser) parseNewExpression() ast.Expression {
	expr := &ast.NewExpression{Token: p.curToken}

	p.nextToken()
	expr.ElemType = p.parseTypeElemForNew()
	if expr.ElemType == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACKET) {
		return nil
	}
	p.nextToken()
	expr.Size = p.parseExpression(LOWEST)
	if expr.Size == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

// parseTypeElemForNew parses the element type of new T[n] without
// consuming the bracket that holds the size.
func (p *Parser) parseTypeElemForNew() ast.TypeExpr {
	if p.curTokenIs(token.REF) {
		return p.parseRefTypeExpr()
	}
	if !p.curTokenIs(token.IDENT) {
		p.addError(diagnostics.ErrP005, p.curToken, "expected element type after 'new'")
		return nil
	}
	nt := &ast.NamedType{Token: p.curToken, Name: p.curToken.Literal.(string)}
	if p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		nt.Namespace = nt.Name
		nt.Name = p.curToken.Literal.(string)
	}
	return nt
}

func (p *Parser) parseRefExpression() ast.Expression {
	// In expression position, ref [mut] expr takes a reference.
	expr := &ast.RefExpression{Token: p.curToken}
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		expr.Mutable = true
	}
	p.nextToken()
	expr.Target = p.parseExpression(PREFIX)
	if expr.Target == nil {
		return nil
	}
	return expr
}
