package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.SEMICOLON:
		return nil
	case token.IMPORT:
		return asStatement(p.parseImportStatement())
	case token.EXPORT:
		return p.parseExportedStatement()
	case token.CONST, token.LET, token.VAR:
		return asStatement(p.parseLetStatement(false))
	case token.FUNCTION:
		return asStatement(p.parseFunctionStatement(false, false))
	case token.EXTERNAL:
		return asStatement(p.parseExternalFunction(false))
	case token.STRUCT:
		return asStatement(p.parseStructStatement(false))
	case token.ENUM:
		return asStatement(p.parseEnumStatement(false))
	case token.TYPE:
		return asStatement(p.parseTypeAliasStatement(false))
	case token.RETURN:
		return asStatement(p.parseReturnStatement())
	case token.IF:
		return asStatement(p.parseIfStatement())
	case token.WHILE:
		return asStatement(p.parseWhileStatement())
	case token.FOR:
		return asStatement(p.parseForStatement())
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.consumeSemicolon()
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.consumeSemicolon()
		return stmt
	case token.DELETE:
		return asStatement(p.parseDeleteStatement())
	case token.LBRACE:
		return asStatement(p.parseBlockStatement())
	default:
		return asStatement(p.parseExpressionStatement())
	}
}

// asStatement lifts a concrete sub-parser result into the Statement
// interface, mapping a nil pointer to an untyped nil so the callers'
// stmt != nil checks drop failed statements instead of wrapping a
// typed nil into the AST.
func asStatement[T any, P interface {
	*T
	ast.Statement
}](s P) ast.Statement {
	if s == nil {
		return nil
	}
	return s
}

func (p *Parser) consumeSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// parseExportedStatement handles the export prefix on a declaration.
func (p *Parser) parseExportedStatement() ast.Statement {
	exportTok := p.curToken
	p.nextToken()

	switch p.curToken.Type {
	case token.CONST, token.LET, token.VAR:
		return asStatement(p.parseLetStatement(true))
	case token.FUNCTION:
		return asStatement(p.parseFunctionStatement(false, true))
	case token.EXTERNAL:
		return asStatement(p.parseExternalFunction(true))
	case token.STRUCT:
		return asStatement(p.parseStructStatement(true))
	case token.ENUM:
		return asStatement(p.parseEnumStatement(true))
	case token.TYPE:
		return asStatement(p.parseTypeAliasStatement(true))
	default:
		p.addError(diagnostics.ErrP006, exportTok, "export must precede a declaration")
		return nil
	}
}

func (p *Parser) parseImportStatement() *ast.ImportStatement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Namespace = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}

	if !p.expectPeek(token.FROM) {
		return nil
	}
	if !p.expectPeek(token.STRING) {
		return nil
	}
	stmt.Path = &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}

	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseLetStatement(exported bool) *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken, Exported: exported}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.TypeAnnotation = p.parseTypeExpr()
		if stmt.TypeAnnotation == nil {
			return nil
		}
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}

	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseFunctionStatement(external, exported bool) *ast.FunctionStatement {
	stmt := &ast.FunctionStatement{Token: p.curToken, External: external, Exported: exported}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}

	// function Point.dist(self, other) declares a method on Point.
	if p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Receiver = name
		stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}
	} else {
		stmt.Name = name
	}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.parseFunctionParams(stmt) {
		return nil
	}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.ReturnType = p.parseTypeExpr()
		if stmt.ReturnType == nil {
			return nil
		}
	}

	if external {
		p.consumeSemicolon()
		return stmt
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseFunctionParams(stmt *ast.FunctionStatement) bool {
	for !p.peekTokenIs(token.RPAREN) {
		if p.peekTokenIs(token.ELLIPSIS) {
			p.nextToken()
			stmt.Variadic = true
			if !p.expectPeek(token.IDENT) {
				return false
			}
			param := &ast.Param{
				Token: p.curToken,
				Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)},
			}
			stmt.Params = append(stmt.Params, param)
			break
		}

		if !p.expectPeek(token.IDENT) {
			return false
		}
		param := &ast.Param{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)},
		}

		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.TypeAnnotation = p.parseTypeExpr()
			if param.TypeAnnotation == nil {
				return false
			}
		}

		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(LOWEST)
			if param.Default == nil {
				return false
			}
		}

		stmt.Params = append(stmt.Params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.addError(diagnostics.ErrP001, p.peekToken, "expected ',' or ')' in parameter list")
			return false
		}
	}
	return p.expectPeek(token.RPAREN)
}

func (p *Parser) parseExternalFunction(exported bool) *ast.FunctionStatement {
	externalTok := p.curToken
	if !p.expectPeek(token.FUNCTION) {
		return nil
	}
	stmt := p.parseFunctionStatement(true, exported)
	if stmt != nil {
		stmt.Token = externalTok
	}
	return stmt
}

func (p *Parser) parseStructStatement(exported bool) *ast.StructStatement {
	stmt := &ast.StructStatement{Token: p.curToken, Exported: exported}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		field := p.parseStructField()
		if field == nil {
			return nil
		}
		stmt.Fields = append(stmt.Fields, field)
		if p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return stmt
}

func (p *Parser) parseStructField() *ast.StructField {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	field := &ast.StructField{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)},
	}

	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	field.TypeAnnotation = p.parseTypeExpr()
	if field.TypeAnnotation == nil {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		field.Default = p.parseExpression(LOWEST)
		if field.Default == nil {
			return nil
		}
	}
	return field
}

func (p *Parser) parseEnumStatement(exported bool) *ast.EnumStatement {
	stmt := &ast.EnumStatement{Token: p.curToken, Exported: exported}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		variant := p.parseEnumVariant()
		if variant == nil {
			return nil
		}
		stmt.Variants = append(stmt.Variants, variant)
		if p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	if len(stmt.Variants) == 0 {
		p.addError(diagnostics.ErrP008, stmt.Token, "enum %q has no variants", stmt.Name.Value)
		return nil
	}
	return stmt
}

func (p *Parser) parseEnumVariant() *ast.EnumVariantDecl {
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	variant := &ast.EnumVariantDecl{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)},
	}

	if !p.peekTokenIs(token.LPAREN) {
		return variant
	}
	p.nextToken()

	for !p.peekTokenIs(token.RPAREN) {
		field := p.parseStructField()
		if field == nil {
			return nil
		}
		variant.Fields = append(variant.Fields, field)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(token.RPAREN) {
			p.addError(diagnostics.ErrP008, p.peekToken, "expected ',' or ')' in variant payload")
			return nil
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return variant
}

func (p *Parser) parseTypeAliasStatement(exported bool) *ast.TypeAliasStatement {
	stmt := &ast.TypeAliasStatement{Token: p.curToken, Exported: exported}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Target = p.parseTypeExpr()
	if stmt.Target == nil {
		return nil
	}

	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) || p.peekTokenIs(token.RBRACE) {
		p.consumeSemicolon()
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else if !p.curTokenIs(token.SEMICOLON) {
			p.skipToStatementBoundary()
		}
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.addError(diagnostics.ErrP001, p.curToken, "expected '}' to close block")
	}
	return block
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Then = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			stmt.Else = asStatement(p.parseIfStatement())
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			stmt.Else = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	// Init clause, terminated by ';'. parseStatement consumes the
	// terminating semicolon itself.
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	} else {
		p.nextToken()
		stmt.Init = p.parseStatement()
		if stmt.Init == nil {
			return nil
		}
		if !p.curTokenIs(token.SEMICOLON) && !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}

	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		stmt.Cond = p.parseExpression(LOWEST)
		if stmt.Cond == nil {
			return nil
		}
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		post := &ast.ExpressionStatement{Token: p.curToken}
		post.Expression = p.parseExpression(LOWEST)
		if post.Expression == nil {
			return nil
		}
		stmt.Post = post
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseDeleteStatement() *ast.DeleteStatement {
	stmt := &ast.DeleteStatement{Token: p.curToken}
	p.nextToken()
	stmt.Target = p.parseExpression(LOWEST)
	if stmt.Target == nil {
		return nil
	}
	p.consumeSemicolon()
	return stmt
}

func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	p.consumeSemicolon()
	return stmt
}
