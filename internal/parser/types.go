package parser

import (
	"github.com/velalang/vela/internal/ast"
	"github.com/velalang/vela/internal/diagnostics"
	"github.com/velalang/vela/internal/token"
)

// parseTypeExpr parses a type annotation with curToken at its first
// token: a named type, ref<T>, ref<mut T>, or any of these with
// trailing [] / [N] array suffixes.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	var base ast.TypeExpr

	switch p.curToken.Type {
	case token.REF:
		base = p.parseRefTypeExpr()
	case token.IDENT:
		nt := &ast.NamedType{Token: p.curToken, Name: p.curToken.Literal.(string)}
		if p.peekTokenIs(token.DOT) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			nt.Namespace = nt.Name
			nt.Name = p.curToken.Literal.(string)
			if p.peekTokenIs(token.DOT) {
				p.addError(diagnostics.ErrP005, p.peekToken,
					"type names qualify with at most one namespace")
				return nil
			}
		}
		base = nt
	default:
		p.addError(diagnostics.ErrP005, p.curToken, "expected type, got %q", p.curToken.Lexeme)
		return nil
	}
	if base == nil {
		return nil
	}

	for p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		arr := &ast.ArrayType{Token: p.curToken, Elem: base}
		if !p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			arr.Size = p.parseExpression(LOWEST)
			if arr.Size == nil {
				return nil
			}
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		base = arr
	}
	return base
}

func (p *Parser) parseRefTypeExpr() ast.TypeExpr {
	rt := &ast.RefType{Token: p.curToken}

	if !p.expectPeek(token.LT) {
		return nil
	}
	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		rt.Mutable = true
	}
	p.nextToken()
	rt.Target = p.parseTypeExpr()
	if rt.Target == nil {
		return nil
	}
	if !p.expectPeek(token.GT) {
		return nil
	}
	return rt
}
