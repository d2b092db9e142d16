package ast

import (
	"github.com/velalang/vela/internal/token"
	"github.com/velalang/vela/internal/types"
)

// TokenProvider is an interface for any AST node that can provide its
// primary token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression. Every
// expression carries the type the inference passes assigned to it.
type Expression interface {
	Node
	expressionNode()
	GetType() *types.TypeInfo
	SetType(*types.TypeInfo)
}

// TypeExpr is a parsed type annotation, resolved to a TypeInfo by the
// analyzer.
type TypeExpr interface {
	Node
	typeExprNode()
}

// TypedNode holds the inferred type of an expression node.
type TypedNode struct {
	Type *types.TypeInfo
}

func (t *TypedNode) GetType() *types.TypeInfo   { return t.Type }
func (t *TypedNode) SetType(ti *types.TypeInfo) { t.Type = ti }

// Program is the root node of every AST our parser produces.
type Program struct {
	File       string
	Imports    []*ImportStatement
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if p == nil || len(p.Statements) == 0 {
		return token.Token{}
	}
	return p.Statements[0].GetToken()
}

// NamedType is a type annotation referring to a type by name,
// optionally qualified with an import namespace as in geo.Point.
type NamedType struct {
	Token     token.Token
	Namespace string
	Name      string
}

func (nt *NamedType) typeExprNode()        {}
func (nt *NamedType) TokenLiteral() string { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token {
	if nt == nil {
		return token.Token{}
	}
	return nt.Token
}

// ArrayType is an array type annotation: elem[] or elem[N].
type ArrayType struct {
	Token token.Token
	Elem  TypeExpr
	Size  Expression // nil for unsized
}

func (at *ArrayType) typeExprNode()        {}
func (at *ArrayType) TokenLiteral() string { return at.Token.Lexeme }
func (at *ArrayType) GetToken() token.Token {
	if at == nil {
		return token.Token{}
	}
	return at.Token
}

// RefType is a reference type annotation: ref<T> or ref<mut T>.
type RefType struct {
	Token   token.Token
	Target  TypeExpr
	Mutable bool
}

func (rt *RefType) typeExprNode()        {}
func (rt *RefType) TokenLiteral() string { return rt.Token.Lexeme }
func (rt *RefType) GetToken() token.Token {
	if rt == nil {
		return token.Token{}
	}
	return rt.Token
}
