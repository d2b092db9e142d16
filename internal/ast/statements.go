package ast

import (
	"github.com/velalang/vela/internal/token"
)

// LetStatement is a const, let or var binding. The declaration kind
// is the statement's token.
type LetStatement struct {
	Token          token.Token
	Name           *Identifier
	TypeAnnotation TypeExpr // optional
	Value          Expression
	Exported       bool
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}

func (ls *LetStatement) IsConst() bool {
	return ls.Token.Type == token.CONST
}

// Param is one function parameter.
type Param struct {
	Token          token.Token
	Name           *Identifier
	TypeAnnotation TypeExpr   // nil for untyped parameters
	Default        Expression // optional default value
}

func (p *Param) TokenLiteral() string { return p.Token.Lexeme }
func (p *Param) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// FunctionStatement declares a function, method or external function.
// Methods carry the receiver type name: function Point.dist(self).
type FunctionStatement struct {
	Token      token.Token
	Name       *Identifier
	Receiver   *Identifier // nil for plain functions
	Params     []*Param
	ReturnType TypeExpr // nil when inferred
	Body       *BlockStatement
	Variadic   bool
	External   bool
	Exported   bool
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *FunctionStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}

// SymbolName is the name the function is declared under in the module
// scope. Methods use the receiver-qualified form.
func (fs *FunctionStatement) SymbolName() string {
	if fs.Receiver != nil {
		return fs.Receiver.Value + "." + fs.Name.Value
	}
	return fs.Name.Value
}

// StructField is one field of a struct declaration or enum variant.
type StructField struct {
	Token          token.Token
	Name           *Identifier
	TypeAnnotation TypeExpr
	Default        Expression // optional
}

func (sf *StructField) TokenLiteral() string { return sf.Token.Lexeme }
func (sf *StructField) GetToken() token.Token {
	if sf == nil {
		return token.Token{}
	}
	return sf.Token
}

type StructStatement struct {
	Token    token.Token
	Name     *Identifier
	Fields   []*StructField
	Exported bool
}

func (ss *StructStatement) statementNode()       {}
func (ss *StructStatement) TokenLiteral() string { return ss.Token.Lexeme }
func (ss *StructStatement) GetToken() token.Token {
	if ss == nil {
		return token.Token{}
	}
	return ss.Token
}

// EnumVariantDecl is one variant of an enum declaration, with an
// optional typed payload.
type EnumVariantDecl struct {
	Token  token.Token
	Name   *Identifier
	Fields []*StructField
}

func (ev *EnumVariantDecl) TokenLiteral() string { return ev.Token.Lexeme }
func (ev *EnumVariantDecl) GetToken() token.Token {
	if ev == nil {
		return token.Token{}
	}
	return ev.Token
}

type EnumStatement struct {
	Token    token.Token
	Name     *Identifier
	Variants []*EnumVariantDecl
	Exported bool
}

func (es *EnumStatement) statementNode()       {}
func (es *EnumStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *EnumStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

// TypeAliasStatement declares a named alias: type Size = u64.
type TypeAliasStatement struct {
	Token    token.Token
	Name     *Identifier
	Target   TypeExpr
	Exported bool
}

func (ts *TypeAliasStatement) statementNode()       {}
func (ts *TypeAliasStatement) TokenLiteral() string { return ts.Token.Lexeme }
func (ts *TypeAliasStatement) GetToken() token.Token {
	if ts == nil {
		return token.Token{}
	}
	return ts.Token
}

// ImportStatement binds a namespace to a module path:
// import geo from "lib/geo".
type ImportStatement struct {
	Token     token.Token
	Namespace *Identifier
	Path      *StringLiteral
}

func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *ImportStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token {
	if rs == nil {
		return token.Token{}
	}
	return rs.Token
}

type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}

type IfStatement struct {
	Token token.Token
	Cond  Expression
	Then  *BlockStatement
	Else  Statement // *BlockStatement, *IfStatement or nil
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

type WhileStatement struct {
	Token token.Token
	Cond  Expression
	Body  *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token {
	if ws == nil {
		return token.Token{}
	}
	return ws.Token
}

type ForStatement struct {
	Token token.Token
	Init  Statement // nil or *LetStatement / *ExpressionStatement
	Cond  Expression
	Post  Statement
	Body  *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *ForStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}

type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}

type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}

// DeleteStatement releases a reference: delete r.
type DeleteStatement struct {
	Token  token.Token
	Target Expression
}

func (ds *DeleteStatement) statementNode()       {}
func (ds *DeleteStatement) TokenLiteral() string { return ds.Token.Lexeme }
func (ds *DeleteStatement) GetToken() token.Token {
	if ds == nil {
		return token.Token{}
	}
	return ds.Token
}

type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}
