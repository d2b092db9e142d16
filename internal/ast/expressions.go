package ast

import (
	"github.com/velalang/vela/internal/token"
	"github.com/velalang/vela/internal/types"
)

type Identifier struct {
	TypedNode
	Token token.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

type IntegerLiteral struct {
	TypedNode
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

type FloatLiteral struct {
	TypedNode
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}

type StringLiteral struct {
	TypedNode
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

type BooleanLiteral struct {
	TypedNode
	Token token.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Lexeme }
func (bl *BooleanLiteral) GetToken() token.Token {
	if bl == nil {
		return token.Token{}
	}
	return bl.Token
}

type ArrayLiteral struct {
	TypedNode
	Token    token.Token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token {
	if al == nil {
		return token.Token{}
	}
	return al.Token
}

// ObjectField is one field initializer of an object literal.
type ObjectField struct {
	Token token.Token
	Name  *Identifier
	Value Expression
}

func (of *ObjectField) TokenLiteral() string { return of.Token.Lexeme }
func (of *ObjectField) GetToken() token.Token {
	if of == nil {
		return token.Token{}
	}
	return of.Token
}

// ObjectLiteral is { a: 1, b: 2 }. With a struct type from context it
// is validated against the struct's declared fields, otherwise it
// receives an interned anonymous object type.
type ObjectLiteral struct {
	TypedNode
	Token  token.Token
	Fields []*ObjectField
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Lexeme }
func (ol *ObjectLiteral) GetToken() token.Token {
	if ol == nil {
		return token.Token{}
	}
	return ol.Token
}

type PrefixExpression struct {
	TypedNode
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}

type InfixExpression struct {
	TypedNode
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

// AssignExpression covers plain and compound assignment. Op is the
// assignment token type.
type AssignExpression struct {
	TypedNode
	Token  token.Token
	Target Expression
	Op     token.TokenType
	Value  Expression
}

func (ae *AssignExpression) expressionNode()      {}
func (ae *AssignExpression) TokenLiteral() string { return ae.Token.Lexeme }
func (ae *AssignExpression) GetToken() token.Token {
	if ae == nil {
		return token.Token{}
	}
	return ae.Token
}

type TernaryExpression struct {
	TypedNode
	Token token.Token
	Cond  Expression
	Then  Expression
	Else  Expression
}

func (te *TernaryExpression) expressionNode()      {}
func (te *TernaryExpression) TokenLiteral() string { return te.Token.Lexeme }
func (te *TernaryExpression) GetToken() token.Token {
	if te == nil {
		return token.Token{}
	}
	return te.Token
}

type CallExpression struct {
	TypedNode
	Token     token.Token
	Function  Expression
	Arguments []Expression

	// ResolvedName is the specialization the call dispatches to, set
	// by call site analysis.
	ResolvedName string
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}

// MemberExpression is a.b: struct property access, enum variant
// reference, namespace member or method reference.
type MemberExpression struct {
	TypedNode
	Token    token.Token
	Object   Expression
	Property *Identifier
}

func (me *MemberExpression) expressionNode()      {}
func (me *MemberExpression) TokenLiteral() string { return me.Token.Lexeme }
func (me *MemberExpression) GetToken() token.Token {
	if me == nil {
		return token.Token{}
	}
	return me.Token
}

type IndexExpression struct {
	TypedNode
	Token token.Token
	Left  Expression
	Index Expression

	// KeyCoercion is the type the index key converts through when
	// the container has no direct Index impl for the key's own type.
	KeyCoercion *types.TypeInfo
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

// PatternBinding is one binding position of an is-pattern: let x,
// var x or the wildcard _.
type PatternBinding struct {
	Token    token.Token
	Name     *Identifier // nil for wildcard
	Wildcard bool
	Mutable  bool
}

func (pb *PatternBinding) TokenLiteral() string { return pb.Token.Lexeme }
func (pb *PatternBinding) GetToken() token.Token {
	if pb == nil {
		return token.Token{}
	}
	return pb.Token
}

// IsExpression tests a value against an enum variant and optionally
// destructures its payload: v is Shape.Circle(let r).
type IsExpression struct {
	TypedNode
	Token    token.Token
	Value    Expression
	EnumName *Identifier // nil when the enum is taken from the value
	Variant  *Identifier
	Bindings []*PatternBinding
}

func (ie *IsExpression) expressionNode()      {}
func (ie *IsExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IsExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

// NewExpression allocates an array: new i32[n].
type NewExpression struct {
	TypedNode
	Token    token.Token
	ElemType TypeExpr
	Size     Expression
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Lexeme }
func (ne *NewExpression) GetToken() token.Token {
	if ne == nil {
		return token.Token{}
	}
	return ne.Token
}

// RefExpression takes a reference: ref x or ref mut x.
type RefExpression struct {
	TypedNode
	Token   token.Token
	Target  Expression
	Mutable bool
}

func (re *RefExpression) expressionNode()      {}
func (re *RefExpression) TokenLiteral() string { return re.Token.Lexeme }
func (re *RefExpression) GetToken() token.Token {
	if re == nil {
		return token.Token{}
	}
	return re.Token
}
