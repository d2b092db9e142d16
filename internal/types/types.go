package types

import (
	"strings"

	"github.com/velalang/vela/internal/token"
)

type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindPrimitive
	KindObject
	KindArray
	KindFunction
	KindRef
	KindAlias
	KindEnum
)

// DeclRef is a back-reference from a type to the AST node that
// declared it. Kept as a narrow interface so this package does not
// depend on the ast package.
type DeclRef interface {
	GetToken() token.Token
}

// Property is a named field of an object or enum variant type.
// Default, when set, is the declaration's default value expression.
type Property struct {
	Name    string
	Type    *TypeInfo
	Default DeclRef
}

type PrimitiveType struct {
	BitWidth int
	Signed   bool
	Float    bool
}

type ObjectType struct {
	Properties []Property
	Decl       DeclRef
	Anonymous  bool
}

type ArrayType struct {
	Elem    *TypeInfo
	Size    int64
	HasSize bool
}

type FunctionType struct {
	Params          []*TypeInfo
	Return          *TypeInfo
	Decl            DeclRef
	Specializations []*FunctionSpecialization
	FullyTyped      bool
	Variadic        bool
	External        bool
}

type RefType struct {
	Target  *TypeInfo
	Mutable bool
}

type EnumVariant struct {
	Name       string
	Fields     []Property
	StructType *TypeInfo
}

type EnumType struct {
	Variants []*EnumVariant
	Decl     DeclRef
}

// TypeInfo is one type in the program. Exactly one of the kind
// payloads is non-nil, selected by Kind.
type TypeInfo struct {
	Kind      TypeKind
	Name      string
	Primitive *PrimitiveType
	Object    *ObjectType
	Array     *ArrayType
	Function  *FunctionType
	Ref       *RefType
	AliasOf   *TypeInfo
	Enum      *EnumType
}

// FunctionSpecialization is one monomorphized instance of a function.
type FunctionSpecialization struct {
	Name       string
	ParamTypes []*TypeInfo
	ReturnType *TypeInfo
	Body       DeclRef
}

// Resolve follows alias links to the underlying type.
func (t *TypeInfo) Resolve() *TypeInfo {
	for t != nil && t.Kind == KindAlias {
		t = t.AliasOf
	}
	return t
}

func (t *TypeInfo) IsUnknown() bool {
	return t == nil || t.Resolve().Kind == KindUnknown
}

func (t *TypeInfo) IsInteger() bool {
	r := t.Resolve()
	return r != nil && r.Kind == KindPrimitive && r.Primitive.BitWidth > 1 && !r.Primitive.Float
}

func (t *TypeInfo) IsFloat() bool {
	r := t.Resolve()
	return r != nil && r.Kind == KindPrimitive && r.Primitive.Float
}

func (t *TypeInfo) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

func (t *TypeInfo) IsBool() bool {
	r := t.Resolve()
	return r != nil && r.Kind == KindPrimitive && r.Name == "bool"
}

func (t *TypeInfo) IsString() bool {
	r := t.Resolve()
	return r != nil && r.Kind == KindPrimitive && r.Name == "string"
}

func (t *TypeInfo) IsVoid() bool {
	r := t.Resolve()
	return r != nil && r.Kind == KindPrimitive && r.Name == "void"
}

// String renders the type for diagnostics and mangled names.
func (t *TypeInfo) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindUnknown:
		return "unknown"
	case KindArray:
		return t.Array.Elem.String() + "[]"
	case KindRef:
		if t.Ref.Mutable {
			return "ref<mut " + t.Ref.Target.String() + ">"
		}
		return "ref<" + t.Ref.Target.String() + ">"
	case KindFunction:
		var sb strings.Builder
		sb.WriteString("function(")
		for i, p := range t.Function.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(")")
		if t.Function.Return != nil {
			sb.WriteString(": " + t.Function.Return.String())
		}
		return sb.String()
	default:
		return t.Name
	}
}

// Equals reports structural equality. Objects compare by ordered
// property names and types, arrays by element type and size. Aliases
// are resolved on both sides first.
func Equals(a, b *TypeInfo) bool {
	a, b = a.Resolve(), b.Resolve()
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPrimitive:
		return a.Name == b.Name
	case KindObject:
		ap, bp := a.Object.Properties, b.Object.Properties
		if len(ap) != len(bp) {
			return false
		}
		for i := range ap {
			if ap[i].Name != bp[i].Name || !Equals(ap[i].Type, bp[i].Type) {
				return false
			}
		}
		return true
	case KindArray:
		if !Equals(a.Array.Elem, b.Array.Elem) {
			return false
		}
		if a.Array.HasSize && b.Array.HasSize {
			return a.Array.Size == b.Array.Size
		}
		return true
	case KindRef:
		return a.Ref.Mutable == b.Ref.Mutable && Equals(a.Ref.Target, b.Ref.Target)
	case KindEnum:
		return a.Name == b.Name
	case KindFunction:
		return a == b
	default:
		return true
	}
}
