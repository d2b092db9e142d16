package traits

import (
	"github.com/velalang/vela/internal/token"
)

// Operator is the closed set of trait-resolved operations.
type Operator int

const (
	OpInvalid Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpOrd
	OpNot
	OpNeg
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpIndex
	OpRefIndex
	OpLength
)

type operatorInfo struct {
	trait  string
	method string
}

// operatorTable maps each operator to its trait and method name.
// Dispatch goes through this table, never through lexeme comparison.
var operatorTable = map[Operator]operatorInfo{
	OpAdd:       {"Add", "add"},
	OpSub:       {"Sub", "sub"},
	OpMul:       {"Mul", "mul"},
	OpDiv:       {"Div", "div"},
	OpRem:       {"Rem", "rem"},
	OpBitAnd:    {"BitAnd", "bitand"},
	OpBitOr:     {"BitOr", "bitor"},
	OpBitXor:    {"BitXor", "bitxor"},
	OpShl:       {"Shl", "shl"},
	OpShr:       {"Shr", "shr"},
	OpEq:        {"Eq", "eq"},
	OpOrd:       {"Ord", "cmp"},
	OpNot:       {"Not", "not"},
	OpNeg:       {"Neg", "neg"},
	OpAddAssign: {"AddAssign", "addAssign"},
	OpSubAssign: {"SubAssign", "subAssign"},
	OpMulAssign: {"MulAssign", "mulAssign"},
	OpDivAssign: {"DivAssign", "divAssign"},
	OpIndex:     {"Index", "index"},
	OpRefIndex:  {"RefIndex", "refIndex"},
	OpLength:    {"Length", "length"},
}

// Trait returns the trait name the operator resolves through.
func (op Operator) Trait() string {
	return operatorTable[op].trait
}

var binaryTokenOps = map[token.TokenType]Operator{
	token.PLUS:            OpAdd,
	token.MINUS:           OpSub,
	token.ASTERISK:        OpMul,
	token.SLASH:           OpDiv,
	token.PERCENT:         OpRem,
	token.AMPERSAND:       OpBitAnd,
	token.PIPE:            OpBitOr,
	token.CARET:           OpBitXor,
	token.SHL:             OpShl,
	token.SHR:             OpShr,
	token.EQ:              OpEq,
	token.NOT_EQ:          OpEq,
	token.LT:              OpOrd,
	token.GT:              OpOrd,
	token.LT_EQ:           OpOrd,
	token.GT_EQ:           OpOrd,
	token.PLUS_ASSIGN:     OpAddAssign,
	token.MINUS_ASSIGN:    OpSubAssign,
	token.ASTERISK_ASSIGN: OpMulAssign,
	token.SLASH_ASSIGN:    OpDivAssign,
}

var unaryTokenOps = map[token.TokenType]Operator{
	token.BANG:  OpNot,
	token.TILDE: OpNot,
	token.MINUS: OpNeg,
}

// BinaryOperatorFor maps a binary operator token to its Operator,
// or OpInvalid.
func BinaryOperatorFor(t token.TokenType) Operator {
	return binaryTokenOps[t]
}

// UnaryOperatorFor maps a prefix operator token to its Operator.
func UnaryOperatorFor(t token.TokenType) Operator {
	return unaryTokenOps[t]
}

// IsComparison reports whether the token produces a bool regardless
// of the Output binding (==, !=, <, >, <=, >=).
func IsComparison(t token.TokenType) bool {
	switch t {
	case token.EQ, token.NOT_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ:
		return true
	}
	return false
}
