package diagnostics

// Parser errors.
const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // expected identifier
	ErrP003 ErrorCode = "P003" // unterminated string literal
	ErrP004 ErrorCode = "P004" // malformed number literal
	ErrP005 ErrorCode = "P005" // expected type annotation
	ErrP006 ErrorCode = "P006" // general syntax error
	ErrP007 ErrorCode = "P007" // recursion depth exceeded
	ErrP008 ErrorCode = "P008" // malformed enum declaration
	ErrP009 ErrorCode = "P009" // malformed pattern
	ErrP010 ErrorCode = "P010" // illegal character
)

// Constant evaluation errors.
const (
	ErrC101 ErrorCode = "C101" // reference to non-constant in constant expression
	ErrC102 ErrorCode = "C102" // undeclared identifier in constant expression
	ErrC103 ErrorCode = "C103" // cyclic constant definition
	ErrC104 ErrorCode = "C104" // division or modulo by zero
	ErrC105 ErrorCode = "C105" // evaluation depth exceeded
	ErrC106 ErrorCode = "C106" // array size must be a positive integer
)

// Type inference and specialization errors.
const (
	ErrT301 ErrorCode = "T301" // undefined variable
	ErrT302 ErrorCode = "T302" // undefined type
	ErrT303 ErrorCode = "T303" // undefined function
	ErrT304 ErrorCode = "T304" // wrong number of call arguments
	ErrT305 ErrorCode = "T305" // unknown struct field
	ErrT306 ErrorCode = "T306" // missing struct field
	ErrT307 ErrorCode = "T307" // struct field type mismatch
	ErrT308 ErrorCode = "T308" // duplicate type declaration
	ErrT309 ErrorCode = "T309" // unresolved declaration after fixed point
	ErrT310 ErrorCode = "T310" // operator not defined for operand types
	ErrT311 ErrorCode = "T311" // index type mismatch
	ErrT312 ErrorCode = "T312" // ambiguous index coercion
	ErrT313 ErrorCode = "T313" // return type mismatch
	ErrT314 ErrorCode = "T314" // assignment type mismatch
	ErrT315 ErrorCode = "T315" // not an enum type
	ErrT316 ErrorCode = "T316" // unknown enum variant
	ErrT317 ErrorCode = "T317" // pattern binding count mismatch
	ErrT318 ErrorCode = "T318" // call argument types not concrete
	ErrT319 ErrorCode = "T319" // condition must be boolean
	ErrT320 ErrorCode = "T320" // assignment to constant
	ErrT321 ErrorCode = "T321" // specialization rounds exhausted (warning)
	ErrT322 ErrorCode = "T322" // not callable
	ErrT323 ErrorCode = "T323" // member access on non-object type
	ErrT324 ErrorCode = "T324" // array element type mismatch
	ErrT325 ErrorCode = "T325" // duplicate symbol declaration
	ErrT326 ErrorCode = "T326" // delete on non-reference value
)

// Module errors.
const (
	ErrM001 ErrorCode = "M001" // module file not found
	ErrM002 ErrorCode = "M002" // import cycle
	ErrM003 ErrorCode = "M003" // unknown export
	ErrM004 ErrorCode = "M004" // errors in imported module
)
