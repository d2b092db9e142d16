package config

const SourceFileExt = ".vela"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".vela"}

// ProjectFileName is the optional per-project configuration file.
const ProjectFileName = "vela.yaml"

// Fixed-point and recursion ceilings. Every iterative loop in the
// analyzer terminates through one of these.
const (
	MaxSpecializationRounds = 100
	MaxConstEvalDepth       = 100
	MaxDeclRounds           = 100
)

// Builtin function names resolvable without declaration.
const (
	PrintFuncName  = "print"
	LengthFuncName = "length"
)
