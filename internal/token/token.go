package token

type TokenType string

// Token is a single lexical token with its source position.
// Literal holds the decoded value for literals (int64, float64, string)
// and the lexeme itself for everything else.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

const (
	ILLEGAL   = "ILLEGAL"
	BADSTRING = "BADSTRING"
	EOF       = "EOF"

	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	BANG     = "!"
	TILDE    = "~"

	PLUS_ASSIGN     = "+="
	MINUS_ASSIGN    = "-="
	ASTERISK_ASSIGN = "*="
	SLASH_ASSIGN    = "/="

	EQ     = "=="
	NOT_EQ = "!="
	LT     = "<"
	GT     = ">"
	LT_EQ  = "<="
	GT_EQ  = ">="

	AND = "&&"
	OR  = "||"

	AMPERSAND = "&"
	PIPE      = "|"
	CARET     = "^"
	SHL       = "<<"
	SHR       = ">>"

	QUESTION  = "?"
	COLON     = ":"
	SEMICOLON = ";"
	COMMA     = ","
	DOT       = "."
	ELLIPSIS  = "..."

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	FUNCTION = "FUNCTION"
	EXTERNAL = "EXTERNAL"
	CONST    = "CONST"
	LET      = "LET"
	VAR      = "VAR"
	STRUCT   = "STRUCT"
	ENUM     = "ENUM"
	TYPE     = "TYPE"
	IMPORT   = "IMPORT"
	FROM     = "FROM"
	EXPORT   = "EXPORT"
	RETURN   = "RETURN"
	IF       = "IF"
	ELSE     = "ELSE"
	WHILE    = "WHILE"
	FOR      = "FOR"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	IS       = "IS"
	NEW      = "NEW"
	DELETE   = "DELETE"
	REF      = "REF"
	MUT      = "MUT"
)

var keywords = map[string]TokenType{
	"function": FUNCTION,
	"external": EXTERNAL,
	"const":    CONST,
	"let":      LET,
	"var":      VAR,
	"struct":   STRUCT,
	"enum":     ENUM,
	"type":     TYPE,
	"import":   IMPORT,
	"from":     FROM,
	"export":   EXPORT,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
	"is":       IS,
	"new":      NEW,
	"delete":   DELETE,
	"ref":      REF,
	"mut":      MUT,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return IDENT
}
