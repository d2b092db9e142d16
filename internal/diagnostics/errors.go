package diagnostics

import (
	"fmt"

	"github.com/velalang/vela/internal/token"
)

type ErrorCode string

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// DiagnosticError is a single diagnostic tied to a source position.
type DiagnosticError struct {
	Code     ErrorCode
	Message  string
	Token    token.Token
	File     string
	Severity Severity
}

// NewError builds an error diagnostic. Extra args are formatted into msg.
func NewError(code ErrorCode, tok token.Token, msg string, args ...interface{}) *DiagnosticError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &DiagnosticError{
		Code:    code,
		Message: msg,
		Token:   tok,
	}
}

// NewWarning builds a warning diagnostic.
func NewWarning(code ErrorCode, tok token.Token, msg string, args ...interface{}) *DiagnosticError {
	d := NewError(code, tok, msg, args...)
	d.Severity = SeverityWarning
	return d
}

func (e *DiagnosticError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		loc = e.File + ":" + loc
	}
	label := "error"
	if e.Severity == SeverityWarning {
		label = "warning"
	}
	return fmt.Sprintf("%s: %s %s: %s", loc, label, string(e.Code), e.Message)
}
