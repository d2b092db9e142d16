package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/velalang/vela/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) peekCharAt(offset int) rune {
	pos := l.readPosition
	for i := 0; i < offset; i++ {
		if pos >= len(l.input) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	if pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[pos:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	var tok token.Token

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.EQ, "==")
		} else {
			tok = l.newToken(token.ASSIGN)
		}
	case '+':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.PLUS_ASSIGN, "+=")
		} else {
			tok = l.newToken(token.PLUS)
		}
	case '-':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.MINUS_ASSIGN, "-=")
		} else {
			tok = l.newToken(token.MINUS)
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.ASTERISK_ASSIGN, "*=")
		} else {
			tok = l.newToken(token.ASTERISK)
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.SLASH_ASSIGN, "/=")
		} else {
			tok = l.newToken(token.SLASH)
		}
	case '%':
		tok = l.newToken(token.PERCENT)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.NOT_EQ, "!=")
		} else {
			tok = l.newToken(token.BANG)
		}
	case '~':
		tok = l.newToken(token.TILDE)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.LT_EQ, "<=")
		} else if l.peekChar() == '<' {
			l.readChar()
			tok = l.twoCharToken(token.SHL, "<<")
		} else {
			tok = l.newToken(token.LT)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = l.twoCharToken(token.GT_EQ, ">=")
		} else if l.peekChar() == '>' {
			l.readChar()
			tok = l.twoCharToken(token.SHR, ">>")
		} else {
			tok = l.newToken(token.GT)
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = l.twoCharToken(token.AND, "&&")
		} else {
			tok = l.newToken(token.AMPERSAND)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = l.twoCharToken(token.OR, "||")
		} else {
			tok = l.newToken(token.PIPE)
		}
	case '^':
		tok = l.newToken(token.CARET)
	case '?':
		tok = l.newToken(token.QUESTION)
	case ':':
		tok = l.newToken(token.COLON)
	case ';':
		tok = l.newToken(token.SEMICOLON)
	case ',':
		tok = l.newToken(token.COMMA)
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(1) == '.' {
			l.readChar()
			l.readChar()
			tok = l.twoCharToken(token.ELLIPSIS, "...")
		} else {
			tok = l.newToken(token.DOT)
		}
	case '(':
		tok = l.newToken(token.LPAREN)
	case ')':
		tok = l.newToken(token.RPAREN)
	case '{':
		tok = l.newToken(token.LBRACE)
	case '}':
		tok = l.newToken(token.RBRACE)
	case '[':
		tok = l.newToken(token.LBRACKET)
	case ']':
		tok = l.newToken(token.RBRACKET)
	case '"':
		return l.readString()
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Literal: "", Line: l.line, Column: l.column}
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if unicode.IsDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.newToken(token.ILLEGAL)
	}

	l.readChar()
	return tok
}

func (l *Lexer) newToken(tt token.TokenType) token.Token {
	lexeme := string(l.ch)
	return token.Token{Type: tt, Lexeme: lexeme, Literal: lexeme, Line: l.line, Column: l.column}
}

func (l *Lexer) twoCharToken(tt token.TokenType, lexeme string) token.Token {
	return token.Token{Type: tt, Lexeme: lexeme, Literal: lexeme, Line: l.line, Column: l.column - len(lexeme) + 1}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			for l.ch != 0 && !(l.ch == '*' && l.peekChar() == '/') {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar()
				l.readChar()
			}
			continue
		}
		return
	}
}

func (l *Lexer) readIdentifier() token.Token {
	line, column := l.line, l.column
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(l.ch) {
		l.readChar()
	}
	ident := l.input[start:l.position]
	return token.Token{
		Type:    token.LookupIdent(ident),
		Lexeme:  ident,
		Literal: ident,
		Line:    line,
		Column:  column,
	}
}

func (l *Lexer) readNumber() token.Token {
	line, column := l.line, l.column
	start := l.position
	isFloat := false
	for unicode.IsDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for unicode.IsDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.position]
	clean := strings.ReplaceAll(lexeme, "_", "")

	// A number that does not fit keeps its kind with the raw lexeme
	// as the literal; the parser reports it as malformed.
	if isFloat {
		value, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return token.Token{Type: token.FLOAT, Lexeme: lexeme, Literal: lexeme, Line: line, Column: column}
		}
		return token.Token{Type: token.FLOAT, Lexeme: lexeme, Literal: value, Line: line, Column: column}
	}
	value, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return token.Token{Type: token.INT, Lexeme: lexeme, Literal: lexeme, Line: line, Column: column}
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: value, Line: line, Column: column}
}

func (l *Lexer) readString() token.Token {
	line, column := l.line, l.column
	var sb strings.Builder
	for {
		l.readChar()
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == 0 || l.ch == '\n' {
			// Unterminated string. The parser reports it.
			return token.Token{Type: token.BADSTRING, Lexeme: sb.String(), Literal: sb.String(), Line: line, Column: column}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case '\\':
				sb.WriteRune('\\')
			case '"':
				sb.WriteRune('"')
			case '0':
				sb.WriteRune(0)
			default:
				sb.WriteRune(l.ch)
			}
			continue
		}
		sb.WriteRune(l.ch)
	}
	value := sb.String()
	return token.Token{Type: token.STRING, Lexeme: value, Literal: value, Line: line, Column: column}
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}
