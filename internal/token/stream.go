package token

// Source produces tokens one at a time.
type Source interface {
	NextToken() Token
}

// Stream buffers a token source and supports lookahead.
type Stream struct {
	tokens []Token
	pos    int
}

// NewStream drains the source up to EOF.
func NewStream(src Source) *Stream {
	s := &Stream{}
	for {
		tok := src.NextToken()
		s.tokens = append(s.tokens, tok)
		if tok.Type == EOF {
			return s
		}
	}
}

// Next returns the next token, repeating EOF at the end.
func (s *Stream) Next() Token {
	if s.pos >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

// Peek returns up to n upcoming tokens without consuming them.
func (s *Stream) Peek(n int) []Token {
	end := s.pos + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	return s.tokens[s.pos:end]
}
