package parser

import "unicode/utf8"

const eof = -1

// CharStream gives one-rune-at-a-time access to the input text.
// Peek may be called any number of times without consuming input.
type CharStream struct {
	input   string
	current int  // byte offset of the next unread rune
	peeked  rune // decoded rune at current, valid when width > 0
	width   int
}

// NewCharStream creates a stream over input.
func NewCharStream(input string) *CharStream {
	return &CharStream{input: input}
}

// Peek returns the next rune without consuming it.
// ok is false at end of input.
func (s *CharStream) Peek() (r rune, ok bool) {
	if s.width == 0 {
		if s.current >= len(s.input) {
			return eof, false
		}
		s.peeked, s.width = utf8.DecodeRuneInString(s.input[s.current:])
	}
	return s.peeked, true
}

// Next consumes and returns the next rune.
// ok is false at end of input.
func (s *CharStream) Next() (r rune, ok bool) {
	r, ok = s.Peek()
	if !ok {
		return eof, false
	}
	s.current += s.width
	s.width = 0
	return r, true
}

// Offset returns the byte offset of the next unread rune.
func (s *CharStream) Offset() int {
	return s.current
}

// slice returns the input between two offsets.
func (s *CharStream) slice(start, end int) string {
	return s.input[start:end]
}
