package parser_test

import (
	"testing"

	"github.com/sandrolain/gocalc/pkg/parser"
)

func TestCharStream(t *testing.T) {
	s := parser.NewCharStream("aé1")

	for i := 0; i < 3; i++ {
		if r, ok := s.Peek(); !ok || r != 'a' {
			t.Fatalf("Peek #%d = %q, %v", i, r, ok)
		}
	}

	want := []rune{'a', 'é', '1'}
	for _, w := range want {
		r, ok := s.Next()
		if !ok || r != w {
			t.Fatalf("Next = %q, %v; want %q", r, ok, w)
		}
	}

	if s.Offset() != len("aé1") {
		t.Errorf("Offset = %d, want %d", s.Offset(), len("aé1"))
	}
	if _, ok := s.Peek(); ok {
		t.Errorf("Peek at end should report exhaustion")
	}
	if _, ok := s.Next(); ok {
		t.Errorf("Next at end should report exhaustion")
	}
}

func TestCharStreamEmpty(t *testing.T) {
	s := parser.NewCharStream("")
	if _, ok := s.Next(); ok {
		t.Errorf("empty stream returned a rune")
	}
}
