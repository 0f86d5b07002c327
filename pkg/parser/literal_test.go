package parser_test

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

func TestDefaultLiteralFactoryNumbers(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{".5", 0.5},
		{"5.", 5},
		{"1e3", 1000},
		{"2.5E-1", 0.25},
		{"1e400", math.Inf(1)},
	}

	f := parser.DefaultLiteralFactory{}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := f.Create(types.LiteralNumber, tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultLiteralFactoryNaN(t *testing.T) {
	for _, text := range []string{".", "1e", "1.2.3"} {
		got, err := parser.DefaultLiteralFactory{}.Create(types.LiteralNumber, text)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", text, err)
		}
		if f, ok := got.(float64); !ok || !math.IsNaN(f) {
			t.Errorf("%q: got %v, want NaN", text, got)
		}
	}
}

func TestDefaultLiteralFactoryBooleans(t *testing.T) {
	f := parser.DefaultLiteralFactory{}

	for text, want := range map[string]bool{"true": true, "false": false} {
		got, err := f.Create(types.LiteralBoolean, text)
		if err != nil || got != want {
			t.Errorf("%q: got %v, %v", text, got, err)
		}
	}

	_, err := f.Create(types.LiteralBoolean, "True")
	if !types.IsCode(err, types.ErrInvalidBoolean) {
		t.Errorf("got %v, want %s", err, types.ErrInvalidBoolean)
	}
}

func TestDefaultLiteralFactoryStrings(t *testing.T) {
	got, err := parser.DefaultLiteralFactory{}.Create(types.LiteralString, "a\nb")
	if err != nil || got != "a\nb" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestDefaultLiteralFactoryDates(t *testing.T) {
	tests := []struct {
		text string
		want time.Time
	}{
		{"2024-06-15", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{" 2024-06-15 ", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-06-15T10:30:00Z", time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-06-15T10:30:00+02:00", time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)},
		{"2024-06-15T10:30:00", time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-06-15 10:30:00", time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)},
		{"15/06/2024", time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"5/6/2024", time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)},
		{"15/06/2024 08:00:00", time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)},
	}

	f := parser.DefaultLiteralFactory{}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := f.Create(types.LiteralDate, tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			d, ok := got.(time.Time)
			if !ok || !d.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultLiteralFactoryDateErrors(t *testing.T) {
	for _, text := range []string{"", "tomorrow", "2024-02-30", "13/13/2024"} {
		_, err := parser.DefaultLiteralFactory{}.Create(types.LiteralDate, text)
		if !types.IsCode(err, types.ErrInvalidDate) {
			t.Errorf("%q: got %v, want %s", text, err, types.ErrInvalidDate)
		}
	}

	_, err := parser.DefaultLiteralFactory{}.Create(types.LiteralDate, "bad")
	if errors.Unwrap(err) != nil {
		t.Errorf("unexpected cause: %v", errors.Unwrap(err))
	}
	for _, layout := range parser.DefaultDateLayouts {
		if !strings.Contains(err.Error(), layout) {
			t.Errorf("error %q does not list layout %q", err, layout)
		}
	}
}

func TestDefaultLiteralFactoryCustomLayout(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	f := parser.DefaultLiteralFactory{DateLayouts: []string{"01/02/2006"}, Location: loc}

	got, err := f.Create(types.LiteralDate, "12/11/2003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2003, 12, 11, 0, 0, 0, 0, loc)
	if d := got.(time.Time); !d.Equal(want) {
		t.Errorf("got %v, want %v", d, want)
	}

	if _, err := f.Create(types.LiteralDate, "2003-12-11"); err == nil {
		t.Errorf("custom layouts should replace the defaults")
	}
}
