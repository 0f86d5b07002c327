package references_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/references"
	"github.com/sandrolain/gocalc/pkg/types"
)

func TestCollect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  references.References
	}{
		{
			name:  "parameters and functions",
			input: "{a} + {b} ? f(x) : -g(y)",
			want: references.References{
				Parameters: []string{"a", "b", "x", "y"},
				Functions:  []string{"f", "g"},
			},
		},
		{
			name:  "function before its arguments",
			input: "Outer([p], Inner([q]))",
			want: references.References{
				Parameters: []string{"p", "q"},
				Functions:  []string{"Outer", "Inner"},
			},
		},
		{
			name:  "duplicates removed",
			input: "[x] + [x] * F([x]) + F(1)",
			want: references.References{
				Parameters: []string{"x"},
				Functions:  []string{"F"},
			},
		},
		{
			name:  "built-ins kept apart",
			input: "Max([a], Custom([b])) + if([c], 1, Abs(-1))",
			want: references.References{
				Parameters: []string{"a", "b", "c"},
				Functions:  []string{"Custom"},
				Builtins:   []string{"Max", "if", "Abs"},
			},
		},
		{
			name:  "same name as parameter and function",
			input: "Rate([Rate])",
			want: references.References{
				Parameters: []string{"Rate"},
				Functions:  []string{"Rate"},
			},
		},
		{
			name:  "lists and unary",
			input: "not ([a] in ([b], ~[c],))",
			want: references.References{
				Parameters: []string{"a", "b", "c"},
			},
		},
		{
			name:  "no references",
			input: "1 + 2",
			want:  references.References{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := parser.Parse(tt.input)
			if err != nil {
				t.Fatalf("Failed to parse %q: %v", tt.input, err)
			}
			got := references.Collect(expr.AST())
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Collect(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestCollectHandBuiltTree(t *testing.T) {
	tree := types.Ternary(
		types.Parameter("cond"),
		types.Function("F", types.Parameter("a")),
		nil,
	)
	got := references.Collect(tree)
	want := references.References{
		Parameters: []string{"cond", "a"},
		Functions:  []string{"F"},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Collect mismatch (-want +got):\n%s", diff)
	}

	if got := references.Collect(nil); len(got.Parameters)+len(got.Functions)+len(got.Builtins) != 0 {
		t.Errorf("expected nothing for a nil tree, got %+v", got)
	}
}
