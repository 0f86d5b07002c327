package parser_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

// Tree builders

func num(v float64) *types.Node  { return types.Constant(v) }
func str(v string) *types.Node   { return types.Constant(v) }
func param(n string) *types.Node { return types.Parameter(n) }

func bin(op types.Operator, l, r *types.Node) *types.Node { return types.Binary(op, l, r) }
func un(op types.Operator, x *types.Node) *types.Node     { return types.Unary(op, x) }

var treeOpts = cmp.Options{
	cmpopts.IgnoreFields(types.Node{}, "Position"),
	cmpopts.EquateEmpty(),
}

func parse(t *testing.T, input string, opts ...parser.CompileOption) *types.Node {
	t.Helper()

	expr, err := parser.Parse(input, opts...)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	if expr.Source() != input {
		t.Errorf("Source() = %q, want %q", expr.Source(), input)
	}
	return expr.AST()
}

func parseExpectError(t *testing.T, input string, opts ...parser.CompileOption) *types.Error {
	t.Helper()

	_, err := parser.Parse(input, opts...)
	if err == nil {
		t.Fatalf("expected error parsing %q", input)
	}
	var perr *types.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *types.Error, got %T: %v", err, err)
	}
	return perr
}

func TestParseTrees(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *types.Node
	}{
		{"multiplication binds tighter", "2 + 3 * 4",
			bin(types.OpAddition, num(2), bin(types.OpMultiplication, num(3), num(4)))},
		{"subtraction is left associative", "1 - 2 - 3",
			bin(types.OpSubtraction, bin(types.OpSubtraction, num(1), num(2)), num(3))},
		{"exponentiation is right associative", "2 ** 3 ** 2",
			bin(types.OpExponentiation, num(2), bin(types.OpExponentiation, num(3), num(2)))},
		{"unary binds tighter than exponentiation", "-2 ** 2",
			bin(types.OpExponentiation, un(types.OpNegate, num(2)), num(2))},
		{"unary on exponent", "2 ** -1",
			bin(types.OpExponentiation, num(2), un(types.OpNegate, num(1)))},
		{"stacked negation", "--1",
			un(types.OpNegate, un(types.OpNegate, num(1)))},
		{"mixed unary", "!~-x",
			un(types.OpNot, un(types.OpBitComplement, un(types.OpNegate, param("x"))))},
		{"not keyword", "not a",
			un(types.OpNot, param("a"))},
		{"grouping", "(1)", num(1)},
		{"grouping changes precedence", "(2 + 3) * 4",
			bin(types.OpMultiplication, bin(types.OpAddition, num(2), num(3)), num(4))},
		{"one item list", "(1,)", types.List(num(1))},
		{"empty list", "()", types.List()},
		{"list with both separators", "(1, 2; 3)", types.List(num(1), num(2), num(3))},
		{"nested lists", "((1,), ())", types.List(types.List(num(1)), types.List())},
		{"ternary", "a ? b : c",
			types.Ternary(param("a"), param("b"), param("c"))},
		{"chained ternary nests on the left", "a ? b : c ? d : e",
			types.Ternary(types.Ternary(param("a"), param("b"), param("c")), param("d"), param("e"))},
		{"or below and", "a || b && c",
			bin(types.OpOr, param("a"), bin(types.OpAnd, param("b"), param("c")))},
		{"keyword logic", "a or b AND c",
			bin(types.OpOr, param("a"), bin(types.OpAnd, param("b"), param("c")))},
		{"membership", "a in (1, 2)",
			bin(types.OpIn, param("a"), types.List(num(1), num(2)))},
		{"negated membership", "a not in b",
			bin(types.OpNotIn, param("a"), param("b"))},
		{"membership after comparison", "a < b in c",
			bin(types.OpIn, bin(types.OpLessThan, param("a"), param("b")), param("c"))},
		{"membership then logic", "a in b && c",
			bin(types.OpAnd, bin(types.OpIn, param("a"), param("b")), param("c"))},
		{"membership right operand binds at bit-or", "1 in 2 | 3",
			bin(types.OpIn, num(1), bin(types.OpBitOr, num(2), num(3)))},
		{"parenthesized membership", "(a in b) in c",
			bin(types.OpIn, bin(types.OpIn, param("a"), param("b")), param("c"))},
		{"chained comparison is left associative", "1 < 2 < 3",
			bin(types.OpLessThan, bin(types.OpLessThan, num(1), num(2)), num(3))},
		{"single equals", "a = b == c",
			bin(types.OpEquals, bin(types.OpEquals, param("a"), param("b")), param("c"))},
		{"diamond not equals", "a <> b",
			bin(types.OpNotEquals, param("a"), param("b"))},
		{"comparisons", "a >= b",
			bin(types.OpMoreThanEqual, param("a"), param("b"))},
		{"bitwise tiers", "x | y ^ z & w",
			bin(types.OpBitOr, param("x"), bin(types.OpBitXor, param("y"), bin(types.OpBitAnd, param("z"), param("w"))))},
		{"shift below additive", "1 << 2 + 3",
			bin(types.OpBitLeftShift, num(1), bin(types.OpAddition, num(2), num(3)))},
		{"right shift", "8 >> 1",
			bin(types.OpBitRightShift, num(8), num(1))},
		{"modulus", "7 % 3 / 2",
			bin(types.OpDivision, bin(types.OpModulus, num(7), num(3)), num(2))},
		{"function without arguments", "Now()", types.Function("Now")},
		{"function with arguments", "Max(1, x, [y z])",
			types.Function("Max", num(1), param("x"), param("y z"))},
		{"nested functions", "F(G(1); (2,))",
			types.Function("F", types.Function("G", num(1)), types.List(num(2)))},
		{"brace parameter", "{a b} + 1",
			bin(types.OpAddition, param("a b"), num(1))},
		{"bare identifier is a parameter", "price * qty",
			bin(types.OpMultiplication, param("price"), param("qty"))},
		{"full precedence", "1 + 2 * 3 > 6 && 4 | 2 ^ 1 == 7 ? 100 : 200",
			types.Ternary(
				bin(types.OpAnd,
					bin(types.OpMoreThan, bin(types.OpAddition, num(1), bin(types.OpMultiplication, num(2), num(3))), num(6)),
					bin(types.OpEquals, bin(types.OpBitOr, num(4), bin(types.OpBitXor, num(2), num(1))), num(7)),
				),
				num(100), num(200))},
		{"string literal", `'a' + "b"`,
			bin(types.OpAddition, str("a"), str("b"))},
		{"boolean literal", "TRUE", types.Constant(true)},
		{"date literal", "#2024-06-15#",
			types.Constant(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parse(t, tt.input)
			if diff := cmp.Diff(tt.want, got, treeOpts); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsePositions(t *testing.T) {
	root := parse(t, "a + F(1)")
	if root.Position != 2 {
		t.Errorf("binary position = %d, want 2", root.Position)
	}
	if root.LHS.Position != 0 {
		t.Errorf("parameter position = %d, want 0", root.LHS.Position)
	}
	if root.RHS.Position != 4 {
		t.Errorf("function position = %d, want 4", root.RHS.Position)
	}
	if root.RHS.Arguments[0].Position != 6 {
		t.Errorf("argument position = %d, want 6", root.RHS.Arguments[0].Position)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		code     types.ErrorCode
		expected string
		position int
	}{
		{"empty", "", types.ErrUnexpectedToken, "expression", 0},
		{"dangling operator", "1 +", types.ErrUnexpectedToken, "expression", 3},
		{"unclosed list", "(1, 2", types.ErrUnexpectedToken, ")", 5},
		{"unclosed group", "(1", types.ErrUnexpectedToken, ")", 2},
		{"missing operator", "1 2", types.ErrUnexpectedToken, "end of input", 2},
		{"stray close", "1)", types.ErrUnexpectedToken, "end of input", 1},
		{"membership is not chainable", "a in b in c", types.ErrUnexpectedToken, "end of input", 7},
		{"comparison after membership", "a in b < c", types.ErrUnexpectedToken, "end of input", 7},
		{"comparison after membership in group", "(a not in b == c)", types.ErrUnexpectedToken, ")", 12},
		{"missing colon", "a ? b", types.ErrUnexpectedToken, ":", 5},
		{"nested ternary needs parens", "a ? b ? c : d : e", types.ErrUnexpectedToken, ":", 6},
		{"not without in", "a not b", types.ErrUnexpectedToken, "in", 6},
		{"trailing argument separator", "F(1,)", types.ErrUnexpectedToken, "expression", 4},
		{"double separator", "(1,,2)", types.ErrUnexpectedToken, "expression", 3},
		{"unclosed call", "F(1", types.ErrUnexpectedToken, ")", 3},
		{"lexer error wins", "1 + @", types.ErrUnrecognizedCharacter, "", 4},
		{"lexer error after expression", "1 $", types.ErrUnrecognizedCharacter, "", 2},
		{"invalid date", "1 + #2024-13-45#", types.ErrInvalidDate, "", 4},
		{"invalid date text", "#yesterday#", types.ErrInvalidDate, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseExpectError(t, tt.input)
			if err.Code != tt.code {
				t.Fatalf("code = %s, want %s (%v)", err.Code, tt.code, err)
			}
			if err.Expected != tt.expected {
				t.Errorf("expected = %q, want %q", err.Expected, tt.expected)
			}
			if err.Position != tt.position {
				t.Errorf("position = %d, want %d", err.Position, tt.position)
			}
		})
	}
}

func TestParseErrorReportsActualToken(t *testing.T) {
	err := parseExpectError(t, "1 2")
	if err.Token != "2" {
		t.Errorf("token = %q, want %q", err.Token, "2")
	}
	if !strings.Contains(err.Error(), "expected end of input but got 2") {
		t.Errorf("message = %q", err.Error())
	}

	err = parseExpectError(t, "1 +")
	if err.Token != "end of input" {
		t.Errorf("token = %q, want end of input", err.Token)
	}
}

func TestParseMaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300)

	err := parseExpectError(t, deep)
	if err.Code != types.ErrParseDepthExceed {
		t.Errorf("code = %s, want %s", err.Code, types.ErrParseDepthExceed)
	}

	if got := parse(t, deep, parser.WithMaxDepth(0)); got.Type != types.NodeConstant {
		t.Errorf("unlimited depth should parse, got %v", got)
	}

	err = parseExpectError(t, "((((((1))))))", parser.WithMaxDepth(5))
	if err.Code != types.ErrParseDepthExceed {
		t.Errorf("code = %s, want %s", err.Code, types.ErrParseDepthExceed)
	}

	err = parseExpectError(t, strings.Repeat("-", 1000)+"1")
	if err.Code != types.ErrParseDepthExceed {
		t.Errorf("unary chain: code = %s, want %s", err.Code, types.ErrParseDepthExceed)
	}
}

func TestParseCustomLiteralFactory(t *testing.T) {
	factory := parser.LiteralFactoryFunc(func(kind types.LiteralKind, text string) (interface{}, error) {
		if kind == types.LiteralNumber {
			return "n:" + text, nil
		}
		return parser.DefaultLiteralFactory{}.Create(kind, text)
	})

	got := parse(t, "1.50 + 'x'", parser.WithLiteralFactory(factory))
	want := bin(types.OpAddition, str("n:1.50"), str("x"))
	if diff := cmp.Diff(want, got, treeOpts); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLiteralFactoryErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	factory := parser.LiteralFactoryFunc(func(types.LiteralKind, string) (interface{}, error) {
		return nil, boom
	})

	_, err := parser.Parse("1", parser.WithLiteralFactory(factory))
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}
