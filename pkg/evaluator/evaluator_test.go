package evaluator_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/gocalc/pkg/calculator"
	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/functions"
	"github.com/sandrolain/gocalc/pkg/parser"
	"github.com/sandrolain/gocalc/pkg/types"
)

func compile(t testing.TB, source string) *types.Expression {
	t.Helper()
	expr, err := parser.Compile(source)
	if err != nil {
		t.Fatalf("Failed to compile %q: %v", source, err)
	}
	return expr
}

func eval(t *testing.T, ev *evaluator.Evaluator, source string, params map[string]interface{}) interface{} {
	t.Helper()
	result, err := ev.Eval(context.Background(), compile(t, source), params)
	if err != nil {
		t.Fatalf("Eval(%q): unexpected error: %v", source, err)
	}
	return result
}

func evalError(t *testing.T, ev *evaluator.Evaluator, source string, params map[string]interface{}) *types.Error {
	t.Helper()
	_, err := ev.Eval(context.Background(), compile(t, source), params)
	if err == nil {
		t.Fatalf("Eval(%q): expected error", source)
	}
	var e *types.Error
	if !errors.As(err, &e) {
		t.Fatalf("Eval(%q): expected *types.Error, got %T: %v", source, err, err)
	}
	return e
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEvalValues(t *testing.T) {
	params := map[string]interface{}{
		"x":     7.0,
		"name":  "world",
		"due":   date(2024, time.March, 1),
		"items": []interface{}{1.0, 2.0, 3.0},
	}
	tests := []struct {
		name  string
		input string
		want  interface{}
	}{
		{"precedence", "2 + 3 * 4", 14.0},
		{"grouping", "(2 + 3) * 4", 20.0},
		{"right associative power", "2 ** 3 ** 2", 512.0},
		{"unary before power", "-2 ** 2", 4.0},
		{"left associative subtraction", "10 - 4 - 3", 3.0},
		{"modulus keeps sign", "-7 % 3", -1.0},
		{"division by zero", "1 / 0", math.Inf(1)},
		{"string concatenation", "'hello ' + [name]", "hello world"},
		{"equality", "'a' = 'a'", true},
		{"inequality", "1 <> 2", true},
		{"date ordering", "[due] > #2024-02-28#", true},
		{"date equality", "[due] == #2024-03-01#", true},
		{"logic", "true and not false", true},
		{"bit and", "5 & 3", 1.0},
		{"bit or", "5 | 3", 7.0},
		{"bit xor", "5 ^ 3", 6.0},
		{"complement", "~0", -1.0},
		{"shift left", "1 << 4", 16.0},
		{"shift right", "-16 >> 2", -4.0},
		{"in list", "2 in (1, 2, 3)", true},
		{"in parameter list", "4 in [items]", false},
		{"not in", "4 not in (1, 2)", true},
		{"substring", "'orl' in [name]", true},
		{"ternary", "[x] > 5 ? 'big' : 'small'", "big"},
		{"chained ternary", "false ? 1 : true ? 2 : 3", 2.0},
		{"list", "(1, [x] + 1, 'a')", []interface{}{1.0, 8.0, "a"}},
		{"empty list", "()", []interface{}{}},
		{"nested list", "((1,), 2)", []interface{}{[]interface{}{1.0}, 2.0}},
		{"builtin", "Max(7, 4, 6) + Round(2.5)", 10.0},
		{"if", "if([x] > 5, 'yes', 'no')", "yes"},
		{"ifs", "ifs([x] > 10, 'high', [x] > 5, 'mid', 'low')", "mid"},
		{"bare identifier parameter", "x * 2", 14.0},
	}
	ev := evaluator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eval(t, ev, tt.input, params)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Eval(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		code     types.ErrorCode
		position int
		errName  string
	}{
		{"undefined parameter", "[missing] + 1", types.ErrUndefinedParameter, 0, "missing"},
		{"unknown function", "1 + Foo(2)", types.ErrUnknownFunction, 4, "Foo"},
		{"arity", "2 * Abs()", types.ErrArityMismatch, 4, "Abs"},
		{"type mismatch", "Sqrt('x')", types.ErrTypeMismatch, 0, "Sqrt"},
		{"unsupported operands", "1 + 'a'", types.ErrUnsupported, 2, ""},
		{"unsupported unary", "-'a'", types.ErrUnsupported, 0, ""},
		{"chained comparison", "1 < 2 < 3", types.ErrUnsupported, 6, ""},
		{"non boolean condition", "1 ? 2 : 3", types.ErrUnsupported, 2, ""},
		{"first error wins", "[a] + [b]", types.ErrUndefinedParameter, 0, "a"},
	}
	ev := evaluator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := evalError(t, ev, tt.input, nil)
			if e.Code != tt.code {
				t.Errorf("expected code %s, got %s (%v)", tt.code, e.Code, e)
			}
			if e.Position != tt.position {
				t.Errorf("expected position %d, got %d", tt.position, e.Position)
			}
			if e.Name != tt.errName {
				t.Errorf("expected name %q, got %q", tt.errName, e.Name)
			}
		})
	}
}

func TestShortCircuit(t *testing.T) {
	calls := 0
	ev := evaluator.New(evaluator.WithCustomFunction("Touch", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		calls++
		return true, nil
	}))

	tests := []struct {
		input string
		want  interface{}
	}{
		{"false && Touch()", false},
		{"true || Touch()", true},
		{"false ? Touch() : 1", 1.0},
		{"true ? 1 : Touch()", 1.0},
		{"if(false, Touch(), 2)", 2.0},
		{"ifs(true, 1, Touch(), 2, 3)", 1.0},
	}
	for _, tt := range tests {
		got := eval(t, ev, tt.input, nil)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Eval(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
	if calls != 0 {
		t.Fatalf("expected no calls to Touch, got %d", calls)
	}

	eval(t, ev, "true && Touch()", nil)
	if calls != 1 {
		t.Fatalf("expected 1 call to Touch, got %d", calls)
	}
}

func TestLazyParams(t *testing.T) {
	calls := 0
	lazy := map[string]evaluator.LazyParam{
		"tick": func(ctx context.Context) (interface{}, error) {
			calls++
			return float64(calls), nil
		},
	}
	ev := evaluator.New()
	expr := compile(t, "[tick] + [tick] + [tick]")

	got, err := ev.EvalWithLazyParams(context.Background(), expr, nil, lazy)
	if err != nil {
		t.Fatal(err)
	}
	if got != 6.0 {
		t.Errorf("expected 1+2+3 = 6, got %v", got)
	}
	if calls != 3 {
		t.Errorf("expected the callback on every reference, got %d calls", calls)
	}

	// Eager values take precedence.
	got, err = ev.EvalWithLazyParams(context.Background(), expr, map[string]interface{}{"tick": 1.0}, lazy)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.0 || calls != 3 {
		t.Errorf("expected eager value without callback, got %v after %d calls", got, calls)
	}
}

func TestLazyParamError(t *testing.T) {
	boom := errors.New("boom")
	lazy := map[string]evaluator.LazyParam{
		"bad": func(ctx context.Context) (interface{}, error) { return nil, boom },
	}
	_, err := evaluator.New().EvalWithLazyParams(context.Background(), compile(t, "1 + [bad]"), nil, lazy)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestCustomFunctionShadowsBuiltin(t *testing.T) {
	sin := func(ctx context.Context, args []types.Operand) (interface{}, error) {
		v, err := args[0].Evaluate()
		if err != nil {
			return nil, err
		}
		if s, ok := v.(string); ok {
			return "sin " + s, nil
		}
		return functions.Builtin("Sin")(ctx, args)
	}
	ev := evaluator.New(evaluator.WithFunction("Sin", sin))

	if got := eval(t, ev, "Sin(0)", nil); got != 0.0 {
		t.Errorf("expected built-in fallback 0, got %v", got)
	}
	if got := eval(t, ev, "Sin('x')", nil); got != "sin x" {
		t.Errorf(`expected "sin x", got %v`, got)
	}
}

func TestCustomFunctionArity(t *testing.T) {
	ev := evaluator.New(evaluator.WithFunctionDef(functions.Definition{
		Name:    "Pair",
		MinArgs: 2,
		MaxArgs: 2,
		Fn: functions.Eager(func(ctx context.Context, args ...interface{}) (interface{}, error) {
			return []interface{}{args[0], args[1]}, nil
		}),
	}))

	got := eval(t, ev, "Pair(1, 'a')", nil)
	if diff := cmp.Diff([]interface{}{1.0, "a"}, got); diff != "" {
		t.Errorf("Pair mismatch (-want +got):\n%s", diff)
	}
	if e := evalError(t, ev, "Pair(1)", nil); e.Code != types.ErrArityMismatch {
		t.Errorf("expected %s, got %v", types.ErrArityMismatch, e)
	}
}

func TestCustomFunctionErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	ev := evaluator.New(evaluator.WithCustomFunction("Fail", func(ctx context.Context, args ...interface{}) (interface{}, error) {
		return nil, boom
	}))
	_, err := ev.Eval(context.Background(), compile(t, "1 + Fail()"), nil)
	if err != boom {
		t.Fatalf("expected the function's error unchanged, got %v", err)
	}
}

type constantAdd struct{ calculator.Default }

func (constantAdd) Add(left, right types.Operand) (interface{}, error) {
	return "overridden", nil
}

func TestCustomCalculator(t *testing.T) {
	ev := evaluator.New(evaluator.WithCalculator(constantAdd{}))
	if got := eval(t, ev, "1 + 2", nil); got != "overridden" {
		t.Errorf(`expected "overridden", got %v`, got)
	}
	if got := eval(t, ev, "3 * 2", nil); got != 6.0 {
		t.Errorf("expected embedded default 6, got %v", got)
	}
}

func TestMaxDepth(t *testing.T) {
	source := "1 + 1 + 1 + 1 + 1 + 1 + 1"

	e := evalError(t, evaluator.New(evaluator.WithMaxDepth(5)), source, nil)
	if e.Code != types.ErrEvalDepthExceed {
		t.Fatalf("expected %s, got %v", types.ErrEvalDepthExceed, e)
	}

	if got := eval(t, evaluator.New(evaluator.WithMaxDepth(7)), source, nil); got != 7.0 {
		t.Errorf("expected 7, got %v", got)
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := evaluator.New().Eval(ctx, compile(t, "1 + 1"), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	ev := evaluator.New(
		evaluator.WithTimeout(10*time.Millisecond),
		evaluator.WithCustomFunction("Wait", func(ctx context.Context, args ...interface{}) (interface{}, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}),
	)
	_, err := ev.Eval(context.Background(), compile(t, "Wait()"), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ev := evaluator.New(evaluator.WithDebug(true), evaluator.WithLogger(logger))

	eval(t, ev, "Abs(-1) + 1", nil)

	out := buf.String()
	for _, want := range []string{"evaluating node", "calling function", "name=Abs"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestEvalString(t *testing.T) {
	ev := evaluator.New(evaluator.WithCaching(true))
	params := map[string]interface{}{"x": 2.0}

	for i := 0; i < 2; i++ {
		got, err := ev.EvalString(context.Background(), "[x] * 21", params)
		if err != nil {
			t.Fatal(err)
		}
		if got != 42.0 {
			t.Fatalf("expected 42, got %v", got)
		}
	}

	c := ev.Cache()
	if c == nil {
		t.Fatal("expected a cache")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 cached expression, got %d", c.Len())
	}
	if stats := c.Stats(); stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", stats)
	}

	if _, err := ev.EvalString(context.Background(), "1 +", nil); !types.IsCode(err, types.ErrUnexpectedToken) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestEvalStringLiteralFactory(t *testing.T) {
	factory := parser.LiteralFactoryFunc(func(kind types.LiteralKind, text string) (interface{}, error) {
		if kind == types.LiteralNumber {
			return "n" + text, nil
		}
		return parser.DefaultLiteralFactory{}.Create(kind, text)
	})
	ev := evaluator.New(evaluator.WithLiteralFactory(factory))

	got, err := ev.EvalString(context.Background(), "1 + 2", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "n1n2" {
		t.Errorf(`expected "n1n2", got %v`, got)
	}
	if ev.Cache() != nil {
		t.Error("caching is disabled by default")
	}
}

func TestEvalNode(t *testing.T) {
	tree := types.Binary(types.OpMultiplication, types.Parameter("x"), types.Constant(3.0))
	evalCtx := evaluator.NewContext(map[string]interface{}{"x": 5.0})

	got, err := evaluator.New().EvalNode(context.Background(), tree, evalCtx)
	if err != nil {
		t.Fatal(err)
	}
	if got != 15.0 {
		t.Errorf("expected 15, got %v", got)
	}
}

func TestInvalidExpression(t *testing.T) {
	ev := evaluator.New()
	if _, err := ev.Eval(context.Background(), nil, nil); err == nil {
		t.Error("expected error for nil expression")
	}
	if _, err := ev.EvalNode(context.Background(), nil, nil); err == nil {
		t.Error("expected error for nil node")
	}
}

func TestConcurrentEval(t *testing.T) {
	ev := evaluator.New(evaluator.WithCaching(true))
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			x := float64(i)
			got, err := ev.EvalString(context.Background(), "[x] * 2 + 1", map[string]interface{}{"x": x})
			if err != nil {
				errs <- err
				return
			}
			if got != x*2+1 {
				errs <- errors.New("wrong result")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
