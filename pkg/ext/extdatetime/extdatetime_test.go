package extdatetime_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sandrolain/gocalc/pkg/evaluator"
	"github.com/sandrolain/gocalc/pkg/ext/extdatetime"
	"github.com/sandrolain/gocalc/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixClock(t *testing.T, now time.Time) {
	t.Helper()
	prev := extdatetime.Clock
	extdatetime.Clock = func() time.Time { return now }
	t.Cleanup(func() { extdatetime.Clock = prev })
}

func TestDateFunctions(t *testing.T) {
	fixClock(t, time.Date(2024, 3, 10, 15, 30, 0, 0, time.FixedZone("CET", 3600)))
	ev := evaluator.New(evaluator.WithFunctions(extdatetime.All()...))

	tests := []struct {
		expr string
		want interface{}
	}{
		{`Now()`, time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)},
		{`Today()`, date(2024, 3, 10)},
		{`Date(2024, 2, 29)`, date(2024, 2, 29)},
		{`Date(2024, 13, 1)`, date(2025, 1, 1)},
		{`Date(2024, 1, 1, 12, 30, 15)`, time.Date(2024, 1, 1, 12, 30, 15, 0, time.UTC)},
		{`Year(#2024-03-10#)`, 2024.0},
		{`Month(#2024-03-10#)`, 3.0},
		{`Day(#2024-03-10#)`, 10.0},
		{`Weekday(#2024-03-10#)`, 0.0},
		{`DateAdd(#2024-01-01#, 10)`, date(2024, 1, 11)},
		{`DateAdd(#2024-01-31#, 1, "month")`, date(2024, 3, 2)},
		{`DateAdd(#2024-01-01#, -1, "years")`, date(2023, 1, 1)},
		{`DateAdd(#2024-01-01#, 90, "minute")`, time.Date(2024, 1, 1, 1, 30, 0, 0, time.UTC)},
		{`DateDiff(#2024-01-01#, #2024-03-01#)`, 60.0},
		{`DateDiff(#2024-03-01#, #2024-01-01#, "day")`, -60.0},
		{`DateDiff(#2024-01-31#, #2024-03-01#, "months")`, 1.0},
		{`DateDiff(#2020-02-29#, #2024-02-28#, "year")`, 3.0},
		{`DateDiff(#2024-01-01#, #2024-01-02#, "hours")`, 24.0},
		{`FormatDate(#2024-03-10#, "02/01/2006")`, "10/03/2024"},
		{`Today() > #2024-01-01#`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ev.EvalString(context.Background(), tt.expr, nil)
			if err != nil {
				t.Fatalf("EvalString(%q): unexpected error: %v", tt.expr, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDateErrors(t *testing.T) {
	ev := evaluator.New(evaluator.WithFunctions(extdatetime.All()...))
	tests := []struct {
		expr string
		code types.ErrorCode
	}{
		{`Year(2024)`, types.ErrTypeMismatch},
		{`Date(2024, 1.5, 1)`, types.ErrTypeMismatch},
		{`DateAdd(#2024-01-01#, 1, "fortnight")`, types.ErrTypeMismatch},
		{`DateDiff(#2024-01-01#, "2024-02-01")`, types.ErrTypeMismatch},
		{`Date(2024, 1)`, types.ErrArityMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ev.EvalString(context.Background(), tt.expr, nil)
			if !types.IsCode(err, tt.code) {
				t.Errorf("EvalString(%q) = %v, want %s", tt.expr, err, tt.code)
			}
		})
	}
}
