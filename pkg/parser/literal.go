package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sandrolain/gocalc/pkg/types"
)

// LiteralFactory converts the raw text of a literal token into a runtime value.
//
// A custom factory lets callers represent literals with their own types,
// for example routing numbers to an arbitrary-precision representation.
// Errors that are *types.Error without a position get the literal's position
// filled in by the parser.
type LiteralFactory interface {
	Create(kind types.LiteralKind, text string) (interface{}, error)
}

// LiteralFactoryFunc adapts a function to the LiteralFactory interface.
type LiteralFactoryFunc func(kind types.LiteralKind, text string) (interface{}, error)

// Create calls f(kind, text).
func (f LiteralFactoryFunc) Create(kind types.LiteralKind, text string) (interface{}, error) {
	return f(kind, text)
}

// DefaultDateLayouts are the layouts tried, in order, for date literals.
// Day/month/year accepts one or two digit days and months.
var DefaultDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2/1/2006",
	"2/1/2006 15:04:05",
}

// DefaultLiteralFactory produces float64, bool, string and time.Time values.
type DefaultLiteralFactory struct {
	// DateLayouts overrides DefaultDateLayouts when non-empty.
	DateLayouts []string
	// Location is used for dates without a zone. Defaults to UTC.
	Location *time.Location
}

// Create implements LiteralFactory.
func (f DefaultLiteralFactory) Create(kind types.LiteralKind, text string) (interface{}, error) {
	switch kind {
	case types.LiteralNumber:
		return ParseNumber(text), nil
	case types.LiteralBoolean:
		switch text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, types.NewError(types.ErrInvalidBoolean, fmt.Sprintf("invalid boolean %q", text), -1).WithToken(text)
	case types.LiteralString:
		return text, nil
	case types.LiteralDate:
		return f.parseDate(text)
	default:
		return nil, fmt.Errorf("unknown literal kind %d", kind)
	}
}

func (f DefaultLiteralFactory) parseDate(text string) (time.Time, error) {
	layouts := f.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}

	trimmed := strings.TrimSpace(text)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t, nil
		}
	}
	msg := fmt.Sprintf("invalid date %q, accepted layouts: %s", text, strings.Join(layouts, ", "))
	return time.Time{}, types.NewError(types.ErrInvalidDate, msg, -1).WithToken(text)
}

// ParseNumber converts number literal text to float64.
// Text that is not a number yields NaN; out-of-range values yield ±Inf or 0.
func ParseNumber(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}
