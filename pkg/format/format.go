// Package format renders expression trees back to formula text and runtime
// values for display.
//
// Node output parses back to the same tree: parentheses are emitted only
// where precedence or associativity require them, and every literal is
// written in a form the lexer reads back. Parameters are always written in
// brackets, so "price * qty" formats as "[price] * [qty]".
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Printer renders trees and values. The zero value handles the default
// value kinds.
type Printer struct {
	// Literal renders values of caller types, such as those created by a
	// custom literal factory. Returning false falls back to the default
	// rendering.
	Literal func(v interface{}) (string, bool)
}

// Node formats a tree with the default Printer.
func Node(node *types.Node) string {
	return Printer{}.Node(node)
}

// Value renders a runtime value with the default Printer.
func Value(v interface{}) string {
	return Printer{}.Value(v)
}

// Binding levels, mirroring the parser.
const (
	levelTernary = 10 * (iota + 1)
	levelOr
	levelAnd
	levelComparison
	levelBitOr
	levelBitXor
	levelBitAnd
	levelShift
	levelAdditive
	levelMultiplicative
	levelExponent
	levelPrimary
)

type binaryInfo struct {
	symbol string
	level  int
}

var binarySymbols = map[types.Operator]binaryInfo{
	types.OpOr:             {"||", levelOr},
	types.OpAnd:            {"&&", levelAnd},
	types.OpEquals:         {"==", levelComparison},
	types.OpNotEquals:      {"!=", levelComparison},
	types.OpLessThan:       {"<", levelComparison},
	types.OpLessThanEqual:  {"<=", levelComparison},
	types.OpMoreThan:       {">", levelComparison},
	types.OpMoreThanEqual:  {">=", levelComparison},
	types.OpIn:             {"in", levelComparison},
	types.OpNotIn:          {"not in", levelComparison},
	types.OpBitOr:          {"|", levelBitOr},
	types.OpBitXor:         {"^", levelBitXor},
	types.OpBitAnd:         {"&", levelBitAnd},
	types.OpBitLeftShift:   {"<<", levelShift},
	types.OpBitRightShift:  {">>", levelShift},
	types.OpAddition:       {"+", levelAdditive},
	types.OpSubtraction:    {"-", levelAdditive},
	types.OpMultiplication: {"*", levelMultiplicative},
	types.OpDivision:       {"/", levelMultiplicative},
	types.OpModulus:        {"%", levelMultiplicative},
	types.OpExponentiation: {"**", levelExponent},
}

var unarySymbols = map[types.Operator]string{
	types.OpNot:           "!",
	types.OpBitComplement: "~",
	types.OpNegate:        "-",
}

// level returns how tightly node binds when written without parentheses.
func level(node *types.Node) int {
	switch node.Type {
	case types.NodeTernary:
		return levelTernary
	case types.NodeBinary:
		return binarySymbols[node.Operator].level
	default:
		return levelPrimary
	}
}

func isMembership(node *types.Node) bool {
	return node.Type == types.NodeBinary && (node.Operator == types.OpIn || node.Operator == types.OpNotIn)
}

// Node formats a tree as formula text. A nil tree formats as "".
func (p Printer) Node(node *types.Node) string {
	var sb strings.Builder
	p.writeNode(&sb, node)
	return sb.String()
}

func (p Printer) writeNode(sb *strings.Builder, node *types.Node) {
	if node == nil {
		return
	}

	switch node.Type {
	case types.NodeConstant:
		sb.WriteString(p.literal(node.Value))

	case types.NodeParameter:
		writeParameter(sb, node.Name)

	case types.NodeList:
		sb.WriteByte('(')
		for i, item := range node.Items {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.writeNode(sb, item)
		}
		if len(node.Items) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')

	case types.NodeFunction:
		sb.WriteString(node.Name)
		sb.WriteByte('(')
		for i, arg := range node.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.writeNode(sb, arg)
		}
		sb.WriteByte(')')

	case types.NodeUnary:
		sb.WriteString(unarySymbols[node.Operator])
		// Unary operators apply to a single operand, never to a binary
		// expression.
		p.writeChild(sb, node.LHS, level(node.LHS) < levelPrimary)

	case types.NodeBinary:
		info := binarySymbols[node.Operator]
		var leftParens, rightParens bool
		if node.Operator == types.OpExponentiation {
			leftParens = level(node.LHS) <= info.level
			rightParens = level(node.RHS) < info.level
		} else {
			leftParens = level(node.LHS) < info.level ||
				(info.level == levelComparison && isMembership(node.LHS))
			rightParens = level(node.RHS) <= info.level
		}
		p.writeChild(sb, node.LHS, leftParens)
		sb.WriteByte(' ')
		sb.WriteString(info.symbol)
		sb.WriteByte(' ')
		p.writeChild(sb, node.RHS, rightParens)

	case types.NodeTernary:
		p.writeChild(sb, node.LHS, false)
		sb.WriteString(" ? ")
		p.writeChild(sb, node.Middle, level(node.Middle) <= levelTernary)
		sb.WriteString(" : ")
		p.writeChild(sb, node.RHS, level(node.RHS) <= levelTernary)
	}
}

func (p Printer) writeChild(sb *strings.Builder, node *types.Node, parens bool) {
	if parens {
		sb.WriteByte('(')
	}
	p.writeNode(sb, node)
	if parens {
		sb.WriteByte(')')
	}
}

// writeParameter uses braces only when the name contains a closing bracket.
func writeParameter(sb *strings.Builder, name string) {
	if strings.Contains(name, "]") && !strings.Contains(name, "}") {
		sb.WriteString("{" + name + "}")
		return
	}
	sb.WriteString("[" + name + "]")
}

// literal renders a constant as formula source.
func (p Printer) literal(v interface{}) string {
	if p.Literal != nil {
		if s, ok := p.Literal(v); ok {
			return s
		}
	}
	switch x := v.(type) {
	case float64:
		return numberLiteral(x)
	case string:
		return quote(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		// Date-only text is read back in UTC.
		if x.Location() != time.UTC {
			return "#" + x.Format(time.RFC3339Nano) + "#"
		}
		return "#" + formatDate(x) + "#"
	default:
		return fmt.Sprint(v)
	}
}

// Value renders a runtime value for display: numbers in their shortest
// form, strings as is, dates in ISO-8601 and lists as "(a, b)".
func (p Printer) Value(v interface{}) string {
	if p.Literal != nil {
		if s, ok := p.Literal(v); ok {
			return s
		}
	}
	switch x := v.(type) {
	case nil:
		return "nil"
	case float64:
		return formatNumber(x)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return formatDate(x)
	case []interface{}:
		items := make([]string, len(x))
		for i, item := range x {
			if s, ok := item.(string); ok {
				items[i] = quote(s)
				continue
			}
			items[i] = p.Value(item)
		}
		return "(" + strings.Join(items, ", ") + ")"
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// numberLiteral writes f as number text the lexer reads back to f.
// Malformed number text parses as NaN and overflowing text as ±Inf.
func numberLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return "."
	case math.IsInf(f, 1):
		return "1e999"
	case math.IsInf(f, -1):
		return "-1e999"
	}
	return formatNumber(f)
}

// formatDate writes a date without its time of day when it is midnight.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339Nano)
}

var quoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
