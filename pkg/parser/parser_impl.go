package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sandrolain/gocalc/pkg/types"
)

// Parser implements a recursive descent parser for formulas.
// Binary operators are handled with Pratt's "Top Down Operator Precedence"
// algorithm over the binding powers below.
type Parser struct {
	lexer   *Lexer
	current Token
	opts    CompileOptions
	depth   int
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.LiteralFactory == nil {
		options.LiteralFactory = DefaultLiteralFactory{}
	}

	p := &Parser{
		lexer: NewLexer(input),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire input and returns the expression.
// Input left over after a complete expression is an error.
func (p *Parser) Parse() (*types.Expression, error) {
	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.unexpected(TokenEOF.String())
	}

	return types.NewExpression(node, p.lexer.input), nil
}

// Binding powers, lowest first.
const (
	bpTernary = 10 * (iota + 1)
	bpOr
	bpAnd
	bpComparison
	bpBitOr
	bpBitXor
	bpBitAnd
	bpShift
	bpAdditive
	bpMultiplicative
	bpExponent
)

// Operator precedence table (binding power)
// Higher values bind more tightly
var precedence = map[TokenType]int{
	TokenCondition:    bpTernary,
	TokenOr:           bpOr,
	TokenAnd:          bpAnd,
	TokenEqual:        bpComparison,
	TokenNotEqual:     bpComparison,
	TokenLess:         bpComparison,
	TokenLessEqual:    bpComparison,
	TokenGreater:      bpComparison,
	TokenGreaterEqual: bpComparison,
	TokenIn:           bpComparison,
	TokenNot:          bpComparison, // only as "not in"
	TokenBitOr:        bpBitOr,
	TokenBitXor:       bpBitXor,
	TokenBitAnd:       bpBitAnd,
	TokenShiftLeft:    bpShift,
	TokenShiftRight:   bpShift,
	TokenPlus:         bpAdditive,
	TokenMinus:        bpAdditive,
	TokenMult:         bpMultiplicative,
	TokenDiv:          bpMultiplicative,
	TokenMod:          bpMultiplicative,
	TokenPower:        bpExponent,
}

var binaryOperators = map[TokenType]types.Operator{
	TokenOr:           types.OpOr,
	TokenAnd:          types.OpAnd,
	TokenEqual:        types.OpEquals,
	TokenNotEqual:     types.OpNotEquals,
	TokenLess:         types.OpLessThan,
	TokenLessEqual:    types.OpLessThanEqual,
	TokenGreater:      types.OpMoreThan,
	TokenGreaterEqual: types.OpMoreThanEqual,
	TokenIn:           types.OpIn,
	TokenBitOr:        types.OpBitOr,
	TokenBitXor:       types.OpBitXor,
	TokenBitAnd:       types.OpBitAnd,
	TokenShiftLeft:    types.OpBitLeftShift,
	TokenShiftRight:   types.OpBitRightShift,
	TokenPlus:         types.OpAddition,
	TokenMinus:        types.OpSubtraction,
	TokenMult:         types.OpMultiplication,
	TokenDiv:          types.OpDivision,
	TokenMod:          types.OpModulus,
	TokenPower:        types.OpExponentiation,
}

var unaryOperators = map[TokenType]types.Operator{
	TokenNot:    types.OpNot,
	TokenBitNot: types.OpBitComplement,
	TokenMinus:  types.OpNegate,
}

// getPrecedence returns the precedence of a token type.
func (p *Parser) getPrecedence(tt TokenType) int {
	if prec, ok := precedence[tt]; ok {
		return prec
	}
	return 0
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		return p.unexpected(tt.String())
	}
	p.advance()
	return nil
}

// unexpected reports the current token as unexpected.
// A pending lexer error takes priority over the parse error.
func (p *Parser) unexpected(expected string) error {
	if p.current.Type == TokenError {
		return p.lexer.Error()
	}

	actual := p.current.Value
	if p.current.Type == TokenEOF {
		actual = TokenEOF.String()
	} else if p.current.Type == TokenString {
		actual = strconv.Quote(actual)
	}

	return &types.Error{
		Code:     types.ErrUnexpectedToken,
		Message:  fmt.Sprintf("expected %s but got %s", expected, actual),
		Position: p.current.Position,
		Token:    actual,
		Expected: expected,
	}
}

// enter tracks nesting depth against MaxDepth.
func (p *Parser) enter() error {
	p.depth++
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return types.NewError(types.ErrParseDepthExceed,
			fmt.Sprintf("maximum nesting depth %d exceeded", p.opts.MaxDepth), p.current.Position)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
//
// A membership test (in, not in) ends the comparison tier: once one is built
// at this level, further comparison operators are left to the caller, which
// rejects them.
func (p *Parser) parseExpression(rbp int) (*types.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	membership := false
	for {
		tt := p.current.Type
		prec := p.getPrecedence(tt)
		if prec <= rbp || (membership && prec == bpComparison) {
			break
		}

		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
		if tt == TokenIn || tt == TokenNot {
			membership = true
		}
	}

	return left, nil
}

// parsePrefix parses an operand: a literal, a name, a group or list, or a
// unary operator applied to another operand.
func (p *Parser) parsePrefix() (*types.Node, error) {
	token := p.current

	switch token.Type {
	case TokenNumber, TokenString, TokenDate, TokenBoolean:
		return p.parseLiteral()
	case TokenParameter:
		p.advance()
		node := types.Parameter(token.Value)
		node.Position = token.Position
		return node, nil
	case TokenIdentifier:
		p.advance()
		if p.current.Type == TokenParenOpen {
			return p.parseFunctionCall(token)
		}
		// A bare identifier is an implicit parameter reference.
		node := types.Parameter(token.Value)
		node.Position = token.Position
		return node, nil
	case TokenNot, TokenBitNot, TokenMinus:
		return p.parseUnary()
	case TokenParenOpen:
		return p.parseGrouping()
	default:
		return nil, p.unexpected("expression")
	}
}

// parseInfix parses the operator at the current token with left as its
// left operand.
func (p *Parser) parseInfix(left *types.Node) (*types.Node, error) {
	token := p.current

	switch token.Type {
	case TokenCondition:
		return p.parseConditional(left)
	case TokenNot:
		p.advance()
		if err := p.expect(TokenIn); err != nil {
			return nil, err
		}
		right, err := p.parseExpression(bpComparison)
		if err != nil {
			return nil, err
		}
		node := types.Binary(types.OpNotIn, left, right)
		node.Position = token.Position
		return node, nil
	default:
		return p.parseBinaryOp(left)
	}
}

// parseBinaryOp parses a left-associative binary operator, or the
// right-associative exponentiation.
func (p *Parser) parseBinaryOp(left *types.Node) (*types.Node, error) {
	token := p.current
	op := binaryOperators[token.Type]
	prec := p.getPrecedence(token.Type)
	p.advance()

	if token.Type == TokenPower {
		prec--
	}

	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}

	node := types.Binary(op, left, right)
	node.Position = token.Position
	return node, nil
}

// parseConditional parses "cond ? middle : right". Both branches bind at the
// level of logical or; a following "?" starts a new conditional whose
// condition is this one.
func (p *Parser) parseConditional(condition *types.Node) (*types.Node, error) {
	token := p.current
	p.advance()

	middle, err := p.parseExpression(bpTernary)
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenColon); err != nil {
		return nil, err
	}

	right, err := p.parseExpression(bpTernary)
	if err != nil {
		return nil, err
	}

	node := types.Ternary(condition, middle, right)
	node.Position = token.Position
	return node, nil
}

// parseUnary parses a prefix operator. Operators stack, so "--1" is
// negate(negate(1)).
func (p *Parser) parseUnary() (*types.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	token := p.current
	p.advance()

	operand, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	node := types.Unary(unaryOperators[token.Type], operand)
	node.Position = token.Position
	return node, nil
}

// parseLiteral hands literal text to the literal factory.
func (p *Parser) parseLiteral() (*types.Node, error) {
	token := p.current

	value, err := p.opts.LiteralFactory.Create(token.Type.LiteralKind(), token.Value)
	if err != nil {
		var terr *types.Error
		if errors.As(err, &terr) && terr.Position < 0 {
			terr.Position = token.Position
		}
		return nil, err
	}

	p.advance()
	node := types.Constant(value)
	node.Position = token.Position
	return node, nil
}

// parseGrouping parses a parenthesized expression or a list.
// A trailing separator is the only thing that turns a single item into a list:
// "(x)" is x, "(x,)" is a one-item list and "()" is empty.
func (p *Parser) parseGrouping() (*types.Node, error) {
	open := p.current
	p.advance()

	if p.current.Type == TokenParenClose {
		p.advance()
		node := types.List()
		node.Position = open.Position
		return node, nil
	}

	first, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type == TokenParenClose {
		p.advance()
		return first, nil
	}

	items := []*types.Node{first}
	for p.current.Type == TokenSeparator {
		p.advance()
		if p.current.Type == TokenParenClose {
			break
		}
		item, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	node := types.List(items...)
	node.Position = open.Position
	return node, nil
}

// parseFunctionCall parses the argument list of a call. The name has
// already been consumed and the current token is "(".
func (p *Parser) parseFunctionCall(name Token) (*types.Node, error) {
	p.advance()

	node := types.Function(name.Value)
	node.Position = name.Position

	if p.current.Type == TokenParenClose {
		p.advance()
		return node, nil
	}

	for {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, arg)

		if p.current.Type != TokenSeparator {
			break
		}
		p.advance()
	}

	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	return node, nil
}
