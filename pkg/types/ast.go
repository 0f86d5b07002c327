package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	NodeTernary   NodeType = "ternary"   // cond ? a : b
	NodeBinary    NodeType = "binary"    // a op b
	NodeUnary     NodeType = "unary"     // op a
	NodeConstant  NodeType = "constant"  // 1, "s", true, #2024-01-01#
	NodeParameter NodeType = "parameter" // name, [name], {name}
	NodeList      NodeType = "list"      // (a, b,)
	NodeFunction  NodeType = "function"  // Name(a, b)
)

// Operator names a binary or unary operation.
type Operator string

// Binary operators.
const (
	OpAddition       Operator = "addition"
	OpSubtraction    Operator = "subtraction"
	OpMultiplication Operator = "multiplication"
	OpDivision       Operator = "division"
	OpModulus        Operator = "modulus"
	OpExponentiation Operator = "exponentiation"
	OpEquals         Operator = "equals"
	OpNotEquals      Operator = "not-equals"
	OpMoreThan       Operator = "more-than"
	OpLessThan       Operator = "less-than"
	OpMoreThanEqual  Operator = "more-than-equal"
	OpLessThanEqual  Operator = "less-than-equal"
	OpAnd            Operator = "and"
	OpOr             Operator = "or"
	OpBitAnd         Operator = "bit-and"
	OpBitOr          Operator = "bit-or"
	OpBitXor         Operator = "bit-xor"
	OpBitLeftShift   Operator = "bit-left-shift"
	OpBitRightShift  Operator = "bit-right-shift"
	OpIn             Operator = "in"
	OpNotIn          Operator = "not-in"
)

// OpTernary names the conditional in calculator errors.
const OpTernary Operator = "ternary"

// Unary operators.
const (
	OpNot           Operator = "not"
	OpBitComplement Operator = "bit-complement"
	OpNegate        Operator = "negate"
)

// Node represents a node in the Abstract Syntax Tree.
//
// Which fields are meaningful depends on Type:
//   - NodeTernary: LHS (condition), Middle, RHS
//   - NodeBinary: Operator, LHS, RHS
//   - NodeUnary: Operator, LHS
//   - NodeConstant: Value
//   - NodeParameter: Name
//   - NodeList: Items
//   - NodeFunction: Name, Arguments
//
// Trees are never mutated after parsing and may be shared between goroutines.
type Node struct {
	Type     NodeType
	Operator Operator
	Value    interface{}
	Name     string
	Position int

	LHS       *Node
	Middle    *Node
	RHS       *Node
	Items     []*Node
	Arguments []*Node
}

// NewNode creates a new AST node of the specified type.
func NewNode(nodeType NodeType, position int) *Node {
	return &Node{
		Type:     nodeType,
		Position: position,
	}
}

// Ternary builds a conditional node.
func Ternary(cond, middle, right *Node) *Node {
	return &Node{Type: NodeTernary, LHS: cond, Middle: middle, RHS: right, Position: cond.Position}
}

// Binary builds a binary operator node.
func Binary(op Operator, left, right *Node) *Node {
	return &Node{Type: NodeBinary, Operator: op, LHS: left, RHS: right, Position: left.Position}
}

// Unary builds a unary operator node.
func Unary(op Operator, operand *Node) *Node {
	return &Node{Type: NodeUnary, Operator: op, LHS: operand}
}

// Constant builds a constant value node.
func Constant(value interface{}) *Node {
	return &Node{Type: NodeConstant, Value: value}
}

// Parameter builds a parameter reference node.
func Parameter(name string) *Node {
	return &Node{Type: NodeParameter, Name: name}
}

// List builds a list node.
func List(items ...*Node) *Node {
	if items == nil {
		items = []*Node{}
	}
	return &Node{Type: NodeList, Items: items}
}

// Function builds a function call node.
func Function(name string, args ...*Node) *Node {
	if args == nil {
		args = []*Node{}
	}
	return &Node{Type: NodeFunction, Name: name, Arguments: args}
}

// Children returns the direct sub-expressions of n in left-to-right order.
func (n *Node) Children() []*Node {
	switch n.Type {
	case NodeTernary:
		return []*Node{n.LHS, n.Middle, n.RHS}
	case NodeBinary:
		return []*Node{n.LHS, n.RHS}
	case NodeUnary:
		return []*Node{n.LHS}
	case NodeList:
		return n.Items
	case NodeFunction:
		return n.Arguments
	default:
		return nil
	}
}

// String returns a string representation of the node type.
func (n *Node) String() string {
	if n.Operator != "" {
		return string(n.Type) + ":" + string(n.Operator)
	}
	return string(n.Type)
}
