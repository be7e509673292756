package minilang

import (
	"math"
	"strconv"
	"strings"
)

// Node is a node in the abstract syntax tree of an expression. The set of
// node types is closed: every Node is a *Num, *Var, *Call, or *BinOp.
// Each node exclusively owns its children.
type Node interface {
	// String formats the expression as fully parenthesized source text which
	// parses back to an equal tree.
	String() string
	fmt(b *strings.Builder)
}

// Num is a number literal.
type Num struct {
	Value float64
}

// Var is a variable reference.
type Var struct {
	Name string
}

// Call is a function call. Args is nil for a niladic call.
type Call struct {
	Name string
	Args []Node
}

// BinOp is a binary operation. Unary negation is represented as a BinOp
// subtracting its operand from a zero Num.
type BinOp struct {
	Op  Op
	LHS Node
	RHS Node
}

// Op is a binary arithmetic operator.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
	OpMod Op = '%'
	OpPow Op = '^'
)

func (op Op) String() string {
	return string(rune(op))
}

// neg creates the tree for unary negation of n.
func neg(n Node) Node {
	return &BinOp{Op: OpSub, LHS: &Num{Value: 0}, RHS: n}
}

func (n *Num) String() string   { return format(n) }
func (n *Var) String() string   { return format(n) }
func (n *Call) String() string  { return format(n) }
func (n *BinOp) String() string { return format(n) }

func format(n Node) string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// overflow is a digit run one place longer than the largest float64, so it
// lexes back to +Inf.
var overflow = strconv.FormatFloat(math.MaxFloat64, 'f', -1, 64) + "0"

func (n *Num) fmt(b *strings.Builder) {
	switch {
	case math.IsInf(n.Value, 1):
		b.WriteString(overflow)
	case math.IsInf(n.Value, -1):
		b.WriteString("(0 - ")
		b.WriteString(overflow)
		b.WriteByte(')')
	default:
		// 'f' keeps the text within the digits-and-dot number syntax.
		b.WriteString(strconv.FormatFloat(n.Value, 'f', -1, 64))
	}
}

func (n *Var) fmt(b *strings.Builder) {
	b.WriteString(n.Name)
}

func (n *Call) fmt(b *strings.Builder) {
	b.WriteString(n.Name)
	b.WriteByte('(')
	for i, arg := range n.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.fmt(b)
	}
	b.WriteByte(')')
}

func (n *BinOp) fmt(b *strings.Builder) {
	b.WriteByte('(')
	n.LHS.fmt(b)
	b.WriteByte(' ')
	b.WriteByte(byte(n.Op))
	b.WriteByte(' ')
	n.RHS.fmt(b)
	b.WriteByte(')')
}

// Equal reports whether two trees are structurally identical. Nil nodes are
// equal only to nil.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *Num:
		b, ok := b.(*Num)
		return ok && a.Value == b.Value
	case *Var:
		b, ok := b.(*Var)
		return ok && a.Name == b.Name
	case *Call:
		b, ok := b.(*Call)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	case *BinOp:
		b, ok := b.(*BinOp)
		return ok && a.Op == b.Op && Equal(a.LHS, b.LHS) && Equal(a.RHS, b.RHS)
	default:
		panic("minilang: invalid node type")
	}
}
