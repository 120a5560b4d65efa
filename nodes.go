package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of a program.
type node struct {
	kind nodeKind

	// name is the literal text of a number, the name of a variable or
	// function including any glued sign, or the target of an assignment.
	name string

	left  *node
	right *node
	// args holds call arguments and the statements of a sequence.
	args []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // number literal in name
	nodeName // lookup(name)
	nodeCall // call builtin name with args

	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
	nodePow // evaluate left, exp by right

	nodeLt // left < right
	nodeLe // left <= right
	nodeGt // left > right
	nodeGe // left >= right
	nodeEq // left == right
	nodeNe // left != right

	nodeAssign // evaluate left, bind to name
	nodeSeq    // evaluate args in order, result is the last
)

var nodeKindNames = [...]string{
	nodeNone:   "None",
	nodeNum:    "Num",
	nodeName:   "Name",
	nodeCall:   "Call",
	nodeAdd:    "Add",
	nodeSub:    "Sub",
	nodeMul:    "Mul",
	nodeDiv:    "Div",
	nodePow:    "Pow",
	nodeLt:     "Lt",
	nodeLe:     "Le",
	nodeGt:     "Gt",
	nodeGe:     "Ge",
	nodeEq:     "Eq",
	nodeNe:     "Ne",
	nodeAssign: "Assign",
	nodeSeq:    "Seq",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

// binops maps binary node kinds to their operator lexemes.
var binops = map[nodeKind]string{
	nodeAdd: "+",
	nodeSub: "-",
	nodeMul: "*",
	nodeDiv: "/",
	nodePow: "^",
	nodeLt:  "<",
	nodeLe:  "<=",
	nodeGt:  ">",
	nodeGe:  ">=",
	nodeEq:  "==",
	nodeNe:  "!=",
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, !square)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, !square)
		}
		b.WriteByte('$')
	case nodeNum, nodeName:
		b.WriteByte(l)
		b.WriteString(n.name)
		b.WriteByte(r)
	case nodeCall:
		b.WriteByte(l)
		b.WriteString(n.name)
		n.fmtargs(b, !square)
		b.WriteByte(r)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow, nodeLt, nodeLe, nodeGt, nodeGe, nodeEq, nodeNe:
		b.WriteByte(l)
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		b.WriteString(binops[n.kind])
		b.WriteByte(' ')
		n.right.fmt(b, !square)
		b.WriteByte(r)
	case nodeAssign:
		b.WriteString(n.name)
		b.WriteString(" = ")
		n.left.fmt(b, square)
	case nodeSeq:
		for i, s := range n.args {
			if i > 0 {
				b.WriteString("; ")
			}
			s.fmt(b, square)
		}
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b, !square)
	}
	b.WriteByte(r)
}
