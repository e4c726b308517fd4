package tally

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of a program. The tree is
// built once per parse and never reused across programs.
type node struct {
	kind nodeKind
	pos  int

	// name is the number literal text, identifier, function name, or
	// assignment target, depending on kind.
	name string
	// str is the decoded text of a string literal.
	str string

	left *node    // unary operand or assignment right-hand side
	list []*node  // chain operands, tuple elements, or call arguments
	ops  []string // operators between chain operands
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum     // number literal, text in name
	nodeStr     // string literal, decoded text in str
	nodeNothing // the Nothing literal
	nodeName    // variable reference, name in name

	nodeCall  // call name with list as arguments
	nodeTuple // collect list into a tuple

	nodeNeg // negate left
	nodePos // unary plus on left

	nodeFold    // left-fold list pairwise with ops (* / // + -)
	nodeCompare // chained comparison over list with ops

	nodeAssign // evaluate left; bind to name unless name is empty
)

var nodeKindNames = [...]string{
	"None", "Num", "Str", "Nothing", "Name", "Call", "Tuple",
	"Neg", "Pos", "Fold", "Compare", "Assign",
}

func (k nodeKind) String() string {
	if 0 <= int(k) && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "nodeKind(" + strconv.Itoa(int(k)) + ")"
}

func (n *node) String() string {
	var b strings.Builder
	n.fmtStmt(&b)
	return b.String()
}

// fmtStmt writes a node as a whole statement, without the parentheses a
// nested assignment would get.
func (n *node) fmtStmt(b *strings.Builder) {
	if n.kind == nodeAssign && n.name != "" {
		b.WriteString(n.name)
		b.WriteString(" = ")
		n.left.fmt(b)
		return
	}
	n.fmt(b)
}

// fmt writes a canonical rendering of the node, with every chain
// parenthesized so grouping is unambiguous.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNum:
		b.WriteString(n.name)
	case nodeStr:
		b.WriteByte('"')
		b.WriteString(escape(n.str))
		b.WriteByte('"')
	case nodeNothing:
		b.WriteString("Nothing")
	case nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, a := range n.list {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b)
		}
		b.WriteByte(')')
	case nodeTuple:
		b.WriteByte('(')
		for i, e := range n.list {
			if i > 0 {
				b.WriteString(", ")
			}
			e.fmt(b)
		}
		if len(n.list) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b)
	case nodePos:
		b.WriteByte('+')
		n.left.fmt(b)
	case nodeFold, nodeCompare:
		b.WriteByte('(')
		n.list[0].fmt(b)
		for i, op := range n.ops {
			b.WriteByte(' ')
			b.WriteString(op)
			b.WriteByte(' ')
			n.list[i+1].fmt(b)
		}
		b.WriteByte(')')
	case nodeAssign:
		// A named assignment below statement level prints parenthesized so
		// the rendering reparses unambiguously.
		if n.name != "" {
			b.WriteByte('(')
			b.WriteString(n.name)
			b.WriteString(" = ")
			n.left.fmt(b)
			b.WriteByte(')')
			return
		}
		n.left.fmt(b)
	default:
		panic("tally: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
