package parser

import (
	"fmt"
	"strings"
)

// NodeID addresses a node inside a Forest.
type NodeID int32

// NoNode marks an Element that carries a literal instead of a child node.
const NoNode NodeID = -1

// Location represents a node's position in its source file
type Location struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	EndLine int    `json:"end_line" yaml:"end_line"`
}

// String returns "file:line"
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Element is one child slot of a Node: either a nested node or an opaque literal.
type Element struct {
	Node    NodeID
	Literal string
}

// Child wraps a node reference as an Element
func Child(id NodeID) Element {
	return Element{Node: id}
}

// Lit wraps a literal value as an Element
func Lit(value string) Element {
	return Element{Node: NoNode, Literal: value}
}

// IsNode reports whether the element references a nested node
func (e Element) IsNode() bool {
	return e.Node != NoNode
}

// Node is a typed tree element with ordered children and a source location.
// Nodes are immutable once added to a Forest apart from the hash and mass memo.
type Node struct {
	Type      string
	Children  []Element
	Location  Location
	Synthetic bool

	hash   uint32
	hashed bool
	mass   int
}

// HasNodeChildren reports whether any child is a nested node
func (n *Node) HasNodeChildren() bool {
	for _, c := range n.Children {
		if c.IsNode() {
			return true
		}
	}
	return false
}

// Size is the node's element count including the type tag
func (n *Node) Size() int {
	return len(n.Children) + 1
}

// CachedHash returns the memoized structural hash, if any
func (n *Node) CachedHash() (uint32, bool) {
	return n.hash, n.hashed
}

// SetCachedHash memoizes the structural hash
func (n *Node) SetCachedHash(h uint32) {
	n.hash = h
	n.hashed = true
}

// CachedMass returns the memoized mass, if any
func (n *Node) CachedMass() (int, bool) {
	return n.mass, n.mass > 0
}

// SetCachedMass memoizes the mass
func (n *Node) SetCachedMass(m int) {
	n.mass = m
}

// Sexp renders the subtree rooted at id as an s-expression
func (f *Forest) Sexp(id NodeID) string {
	var sb strings.Builder
	f.writeSexp(&sb, id)
	return sb.String()
}

func (f *Forest) writeSexp(sb *strings.Builder, id NodeID) {
	n := f.Node(id)
	sb.WriteString("(")
	sb.WriteString(n.Type)
	for _, c := range n.Children {
		sb.WriteString(" ")
		if c.IsNode() {
			f.writeSexp(sb, c.Node)
			continue
		}
		sb.WriteString(quoteAtom(c.Literal))
	}
	sb.WriteString(")")
}

// quoteAtom quotes literals that would not read back as a single atom
func quoteAtom(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\r()\";") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
