package parser

import (
	"fmt"
	"io"
	"strings"
)

// Visitor defines the interface for visiting forest nodes
type Visitor interface {
	// Visit is called for each node in pre-order.
	// Return false to skip the node's subtree.
	Visit(f *Forest, id NodeID) bool
}

// Accept walks the subtree rooted at id with visitor
func (f *Forest) Accept(id NodeID, visitor Visitor) {
	f.Walk(id, func(n NodeID) bool {
		return visitor.Visit(f, n)
	})
}

// FuncVisitor is a visitor that uses a function
type FuncVisitor struct {
	fn func(*Forest, NodeID) bool
}

// NewFuncVisitor creates a visitor from a function
func NewFuncVisitor(fn func(*Forest, NodeID) bool) *FuncVisitor {
	return &FuncVisitor{fn: fn}
}

// Visit implements the Visitor interface
func (v *FuncVisitor) Visit(f *Forest, id NodeID) bool {
	return v.fn(f, id)
}

// CollectorVisitor collects nodes matching a predicate
type CollectorVisitor struct {
	predicate func(*Node) bool
	nodes     []NodeID
}

// NewCollectorVisitor creates a visitor that collects matching nodes
func NewCollectorVisitor(predicate func(*Node) bool) *CollectorVisitor {
	return &CollectorVisitor{predicate: predicate}
}

// Visit implements the Visitor interface
func (v *CollectorVisitor) Visit(f *Forest, id NodeID) bool {
	if v.predicate(f.Node(id)) {
		v.nodes = append(v.nodes, id)
	}
	return true
}

// Nodes returns the collected node ids in visit order
func (v *CollectorVisitor) Nodes() []NodeID {
	return v.nodes
}

// PrinterVisitor prints one line per node: indentation, type, line and literals.
// It is what `shapedup dump` uses to help users write filter patterns.
type PrinterVisitor struct {
	writer io.Writer
	depth  map[NodeID]int
}

// NewPrinterVisitor creates a visitor that prints to writer
func NewPrinterVisitor(writer io.Writer) *PrinterVisitor {
	return &PrinterVisitor{
		writer: writer,
		depth:  make(map[NodeID]int),
	}
}

// Visit implements the Visitor interface
func (v *PrinterVisitor) Visit(f *Forest, id NodeID) bool {
	n := f.Node(id)
	d := v.depth[id]

	var lits []string
	for _, c := range n.Children {
		if c.IsNode() {
			v.depth[c.Node] = d + 1
			continue
		}
		lits = append(lits, quoteAtom(c.Literal))
	}

	line := fmt.Sprintf("%s%s [%d]", strings.Repeat("  ", d), n.Type, n.Location.Line)
	if len(lits) > 0 {
		line += " " + strings.Join(lits, " ")
	}
	if n.Synthetic {
		line += " (synthetic)"
	}
	fmt.Fprintln(v.writer, line)
	return true
}
