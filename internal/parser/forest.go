package parser

const (
	chunkBits = 12
	chunkSize = 1 << chunkBits
	chunkMask = chunkSize - 1
)

// Forest is an arena of nodes addressed by NodeID.
// Storage is chunked so *Node pointers stay valid while nodes are appended.
// A Forest is not safe for concurrent mutation.
type Forest struct {
	chunks [][]Node
	count  int
}

// NewForest creates an empty forest
func NewForest() *Forest {
	return &Forest{}
}

// Len returns the number of nodes in the forest
func (f *Forest) Len() int {
	return f.count
}

// Node returns the node stored at id
func (f *Forest) Node(id NodeID) *Node {
	return &f.chunks[id>>chunkBits][id&chunkMask]
}

// Add appends a node and returns its id
func (f *Forest) Add(n Node) NodeID {
	if len(f.chunks) == 0 || len(f.chunks[len(f.chunks)-1]) == chunkSize {
		f.chunks = append(f.chunks, make([]Node, 0, chunkSize))
	}
	last := len(f.chunks) - 1
	f.chunks[last] = append(f.chunks[last], n)
	id := NodeID(f.count)
	f.count++
	return id
}

// NewNode appends a parsed node with the given type, location and children
func (f *Forest) NewNode(nodeType string, loc Location, children ...Element) NodeID {
	return f.Add(Node{Type: nodeType, Location: loc, Children: children})
}

// Adopt copies every node of other into f, preserving structure, and returns
// the id that root maps to. Memoized values are not carried over.
func (f *Forest) Adopt(other *Forest, root NodeID) NodeID {
	offset := NodeID(f.count)
	for i := 0; i < other.count; i++ {
		src := other.Node(NodeID(i))
		children := make([]Element, len(src.Children))
		for j, c := range src.Children {
			if c.IsNode() {
				c.Node += offset
			}
			children[j] = c
		}
		f.Add(Node{
			Type:      src.Type,
			Children:  children,
			Location:  src.Location,
			Synthetic: src.Synthetic,
		})
	}
	return root + offset
}

// Walk visits id and its descendants in pre-order. Returning false from fn
// skips the node's subtree.
func (f *Forest) Walk(id NodeID, fn func(NodeID) bool) {
	if !fn(id) {
		return
	}
	for _, c := range f.Node(id).Children {
		if c.IsNode() {
			f.Walk(c.Node, fn)
		}
	}
}

// Descendants visits every node strictly below id in pre-order
func (f *Forest) Descendants(id NodeID, fn func(NodeID)) {
	for _, c := range f.Node(id).Children {
		if c.IsNode() {
			f.Walk(c.Node, func(d NodeID) bool {
				fn(d)
				return true
			})
		}
	}
}

// DeepEqual reports whether two subtrees have the same types, literals and shape
func (f *Forest) DeepEqual(a, b NodeID) bool {
	if a == b {
		return true
	}
	na, nb := f.Node(a), f.Node(b)
	if na.Type != nb.Type || len(na.Children) != len(nb.Children) {
		return false
	}
	for i := range na.Children {
		ca, cb := na.Children[i], nb.Children[i]
		if ca.IsNode() != cb.IsNode() {
			return false
		}
		if !ca.IsNode() {
			if ca.Literal != cb.Literal {
				return false
			}
			continue
		}
		if !f.DeepEqual(ca.Node, cb.Node) {
			return false
		}
	}
	return true
}

// TypeNames returns the distinct node types reachable from root
func (f *Forest) TypeNames(root NodeID) []string {
	seen := make(map[string]struct{})
	var names []string
	f.Walk(root, func(id NodeID) bool {
		t := f.Node(id).Type
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			names = append(names, t)
		}
		return true
	})
	return names
}
