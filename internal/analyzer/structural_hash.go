package analyzer

import (
	"github.com/ludo-technologies/shapedup/internal/parser"
)

// Hasher computes structural hashes and masses over a forest.
//
// The structural hash depends only on each node's type index and, in order,
// the hashes of its child nodes; literal values never contribute. Mass counts
// every type tag and literal in the subtree. Both are memoized on the node.
type Hasher struct {
	forest *parser.Forest
	types  *TypeRegistry
}

// NewHasher creates a hasher over forest using types for type indices
func NewHasher(forest *parser.Forest, types *TypeRegistry) *Hasher {
	if types == nil {
		types = NewTypeRegistry()
	}
	return &Hasher{forest: forest, types: types}
}

// Forest returns the forest the hasher reads
func (h *Hasher) Forest() *parser.Forest {
	return h.forest
}

// Types returns the type registry
func (h *Hasher) Types() *TypeRegistry {
	return h.types
}

// mix is one round of Jenkins' one-at-a-time hash
func mix(hash, v uint32) uint32 {
	hash += v
	hash += hash << 10
	hash ^= hash >> 6
	return hash
}

func finalize(hash uint32) uint32 {
	hash += hash << 3
	hash ^= hash >> 11
	hash += hash << 15
	return hash
}

// Hash returns the structural hash of id
func (h *Hasher) Hash(id parser.NodeID) uint32 {
	n := h.forest.Node(id)
	if v, ok := n.CachedHash(); ok {
		return v
	}

	hash := mix(0, h.types.Index(n.Type))
	for _, c := range n.Children {
		if c.IsNode() {
			hash = mix(hash, h.Hash(c.Node))
		}
	}
	hash = finalize(hash)

	n.SetCachedHash(hash)
	return hash
}

// Mass returns the number of type tags and literals in the subtree at id
func (h *Hasher) Mass(id parser.NodeID) int {
	n := h.forest.Node(id)
	if m, ok := n.CachedMass(); ok {
		return m
	}

	mass := 1
	for _, c := range n.Children {
		if c.IsNode() {
			mass += h.Mass(c.Node)
		} else {
			mass++
		}
	}

	n.SetCachedMass(mass)
	return mass
}

// Subhashes returns the structural hashes of every descendant of id, in
// pre-order. The node's own hash is not included.
func (h *Hasher) Subhashes(id parser.NodeID) []uint32 {
	var hashes []uint32
	h.forest.Descendants(id, func(d parser.NodeID) {
		hashes = append(hashes, h.Hash(d))
	})
	return hashes
}
