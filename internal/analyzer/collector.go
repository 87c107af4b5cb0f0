package analyzer

import (
	"sort"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

// DefaultMassThreshold is the minimum mass a node needs to be bucketed
const DefaultMassThreshold = 16

// Buckets groups node ids by structural hash, in insertion order
type Buckets map[uint32][]parser.NodeID

// Keys returns the bucket hashes in ascending order
func (b Buckets) Keys() []uint32 {
	keys := make([]uint32, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Collector buckets every eligible node of a tree by structural hash.
// A node is eligible when it has at least one child node and its mass reaches
// the threshold. When a fuzzy generator is attached, each bucketed node is
// immediately followed by its synthetic variants.
type Collector struct {
	hasher     *Hasher
	threshold  int
	fuzzy      *FuzzyGenerator
	difference int
}

// NewCollector creates a collector with the given mass threshold
func NewCollector(hasher *Hasher, threshold int) *Collector {
	return &Collector{hasher: hasher, threshold: threshold}
}

// WithFuzzy enables fuzzy variant generation dropping up to difference statements
func (c *Collector) WithFuzzy(g *FuzzyGenerator, difference int) *Collector {
	c.fuzzy = g
	c.difference = difference
	return c
}

// Collect walks the descendants of root in pre-order and appends eligible
// nodes to buckets. The root itself is never bucketed.
func (c *Collector) Collect(root parser.NodeID, buckets Buckets) {
	forest := c.hasher.Forest()
	forest.Descendants(root, func(id parser.NodeID) {
		if !forest.Node(id).HasNodeChildren() {
			return
		}
		if c.hasher.Mass(id) < c.threshold {
			return
		}
		h := c.hasher.Hash(id)
		buckets[h] = append(buckets[h], id)

		if c.fuzzy != nil && c.difference > 0 {
			c.fuzzy.Process(id, c.difference, buckets)
		}
	})
}

// Collect buckets the eligible descendants of root without fuzzy matching
func Collect(hasher *Hasher, root parser.NodeID, threshold int) Buckets {
	buckets := make(Buckets)
	NewCollector(hasher, threshold).Collect(root, buckets)
	return buckets
}
