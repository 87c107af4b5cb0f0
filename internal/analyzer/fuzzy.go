package analyzer

import (
	"github.com/ludo-technologies/shapedup/internal/parser"
)

// Ceilings that keep variant generation from exploding on large containers.
// They are deliberately not configurable.
const (
	MaxFuzzyNodeSize = 10
	MaxFuzzyAvgMass  = 12
)

// BaseContainers gives the template arity of the s-expression container types
var BaseContainers = map[string]int{
	"block":  0,
	"class":  2,
	"module": 1,
	"defn":   2,
	"defs":   3,
	"iter":   2,
}

// FuzzyGenerator synthesizes near-duplicate variants of statement containers
// by dropping a bounded number of statements.
type FuzzyGenerator struct {
	hasher     *Hasher
	threshold  int
	containers map[string]int
}

// NewFuzzyGenerator creates a generator for the given container table
func NewFuzzyGenerator(hasher *Hasher, threshold int, containers map[string]int) *FuzzyGenerator {
	if containers == nil {
		containers = BaseContainers
	}
	return &FuzzyGenerator{hasher: hasher, threshold: threshold, containers: containers}
}

// Eligible reports whether id is a container small enough to vary
func (g *FuzzyGenerator) Eligible(id parser.NodeID) bool {
	n := g.hasher.Forest().Node(id)
	arity, ok := g.containers[n.Type]
	if !ok || arity > len(n.Children) {
		return false
	}
	size := n.Size()
	if size > MaxFuzzyNodeSize {
		return false
	}
	return g.hasher.Mass(id)/size <= MaxFuzzyAvgMass
}

// Variants builds every variant of id that omits between 1 and difference
// statements, largest first, in lexicographic combination order. Variants are
// added to the forest as synthetic nodes carrying id's location. Ineligible
// nodes yield nothing.
func (g *FuzzyGenerator) Variants(id parser.NodeID, difference int) []parser.NodeID {
	if !g.Eligible(id) {
		return nil
	}
	forest := g.hasher.Forest()
	n := forest.Node(id)
	arity := g.containers[n.Type]
	nodeType, loc := n.Type, n.Location
	template := append([]parser.Element(nil), n.Children[:arity]...)
	code := append([]parser.Element(nil), n.Children[arity:]...)

	var variants []parser.NodeID
	for k := len(code) - 1; k >= len(code)-difference && k >= 0; k-- {
		combinations(len(code), k, func(picked []int) {
			children := make([]parser.Element, 0, len(template)+len(picked))
			children = append(children, template...)
			for _, i := range picked {
				children = append(children, code[i])
			}
			variants = append(variants, forest.Add(parser.Node{
				Type:      nodeType,
				Children:  children,
				Location:  loc,
				Synthetic: true,
			}))
		})
	}
	return variants
}

// Process generates the variants of id and inserts the ones that qualify.
// A variant is dropped when it has no child nodes, when its mass is under the
// threshold, or when its bucket already holds a node from the same file and line.
func (g *FuzzyGenerator) Process(id parser.NodeID, difference int, buckets Buckets) {
	forest := g.hasher.Forest()
	for _, v := range g.Variants(id, difference) {
		if !forest.Node(v).HasNodeChildren() {
			continue
		}
		if g.hasher.Mass(v) < g.threshold {
			continue
		}
		h := g.hasher.Hash(v)
		if sameOrigin(forest, buckets[h], forest.Node(v).Location) {
			continue
		}
		buckets[h] = append(buckets[h], v)
	}
}

func sameOrigin(forest *parser.Forest, members []parser.NodeID, loc parser.Location) bool {
	for _, m := range members {
		l := forest.Node(m).Location
		if l.File == loc.File && l.Line == loc.Line {
			return true
		}
	}
	return false
}

// combinations calls fn with every k-subset of [0,n) in lexicographic order.
// The slice passed to fn is reused between calls.
func combinations(n, k int, fn func([]int)) {
	if k < 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// CountCandidates is the number of variants generated for a container with n
// statements: C(n,n-1) + ... + C(n,n-d), stopping at C(n,0).
func CountCandidates(n, d int) int {
	total := 0
	for k := n - 1; k >= n-d && k >= 0; k-- {
		total += binomial(n, k)
	}
	return total
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
