package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

// PruneMode selects how nested matches are collapsed
type PruneMode string

const (
	// PruneConservative drops any bucket whose hash occurs inside another bucket
	PruneConservative PruneMode = "conservative"
	// PruneLiberal removes individual nested instances instead of whole buckets
	PruneLiberal PruneMode = "liberal"
)

// ParsePruneMode converts a string into a PruneMode
func ParsePruneMode(s string) (PruneMode, error) {
	switch PruneMode(s) {
	case "", PruneConservative:
		return PruneConservative, nil
	case PruneLiberal:
		return PruneLiberal, nil
	default:
		return "", fmt.Errorf("unknown prune mode %q", s)
	}
}

// Pruner removes buckets that are not duplication and collapses nested matches
type Pruner struct {
	hasher *Hasher
}

// NewPruner creates a pruner
func NewPruner(hasher *Hasher) *Pruner {
	return &Pruner{hasher: hasher}
}

// Prune mutates buckets in place and returns it.
func (p *Pruner) Prune(buckets Buckets, mode PruneMode) Buckets {
	forest := p.hasher.Forest()
	for h, nodes := range buckets {
		if len(nodes) < 2 || allSynthetic(forest, nodes) {
			delete(buckets, h)
		}
	}

	if mode == PruneLiberal {
		return p.pruneLiberally(buckets)
	}
	return p.pruneConservatively(buckets)
}

func allSynthetic(forest *parser.Forest, nodes []parser.NodeID) bool {
	for _, id := range nodes {
		if !forest.Node(id).Synthetic {
			return false
		}
	}
	return true
}

// pruneConservatively deletes every bucket whose hash appears among the
// descendants of some bucket's first member.
func (p *Pruner) pruneConservatively(buckets Buckets) Buckets {
	nested := make(map[uint32]struct{})
	for _, nodes := range buckets {
		for _, h := range p.hasher.Subhashes(nodes[0]) {
			nested[h] = struct{}{}
		}
	}
	for h := range buckets {
		if _, ok := nested[h]; ok {
			delete(buckets, h)
		}
	}
	return buckets
}

// pruneLiberally removes the specific descendant instances of every bucketed
// node whose own bucket weighs no more than the ancestor's bucket, then drops
// buckets left without duplication.
func (p *Pruner) pruneLiberally(buckets Buckets) Buckets {
	forest := p.hasher.Forest()
	masses := make(map[uint32]int, len(buckets))
	for h, nodes := range buckets {
		masses[h] = p.hasher.Mass(nodes[0]) * len(nodes)
	}

	marked := make(map[parser.NodeID]struct{})
	for h, nodes := range buckets {
		top := masses[h]
		for _, id := range nodes {
			forest.Descendants(id, func(d parser.NodeID) {
				if sub, ok := masses[p.hasher.Hash(d)]; ok && sub > top {
					return
				}
				marked[d] = struct{}{}
			})
		}
	}

	for h, nodes := range buckets {
		kept := nodes[:0:0]
		for _, id := range nodes {
			if _, ok := marked[id]; !ok {
				kept = append(kept, id)
			}
		}
		if len(kept) <= 1 {
			delete(buckets, h)
			continue
		}
		buckets[h] = kept
	}
	return buckets
}
