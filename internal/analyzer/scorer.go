package analyzer

import (
	"sort"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

// Scores holds per-bucket masses and identical flags plus the corpus total
type Scores struct {
	Total     int
	Masses    map[uint32]int
	Identical map[uint32]bool
}

// FileScore is one file's share of the duplication mass
type FileScore struct {
	File  string  `json:"file" yaml:"file"`
	Score float64 `json:"score" yaml:"score"`
}

// Scorer weighs buckets and orders them for reporting
type Scorer struct {
	hasher *Hasher
}

// NewScorer creates a scorer
func NewScorer(hasher *Hasher) *Scorer {
	return &Scorer{hasher: hasher}
}

// Score computes each bucket's mass: representative mass times member count,
// times member count again when every member is deeply equal to the first.
func (s *Scorer) Score(buckets Buckets) Scores {
	forest := s.hasher.Forest()
	scores := Scores{
		Masses:    make(map[uint32]int, len(buckets)),
		Identical: make(map[uint32]bool, len(buckets)),
	}
	for h, nodes := range buckets {
		identical := true
		for _, id := range nodes[1:] {
			if !forest.DeepEqual(nodes[0], id) {
				identical = false
				break
			}
		}
		mass := s.hasher.Mass(nodes[0]) * len(nodes)
		if identical {
			mass *= len(nodes)
		}
		scores.Identical[h] = identical
		scores.Masses[h] = mass
		scores.Total += mass
	}
	return scores
}

// SortedMembers returns a bucket's members ordered by file then line
func (s *Scorer) SortedMembers(nodes []parser.NodeID) []parser.NodeID {
	forest := s.hasher.Forest()
	sorted := append([]parser.NodeID(nil), nodes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := forest.Node(sorted[i]).Location, forest.Node(sorted[j]).Location
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	return sorted
}

// Rank orders bucket hashes by descending mass, breaking ties by the file,
// line and type of each bucket's earliest member.
func (s *Scorer) Rank(buckets Buckets, scores Scores) []uint32 {
	forest := s.hasher.Forest()
	type key struct {
		hash uint32
		mass int
		loc  parser.Location
		typ  string
	}
	keys := make([]key, 0, len(buckets))
	for h, nodes := range buckets {
		first := s.SortedMembers(nodes)[0]
		n := forest.Node(first)
		keys = append(keys, key{hash: h, mass: scores.Masses[h], loc: n.Location, typ: n.Type})
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.mass != b.mass {
			return a.mass > b.mass
		}
		if a.loc.File != b.loc.File {
			return a.loc.File < b.loc.File
		}
		if a.loc.Line != b.loc.Line {
			return a.loc.Line < b.loc.Line
		}
		if a.typ != b.typ {
			return a.typ < b.typ
		}
		return a.hash < b.hash
	})

	ranked := make([]uint32, len(keys))
	for i, k := range keys {
		ranked[i] = k.hash
	}
	return ranked
}

// Summary spreads each bucket's mass evenly over its members and sums the
// shares per file, highest score first.
func (s *Scorer) Summary(buckets Buckets, scores Scores) []FileScore {
	forest := s.hasher.Forest()
	perFile := make(map[string]float64)
	for h, nodes := range buckets {
		share := float64(scores.Masses[h]) / float64(len(nodes))
		for _, id := range nodes {
			perFile[forest.Node(id).Location.File] += share
		}
	}

	out := make([]FileScore, 0, len(perFile))
	for file, score := range perFile {
		out = append(out, FileScore{File: file, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].File < out[j].File
	})
	return out
}

// Similarity is the mean literal similarity of every member against the
// first, each computed as 2s/(2s+l+r) over shared and unshared literals.
func (s *Scorer) Similarity(nodes []parser.NodeID) float64 {
	if len(nodes) < 2 {
		return 1
	}
	sum := 0.0
	for _, id := range nodes[1:] {
		l, shared, r := s.compare(nodes[0], id)
		if 2*shared+l+r == 0 {
			sum++
			continue
		}
		sum += float64(2*shared) / float64(2*shared+l+r)
	}
	return sum / float64(len(nodes)-1)
}

// compare counts literals only on the left, shared, and only on the right,
// pairing child nodes by position. Unpaired children count entirely to their side.
func (s *Scorer) compare(a, b parser.NodeID) (left, shared, right int) {
	forest := s.hasher.Forest()
	na, nb := forest.Node(a), forest.Node(b)

	var aNodes, bNodes []parser.NodeID
	aLits := make(map[string]int)
	bLits := make(map[string]int)
	for _, c := range na.Children {
		if c.IsNode() {
			aNodes = append(aNodes, c.Node)
		} else {
			aLits[c.Literal]++
		}
	}
	for _, c := range nb.Children {
		if c.IsNode() {
			bNodes = append(bNodes, c.Node)
		} else {
			bLits[c.Literal]++
		}
	}

	for lit, count := range aLits {
		if _, ok := bLits[lit]; ok {
			shared++
		} else {
			left += count
		}
	}
	for lit, count := range bLits {
		if _, ok := aLits[lit]; !ok {
			right += count
		}
	}

	for i := 0; i < len(aNodes) || i < len(bNodes); i++ {
		switch {
		case i >= len(bNodes):
			left += s.hasher.Mass(aNodes[i])
		case i >= len(aNodes):
			right += s.hasher.Mass(bNodes[i])
		default:
			l, sh, r := s.compare(aNodes[i], bNodes[i])
			left += l
			shared += sh
			right += r
		}
	}
	return left, shared, right
}
