package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

func TestScorer_IdenticalBonus(t *testing.T) {
	h := newTestHasher()
	a := readTree(t, h.Forest(), "a.rb", `(call (lvar x) foo (lit 1) (lit 2))`)
	b := readTree(t, h.Forest(), "b.rb", `(call (lvar x) foo (lit 1) (lit 2))`)
	c := readTree(t, h.Forest(), "c.rb", `(call (lvar z) foo (lit 3) (lit 4))`)
	require.Equal(t, 8, h.Mass(a))

	s := NewScorer(h)

	identical := s.Score(Buckets{1: {a, b}})
	assert.True(t, identical.Identical[1])
	assert.Equal(t, 32, identical.Masses[1])
	assert.Equal(t, 32, identical.Total)

	similar := s.Score(Buckets{1: {a, b, c}})
	assert.False(t, similar.Identical[1])
	assert.Equal(t, 24, similar.Masses[1])
}

func TestScorer_RankByMassThenLocation(t *testing.T) {
	h := newTestHasher()
	f := h.Forest()
	small1 := readTree(t, f, "a.rb", `(return (lvar x) y)`)
	small2 := readTree(t, f, "b.rb", `(return (lvar z) y)`)
	big1 := readTree(t, f, "c.rb", `(call (lvar x) foo (lit 1) (lit 2))`)
	big2 := readTree(t, f, "d.rb", `(call (lvar z) foo (lit 3) (lit 4))`)
	tie1 := readTree(t, f, "z.rb", `(yield (lvar x) y)`)
	tie2 := readTree(t, f, "y.rb", `(yield (lvar z) y)`)

	buckets := Buckets{
		h.Hash(tie1):   {tie1, tie2},
		h.Hash(small1): {small1, small2},
		h.Hash(big1):   {big1, big2},
	}
	s := NewScorer(h)
	ranked := s.Rank(buckets, s.Score(buckets))

	assert.Equal(t, []uint32{h.Hash(big1), h.Hash(small1), h.Hash(tie1)}, ranked)
}

func TestScorer_SortedMembers(t *testing.T) {
	h := newTestHasher()
	f := h.Forest()
	b2 := readTree(t, f, "b.rb", "\n(return (lvar x))")
	a := readTree(t, f, "a.rb", "(return (lvar x))")
	b1 := readTree(t, f, "b.rb", "(return (lvar x))")

	assert.Equal(t, []parser.NodeID{a, b1, b2}, NewScorer(h).SortedMembers([]parser.NodeID{b2, a, b1}))
}

func TestScorer_Summary(t *testing.T) {
	h := newTestHasher()
	f := h.Forest()
	a := readTree(t, f, "a.rb", `(return (lvar x) y)`)
	b := readTree(t, f, "b.rb", `(return (lvar z) y)`)
	c := readTree(t, f, "c.rb", `(call (lvar x) foo (lit 1) (lit 2))`)
	d := readTree(t, f, "c.rb", `(call (lvar x) foo (lit 1) (lit 2))`)

	buckets := Buckets{h.Hash(a): {a, b}, h.Hash(c): {c, d}}
	s := NewScorer(h)
	summary := s.Summary(buckets, s.Score(buckets))

	assert.Equal(t, []FileScore{
		{File: "c.rb", Score: 32},
		{File: "a.rb", Score: 4},
		{File: "b.rb", Score: 4},
	}, summary)
}

func TestScorer_Similarity(t *testing.T) {
	h := newTestHasher()
	f := h.Forest()
	a := readTree(t, f, "a.rb", `(call (lvar x) foo (lit 1) (lit 2))`)
	b := readTree(t, f, "b.rb", `(call (lvar x) foo (lit 1) (lit 2))`)
	c := readTree(t, f, "c.rb", `(call (lvar z) foo (lit 3) (lit 4))`)
	s := NewScorer(h)

	assert.InDelta(t, 1.0, s.Similarity([]parser.NodeID{a, b}), 1e-9)
	assert.InDelta(t, 0.25, s.Similarity([]parser.NodeID{a, c}), 1e-9)
	assert.InDelta(t, 0.625, s.Similarity([]parser.NodeID{a, b, c}), 1e-9)
	assert.InDelta(t, 1.0, s.Similarity([]parser.NodeID{a}), 1e-9)
}
