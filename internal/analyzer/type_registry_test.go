package analyzer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTypeRegistry_SeededSorted(t *testing.T) {
	r := NewTypeRegistry()

	assert.Equal(t, uint32(0), r.Index("arglist"))
	assert.Equal(t, uint32(1), r.Index("args"))
	assert.Equal(t, len(BaseNodeTypes), r.Len())
}

func TestNewTypeRegistry_SeedDeduplicated(t *testing.T) {
	r := NewTypeRegistry("call", "method", "method")

	assert.Equal(t, len(BaseNodeTypes)+1, r.Len())
	r.Index("method")
	assert.Equal(t, len(BaseNodeTypes)+1, r.Len())
}

func TestTypeRegistry_InternIsOrderIndependent(t *testing.T) {
	a := NewTypeRegistry()
	b := NewTypeRegistry()

	a.Intern("zeta", "alpha", "mid")
	b.Intern("mid", "alpha", "zeta")

	for _, name := range []string{"alpha", "mid", "zeta"} {
		assert.Equal(t, a.Index(name), b.Index(name), name)
	}
}

func TestTypeRegistry_IndexAppends(t *testing.T) {
	r := NewTypeRegistry()
	before := r.Len()

	idx := r.Index("brand_new")
	assert.Equal(t, uint32(before), idx)
	assert.Equal(t, idx, r.Index("brand_new"))
	assert.Equal(t, before+1, r.Len())
}

func TestTypeRegistry_ConcurrentIndex(t *testing.T) {
	r := NewTypeRegistry()
	names := []string{"a", "b", "c", "d", "e", "f"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range names {
				r.Index(n)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, len(BaseNodeTypes)+len(names), r.Len())
	seen := make(map[uint32]bool)
	for _, n := range names {
		idx := r.Index(n)
		assert.False(t, seen[idx], "duplicate index for %s", n)
		seen[idx] = true
	}
	assert.Equal(t, len(BaseNodeTypes)+len(names), r.Len())
}
