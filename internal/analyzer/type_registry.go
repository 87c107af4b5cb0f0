package analyzer

import (
	"sort"
	"sync"
)

// BaseNodeTypes are the s-expression node types every registry is seeded with
var BaseNodeTypes = []string{
	"args", "arglist", "block", "call", "class", "const", "defn", "defs",
	"if", "iasgn", "ivar", "iter", "lasgn", "lit", "lvar", "module",
	"return", "scope", "self", "str",
}

// TypeRegistry maps node type names to dense indices used by the structural
// hash. It is seeded with a sorted canonical list so indices do not depend on
// traversal order; unseen names are appended. Safe for concurrent use.
type TypeRegistry struct {
	mu    sync.RWMutex
	index map[string]uint32
	names []string
}

// NewTypeRegistry creates a registry seeded with BaseNodeTypes and seed, sorted
func NewTypeRegistry(seed ...string) *TypeRegistry {
	all := make([]string, 0, len(BaseNodeTypes)+len(seed))
	all = append(all, BaseNodeTypes...)
	all = append(all, seed...)
	sort.Strings(all)

	r := &TypeRegistry{index: make(map[string]uint32, len(all))}
	for _, name := range all {
		if _, ok := r.index[name]; ok {
			continue
		}
		r.index[name] = uint32(len(r.names))
		r.names = append(r.names, name)
	}
	return r
}

// Index returns the index of name, registering it if needed
func (r *TypeRegistry) Index(name string) uint32 {
	r.mu.RLock()
	idx, ok := r.index[name]
	r.mu.RUnlock()
	if ok {
		return idx
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.internLocked(name)
}

// Intern registers names that are not yet known, in sorted order
func (r *TypeRegistry) Intern(names ...string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range sorted {
		r.internLocked(name)
	}
}

func (r *TypeRegistry) internLocked(name string) uint32 {
	if idx, ok := r.index[name]; ok {
		return idx
	}
	idx := uint32(len(r.names))
	r.index[name] = idx
	r.names = append(r.names, name)
	return idx
}

// Len returns the number of registered types
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
