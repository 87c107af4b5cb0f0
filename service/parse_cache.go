package service

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

// FileParseResult holds the outcome of parsing a single file
type FileParseResult struct {
	Path     string
	Result   *parser.Result
	ParseErr error
}

// ParseCache stores parse results keyed by path. After Seal the cache is
// read-only and safe for concurrent reads without locks.
type ParseCache struct {
	results map[string]*FileParseResult
	order   []string
	sealed  bool
}

// NewParseCache creates a new empty ParseCache
func NewParseCache() *ParseCache {
	return &ParseCache{
		results: make(map[string]*FileParseResult),
	}
}

// Put stores a parse result. Calls after Seal are ignored.
func (c *ParseCache) Put(result *FileParseResult) {
	if c.sealed {
		return
	}
	if _, exists := c.results[result.Path]; !exists {
		c.order = append(c.order, result.Path)
	}
	c.results[result.Path] = result
}

// Seal marks the cache as read-only
func (c *ParseCache) Seal() {
	c.sealed = true
}

// Get retrieves a cached parse result
func (c *ParseCache) Get(path string) (*FileParseResult, bool) {
	r, ok := c.results[path]
	return r, ok
}

// Paths returns the cached paths in insertion order
func (c *ParseCache) Paths() []string {
	return c.order
}

// Len returns the number of entries in the cache
func (c *ParseCache) Len() int {
	return len(c.results)
}

// ParseCachePopulatorConfig controls PopulateParseCache
type ParseCachePopulatorConfig struct {
	Parser      *parser.Parser
	Concurrency int // 0 means runtime.GOMAXPROCS(0)

	// OnParsed is called once per file after its parse finishes, from the
	// worker goroutine. It must be safe for concurrent use.
	OnParsed func(path string)
}

// PopulateParseCache parses files in parallel and returns a sealed cache whose
// Paths follow the order of files. Each parse builds its own tree-sitter
// parser and its own forest, so workers share nothing.
func PopulateParseCache(ctx context.Context, files []string, cfg ParseCachePopulatorConfig) *ParseCache {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	psr := cfg.Parser
	if psr == nil {
		psr = parser.New(nil, 0)
	}

	results := make([]*FileParseResult, len(files))

	p := pool.New().WithMaxGoroutines(concurrency)
	for i, path := range files {
		p.Go(func() {
			r := &FileParseResult{Path: path}
			if ctx.Err() != nil {
				r.ParseErr = ctx.Err()
			} else {
				r.Result, r.ParseErr = psr.ParseFile(ctx, path)
			}
			results[i] = r
			if cfg.OnParsed != nil {
				cfg.OnParsed(path)
			}
		})
	}
	p.Wait()

	cache := NewParseCache()
	for _, r := range results {
		cache.Put(r)
	}
	cache.Seal()

	return cache
}
