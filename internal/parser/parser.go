package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultTimeout bounds a single file parse
const DefaultTimeout = 10 * time.Second

// ErrTimeout is returned when a parse exceeds its time bound
var ErrTimeout = errors.New("parse timed out")

// SyntaxError reports malformed input
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "syntax errors found in source code"
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

// Result is one parsed file: its own forest, the root node, and the source.
type Result struct {
	Path     string
	Source   []byte
	Forest   *Forest
	Root     NodeID
	Language *Language
	// Fallback is true when the extension was unknown and the default
	// language was used.
	Fallback bool
}

// Parser dispatches files to their language and bounds every parse in time.
// It holds no parser state of its own and is safe for concurrent use.
type Parser struct {
	registry *Registry
	timeout  time.Duration
}

// New creates a Parser over registry. A non-positive timeout uses DefaultTimeout.
func New(registry *Registry, timeout time.Duration) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Parser{registry: registry, timeout: timeout}
}

// Registry returns the parser's language registry
func (p *Parser) Registry() *Registry {
	return p.registry
}

// ParseFile reads and parses path
func (p *Parser) ParseFile(ctx context.Context, path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(ctx, source, path)
}

// Parse parses source labelled with path. A parse that outlives the timeout
// is abandoned and ErrTimeout is returned.
func (p *Parser) Parse(ctx context.Context, source []byte, path string) (*Result, error) {
	lang, known := p.registry.Resolve(path)
	if lang == nil {
		return nil, fmt.Errorf("no parser registered for %s", path)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type outcome struct {
		forest *Forest
		root   NodeID
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		forest, root, err := lang.Parse(ctx, source, path)
		done <- outcome{forest, root, err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrTimeout
			}
			return nil, out.err
		}
		return &Result{
			Path:     path,
			Source:   source,
			Forest:   out.forest,
			Root:     out.root,
			Language: lang,
			Fallback: !known,
		}, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}
