package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ParseFunc turns raw source into a tree held in a fresh forest.
// Implementations must honor ctx cancellation where they can and must be
// safe to call from multiple goroutines.
type ParseFunc func(ctx context.Context, source []byte, path string) (*Forest, NodeID, error)

// Language describes how files of one kind are parsed and rendered.
type Language struct {
	Name       string
	Extensions []string
	// CommentMarker prefixes a line comment; used to split leading comments
	// from code when rendering diffs.
	CommentMarker string
	// Containers maps statement-sequence node types to the number of leading
	// non-code children that make up their template.
	Containers map[string]int
	Parse      ParseFunc
}

// Supported language names
const (
	LangRuby       = "ruby"
	LangPython     = "python"
	LangGo         = "go"
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
	LangJava       = "java"
	LangRust       = "rust"
	LangC          = "c"
	LangCPP        = "cpp"
	LangCSharp     = "csharp"
	LangPHP        = "php"
	LangBash       = "bash"
	LangSexp       = "sexp"
)

// Registry maps file extensions to languages. It is built once at startup and
// read concurrently afterwards.
type Registry struct {
	byExt    map[string]*Language
	byName   map[string]*Language
	ordered  []*Language
	fallback *Language
}

// NewRegistry creates a registry whose unknown extensions resolve to fallback
func NewRegistry(fallback *Language) *Registry {
	r := &Registry{
		byExt:    make(map[string]*Language),
		byName:   make(map[string]*Language),
		fallback: fallback,
	}
	if fallback != nil {
		r.Register(fallback)
	}
	return r
}

// Register adds a language. Later registrations win for shared extensions.
func (r *Registry) Register(lang *Language) {
	if _, ok := r.byName[lang.Name]; !ok {
		r.ordered = append(r.ordered, lang)
	}
	r.byName[lang.Name] = lang
	for _, ext := range lang.Extensions {
		r.byExt[normalizeExt(ext)] = lang
	}
}

// Resolve returns the language for path. The second result is false when the
// extension is unknown and the default language was substituted.
func (r *Registry) Resolve(path string) (*Language, bool) {
	if lang, ok := r.byExt[normalizeExt(filepath.Ext(path))]; ok {
		return lang, true
	}
	return r.fallback, false
}

// Supports reports whether path has a registered extension
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return ok
}

// Default returns the fallback language
func (r *Registry) Default() *Language {
	return r.fallback
}

// Lookup finds a language by name
func (r *Registry) Lookup(name string) (*Language, bool) {
	lang, ok := r.byName[strings.ToLower(name)]
	return lang, ok
}

// Languages returns registered languages in registration order
func (r *Registry) Languages() []*Language {
	out := make([]*Language, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Extensions returns all registered extensions, sorted
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ContainerTypes returns every container type name known to any language, sorted
func (r *Registry) ContainerTypes() []string {
	seen := make(map[string]struct{})
	for _, lang := range r.ordered {
		for t := range lang.Containers {
			seen[t] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for t := range seen {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

// DefaultRegistry returns a registry with every built-in language and Ruby as
// the fallback.
func DefaultRegistry() *Registry {
	r := NewRegistry(Ruby())
	for _, lang := range []*Language{
		treeSitterLanguage(LangPython, python.GetLanguage(), "#",
			[]string{"py", "pyi"}, map[string]int{"block": 0}),
		treeSitterLanguage(LangGo, golang.GetLanguage(), "//",
			[]string{"go"}, map[string]int{"block": 0, "statement_list": 0}),
		treeSitterLanguage(LangJavaScript, javascript.GetLanguage(), "//",
			[]string{"js", "jsx", "mjs", "cjs"}, map[string]int{"statement_block": 0, "class_body": 0}),
		treeSitterLanguage(LangTypeScript, typescript.GetLanguage(), "//",
			[]string{"ts", "mts", "cts"}, map[string]int{"statement_block": 0, "class_body": 0}),
		treeSitterLanguage(LangTSX, tsx.GetLanguage(), "//",
			[]string{"tsx"}, map[string]int{"statement_block": 0, "class_body": 0}),
		treeSitterLanguage(LangJava, java.GetLanguage(), "//",
			[]string{"java"}, map[string]int{"block": 0, "class_body": 0}),
		treeSitterLanguage(LangRust, rust.GetLanguage(), "//",
			[]string{"rs"}, map[string]int{"block": 0, "declaration_list": 0}),
		treeSitterLanguage(LangC, c.GetLanguage(), "//",
			[]string{"c", "h"}, map[string]int{"compound_statement": 0}),
		treeSitterLanguage(LangCPP, cpp.GetLanguage(), "//",
			[]string{"cc", "cpp", "cxx", "hpp", "hh", "hxx"}, map[string]int{"compound_statement": 0, "field_declaration_list": 0}),
		treeSitterLanguage(LangCSharp, csharp.GetLanguage(), "//",
			[]string{"cs"}, map[string]int{"block": 0, "declaration_list": 0}),
		treeSitterLanguage(LangPHP, php.GetLanguage(), "//",
			[]string{"php"}, map[string]int{"compound_statement": 0}),
		treeSitterLanguage(LangBash, bash.GetLanguage(), "#",
			[]string{"sh", "bash"}, map[string]int{"compound_statement": 0}),
		Sexp(),
	} {
		r.Register(lang)
	}
	return r
}

// Ruby returns the Ruby language definition
func Ruby() *Language {
	return treeSitterLanguage(LangRuby, ruby.GetLanguage(), "#",
		[]string{"rb", "rake", "gemspec", "ru"},
		map[string]int{"body_statement": 0, "then": 0, "else": 0, "do": 0})
}

func treeSitterLanguage(name string, grammar *sitter.Language, marker string, exts []string, containers map[string]int) *Language {
	return &Language{
		Name:          name,
		Extensions:    exts,
		CommentMarker: marker,
		Containers:    containers,
		Parse:         treeSitterParse(grammar),
	}
}

func treeSitterParse(grammar *sitter.Language) ParseFunc {
	return func(ctx context.Context, source []byte, path string) (*Forest, NodeID, error) {
		p := sitter.NewParser()
		defer p.Close()
		p.SetLanguage(grammar)

		tree, err := p.ParseCtx(ctx, nil, source)
		if err != nil {
			return nil, NoNode, fmt.Errorf("failed to parse source: %w", err)
		}
		defer tree.Close()

		root := tree.RootNode()
		if root.HasError() {
			return nil, NoNode, &SyntaxError{Line: firstErrorLine(root)}
		}

		builder := NewASTBuilder(source, path)
		id := builder.Build(root)
		return builder.Forest(), id, nil
	}
}
