package parser

import (
	"context"
	"fmt"
	"strconv"
)

// Sexp returns the s-expression language. Files hold one or more forms such as
// (defn foo (args) (call nil bar)); atoms are literals, ';' starts a comment.
// Several top-level forms are wrapped in a synthetic "file" root.
func Sexp() *Language {
	return &Language{
		Name:          LangSexp,
		Extensions:    []string{"sexp"},
		CommentMarker: ";",
		Containers: map[string]int{
			"block":  0,
			"class":  2,
			"module": 1,
			"defn":   2,
			"defs":   3,
			"iter":   2,
		},
		Parse: func(ctx context.Context, source []byte, path string) (*Forest, NodeID, error) {
			forest := NewForest()
			root, err := ReadSexp(ctx, forest, source, path)
			if err != nil {
				return nil, NoNode, err
			}
			return forest, root, nil
		},
	}
}

// ReadSexp reads s-expression source into forest and returns the root id
func ReadSexp(ctx context.Context, forest *Forest, source []byte, path string) (NodeID, error) {
	r := &sexpReader{src: source, path: path, line: 1, forest: forest, ctx: ctx}
	var forms []Element
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			break
		}
		if r.src[r.pos] != '(' {
			return NoNode, &SyntaxError{Line: r.line, Message: "expected '('"}
		}
		id, err := r.readList()
		if err != nil {
			return NoNode, err
		}
		forms = append(forms, Child(id))
	}
	switch len(forms) {
	case 0:
		return NoNode, &SyntaxError{Line: 1, Message: "empty source"}
	case 1:
		return forms[0].Node, nil
	default:
		return forest.NewNode("file", Location{File: path, Line: 1, EndLine: r.line}, forms...), nil
	}
}

type sexpReader struct {
	ctx    context.Context
	src    []byte
	pos    int
	line   int
	path   string
	forest *Forest
}

func (r *sexpReader) skipSpace() {
	for r.pos < len(r.src) {
		switch ch := r.src[r.pos]; ch {
		case '\n':
			r.line++
			r.pos++
		case ' ', '\t', '\r':
			r.pos++
		case ';':
			for r.pos < len(r.src) && r.src[r.pos] != '\n' {
				r.pos++
			}
		default:
			return
		}
	}
}

func (r *sexpReader) readList() (NodeID, error) {
	if err := r.ctx.Err(); err != nil {
		return NoNode, err
	}
	startLine := r.line
	r.pos++ // '('
	r.skipSpace()

	nodeType, err := r.readAtom()
	if err != nil {
		return NoNode, err
	}
	if nodeType == "" {
		return NoNode, &SyntaxError{Line: r.line, Message: "missing node type"}
	}

	var children []Element
	for {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return NoNode, &SyntaxError{Line: startLine, Message: "unterminated list"}
		}
		switch r.src[r.pos] {
		case ')':
			r.pos++
			loc := Location{File: r.path, Line: startLine, EndLine: r.line}
			return r.forest.NewNode(nodeType, loc, children...), nil
		case '(':
			id, err := r.readList()
			if err != nil {
				return NoNode, err
			}
			children = append(children, Child(id))
		default:
			atom, err := r.readAtom()
			if err != nil {
				return NoNode, err
			}
			children = append(children, Lit(atom))
		}
	}
}

func (r *sexpReader) readAtom() (string, error) {
	if r.pos < len(r.src) && r.src[r.pos] == '"' {
		return r.readString()
	}
	start := r.pos
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case ' ', '\t', '\r', '\n', '(', ')', ';', '"':
			return string(r.src[start:r.pos]), nil
		}
		r.pos++
	}
	return string(r.src[start:r.pos]), nil
}

func (r *sexpReader) readString() (string, error) {
	start := r.pos
	r.pos++
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case '\\':
			r.pos += 2
			continue
		case '\n':
			r.line++
		case '"':
			r.pos++
			s, err := strconv.Unquote(string(r.src[start:r.pos]))
			if err != nil {
				return "", &SyntaxError{Line: r.line, Message: fmt.Sprintf("bad string literal: %v", err)}
			}
			return s, nil
		}
		r.pos++
	}
	return "", &SyntaxError{Line: r.line, Message: "unterminated string"}
}
