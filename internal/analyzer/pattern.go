package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

const (
	wildcardOne  = "_"
	wildcardRest = "___"
)

// Pattern is a structural exclude pattern written as an s-expression.
//
//	(call nil puts ___)   a call to puts with any arguments
//	(_ (str _))           any node whose only child is a str node
//	if                    shorthand for (if ___)
//
// "_" matches any one element, "___" matches every remaining element, and a
// bare word matches a literal with that exact text.
type Pattern struct {
	source string
	root   *patternNode
}

type patternNode struct {
	atom     string
	isList   bool
	elements []*patternNode
}

// ParsePattern parses a pattern expression
func ParsePattern(src string) (*Pattern, error) {
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	if !strings.HasPrefix(trimmed, "(") {
		if strings.ContainsAny(trimmed, " \t()") {
			return nil, fmt.Errorf("invalid pattern %q: expected a list or a single type name", src)
		}
		trimmed = "(" + trimmed + " " + wildcardRest + ")"
	}

	tokens := tokenizePattern(trimmed)
	pos := 0
	root, err := parsePatternList(tokens, &pos)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", src, err)
	}
	if pos != len(tokens) {
		return nil, fmt.Errorf("invalid pattern %q: trailing input", src)
	}
	return &Pattern{source: src, root: root}, nil
}

// MustParsePattern is ParsePattern that panics on error; for fixed patterns
func MustParsePattern(src string) *Pattern {
	p, err := ParsePattern(src)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as written
func (p *Pattern) String() string {
	return p.source
}

// Match reports whether the pattern matches id or any of its descendants
func (p *Pattern) Match(forest *parser.Forest, id parser.NodeID) bool {
	found := false
	forest.Walk(id, func(n parser.NodeID) bool {
		if found {
			return false
		}
		if p.root.matchNode(forest, n) {
			found = true
			return false
		}
		return true
	})
	return found
}

func (pn *patternNode) matchNode(forest *parser.Forest, id parser.NodeID) bool {
	n := forest.Node(id)
	head := pn.elements[0]
	if head.atom != wildcardOne && head.atom != n.Type {
		return false
	}

	rest := pn.elements[1:]
	for i, el := range rest {
		if el.atom == wildcardRest && !el.isList {
			return true
		}
		if i >= len(n.Children) {
			return false
		}
		if !el.matchElement(forest, n.Children[i]) {
			return false
		}
	}
	return len(rest) == len(n.Children)
}

func (pn *patternNode) matchElement(forest *parser.Forest, el parser.Element) bool {
	if pn.isList {
		return el.IsNode() && pn.matchNode(forest, el.Node)
	}
	if pn.atom == wildcardOne {
		return true
	}
	return !el.IsNode() && el.Literal == pn.atom
}

func tokenizePattern(s string) []string {
	s = strings.ReplaceAll(s, "(", " ( ")
	s = strings.ReplaceAll(s, ")", " ) ")
	return strings.Fields(s)
}

func parsePatternList(tokens []string, pos *int) (*patternNode, error) {
	if *pos >= len(tokens) || tokens[*pos] != "(" {
		return nil, fmt.Errorf("expected '('")
	}
	*pos++

	node := &patternNode{isList: true}
	for {
		if *pos >= len(tokens) {
			return nil, fmt.Errorf("unbalanced parentheses")
		}
		tok := tokens[*pos]
		switch tok {
		case ")":
			*pos++
			if len(node.elements) == 0 {
				return nil, fmt.Errorf("empty list")
			}
			if node.elements[0].isList || node.elements[0].atom == wildcardRest {
				return nil, fmt.Errorf("list must start with a type name or _")
			}
			return node, nil
		case "(":
			child, err := parsePatternList(tokens, pos)
			if err != nil {
				return nil, err
			}
			node.elements = append(node.elements, child)
		default:
			*pos++
			node.elements = append(node.elements, &patternNode{atom: tok})
		}
	}
}
