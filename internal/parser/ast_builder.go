package parser

import (
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
)

// delimiterTokens are anonymous tokens that carry no structure of their own
var delimiterTokens = map[string]bool{
	"(": true, ")": true, "[": true, "]": true, "{": true, "}": true,
	",": true, ";": true, ".": true, ":": true, "::": true, "\n": true,
}

// ASTBuilder converts tree-sitter parse trees into forest nodes.
//
// Named tree-sitter nodes become Nodes. Named leaves become a Node holding
// their source text as a single literal, so identifiers and numbers affect
// mass and equality but not the structural hash. Anonymous operator tokens
// are kept as literals; keywords, delimiters and comments are dropped.
type ASTBuilder struct {
	source []byte
	path   string
	forest *Forest
}

// NewASTBuilder creates a new AST builder for one file
func NewASTBuilder(source []byte, path string) *ASTBuilder {
	return &ASTBuilder{
		source: source,
		path:   path,
		forest: NewForest(),
	}
}

// Forest returns the forest the builder writes into
func (b *ASTBuilder) Forest() *Forest {
	return b.forest
}

// Build converts the subtree rooted at tsNode and returns its id
func (b *ASTBuilder) Build(tsNode *sitter.Node) NodeID {
	return b.buildNode(tsNode)
}

func (b *ASTBuilder) buildNode(tsNode *sitter.Node) NodeID {
	loc := b.location(tsNode)

	if tsNode.NamedChildCount() == 0 {
		return b.forest.NewNode(tsNode.Type(), loc, Lit(tsNode.Content(b.source)))
	}

	childCount := int(tsNode.ChildCount())
	children := make([]Element, 0, childCount)
	for i := 0; i < childCount; i++ {
		child := tsNode.Child(i)
		if child == nil {
			continue
		}
		if child.IsNamed() {
			if isComment(child.Type()) {
				continue
			}
			children = append(children, Child(b.buildNode(child)))
			continue
		}
		if tsNode.FieldNameForChild(i) == "operator" || isOperatorToken(child.Type()) {
			children = append(children, Lit(child.Type()))
		}
	}
	return b.forest.NewNode(tsNode.Type(), loc, children...)
}

func (b *ASTBuilder) location(tsNode *sitter.Node) Location {
	return Location{
		File:    b.path,
		Line:    int(tsNode.StartPoint().Row) + 1,
		EndLine: int(tsNode.EndPoint().Row) + 1,
	}
}

func isComment(nodeType string) bool {
	return nodeType == "comment" || nodeType == "line_comment" || nodeType == "block_comment"
}

// isOperatorToken reports whether an anonymous token is a symbolic operator
// such as "+" or "==" rather than a keyword or delimiter.
func isOperatorToken(token string) bool {
	if token == "" || delimiterTokens[token] {
		return false
	}
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			return false
		}
	}
	return true
}

// firstErrorLine returns the 1-based line of the first ERROR or MISSING node
func firstErrorLine(node *sitter.Node) int {
	if node.IsError() || node.IsMissing() {
		return int(node.StartPoint().Row) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if line := firstErrorLine(child); line > 0 {
			return line
		}
	}
	return 0
}
