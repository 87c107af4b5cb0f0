package parser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseWith(t *testing.T, path, source string) *Result {
	t.Helper()
	res, err := New(DefaultRegistry(), 5*time.Second).Parse(context.Background(), []byte(source), path)
	require.NoError(t, err)
	return res
}

func collectTypes(f *Forest, root NodeID, nodeType string) []NodeID {
	c := NewCollectorVisitor(func(n *Node) bool { return n.Type == nodeType })
	f.Accept(root, c)
	return c.Nodes()
}

func TestASTBuilder_Ruby(t *testing.T) {
	res := parseWith(t, "dog.rb", `class Dog
  def x
    return "Hello"
  end

  def y
    return "Hello"
  end
end
`)
	f := res.Forest

	assert.Equal(t, "program", f.Node(res.Root).Type)

	methods := collectTypes(f, res.Root, "method")
	require.Len(t, methods, 2)
	assert.Equal(t, 2, f.Node(methods[0]).Location.Line)
	assert.Equal(t, 4, f.Node(methods[0]).Location.EndLine)
	assert.Equal(t, 6, f.Node(methods[1]).Location.Line)
	assert.Equal(t, "dog.rb", f.Node(methods[1]).Location.File)

	classes := collectTypes(f, res.Root, "class")
	require.Len(t, classes, 1)
	assert.Equal(t, 1, f.Node(classes[0]).Location.Line)
}

func TestASTBuilder_NamedLeavesCarryText(t *testing.T) {
	res := parseWith(t, "calc.py", "total = price + tax\n")
	f := res.Forest

	idents := collectTypes(f, res.Root, "identifier")
	require.Len(t, idents, 3)

	var names []string
	for _, id := range idents {
		n := f.Node(id)
		require.Len(t, n.Children, 1)
		assert.False(t, n.Children[0].IsNode())
		names = append(names, n.Children[0].Literal)
	}
	assert.Equal(t, []string{"total", "price", "tax"}, names)
}

func TestASTBuilder_KeepsOperators(t *testing.T) {
	res := parseWith(t, "calc.py", "x = a + b\ny = a - b\n")
	f := res.Forest

	ops := collectTypes(f, res.Root, "binary_operator")
	require.Len(t, ops, 2)

	literal := func(id NodeID) []string {
		var lits []string
		for _, c := range f.Node(id).Children {
			if !c.IsNode() {
				lits = append(lits, c.Literal)
			}
		}
		return lits
	}
	assert.Equal(t, []string{"+"}, literal(ops[0]))
	assert.Equal(t, []string{"-"}, literal(ops[1]))
	assert.False(t, f.DeepEqual(ops[0], ops[1]))
}

func TestASTBuilder_DropsComments(t *testing.T) {
	res := parseWith(t, "c.py", "# note\nx = 1\n")
	assert.Empty(t, collectTypes(res.Forest, res.Root, "comment"))
}

func TestIsOperatorToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"+", true},
		{"==", true},
		{"&&", true},
		{"(", false},
		{",", false},
		{"def", false},
		{"end", false},
		{"", false},
		{"_", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, isOperatorToken(tt.token))
		})
	}
}
