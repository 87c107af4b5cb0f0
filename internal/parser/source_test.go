package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const dogAndCat = `##
# I am a dog.

class Dog
  def x
    return "Hello"
  end
end

##
# I
# am
# a
# cat.

class Cat
  def y
    return "Hello"
  end
end
`

func TestSnippet(t *testing.T) {
	tests := []struct {
		name   string
		loc    Location
		marker string
		want   string
	}{
		{
			name:   "class with leading comments",
			loc:    Location{Line: 4, EndLine: 8},
			marker: "#",
			want:   "##\n# I am a dog.\n\nclass Dog\n  def x\n    return \"Hello\"\n  end\nend",
		},
		{
			name:   "nested method is dedented",
			loc:    Location{Line: 5, EndLine: 7},
			marker: "#",
			want:   "def x\n  return \"Hello\"\nend",
		},
		{
			name:   "no marker skips comments",
			loc:    Location{Line: 16, EndLine: 16},
			marker: "",
			want:   "class Cat",
		},
		{
			name:   "out of range",
			loc:    Location{Line: 99, EndLine: 100},
			marker: "#",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Snippet([]byte(dogAndCat), tt.loc, tt.marker))
		})
	}
}

func TestDedent(t *testing.T) {
	got := dedent([]string{"    a", "", "      b  ", "    c"})
	assert.Equal(t, []string{"a", "", "  b", "c"}, got)
}
