package analyzer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	items := []Item{
		{
			Type: "defn", Identical: true, Bonus: "*2", Mass: 32,
			Locations: []Location{{File: "a.rb", Line: 3}, {File: "b.rb", Line: 10}},
		},
		{
			Type: "block", Mass: 20,
			Locations: []Location{{File: "a.rb", Line: 7, Fuzzy: true}, {File: "c.rb", Line: 1}},
		},
	}

	tests := []struct {
		name string
		opts ReportOptions
		want string
	}{
		{
			name: "numbered",
			opts: ReportOptions{Number: true},
			want: `Total score (lower is better) = 52

1) IDENTICAL code found in :defn (mass*2 = 32)
  a.rb:3
  b.rb:10

2) Similar code found in :block (mass = 20)
  a.rb:7 (FUZZY)
  c.rb:1
`,
		},
		{
			name: "unnumbered",
			opts: ReportOptions{},
			want: `Total score (lower is better) = 52

IDENTICAL code found in :defn (mass*2 = 32)
  a.rb:3
  b.rb:10

Similar code found in :block (mass = 20)
  a.rb:7 (FUZZY)
  c.rb:1
`,
		},
		{
			name: "lettered in diff mode without sources",
			opts: ReportOptions{Diff: true},
			want: `Total score (lower is better) = 52

IDENTICAL code found in :defn (mass*2 = 32)
  A: a.rb:3
  B: b.rb:10

Similar code found in :block (mass = 20)
  A: a.rb:7 (FUZZY)
  B: c.rb:1
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteReport(&buf, 52, items, nil, tt.opts))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteReport_Summary(t *testing.T) {
	var buf bytes.Buffer
	summary := []FileScore{{File: "c.rb", Score: 32}, {File: "a.rb", Score: 4.5}}

	require.NoError(t, WriteReport(&buf, 37, nil, summary, ReportOptions{Summary: true}))

	assert.Equal(t, "Total score (lower is better) = 37\n\n   32.00: c.rb\n    4.50: a.rb\n", buf.String())
}

func TestWriteReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, 0, nil, nil, ReportOptions{Number: true}))
	assert.Equal(t, "Total score (lower is better) = 0\n", buf.String())
}

func TestWriteReport_DiffBlock(t *testing.T) {
	items := []Item{{
		Type: "class", Mass: 18,
		Locations:     []Location{{File: "a.rb", Line: 1}, {File: "b.rb", Line: 1}},
		Sources:       []string{"class Dog\nend", "class Cat\nend"},
		CommentMarker: "#",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, 18, items, nil, ReportOptions{Diff: true, Number: true}))

	assert.Equal(t, `Total score (lower is better) = 18

1) Similar code found in :class (mass = 18)
  A: a.rb:1
  B: b.rb:1

A: class Dog
B: class Cat
   end
`, buf.String())
}

func TestItem_Kind(t *testing.T) {
	assert.Equal(t, "IDENTICAL", Item{Identical: true}.Kind())
	assert.Equal(t, "Similar", Item{}.Kind())
}
