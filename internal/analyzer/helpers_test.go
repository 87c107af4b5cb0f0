package analyzer

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

// readTree parses src into forest, labelling every node with path
func readTree(t *testing.T, forest *parser.Forest, path, src string) parser.NodeID {
	t.Helper()
	id, err := parser.ReadSexp(context.Background(), forest, []byte(src), path)
	require.NoError(t, err)
	return id
}

// newTestHasher returns a hasher over a fresh forest
func newTestHasher() *Hasher {
	return NewHasher(parser.NewForest(), NewTypeRegistry())
}

// processSexp reads src into the detector's forest and buckets it
func processSexp(t *testing.T, d *Detector, path, src string) parser.NodeID {
	t.Helper()
	root := readTree(t, d.Forest(), path, src)
	d.ProcessNode(root, nil)
	return root
}

// bucketSexps renders every bucket's members, buckets ordered by their first member
func bucketSexps(h *Hasher, buckets Buckets) [][]string {
	var out [][]string
	for _, k := range buckets.Keys() {
		var members []string
		for _, id := range buckets[k] {
			members = append(members, h.Forest().Sexp(id))
		}
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
