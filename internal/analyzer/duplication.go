package analyzer

import (
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/ludo-technologies/shapedup/internal/parser"
)

// DetectorConfig holds the tunables of a duplication run
type DetectorConfig struct {
	// Mass is the minimum subtree mass considered for matching
	Mass int
	// Fuzzy is the number of statements a variant may omit; 0 disables fuzzy matching
	Fuzzy int
	// Liberal selects liberal pruning of nested matches
	Liberal bool
	// Only restricts reported items to one node type. Totals are unaffected.
	Only string
	// Filters drop every bucket with a member matching any pattern
	Filters []*Pattern
	// Diff attaches reconstructed sources to each item
	Diff bool
}

// DefaultDetectorConfig returns the default configuration
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		Mass: DefaultMassThreshold,
	}
}

// PruneMode returns the prune mode selected by the configuration
func (c *DetectorConfig) PruneMode() PruneMode {
	if c.Liberal {
		return PruneLiberal
	}
	return PruneConservative
}

// Statistics describes what a detector has seen
type Statistics struct {
	Files     int `json:"files" yaml:"files"`
	Nodes     int `json:"nodes" yaml:"nodes"`
	Buckets   int `json:"buckets" yaml:"buckets"`
	Synthetic int `json:"synthetic" yaml:"synthetic"`
}

type fileSource struct {
	source []byte
	marker string
}

// Detector accumulates trees into one forest, buckets them by structural hash,
// and analyzes the buckets into ranked duplication items.
//
// A Detector is not safe for concurrent use. Parse files in parallel, then
// feed the results to Process from a single goroutine in a stable order.
type Detector struct {
	config  *DetectorConfig
	forest  *parser.Forest
	hasher  *Hasher
	buckets Buckets
	sources map[string]fileSource
	files   int

	analyzed bool
	items    []Item
	total    int
	summary  []FileScore
}

// NewDetector creates a detector. A nil config uses DefaultDetectorConfig and
// a nil registry creates a fresh one.
func NewDetector(config *DetectorConfig, types *TypeRegistry) *Detector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	if config.Mass <= 0 {
		config.Mass = DefaultMassThreshold
	}
	forest := parser.NewForest()
	return &Detector{
		config:  config,
		forest:  forest,
		hasher:  NewHasher(forest, types),
		buckets: make(Buckets),
		sources: make(map[string]fileSource),
	}
}

// Config returns the detector configuration
func (d *Detector) Config() *DetectorConfig {
	return d.config
}

// Forest returns the shared forest. Trees built directly on it can be fed to ProcessNode.
func (d *Detector) Forest() *parser.Forest {
	return d.forest
}

// Hasher returns the detector's hasher
func (d *Detector) Hasher() *Hasher {
	return d.hasher
}

// Buckets returns the current buckets. After Analyze they are the pruned and
// filtered buckets.
func (d *Detector) Buckets() Buckets {
	return d.buckets
}

// Process merges a parsed file into the shared forest and buckets its nodes
// using the file language's container table.
func (d *Detector) Process(result *parser.Result) {
	root := d.forest.Adopt(result.Forest, result.Root)

	containers := BaseContainers
	marker := ""
	if result.Language != nil {
		containers = mergeContainers(BaseContainers, result.Language.Containers)
		marker = result.Language.CommentMarker
	}
	if result.Source != nil {
		d.sources[result.Path] = fileSource{source: result.Source, marker: marker}
	}
	d.ProcessNode(root, containers)
}

// ProcessNode buckets the descendants of a tree already stored in the shared
// forest. A nil containers table uses BaseContainers.
func (d *Detector) ProcessNode(root parser.NodeID, containers map[string]int) {
	if d.analyzed {
		panic("analyzer: Process called after Analyze")
	}
	if containers == nil {
		containers = BaseContainers
	}
	d.hasher.Types().Intern(d.forest.TypeNames(root)...)

	collector := NewCollector(d.hasher, d.config.Mass)
	if d.config.Fuzzy > 0 {
		collector.WithFuzzy(NewFuzzyGenerator(d.hasher, d.config.Mass, containers), d.config.Fuzzy)
	}
	collector.Collect(root, d.buckets)
	d.files++
}

func mergeContainers(base, extra map[string]int) map[string]int {
	if len(extra) == 0 {
		return base
	}
	merged := make(map[string]int, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// Analyze prunes, filters, scores and ranks the buckets. It runs once; later
// calls are no-ops.
func (d *Detector) Analyze() {
	if d.analyzed {
		return
	}
	d.analyzed = true

	d.buckets = NewPruner(d.hasher).Prune(d.buckets, d.config.PruneMode())
	d.applyFilters()

	scorer := NewScorer(d.hasher)
	scores := scorer.Score(d.buckets)
	d.total = scores.Total
	d.summary = scorer.Summary(d.buckets, scores)

	d.items = d.items[:0]
	for _, h := range scorer.Rank(d.buckets, scores) {
		sorted := scorer.SortedMembers(d.buckets[h])
		if d.config.Only != "" && d.forest.Node(sorted[0]).Type != d.config.Only {
			continue
		}
		d.items = append(d.items, d.buildItem(scorer, h, sorted, scores))
	}
}

func (d *Detector) applyFilters() {
	if len(d.config.Filters) == 0 {
		return
	}
	for h, nodes := range d.buckets {
		if d.matchesFilter(nodes) {
			delete(d.buckets, h)
		}
	}
}

func (d *Detector) matchesFilter(nodes []parser.NodeID) bool {
	for _, id := range nodes {
		for _, p := range d.config.Filters {
			if p.Match(d.forest, id) {
				return true
			}
		}
	}
	return false
}

// buildItem describes one bucket. sorted holds its members in location order.
func (d *Detector) buildItem(scorer *Scorer, h uint32, sorted []parser.NodeID, scores Scores) Item {
	item := Item{
		Hash:       h,
		Type:       d.forest.Node(sorted[0]).Type,
		Identical:  scores.Identical[h],
		Mass:       scores.Masses[h],
		Similarity: scorer.Similarity(sorted),
	}
	if item.Identical {
		item.Bonus = fmt.Sprintf("*%d", len(sorted))
	}

	item.Locations = make([]Location, len(sorted))
	for i, id := range sorted {
		n := d.forest.Node(id)
		item.Locations[i] = Location{
			File:    n.Location.File,
			Line:    n.Location.Line,
			EndLine: n.Location.EndLine,
			Fuzzy:   n.Synthetic,
		}
	}
	item.ID = itemID(item.Type, item.Locations)

	if d.config.Diff {
		item.Sources = make([]string, len(sorted))
		for i, id := range sorted {
			item.Sources[i] = d.source(id)
		}
		if src, ok := d.sources[item.Locations[0].File]; ok {
			item.CommentMarker = src.marker
		}
	}
	return item
}

// source reconstructs a member's text from its file, or prints the subtree
// when the file's source is not available.
func (d *Detector) source(id parser.NodeID) string {
	n := d.forest.Node(id)
	if src, ok := d.sources[n.Location.File]; ok {
		if text := parser.Snippet(src.source, n.Location, src.marker); text != "" {
			return text
		}
	}
	return d.forest.Sexp(id)
}

// itemID is a stable identifier derived from the node type and member locations
func itemID(nodeType string, locs []Location) string {
	var sb strings.Builder
	sb.WriteString(nodeType)
	for _, l := range locs {
		fmt.Fprintf(&sb, "|%s:%d:%t", l.File, l.Line, l.Fuzzy)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(sb.String()))
}

// Items returns the ranked items. Analyze must have been called.
func (d *Detector) Items() []Item {
	return d.items
}

// Total returns the total score over all surviving buckets
func (d *Detector) Total() int {
	return d.total
}

// Summary returns the per-file scores
func (d *Detector) Summary() []FileScore {
	return d.summary
}

// Statistics returns counters describing the processed input
func (d *Detector) Statistics() Statistics {
	stats := Statistics{
		Files:   d.files,
		Nodes:   d.forest.Len(),
		Buckets: len(d.buckets),
	}
	for i := 0; i < d.forest.Len(); i++ {
		if d.forest.Node(parser.NodeID(i)).Synthetic {
			stats.Synthetic++
		}
	}
	return stats
}

// Report analyzes if needed and writes the text report to w
func (d *Detector) Report(w io.Writer, opts ReportOptions) error {
	d.Analyze()
	if opts.Diff && !d.config.Diff {
		return fmt.Errorf("diff report requested but detector was not configured to keep sources")
	}
	return WriteReport(w, d.total, d.items, d.summary, opts)
}
