package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/analyzer"
	"github.com/ludo-technologies/shapedup/internal/parser"
	"github.com/ludo-technologies/shapedup/internal/version"
)

// DuplicationServiceImpl implements domain.DuplicationService. Files are
// parsed in parallel and then merged into one detector in sorted path order.
type DuplicationServiceImpl struct {
	registry *parser.Registry
	progress domain.ProgressManager
	status   io.Writer
	now      func() time.Time
}

// NewDuplicationService creates the service. A nil registry uses
// parser.DefaultRegistry; progress may be nil.
func NewDuplicationService(registry *parser.Registry, progress domain.ProgressManager) *DuplicationServiceImpl {
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	return &DuplicationServiceImpl{
		registry: registry,
		progress: progress,
		status:   os.Stderr,
		now:      time.Now,
	}
}

// WithStatusWriter redirects verbose logging
func (s *DuplicationServiceImpl) WithStatusWriter(w io.Writer) *DuplicationServiceImpl {
	if w != nil {
		s.status = w
	}
	return s
}

// Analyze parses req.Paths, which must already be resolved to files, and
// returns the ranked duplicates. Files that fail to parse are skipped and
// reported as diagnostics; cancelling ctx aborts the run.
func (s *DuplicationServiceImpl) Analyze(ctx context.Context, req domain.DuplicationRequest) (*domain.DuplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filters, err := parseFilters(req.Filters)
	if err != nil {
		return nil, err
	}

	start := s.now()
	files := append([]string(nil), req.Paths...)
	sort.Strings(files)

	if s.progress != nil {
		s.progress.Initialize(len(files))
		s.progress.Start()
		defer s.progress.Close()
	}

	cache := PopulateParseCache(ctx, files, ParseCachePopulatorConfig{
		Parser:      parser.New(s.registry, req.Timeout),
		Concurrency: req.MaxGoroutines,
		OnParsed: func(string) {
			if s.progress != nil {
				s.progress.Increment()
			}
		},
	})
	if err := ctx.Err(); err != nil {
		if s.progress != nil {
			s.progress.Complete(false)
		}
		return nil, domain.NewAnalysisError("duplication analysis cancelled", err)
	}
	if s.progress != nil {
		s.progress.Complete(true)
	}

	detector := analyzer.NewDetector(&analyzer.DetectorConfig{
		Mass:    req.Mass,
		Fuzzy:   req.Fuzzy,
		Liberal: req.Liberal,
		Only:    req.Only,
		Filters: filters,
		Diff:    req.Diff,
	}, analyzer.NewTypeRegistry(s.registry.ContainerTypes()...))

	var diagnostics []domain.Diagnostic
	for _, path := range cache.Paths() {
		entry, _ := cache.Get(path)
		if entry.ParseErr != nil {
			diagnostics = append(diagnostics, s.parseDiagnostic(path, entry.ParseErr, req.Timeout))
			continue
		}
		if entry.Result.Fallback {
			diagnostics = append(diagnostics, domain.NewDiagnostic(path,
				domain.NewUnknownFileTypeError(entry.Result.Language.Name)))
		}
		if req.Verbose {
			fmt.Fprintf(s.status, "Processing %s\n", path)
		}
		detector.Process(entry.Result)
	}

	detector.Analyze()

	if req.Verbose {
		for _, d := range diagnostics {
			fmt.Fprintf(s.status, "%s\n", d)
		}
	}

	return s.buildResponse(req, detector, diagnostics, start), nil
}

func parseFilters(sources []string) ([]*analyzer.Pattern, error) {
	filters := make([]*analyzer.Pattern, 0, len(sources))
	for _, src := range sources {
		p, err := analyzer.ParsePattern(src)
		if err != nil {
			return nil, domain.NewConfigError(fmt.Sprintf("invalid filter %q", src), err)
		}
		filters = append(filters, p)
	}
	return filters, nil
}

func (s *DuplicationServiceImpl) parseDiagnostic(path string, err error, timeout time.Duration) domain.Diagnostic {
	if errors.Is(err, parser.ErrTimeout) {
		return domain.Diagnostic{
			File:    path,
			Code:    domain.ErrCodeParseTimeout,
			Message: fmt.Sprintf("parse timed out after %s", timeout),
		}
	}
	return domain.NewDiagnostic(path, err)
}

func (s *DuplicationServiceImpl) buildResponse(req domain.DuplicationRequest, detector *analyzer.Detector, diagnostics []domain.Diagnostic, start time.Time) *domain.DuplicationResponse {
	items := make([]domain.DuplicateItem, 0, len(detector.Items()))
	stats := domain.DuplicationStatistics{}
	for _, it := range detector.Items() {
		items = append(items, toDomainItem(it))
		if it.Identical {
			stats.IdenticalItems++
		} else {
			stats.SimilarItems++
		}
	}
	stats.TotalItems = len(items)

	summary := make([]domain.FileScore, len(detector.Summary()))
	for i, fs := range detector.Summary() {
		summary[i] = domain.FileScore{File: fs.File, Score: fs.Score}
	}

	ds := detector.Statistics()
	stats.FilesAnalyzed = ds.Files
	stats.NodesCollected = ds.Nodes
	stats.SyntheticNodes = ds.Synthetic

	resp := &domain.DuplicationResponse{
		Total:       detector.Total(),
		Items:       items,
		Summary:     summary,
		Statistics:  stats,
		Options:     req.Options(),
		Diagnostics: diagnostics,
		GeneratedAt: s.now().Format(time.RFC3339),
		Duration:    s.now().Sub(start).Milliseconds(),
		Version:     version.Short(),
	}
	for _, d := range diagnostics {
		if d.IsSkip() {
			resp.Statistics.FilesSkipped++
			resp.Errors = append(resp.Errors, d.String())
		} else {
			resp.Warnings = append(resp.Warnings, d.String())
		}
	}
	return resp
}

func toDomainItem(it analyzer.Item) domain.DuplicateItem {
	locs := make([]domain.DuplicateLocation, len(it.Locations))
	for i, l := range it.Locations {
		locs[i] = domain.DuplicateLocation{File: l.File, Line: l.Line, EndLine: l.EndLine, Fuzzy: l.Fuzzy}
	}
	return domain.DuplicateItem{
		ID:            it.ID,
		Hash:          it.Hash,
		Type:          it.Type,
		Identical:     it.Identical,
		Bonus:         it.Bonus,
		Mass:          it.Mass,
		Similarity:    it.Similarity,
		Locations:     locs,
		Sources:       it.Sources,
		CommentMarker: it.CommentMarker,
	}
}

// toAnalyzerItem is the inverse of toDomainItem, used to render text reports
func toAnalyzerItem(it domain.DuplicateItem) analyzer.Item {
	locs := make([]analyzer.Location, len(it.Locations))
	for i, l := range it.Locations {
		locs[i] = analyzer.Location{File: l.File, Line: l.Line, EndLine: l.EndLine, Fuzzy: l.Fuzzy}
	}
	return analyzer.Item{
		ID:            it.ID,
		Hash:          it.Hash,
		Type:          it.Type,
		Identical:     it.Identical,
		Bonus:         it.Bonus,
		Mass:          it.Mass,
		Similarity:    it.Similarity,
		Locations:     locs,
		Sources:       it.Sources,
		CommentMarker: it.CommentMarker,
	}
}
