package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/parser"
)

const defaultMaxResults = 20

// HandlerSet exposes MCP tool handlers with shared dependencies.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies("")
	}
	return &HandlerSet{deps: deps}
}

// HandleDetectDuplicates handles the detect_duplicates tool
func (h *HandlerSet) HandleDetectDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, path, errResult := pathArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	req := h.buildRequest(path, args)

	result, err := h.analyze(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	maxResults := defaultMaxResults
	if mr, ok := args["max_results"].(float64); ok && mr > 0 {
		maxResults = int(mr)
	}

	var responseData interface{}
	switch outputMode(args) {
	case "full":
		responseData = result
	default:
		responseData = formatDuplicatesSummary(result, maxResults)
	}

	return jsonResult(responseData)
}

// HandleDuplicationScore handles the duplication_score tool
func (h *HandlerSet) HandleDuplicationScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, path, errResult := pathArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	req := h.buildRequest(path, args)
	req.Summary = true

	result, err := h.analyze(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"total":          result.Total,
		"files":          result.Summary,
		"files_analyzed": result.Statistics.FilesAnalyzed,
		"files_skipped":  result.Statistics.FilesSkipped,
		"duplicates":     result.Statistics.TotalItems,
		"mass":           result.Options.Mass,
	})
}

// HandleDumpTree handles the dump_tree tool
func (h *HandlerSet) HandleDumpTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, path, errResult := pathArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access path: %v", err)), nil
	}
	if info.IsDir() {
		return mcp.NewToolResultError("dump_tree needs a file, not a directory"), nil
	}

	result, err := parser.New(h.deps.Registry(), domain.DefaultParseTimeout).ParseFile(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"file":     path,
		"language": result.Language.Name,
		"fallback": result.Fallback,
		"sexp":     result.Forest.Sexp(result.Root),
	})
}

func (h *HandlerSet) analyze(ctx context.Context, req domain.DuplicationRequest) (*domain.DuplicationResponse, error) {
	useCase, err := h.deps.BuildScanUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}
	return useCase.AnalyzeAndReturn(ctx, req)
}

// buildRequest starts from the defaults and applies the tool arguments. Only
// arguments that were supplied override the configuration file.
func (h *HandlerSet) buildRequest(path string, args map[string]interface{}) domain.DuplicationRequest {
	req := *domain.DefaultDuplicationRequest()
	req.Paths = []string{path}
	req.OutputFormat = domain.OutputFormatJSON
	req.OutputWriter = io.Discard
	req.ShowProgress = false
	req.ConfigPath = h.deps.ConfigPath()
	req.ExplicitFlags = make(map[string]bool)

	if v, ok := args["mass"].(float64); ok {
		req.Mass = int(v)
		req.ExplicitFlags[domain.FlagMass] = true
	}
	if v, ok := args["fuzzy"].(float64); ok {
		req.Fuzzy = int(v)
		req.ExplicitFlags[domain.FlagFuzzy] = true
	}
	if v, ok := args["liberal"].(bool); ok {
		req.Liberal = v
		req.ExplicitFlags[domain.FlagLiberal] = true
	}
	if v, ok := args["only"].(string); ok && v != "" {
		req.Only = v
		req.ExplicitFlags[domain.FlagOnly] = true
	}
	if v, ok := args["filters"].([]interface{}); ok {
		for _, f := range v {
			if s, ok := f.(string); ok {
				req.Filters = append(req.Filters, s)
			}
		}
		req.ExplicitFlags[domain.FlagFilter] = true
	}
	if v, ok := args["diff"].(bool); ok {
		req.Diff = v
		req.ExplicitFlags[domain.FlagDiff] = true
	}
	if v, ok := args["recursive"].(bool); ok {
		req.Recursive = v
		req.ExplicitFlags[domain.FlagRecursive] = true
	}
	return req
}

func pathArgument(request mcp.CallToolRequest) (map[string]interface{}, string, *mcp.CallToolResult) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, "", mcp.NewToolResultError("invalid arguments format")
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, "", mcp.NewToolResultError("path parameter is required and must be a string")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, "", mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path))
	}
	return args, path, nil
}

func outputMode(args map[string]interface{}) string {
	if om, ok := args["output_mode"].(string); ok {
		return om
	}
	return "summary"
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// formatDuplicatesSummary keeps the biggest matches with their locations as
// "file:line" strings
func formatDuplicatesSummary(result *domain.DuplicationResponse, maxResults int) map[string]interface{} {
	items := make([]map[string]interface{}, 0, maxResults)
	for i, it := range result.Items {
		if i >= maxResults {
			break
		}
		locations := make([]string, len(it.Locations))
		for j, loc := range it.Locations {
			locations[j] = loc.String()
		}
		item := map[string]interface{}{
			"rank":      i + 1,
			"kind":      it.Kind(),
			"type":      it.Type,
			"mass":      it.Mass,
			"locations": locations,
		}
		if len(it.Sources) > 0 {
			item["sources"] = it.Sources
		}
		items = append(items, item)
	}

	skipped := make([]string, 0)
	for _, d := range result.SkippedFiles() {
		skipped = append(skipped, d.String())
	}

	return map[string]interface{}{
		"total":     result.Total,
		"items":     items,
		"truncated": len(result.Items) > maxResults,
		"summary": map[string]interface{}{
			"files_analyzed":  result.Statistics.FilesAnalyzed,
			"files_skipped":   result.Statistics.FilesSkipped,
			"total_items":     result.Statistics.TotalItems,
			"identical_items": result.Statistics.IdenticalItems,
			"similar_items":   result.Statistics.SimilarItems,
		},
		"skipped_files": skipped,
	}
}
