package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all shapedup MCP tools with the server
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	// Tool 1: detect_duplicates - ranked structural duplicates
	s.AddTool(mcp.NewTool("detect_duplicates",
		mcp.WithDescription("Find structurally duplicated code by hashing syntax subtrees; matches are ranked by mass times copies"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to source code (file or directory) to analyze")),
		mcp.WithNumber("mass",
			mcp.Description("Minimum subtree mass (node count) to consider (default: 16)")),
		mcp.WithNumber("fuzzy",
			mcp.Description("Also match code that differs by up to N statements, 0 = off (default: 0)")),
		mcp.WithBoolean("liberal",
			mcp.Description("Keep matches nested in bigger matches when they also occur elsewhere (default: false)")),
		mcp.WithString("only",
			mcp.Description("Only report matches of this node type, e.g. defn or function_definition")),
		mcp.WithArray("filters",
			mcp.WithStringItems(),
			mcp.Description("S-expression patterns; matches containing any of them are dropped, e.g. (call _ puts ___)")),
		mcp.WithBoolean("diff",
			mcp.Description("Include an n-way diff of each match (default: false)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
		mcp.WithString("output_mode",
			mcp.Enum("summary", "full"),
			mcp.Description("summary: top matches with locations; full: the complete response (default: summary)")),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum matches listed in summary mode (default: 20)")),
	), h.HandleDetectDuplicates)

	// Tool 2: duplication_score - total and per-file scores
	s.AddTool(mcp.NewTool("duplication_score",
		mcp.WithDescription("Get the total duplication score (lower is better) and each file's share of it"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to source code to analyze")),
		mcp.WithNumber("mass",
			mcp.Description("Minimum subtree mass to consider (default: 16)")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively analyze directories (default: true)")),
	), h.HandleDuplicationScore)

	// Tool 3: dump_tree - the tree patterns are written against
	s.AddTool(mcp.NewTool("dump_tree",
		mcp.WithDescription("Show the normalized syntax tree of one file as an s-expression, to help write only/filters values"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a single source file")),
	), h.HandleDumpTree)
}
