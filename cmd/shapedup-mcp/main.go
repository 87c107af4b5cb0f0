package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	flag "github.com/spf13/pflag"

	"github.com/ludo-technologies/shapedup/internal/version"
	"github.com/ludo-technologies/shapedup/mcp"
)

const serverName = "shapedup"

func main() {
	configPath := flag.StringP("config", "c", "", "Configuration file path (default: discover .shapedup.toml per scanned path)")
	flag.Parse()

	// MCP uses stdout for JSON-RPC
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server, mcp.NewHandlerSet(mcp.NewDependencies(*configPath)))

	log.Printf("Starting %s MCP server %s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Println("  - detect_duplicates: Ranked structural duplicates")
	log.Println("  - duplication_score: Total and per-file scores")
	log.Println("  - dump_tree: Normalized syntax tree of a file")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Blocks until the client disconnects
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
