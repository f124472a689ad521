package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the whisker summary tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all whisker tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "whisker",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarize_dataset",
		Description: describeSummarize(),
	}, handleSummarize)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_policies",
		Description: describeCompare(),
	}, handleCompare)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detect_outliers",
		Description: describeOutliers(),
	}, handleOutliers)
}
