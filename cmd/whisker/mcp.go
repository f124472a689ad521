package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/quartzlab/whisker/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes whisker's
summary tools so LLMs can compute box-plot statistics on datasets.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "whisker": {
        "command": "whisker",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - summarize_dataset  Five-number summaries with moment statistics
  - compare_policies   All three quartile policies side by side
  - detect_outliers    Points outside the box-plot fences`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
