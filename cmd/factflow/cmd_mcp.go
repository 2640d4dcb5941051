package main

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"factflow/internal/logging"
	"factflow/internal/mcpserver"
	"factflow/internal/pipeline"
	"factflow/internal/providers"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the investigate_claim and extract_metrics tools over stdio",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(providers.KeyFor); err != nil {
		return err
	}
	deps, _, err := pipeline.DefaultDeps(cfg)
	if err != nil {
		return err
	}
	comps, err := pipeline.NewComponents(cfg, deps)
	if err != nil {
		return err
	}
	lg := logging.New("mcp")
	srv := mcpserver.NewServer(comps.Controller(pipeline.LogReporter{Log: lg}), version)

	lg.Info("starting factflow MCP server over stdio")
	return srv.MCPServer.Run(cmd.Context(), &sdkmcp.StdioTransport{})
}
