// Package mcpserver exposes investigations as Model Context Protocol tools so
// an assistant can check a claim and read the resulting metrics.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"factflow/internal/logging"
	"factflow/internal/metrics"
	"factflow/internal/models"
	"factflow/internal/pipeline"
)

// Investigator runs one claim through the whole pipeline.
type Investigator interface {
	Run(ctx context.Context, claim string) (pipeline.Result, error)
}

type Server struct {
	MCPServer *sdkmcp.Server

	inv Investigator
	log *slog.Logger
}

func NewServer(inv Investigator, version string) *Server {
	s := &Server{
		MCPServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "factflow", Version: version}, nil),
		inv:       inv,
		log:       logging.New("mcp"),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "investigate_claim",
		Description: "Fact-check a claim: gather web evidence, write the investigation report and summary, export TXT/HTML/PDF. Returns the metrics and file paths.",
	}, s.handleInvestigateClaim)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "extract_metrics",
		Description: "Read the score, confidence, verdict and weighted average out of an investigation report text.",
	}, s.handleExtractMetrics)
}

type investigateClaimInput struct {
	Claim string `json:"claim" jsonschema:"the claim to fact-check"`
}

type investigateClaimOutput struct {
	RunID    string              `json:"run_id"`
	CaseID   string              `json:"case_id"`
	Metrics  models.Metrics      `json:"metrics"`
	Severity string              `json:"severity"`
	Bundle   models.ExportBundle `json:"bundle"`
}

type extractMetricsInput struct {
	Report string `json:"report" jsonschema:"full investigation report text"`
}

type extractMetricsOutput struct {
	Metrics  models.Metrics `json:"metrics"`
	Severity string         `json:"severity"`
	Missing  []string       `json:"missing,omitempty"`
}

func (s *Server) handleInvestigateClaim(ctx context.Context, _ *sdkmcp.CallToolRequest, input investigateClaimInput) (*sdkmcp.CallToolResult, investigateClaimOutput, error) {
	claim := strings.TrimSpace(input.Claim)
	if claim == "" {
		return nil, investigateClaimOutput{}, fmt.Errorf("claim is required")
	}
	res, err := s.inv.Run(ctx, claim)
	if err != nil {
		s.log.Warn("investigation failed", "claim", claim, "err", err)
		return nil, investigateClaimOutput{}, fmt.Errorf("investigate_claim: %w", err)
	}
	return nil, investigateClaimOutput{
		RunID:    res.RunID,
		CaseID:   res.CaseID,
		Metrics:  res.Metrics,
		Severity: res.Severity.String(),
		Bundle:   res.Bundle,
	}, nil
}

func (s *Server) handleExtractMetrics(_ context.Context, _ *sdkmcp.CallToolRequest, input extractMetricsInput) (*sdkmcp.CallToolResult, extractMetricsOutput, error) {
	if strings.TrimSpace(input.Report) == "" {
		return nil, extractMetricsOutput{}, fmt.Errorf("report is required")
	}
	m := metrics.Extract(input.Report)
	return nil, extractMetricsOutput{
		Metrics:  m,
		Severity: metrics.Classify(m.Score).String(),
		Missing:  metrics.Gaps(m),
	}, nil
}
