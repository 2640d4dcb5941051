// Package report asks the generation provider for the investigative report
// and its plain-language summary.
package report

import (
	"context"
	"fmt"
	"strings"

	"factflow/internal/models"
	"factflow/internal/prompts"
	"factflow/internal/providers"
	"factflow/internal/util"
)

const (
	DefaultItemExcerpt = 800
	noEvidenceNotice   = "Nenhuma evidência foi encontrada pela busca. Registre essa ausência na análise e reduza a confiança de acordo."
)

type Options struct {
	Model              string
	ReportTemperature  float64
	SummaryTemperature float64
	ReportMaxTokens    int
	SummaryMaxTokens   int
	// ItemExcerpt bounds each evidence excerpt inside the prompt.
	ItemExcerpt int
}

type Synthesizer struct {
	llm     providers.LLMProvider
	prompts *prompts.Set
	opts    Options
}

func NewSynthesizer(llm providers.LLMProvider, set *prompts.Set, opts Options) *Synthesizer {
	if opts.ItemExcerpt <= 0 {
		opts.ItemExcerpt = DefaultItemExcerpt
	}
	return &Synthesizer{llm: llm, prompts: set, opts: opts}
}

// ReportRequest builds the generation request for the full report without
// calling the provider.
func (s *Synthesizer) ReportRequest(claim string, ev models.EvidenceSet, caseID, timestamp string) (providers.GenerateRequest, error) {
	instructions, err := s.prompts.RenderReport(prompts.ReportVars{CaseID: caseID, Timestamp: timestamp, Claim: claim})
	if err != nil {
		return providers.GenerateRequest{}, err
	}
	user := instructions + "\n\nEVIDÊNCIAS:\n" + FormatEvidence(ev, s.opts.ItemExcerpt)
	return providers.GenerateRequest{
		Operation:   providers.OperationReport,
		Model:       s.opts.Model,
		Messages:    []providers.Message{{Role: providers.RoleSystem, Content: s.prompts.Report.System}, {Role: providers.RoleUser, Content: user}},
		Temperature: s.opts.ReportTemperature,
		MaxTokens:   s.opts.ReportMaxTokens,
	}, nil
}

func (s *Synthesizer) SynthesizeReport(ctx context.Context, claim string, ev models.EvidenceSet, caseID, timestamp string) (string, error) {
	req, err := s.ReportRequest(claim, ev, caseID, timestamp)
	if err != nil {
		return "", err
	}
	resp, _, err := s.llm.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", util.ErrEmptyReport
	}
	return resp.Text, nil
}

func (s *Synthesizer) SummaryRequest(report string) providers.GenerateRequest {
	user := s.prompts.Summary.Instructions + "\n\nRELATÓRIO:\n" + report
	return providers.GenerateRequest{
		Operation:   providers.OperationSummary,
		Model:       s.opts.Model,
		Messages:    []providers.Message{{Role: providers.RoleSystem, Content: s.prompts.Summary.System}, {Role: providers.RoleUser, Content: user}},
		Temperature: s.opts.SummaryTemperature,
		MaxTokens:   s.opts.SummaryMaxTokens,
	}
}

func (s *Synthesizer) SynthesizeSummary(ctx context.Context, report string) (string, error) {
	resp, _, err := s.llm.Generate(ctx, s.SummaryRequest(report))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Text) == "" {
		return "", util.ErrEmptySummary
	}
	return strings.TrimSpace(resp.Text), nil
}

// FormatEvidence renders the evidence as the numbered list the report cites.
// Numbering follows the provider's ranking.
func FormatEvidence(ev models.EvidenceSet, excerpt int) string {
	var b strings.Builder
	if ev.Answer != "" {
		fmt.Fprintf(&b, "Resposta direta do buscador: %s\n\n", ev.Answer)
	}
	if ev.Empty() {
		b.WriteString(noEvidenceNotice)
		b.WriteString("\n")
		return b.String()
	}
	for i, it := range ev.Items {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, orUnknown(it.Title))
		fmt.Fprintf(&b, "    URL: %s\n", orUnknown(it.URL))
		fmt.Fprintf(&b, "    Data: %s\n", orUnknown(it.PublishedDate))
		fmt.Fprintf(&b, "    Trecho: %s\n\n", util.Excerpt(it.Content, excerpt))
	}
	return b.String()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "desconhecido"
	}
	return s
}
