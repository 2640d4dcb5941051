package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	OperationReport  = "investigation_report"
	OperationSummary = "investigation_summary"
)

// MockProvider answers offline with deterministic text. Report requests get
// a complete metric trailer derived from the prompt hash.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}
	if err := ctx.Err(); err != nil {
		return GenerateResponse{}, info, err
	}
	user := lastUserMessage(req.Messages)
	var text string
	switch req.Operation {
	case OperationReport:
		text = mockReport(user)
	case OperationSummary:
		text = "Verificamos a alegação contra as fontes disponíveis. As evidências são limitadas e não permitem uma conclusão firme. " +
			"Veredito: inconclusivo. Recomendamos aguardar fontes primárias antes de compartilhar."
	default:
		text = "Mock response."
	}
	return GenerateResponse{Text: text}, info, nil
}

func mockReport(prompt string) string {
	h := sha256.Sum256([]byte(prompt))
	score := binary.BigEndian.Uint32(h[:4]) % 101
	var b strings.Builder
	b.WriteString("# Relatório de investigação (mock)\n\n")
	b.WriteString("## Síntese\nSaída determinística gerada sem provedor real.\n\n")
	b.WriteString("## Métricas\n")
	fmt.Fprintf(&b, "MÉDIA CONSPIRATÓRIA: %d.%d/10\n\n", score/10, score%10)
	fmt.Fprintf(&b, "SCORE_DESINFORMACAO: %d\n", score)
	b.WriteString("CONFIANCA_ANALISE: BAIXA\n")
	b.WriteString("VEREDITO_CODIGO: INCONCLUSIVO\n")
	return b.String()
}

func lastUserMessage(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}
