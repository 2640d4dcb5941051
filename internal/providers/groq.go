package providers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// GroqProvider supports LLM generation via Groq's OpenAI-compatible API.
type GroqProvider struct {
	keyName string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGroqProvider(keyName string) *GroqProvider {
	model := os.Getenv("FACTFLOW_GROQ_MODEL")
	if strings.TrimSpace(model) == "" {
		model = "llama-3.3-70b-versatile"
	}
	return &GroqProvider{
		keyName: keyName,
		apiKey:  ResolveGroqKey(keyName),
		model:   model,
		baseURL: "https://api.groq.com/openai/v1/chat/completions",
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (g *GroqProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	model := pickModel(req.Model, g.model)
	info := ProviderInfo{Name: "groq", Key: g.keyName, Model: model}
	if g.apiKey == "" {
		return GenerateResponse{}, info, fmt.Errorf("groq key missing for alias %q", g.keyName)
	}
	text, err := chatCompletion(ctx, g.client, g.baseURL, g.apiKey, "groq", model, req)
	return GenerateResponse{Text: text}, info, err
}

func ResolveGroqKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("FACTFLOW_GROQ_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GROQ_API_KEY")
}
