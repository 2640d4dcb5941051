package providers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// GeminiProvider wraps the official genai client. The client is created on
// first use so a missing key only fails the call that needs it.
type GeminiProvider struct {
	keyName string
	apiKey  string
	model   string

	once    sync.Once
	cli     *genai.Client
	initErr error
}

func NewGeminiProvider(keyName string) *GeminiProvider {
	model := strings.TrimSpace(os.Getenv("FACTFLOW_GEMINI_MODEL"))
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiProvider{keyName: keyName, apiKey: ResolveGeminiKey(keyName), model: model}
}

func (g *GeminiProvider) client(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		if g.apiKey == "" {
			g.initErr = fmt.Errorf("gemini key missing for alias %q", g.keyName)
			return
		}
		g.cli, g.initErr = genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey, Backend: genai.BackendGeminiAPI})
	})
	return g.cli, g.initErr
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	model := pickModel(req.Model, g.model)
	info := ProviderInfo{Name: "gemini", Model: model, Key: g.keyName}
	cli, err := g.client(ctx)
	if err != nil {
		return GenerateResponse{}, info, err
	}

	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(float32(req.Temperature))}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	var contents []*genai.Content
	var system []string
	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	resp, err := cli.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("gemini generate request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("gemini returned empty candidates")
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return GenerateResponse{Text: b.String()}, info, nil
}

func ResolveGeminiKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("FACTFLOW_GEMINI_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		return v
	}
	return os.Getenv("GOOGLE_API_KEY")
}
