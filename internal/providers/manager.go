package providers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"factflow/internal/config"
	"factflow/internal/logging"
)

type NamedLLMProvider struct {
	Ref      ProviderRef
	Provider LLMProvider
}

// CallRecord is one generation attempt against one provider.
type CallRecord struct {
	Operation    string
	RunID        string
	ProviderName string
	Model        string
	Status       string
	ErrorType    ErrorType
	Latency      time.Duration
}

type CallRecorder interface {
	RecordCall(ctx context.Context, rec CallRecord) error
}

type runIDKey struct{}

// WithRunID tags generation calls made with ctx for the audit log.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func runIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(runIDKey{}).(string)
	return v
}

// Manager holds the configured providers and itself satisfies LLMProvider:
// Generate walks the providers in preferred order and returns the first
// success or the last error unchanged.
type Manager struct {
	llmProviders []NamedLLMProvider
	recorder     CallRecorder
	log          *slog.Logger
}

func NewManager(cfg config.Config) (*Manager, error) {
	m := &Manager{log: logging.New("providers")}
	for _, ref := range ParseProviderList(cfg.LLMProviders) {
		p, err := buildProvider(ref)
		if err != nil {
			return nil, err
		}
		m.llmProviders = append(m.llmProviders, NamedLLMProvider{Ref: ref, Provider: p})
	}
	return m, nil
}

// NewManagerWith is used by tests and embedders that build providers
// themselves.
func NewManagerWith(providers ...NamedLLMProvider) *Manager {
	m := &Manager{llmProviders: providers, log: logging.New("providers")}
	if len(m.llmProviders) == 0 {
		m.llmProviders = []NamedLLMProvider{{Ref: ProviderRef{Raw: "mock", Name: "mock"}, Provider: NewMockProvider()}}
	}
	return m
}

func (m *Manager) SetRecorder(r CallRecorder) {
	m.recorder = r
}

func (m *Manager) LLMProviderByIndex(i int) (LLMProvider, ProviderRef) {
	if i < 0 || i >= len(m.llmProviders) {
		i = 0
	}
	return m.llmProviders[i].Provider, m.llmProviders[i].Ref
}

func (m *Manager) PreferredLLMOrder() []int {
	n := len(m.llmProviders)
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if strings.ToLower(m.llmProviders[i].Ref.Name) != "mock" {
			out = append(out, i)
		}
	}
	for i := 0; i < n; i++ {
		if strings.ToLower(m.llmProviders[i].Ref.Name) == "mock" {
			out = append(out, i)
		}
	}
	return out
}

func (m *Manager) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	var (
		lastInfo ProviderInfo
		lastErr  error
	)
	for _, idx := range m.PreferredLLMOrder() {
		p, ref := m.LLMProviderByIndex(idx)
		start := time.Now()
		resp, info, err := p.Generate(ctx, req)
		m.record(ctx, req, info, err, time.Since(start))
		if err == nil {
			return resp, info, nil
		}
		lastInfo, lastErr = info, err
		if ctx.Err() != nil {
			break
		}
		m.log.Warn("llm provider failed", "provider", ref.Raw, "operation", req.Operation, "error_type", ClassifyError(err), "err", err)
	}
	return GenerateResponse{}, lastInfo, lastErr
}

func (m *Manager) record(ctx context.Context, req GenerateRequest, info ProviderInfo, err error, latency time.Duration) {
	if m.recorder == nil {
		return
	}
	rec := CallRecord{
		Operation:    req.Operation,
		RunID:        runIDFrom(ctx),
		ProviderName: info.Name,
		Model:        info.Model,
		Status:       "ok",
		Latency:      latency,
	}
	if err != nil {
		rec.Status = "error"
		rec.ErrorType = ClassifyError(err)
	}
	if rerr := m.recorder.RecordCall(context.WithoutCancel(ctx), rec); rerr != nil {
		m.log.Warn("record llm call failed", "err", rerr)
	}
}

// KeyFor resolves the credential a provider reference needs. Local providers
// return a placeholder so config.Validate accepts them.
func KeyFor(raw string) string {
	ref := parseRef(raw)
	switch strings.ToLower(ref.Name) {
	case "mock", "ollama":
		return "local"
	case "openai":
		return ResolveOpenAIKey(ref.KeyAlias)
	case "groq":
		return ResolveGroqKey(ref.KeyAlias)
	case "gemini":
		return ResolveGeminiKey(ref.KeyAlias)
	default:
		return ""
	}
}

func buildProvider(ref ProviderRef) (LLMProvider, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(), nil
	case "openai":
		return NewOpenAIProvider(ref.KeyAlias), nil
	case "groq":
		return NewGroqProvider(ref.KeyAlias), nil
	case "gemini":
		return NewGeminiProvider(ref.KeyAlias), nil
	case "ollama":
		return NewOllamaProvider(ref.KeyAlias), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
