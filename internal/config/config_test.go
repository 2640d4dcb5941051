package config

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FACTFLOW_RETRY_ATTEMPTS", "")
	t.Setenv("FACTFLOW_REPORT_TEMPERATURE", "not-a-float")
	t.Setenv("FACTFLOW_SUMMARY_TEMPERATURE", "")
	t.Setenv("FACTFLOW_REPORT_MAX_TOKENS", "")
	t.Setenv("FACTFLOW_SUMMARY_MAX_TOKENS", "")
	t.Setenv("FACTFLOW_MAX_RESULTS", "")
	t.Setenv("FACTFLOW_LLM_PROVIDERS", "")
	cfg := Load()
	if cfg.LLMProviders != "groq" {
		t.Fatalf("expected groq as the default provider, got %q", cfg.LLMProviders)
	}
	if cfg.RetryAttempts != 3 {
		t.Fatalf("expected default retry attempts 3, got %d", cfg.RetryAttempts)
	}
	if cfg.ReportTemperature != 0.0 {
		t.Fatalf("report temperature must fall back to 0.0, got %v", cfg.ReportTemperature)
	}
	if cfg.SummaryTemperature != 0.1 {
		t.Fatalf("expected summary temperature 0.1, got %v", cfg.SummaryTemperature)
	}
	if cfg.ReportMaxTokens != 8000 || cfg.SummaryMaxTokens != 600 {
		t.Fatalf("unexpected token budgets %d/%d", cfg.ReportMaxTokens, cfg.SummaryMaxTokens)
	}
	if cfg.MaxResults != 12 {
		t.Fatalf("expected 12 search results, got %d", cfg.MaxResults)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FACTFLOW_REPORT_TEMPERATURE", "0.2")
	t.Setenv("FACTFLOW_MAX_RESULTS", "5")
	cfg := Load()
	if cfg.ReportTemperature != 0.2 || cfg.MaxResults != 5 {
		t.Fatalf("overrides ignored: %v %d", cfg.ReportTemperature, cfg.MaxResults)
	}
}

func TestValidateReportsMissingCredentials(t *testing.T) {
	cfg := Config{SearchProvider: "tavily", LLMProviders: "openai:main|mock", RetryAttempts: 1}
	err := cfg.Validate(func(ref string) string {
		if ref == "mock" {
			return "mock"
		}
		return ""
	})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(cfgErr.Missing) != 2 {
		t.Fatalf("expected 2 missing entries, got %v", cfgErr.Missing)
	}
	if !strings.Contains(err.Error(), "TAVILY_API_KEY") {
		t.Fatalf("expected tavily key in message: %s", err)
	}
}

func TestValidateMockStack(t *testing.T) {
	cfg := Config{SearchProvider: "mock", LLMProviders: "mock", RetryAttempts: 2}
	if err := cfg.Validate(func(string) string { return "mock" }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStringRedactsSecrets(t *testing.T) {
	cfg := Config{TavilyAPIKey: "tvly-secret", ArtifactS3SecretKey: "s3-secret"}
	if s := cfg.String(); strings.Contains(s, "secret") {
		t.Fatalf("secret leaked: %s", s)
	}
}
