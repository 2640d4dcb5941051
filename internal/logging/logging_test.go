package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	New("pipeline").Info("hello")

	output := buf.String()
	if !strings.Contains(output, "component=pipeline") {
		t.Errorf("expected component=pipeline in output, got: %s", output)
	}
}

func TestInit_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)

	New("json-test").Info("json check")

	if !strings.Contains(buf.String(), `"level":"INFO"`) {
		t.Errorf("expected JSON level field, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): got %v want %v", in, got, want)
		}
	}
}

func TestInitRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)

	New("providers").Info("provider ready", "tavily_api_key", "tvly-123", "Authorization", "Bearer abc", "model", "llama", "max_tokens", 600)

	out := buf.String()
	if strings.Contains(out, "tvly-123") || strings.Contains(out, "Bearer abc") {
		t.Fatalf("credential leaked: %s", out)
	}
	if !strings.Contains(out, `"model":"llama"`) || !strings.Contains(out, `"max_tokens":600`) {
		t.Errorf("ordinary attribute lost: %s", out)
	}
}

func TestForRunAddsRunAndCase(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	ForRun(New("pipeline"), "run-1", "CASO-1").Debug("evidence fetched")

	out := buf.String()
	if !strings.Contains(out, "run_id=run-1") || !strings.Contains(out, "case_id=CASO-1") {
		t.Errorf("run scope missing: %s", out)
	}
}
