// Package prompts holds the generation instructions. The text lives in an
// embedded YAML file so wording changes never touch Go code.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var embedded []byte

type Template struct {
	System       string `yaml:"system"`
	Instructions string `yaml:"instructions"`
}

type Set struct {
	Methodology string   `yaml:"methodology"`
	Report      Template `yaml:"report"`
	Summary     Template `yaml:"summary"`

	report *template.Template
}

type ReportVars struct {
	CaseID    string
	Timestamp string
	Claim     string
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
	defaultErr  error
)

// Default returns the embedded prompt set, parsed once.
func Default() (*Set, error) {
	defaultOnce.Do(func() {
		defaultSet, defaultErr = Parse(embedded)
	})
	return defaultSet, defaultErr
}

func Parse(b []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode prompts: %w", err)
	}
	if strings.TrimSpace(s.Report.Instructions) == "" || strings.TrimSpace(s.Summary.Instructions) == "" {
		return nil, fmt.Errorf("prompts: report and summary instructions are required")
	}
	t, err := template.New("report").Option("missingkey=error").Parse(s.Report.Instructions)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	s.report = t
	return &s, nil
}

func (s *Set) RenderReport(v ReportVars) (string, error) {
	var b strings.Builder
	if err := s.report.Execute(&b, v); err != nil {
		return "", fmt.Errorf("render report prompt: %w", err)
	}
	return b.String(), nil
}
