package pipeline

import (
	"fmt"
	"time"

	"factflow/internal/artifactstore"
	"factflow/internal/config"
	"factflow/internal/evidence"
	"factflow/internal/export"
	"factflow/internal/prompts"
	"factflow/internal/providers"
	"factflow/internal/render"
	"factflow/internal/report"
	"factflow/internal/search"
)

type Deps struct {
	LLM      providers.LLMProvider
	Search   search.Provider
	Renderer render.Renderer
	Mirror   export.Mirror
}

// Components are the stage implementations shared by the inline controller
// and the Temporal activities.
type Components struct {
	Evidence *evidence.Fetcher
	Writer   *report.Synthesizer
	Exporter *export.Exporter
	Config   config.Config
}

func NewComponents(cfg config.Config, d Deps) (*Components, error) {
	set, err := prompts.Default()
	if err != nil {
		return nil, err
	}
	exp := export.NewExporter(cfg.OutputDir, d.Renderer, set.Methodology)
	if d.Mirror != nil {
		exp.SetMirror(d.Mirror)
	}
	return &Components{
		Evidence: evidence.NewFetcher(d.Search, cfg.MaxResults, cfg.ExcerptChars),
		Writer: report.NewSynthesizer(d.LLM, set, report.Options{
			Model:              cfg.Model,
			ReportTemperature:  cfg.ReportTemperature,
			SummaryTemperature: cfg.SummaryTemperature,
			ReportMaxTokens:    cfg.ReportMaxTokens,
			SummaryMaxTokens:   cfg.SummaryMaxTokens,
		}),
		Exporter: exp,
		Config:   cfg,
	}, nil
}

func (c *Components) Controller(r Reporter) *Controller {
	return NewController(c.Evidence, c.Writer, c.Exporter, Options{
		RetryAttempts: c.Config.RetryAttempts,
		RetryDelay:    c.Config.RetryDelay(),
		Reporter:      r,
	})
}

// DefaultDeps builds the configured collaborators: the provider manager,
// the cached search provider, headless Chrome and, when configured, the S3
// artifact mirror.
func DefaultDeps(cfg config.Config) (Deps, *providers.Manager, error) {
	mgr, err := providers.NewManager(cfg)
	if err != nil {
		return Deps{}, nil, fmt.Errorf("build llm providers: %w", err)
	}
	sp, err := search.FromConfig(cfg)
	if err != nil {
		return Deps{}, nil, err
	}
	d := Deps{
		LLM:      mgr,
		Search:   sp,
		Renderer: render.NewChrome(cfg.ChromePath, time.Duration(cfg.RenderTimeoutSecs)*time.Second),
	}
	if cfg.ArtifactMirrorEnabled() {
		store, err := artifactstore.NewS3Store(artifactstore.ConfigFrom(cfg))
		if err != nil {
			return Deps{}, nil, err
		}
		d.Mirror = store
	}
	return d, mgr, nil
}
