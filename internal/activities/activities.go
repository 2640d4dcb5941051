package activities

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"factflow/internal/config"
	"factflow/internal/export"
	"factflow/internal/models"
	"factflow/internal/pipeline"
	"factflow/internal/providers"
	"factflow/internal/storage"
	"factflow/internal/util"
)

// Activities exposes the investigation stages to Temporal. Retries are the
// workflow's retry policy, so each activity makes exactly one attempt.
type Activities struct {
	cfg            config.Config
	comps          *pipeline.Components
	investigations *storage.InvestigationRepo
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	deps, mgr, err := pipeline.DefaultDeps(cfg)
	if err != nil {
		return nil, err
	}
	var repo *storage.InvestigationRepo
	if db != nil {
		mgr.SetRecorder(storage.NewLLMAuditRepo(db))
		repo = storage.NewInvestigationRepo(db)
	}
	comps, err := pipeline.NewComponents(cfg, deps)
	if err != nil {
		return nil, err
	}
	return NewWithComponents(cfg, comps, repo), nil
}

// NewWithComponents wires prebuilt stage components. repo may be nil, in
// which case bookkeeping activities do nothing.
func NewWithComponents(cfg config.Config, comps *pipeline.Components, repo *storage.InvestigationRepo) *Activities {
	return &Activities{cfg: cfg, comps: comps, investigations: repo}
}

func (a *Activities) FetchEvidenceActivity(ctx context.Context, in FetchEvidenceInput) (FetchEvidenceOutput, error) {
	ev, err := a.comps.Evidence.Fetch(ctx, in.Claim)
	if err != nil {
		return FetchEvidenceOutput{}, classify(err)
	}
	activity.GetLogger(ctx).Info("evidence fetched", "run_id", in.RunID, "items", len(ev.Items))
	return FetchEvidenceOutput{Evidence: ev}, nil
}

func (a *Activities) SynthesizeReportActivity(ctx context.Context, in SynthesizeReportInput) (TextOutput, error) {
	ctx = providers.WithRunID(ctx, in.RunID)
	text, err := a.comps.Writer.SynthesizeReport(ctx, in.Claim, in.Evidence, in.CaseID, in.Timestamp)
	if err != nil {
		return TextOutput{}, classify(err)
	}
	return TextOutput{Text: text}, nil
}

func (a *Activities) SynthesizeSummaryActivity(ctx context.Context, in SynthesizeSummaryInput) (TextOutput, error) {
	ctx = providers.WithRunID(ctx, in.RunID)
	text, err := a.comps.Writer.SynthesizeSummary(ctx, in.Report)
	if err != nil {
		return TextOutput{}, classify(err)
	}
	return TextOutput{Text: text}, nil
}

func (a *Activities) ExportArtifactsActivity(ctx context.Context, in ExportArtifactsInput) (ExportArtifactsOutput, error) {
	bundle, err := a.comps.Exporter.Export(ctx, export.Input{
		Claim:     in.Claim,
		Report:    in.Report,
		Summary:   in.Summary,
		Evidence:  in.Evidence,
		Metrics:   in.Metrics,
		CaseID:    in.CaseID,
		RunID:     in.RunID,
		Timestamp: in.Timestamp,
	})
	if err != nil {
		return ExportArtifactsOutput{}, err
	}
	return ExportArtifactsOutput{Bundle: bundle}, nil
}

func (a *Activities) UpdateInvestigationActivity(ctx context.Context, in UpdateInvestigationInput) error {
	if a.investigations == nil {
		return nil
	}
	if in.Claim != "" {
		return a.investigations.Create(ctx, in.RunID, in.Claim, in.State)
	}
	return a.investigations.UpdateState(ctx, in.RunID, in.State, in.FailStage, in.FailReason)
}

func (a *Activities) CompleteInvestigationActivity(ctx context.Context, inv models.Investigation) error {
	if a.investigations == nil {
		return nil
	}
	return a.investigations.Complete(ctx, inv)
}

// classify marks failures no retry can fix.
func classify(err error) error {
	switch {
	case errors.Is(err, util.ErrEmptyClaim):
		return temporal.NewNonRetryableApplicationError(err.Error(), "EmptyClaim", err)
	case providers.ClassifyError(err) == providers.ErrorContext:
		return temporal.NewNonRetryableApplicationError(err.Error(), "ContextTooLong", err)
	default:
		return err
	}
}
