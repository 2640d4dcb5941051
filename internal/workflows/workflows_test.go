package workflows

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"factflow/internal/activities"
	"factflow/internal/models"
)

const sampleReport = "## Conclusão\nA alegação é falsa.\n\nMÉDIA CONSPIRATÓRIA: 8,5/10\n\n**SCORE_DESINFORMACAO:** 85\n**CONFIANCA_ANALISE:** ALTA\n**VEREDITO_CODIGO:** FALSO\n"

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func registerAll(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "FetchEvidenceActivity", func(context.Context, activities.FetchEvidenceInput) (activities.FetchEvidenceOutput, error) {
		return activities.FetchEvidenceOutput{}, nil
	})
	registerActivityName(env, "SynthesizeReportActivity", func(context.Context, activities.SynthesizeReportInput) (activities.TextOutput, error) {
		return activities.TextOutput{}, nil
	})
	registerActivityName(env, "SynthesizeSummaryActivity", func(context.Context, activities.SynthesizeSummaryInput) (activities.TextOutput, error) {
		return activities.TextOutput{}, nil
	})
	registerActivityName(env, "ExportArtifactsActivity", func(context.Context, activities.ExportArtifactsInput) (activities.ExportArtifactsOutput, error) {
		return activities.ExportArtifactsOutput{}, nil
	})
	registerActivityName(env, "UpdateInvestigationActivity", func(context.Context, activities.UpdateInvestigationInput) error { return nil })
	registerActivityName(env, "CompleteInvestigationActivity", func(context.Context, models.Investigation) error { return nil })
}

func mockHappyPath(env *testsuite.TestWorkflowEnvironment) {
	env.OnActivity("UpdateInvestigationActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("CompleteInvestigationActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("FetchEvidenceActivity", mock.Anything, mock.Anything).Return(activities.FetchEvidenceOutput{
		Evidence: models.EvidenceSet{Items: []models.EvidenceItem{{URL: "https://nasa.gov/moon", Title: "Apollo", Content: "landing"}}},
	}, nil)
	env.OnActivity("SynthesizeReportActivity", mock.Anything, mock.Anything).Return(activities.TextOutput{Text: sampleReport}, nil)
	env.OnActivity("SynthesizeSummaryActivity", mock.Anything, mock.Anything).Return(activities.TextOutput{Text: "Resumo curto."}, nil)
	env.OnActivity("ExportArtifactsActivity", mock.Anything, mock.Anything).Return(func(_ context.Context, in activities.ExportArtifactsInput) (activities.ExportArtifactsOutput, error) {
		folder := "/tmp/out/" + in.CaseID
		return activities.ExportArtifactsOutput{Bundle: models.ExportBundle{
			CaseFolder: folder,
			TextPath:   folder + "/relatorio.txt",
			HTMLPath:   folder + "/relatorio.html",
			PDFPath:    folder + "/relatorio.pdf",
		}}, nil
	})
}

func TestInvestigationWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(InvestigationWorkflow)
	registerAll(env)
	mockHappyPath(env)

	env.ExecuteWorkflow(InvestigationWorkflow, InvestigationInput{RunID: "abc12345-run", Claim: "The moon landing was faked", RetryAttempts: 2, RetryDelaySeconds: 1})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out InvestigationResult
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "abc12345-run", out.RunID)
	require.True(t, strings.HasPrefix(out.CaseID, "CASO-"))
	require.Equal(t, models.Metrics{Score: "85", Confidence: "ALTA", Verdict: "FALSO", Composite: "8.5/10"}, out.Metrics)
	require.Equal(t, 5, out.Severity.Level)
	require.NotEmpty(t, out.Bundle.PDFPath)

	v, err := env.QueryWorkflow(QueryGetInvestigationStatus)
	require.NoError(t, err)
	var st InvestigationStatus
	require.NoError(t, v.Get(&st))
	require.Equal(t, "done", st.State)
	require.Equal(t, "done", st.Steps["exporting"])
	require.NotNil(t, st.Metrics)
	require.Equal(t, "85", st.Metrics.Score)
}

func TestInvestigationWorkflowRetriesFetchThenFails(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(InvestigationWorkflow)
	registerAll(env)

	var fetches atomic.Int32
	env.OnActivity("UpdateInvestigationActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("FetchEvidenceActivity", mock.Anything, mock.Anything).Return(func(context.Context, activities.FetchEvidenceInput) (activities.FetchEvidenceOutput, error) {
		fetches.Add(1)
		return activities.FetchEvidenceOutput{}, errors.New("search api unavailable")
	})

	env.ExecuteWorkflow(InvestigationWorkflow, InvestigationInput{RunID: "r1", Claim: "claim", RetryAttempts: 3, RetryDelaySeconds: 1})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)
	require.ErrorContains(t, err, "fetching")
	require.Equal(t, int32(3), fetches.Load())

	v, qerr := env.QueryWorkflow(QueryGetInvestigationStatus)
	require.NoError(t, qerr)
	var st InvestigationStatus
	require.NoError(t, v.Get(&st))
	require.Equal(t, "failed", st.State)
	require.Equal(t, "fetching", st.FailStage)
	require.Contains(t, st.FailReason, "search api unavailable")
}

func TestInvestigationWorkflowEmptyClaim(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(InvestigationWorkflow)
	registerAll(env)
	env.OnActivity("UpdateInvestigationActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(InvestigationWorkflow, InvestigationInput{RunID: "r2", Claim: "   "})
	require.True(t, env.IsWorkflowCompleted())
	require.ErrorContains(t, env.GetWorkflowError(), "claim is empty")
}

func TestInvestigationWorkflowExportIsNotRetried(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(InvestigationWorkflow)
	registerAll(env)

	var exports atomic.Int32
	env.OnActivity("UpdateInvestigationActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("FetchEvidenceActivity", mock.Anything, mock.Anything).Return(activities.FetchEvidenceOutput{}, nil)
	env.OnActivity("SynthesizeReportActivity", mock.Anything, mock.Anything).Return(activities.TextOutput{Text: sampleReport}, nil)
	env.OnActivity("SynthesizeSummaryActivity", mock.Anything, mock.Anything).Return(activities.TextOutput{Text: "Resumo."}, nil)
	env.OnActivity("ExportArtifactsActivity", mock.Anything, mock.Anything).Return(func(context.Context, activities.ExportArtifactsInput) (activities.ExportArtifactsOutput, error) {
		exports.Add(1)
		return activities.ExportArtifactsOutput{}, errors.New("disk full")
	})

	env.ExecuteWorkflow(InvestigationWorkflow, InvestigationInput{RunID: "r3", Claim: "claim", RetryAttempts: 3})
	require.True(t, env.IsWorkflowCompleted())
	require.ErrorContains(t, env.GetWorkflowError(), "exporting")
	require.Equal(t, int32(1), exports.Load())
}

func TestBatchInvestigationWorkflowCountsFailures(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(InvestigationWorkflow)
	env.RegisterWorkflow(BatchInvestigationWorkflow)
	registerAll(env)

	env.OnActivity("UpdateInvestigationActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("CompleteInvestigationActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("FetchEvidenceActivity", mock.Anything, mock.Anything).Return(func(_ context.Context, in activities.FetchEvidenceInput) (activities.FetchEvidenceOutput, error) {
		if in.Claim == "bad claim" {
			return activities.FetchEvidenceOutput{}, errors.New("search api unavailable")
		}
		return activities.FetchEvidenceOutput{}, nil
	})
	env.OnActivity("SynthesizeReportActivity", mock.Anything, mock.Anything).Return(activities.TextOutput{Text: sampleReport}, nil)
	env.OnActivity("SynthesizeSummaryActivity", mock.Anything, mock.Anything).Return(activities.TextOutput{Text: "Resumo."}, nil)
	env.OnActivity("ExportArtifactsActivity", mock.Anything, mock.Anything).Return(activities.ExportArtifactsOutput{Bundle: models.ExportBundle{CaseFolder: "/tmp/x"}}, nil)

	env.ExecuteWorkflow(BatchInvestigationWorkflow, BatchInput{
		BatchID:               "Lote 1",
		Claims:                []string{"good claim", "bad claim", "another good claim"},
		MaxConcurrentChildren: 2,
		RetryAttempts:         1,
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out BatchProgress
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, 3, out.Total)
	require.Equal(t, 2, out.Done)
	require.Equal(t, 1, out.Failed)
	require.Equal(t, "failed", out.PerClaim["2: bad claim"])
	require.Equal(t, "investigation-lote-1-1", out.ChildWorkflow["1: good claim"])
}

func TestSanitizeID(t *testing.T) {
	require.Equal(t, "lote-1", sanitizeID(" Lote 1 "))
	require.Equal(t, "batch", sanitizeID("!!!"))
}
