package activities

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"factflow/internal/config"
	"factflow/internal/metrics"
	"factflow/internal/models"
	"factflow/internal/pipeline"
	"factflow/internal/providers"
	"factflow/internal/render/rendertest"
	"factflow/internal/search"
)

func newTestActivities(t *testing.T) *Activities {
	t.Helper()
	cfg := config.Config{OutputDir: t.TempDir(), MaxResults: 5, ExcerptChars: 200, RetryAttempts: 1}
	comps, err := pipeline.NewComponents(cfg, pipeline.Deps{
		LLM: providers.NewManagerWith(),
		Search: search.Static{Response: search.Response{Results: []search.Result{
			{URL: "https://nasa.example/moon", Title: "Moon composition", Content: "The moon is made of rock."},
		}}},
		Renderer: &rendertest.Renderer{},
	})
	require.NoError(t, err)
	return NewWithComponents(cfg, comps, nil)
}

func TestInvestigationActivitiesChain(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	a := newTestActivities(t)
	env.RegisterActivity(a)

	val, err := env.ExecuteActivity(a.FetchEvidenceActivity, FetchEvidenceInput{RunID: "r1", Claim: "The moon is made of cheese"})
	require.NoError(t, err)
	var evOut FetchEvidenceOutput
	require.NoError(t, val.Get(&evOut))
	require.Len(t, evOut.Evidence.Items, 1)

	val, err = env.ExecuteActivity(a.SynthesizeReportActivity, SynthesizeReportInput{RunID: "r1", Claim: "The moon is made of cheese", Evidence: evOut.Evidence, CaseID: "CASO-1", Timestamp: "now"})
	require.NoError(t, err)
	var reportOut TextOutput
	require.NoError(t, val.Get(&reportOut))
	m := metrics.Extract(reportOut.Text)
	require.Empty(t, metrics.Gaps(m))

	val, err = env.ExecuteActivity(a.SynthesizeSummaryActivity, SynthesizeSummaryInput{RunID: "r1", Report: reportOut.Text})
	require.NoError(t, err)
	var summaryOut TextOutput
	require.NoError(t, val.Get(&summaryOut))
	require.NotEmpty(t, summaryOut.Text)

	val, err = env.ExecuteActivity(a.ExportArtifactsActivity, ExportArtifactsInput{
		RunID: "r1", CaseID: "CASO-1", Claim: "The moon is made of cheese",
		Report: reportOut.Text, Summary: summaryOut.Text, Evidence: evOut.Evidence, Metrics: m,
		Timestamp: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	var exportOut ExportArtifactsOutput
	require.NoError(t, val.Get(&exportOut))
	for _, p := range exportOut.Bundle.Paths() {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}
}

func TestFetchEvidenceRejectsEmptyClaim(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	a := newTestActivities(t)
	env.RegisterActivity(a)

	_, err := env.ExecuteActivity(a.FetchEvidenceActivity, FetchEvidenceInput{RunID: "r1", Claim: " "})
	require.Error(t, err)
}

func TestBookkeepingWithoutDatabaseIsNoop(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	a := newTestActivities(t)
	env.RegisterActivity(a)

	_, err := env.ExecuteActivity(a.UpdateInvestigationActivity, UpdateInvestigationInput{RunID: "r1", State: "fetching"})
	require.NoError(t, err)
	_, err = env.ExecuteActivity(a.CompleteInvestigationActivity, models.Investigation{RunID: "r1", State: "done"})
	require.NoError(t, err)
}
