package workflows

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"factflow/internal/activities"
	"factflow/internal/metrics"
	"factflow/internal/models"
	"factflow/internal/pipeline"
)

const (
	QueryGetInvestigationStatus = "GetInvestigationStatus"
	QueryGetBatchProgress       = "GetBatchProgress"

	defaultRetryAttempts = 3
	defaultRetryDelay    = 2 * time.Second
)

// networkOptions gives search and generation activities a fixed-interval
// retry: the same delay before every attempt.
func networkOptions(attempts int, delay time.Duration) workflow.ActivityOptions {
	if attempts < 1 {
		attempts = defaultRetryAttempts
	}
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	return workflow.ActivityOptions{
		StartToCloseTimeout: 3 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        delay,
			BackoffCoefficient:     1,
			MaximumInterval:        delay,
			MaximumAttempts:        int32(attempts),
			NonRetryableErrorTypes: []string{"EmptyClaim", "ContextTooLong"},
		},
	}
}

func exportOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
}

func bookkeepingOptions() workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}
}

func InvestigationWorkflow(ctx workflow.Context, input InvestigationInput) (InvestigationResult, error) {
	runID := input.RunID
	if runID == "" {
		runID = workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	status := InvestigationStatus{
		RunID: runID,
		Claim: input.Claim,
		State: string(pipeline.StateIdle),
		Steps: map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetInvestigationStatus, func() (InvestigationStatus, error) {
		return status, nil
	}); err != nil {
		return InvestigationResult{}, err
	}

	netCtx := workflow.WithActivityOptions(ctx, networkOptions(input.RetryAttempts, time.Duration(input.RetryDelaySeconds)*time.Second))
	exportCtx := workflow.WithActivityOptions(ctx, exportOptions())
	bookCtx := workflow.WithActivityOptions(ctx, bookkeepingOptions())

	record := func(in activities.UpdateInvestigationInput) {
		if err := workflow.ExecuteActivity(bookCtx, "UpdateInvestigationActivity", in).Get(bookCtx, nil); err != nil {
			workflow.GetLogger(ctx).Warn("record investigation state failed", "run_id", runID, "err", err)
		}
	}
	advance := func(to pipeline.State) {
		status.State = string(to)
		status.Steps[string(to)] = "processing"
		record(activities.UpdateInvestigationInput{RunID: runID, State: string(to)})
	}
	fail := func(err error) (InvestigationResult, error) {
		stage := pipeline.State(status.State)
		status.Steps[string(stage)] = "failed"
		status.FailStage = string(stage)
		status.FailReason = err.Error()
		status.State = string(pipeline.StateFailed)
		record(activities.UpdateInvestigationInput{RunID: runID, State: status.State, FailStage: status.FailStage, FailReason: status.FailReason})
		return InvestigationResult{}, &pipeline.StageError{Stage: stage, Err: err}
	}

	record(activities.UpdateInvestigationInput{RunID: runID, Claim: input.Claim, State: status.State})
	if strings.TrimSpace(input.Claim) == "" {
		return fail(fmt.Errorf("claim is empty"))
	}

	started := workflow.Now(ctx)
	caseID := pipeline.CaseID(runID, started)
	status.CaseID = caseID

	advance(pipeline.StateFetching)
	var evOut activities.FetchEvidenceOutput
	if err := workflow.ExecuteActivity(netCtx, "FetchEvidenceActivity", activities.FetchEvidenceInput{RunID: runID, Claim: input.Claim}).Get(netCtx, &evOut); err != nil {
		return fail(err)
	}
	status.Steps[status.State] = "done"

	advance(pipeline.StateSynthesizing)
	var reportOut activities.TextOutput
	if err := workflow.ExecuteActivity(netCtx, "SynthesizeReportActivity", activities.SynthesizeReportInput{
		RunID:     runID,
		Claim:     input.Claim,
		Evidence:  evOut.Evidence,
		CaseID:    caseID,
		Timestamp: started.Format("2006-01-02 15:04:05"),
	}).Get(netCtx, &reportOut); err != nil {
		return fail(err)
	}
	status.Steps[status.State] = "done"

	advance(pipeline.StateSummarizing)
	var summaryOut activities.TextOutput
	if err := workflow.ExecuteActivity(netCtx, "SynthesizeSummaryActivity", activities.SynthesizeSummaryInput{RunID: runID, Report: reportOut.Text}).Get(netCtx, &summaryOut); err != nil {
		return fail(err)
	}
	status.Steps[status.State] = "done"

	advance(pipeline.StateExporting)
	m := metrics.Extract(reportOut.Text)
	if gaps := metrics.Gaps(m); len(gaps) > 0 {
		workflow.GetLogger(ctx).Debug("metric fields unavailable", "run_id", runID, "fields", gaps)
	}
	severity := metrics.Classify(m.Score)
	status.Metrics = &m
	status.Severity = &severity
	var exportOut activities.ExportArtifactsOutput
	if err := workflow.ExecuteActivity(exportCtx, "ExportArtifactsActivity", activities.ExportArtifactsInput{
		RunID:     runID,
		CaseID:    caseID,
		Claim:     input.Claim,
		Report:    reportOut.Text,
		Summary:   summaryOut.Text,
		Evidence:  evOut.Evidence,
		Metrics:   m,
		Timestamp: started,
	}).Get(exportCtx, &exportOut); err != nil {
		return fail(err)
	}
	status.Steps[status.State] = "done"
	status.Bundle = &exportOut.Bundle
	status.State = string(pipeline.StateDone)

	if err := workflow.ExecuteActivity(bookCtx, "CompleteInvestigationActivity", models.Investigation{
		RunID:    runID,
		Claim:    input.Claim,
		CaseID:   caseID,
		State:    status.State,
		Metrics:  m,
		Severity: severity.String(),
		Bundle:   exportOut.Bundle,
	}).Get(bookCtx, nil); err != nil {
		workflow.GetLogger(ctx).Warn("record completed investigation failed", "run_id", runID, "err", err)
	}

	return InvestigationResult{RunID: runID, CaseID: caseID, Metrics: m, Severity: severity, Bundle: exportOut.Bundle}, nil
}

// BatchInvestigationWorkflow runs one child InvestigationWorkflow per claim,
// at most MaxConcurrentChildren at a time. A failed child never fails the
// batch.
func BatchInvestigationWorkflow(ctx workflow.Context, input BatchInput) (BatchProgress, error) {
	batchID := input.BatchID
	if batchID == "" {
		batchID = workflow.GetInfo(ctx).WorkflowExecution.ID
	}
	progress := BatchProgress{
		BatchID:       batchID,
		Total:         len(input.Claims),
		PerClaim:      map[string]string{},
		ChildWorkflow: map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetBatchProgress, func() (BatchProgress, error) {
		return progress, nil
	}); err != nil {
		return progress, err
	}

	maxChildren := input.MaxConcurrentChildren
	if maxChildren <= 0 {
		maxChildren = 3
	}
	for i := 0; i < len(input.Claims); i += maxChildren {
		end := i + maxChildren
		if end > len(input.Claims) {
			end = len(input.Claims)
		}
		futures := make([]workflow.ChildWorkflowFuture, 0, end-i)
		keys := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			key := strconv.Itoa(j+1) + ": " + input.Claims[j]
			workflowID := "investigation-" + sanitizeID(batchID) + "-" + strconv.Itoa(j+1)
			childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{WorkflowID: workflowID})
			f := workflow.ExecuteChildWorkflow(childCtx, InvestigationWorkflow, InvestigationInput{
				RunID:             workflowID,
				Claim:             input.Claims[j],
				RetryAttempts:     input.RetryAttempts,
				RetryDelaySeconds: input.RetryDelaySeconds,
			})
			progress.PerClaim[key] = "processing"
			progress.ChildWorkflow[key] = workflowID
			futures = append(futures, f)
			keys = append(keys, key)
		}
		for idx, f := range futures {
			var res InvestigationResult
			if err := f.Get(ctx, &res); err != nil {
				progress.Failed++
				progress.PerClaim[keys[idx]] = "failed"
				continue
			}
			progress.Done++
			progress.PerClaim[keys[idx]] = "done"
		}
	}
	return progress, nil
}

func sanitizeID(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "batch"
	}
	return out
}
