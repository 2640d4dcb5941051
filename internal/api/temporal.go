package api

import (
	"context"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"

	"factflow/internal/workflows"
)

// Orchestrator starts and inspects investigation workflows.
type Orchestrator interface {
	StartInvestigation(ctx context.Context, in workflows.InvestigationInput) error
	StartBatch(ctx context.Context, in workflows.BatchInput) error
	InvestigationStatus(ctx context.Context, runID string) (workflows.InvestigationStatus, error)
	BatchProgress(ctx context.Context, batchID string) (workflows.BatchProgress, error)
}

// TemporalOrchestrator uses the run id as the workflow id, so a status
// lookup needs nothing but the id handed back on start.
type TemporalOrchestrator struct {
	client    tclient.Client
	taskQueue string
}

func NewTemporalOrchestrator(c tclient.Client, taskQueue string) *TemporalOrchestrator {
	return &TemporalOrchestrator{client: c, taskQueue: taskQueue}
}

func (o *TemporalOrchestrator) StartInvestigation(ctx context.Context, in workflows.InvestigationInput) error {
	_, err := o.client.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:                    in.RunID,
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.InvestigationWorkflow, in)
	if err != nil {
		return fmt.Errorf("start investigation workflow: %w", err)
	}
	return nil
}

func (o *TemporalOrchestrator) StartBatch(ctx context.Context, in workflows.BatchInput) error {
	_, err := o.client.ExecuteWorkflow(ctx, tclient.StartWorkflowOptions{
		ID:                    in.BatchID,
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}, workflows.BatchInvestigationWorkflow, in)
	if err != nil {
		return fmt.Errorf("start batch workflow: %w", err)
	}
	return nil
}

func (o *TemporalOrchestrator) InvestigationStatus(ctx context.Context, runID string) (workflows.InvestigationStatus, error) {
	var st workflows.InvestigationStatus
	v, err := o.client.QueryWorkflow(ctx, runID, "", workflows.QueryGetInvestigationStatus)
	if err != nil {
		return st, err
	}
	err = v.Get(&st)
	return st, err
}

func (o *TemporalOrchestrator) BatchProgress(ctx context.Context, batchID string) (workflows.BatchProgress, error) {
	var p workflows.BatchProgress
	v, err := o.client.QueryWorkflow(ctx, batchID, "", workflows.QueryGetBatchProgress)
	if err != nil {
		return p, err
	}
	err = v.Get(&p)
	return p, err
}
