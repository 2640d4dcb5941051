package workflows

import (
	"factflow/internal/metrics"
	"factflow/internal/models"
)

type InvestigationInput struct {
	RunID             string `json:"run_id,omitempty"`
	Claim             string `json:"claim"`
	RetryAttempts     int    `json:"retry_attempts,omitempty"`
	RetryDelaySeconds int    `json:"retry_delay_seconds,omitempty"`
}

type InvestigationResult struct {
	RunID    string              `json:"run_id"`
	CaseID   string              `json:"case_id"`
	Metrics  models.Metrics      `json:"metrics"`
	Severity metrics.Severity    `json:"severity"`
	Bundle   models.ExportBundle `json:"bundle"`
}

type InvestigationStatus struct {
	RunID      string               `json:"run_id"`
	Claim      string               `json:"claim"`
	CaseID     string               `json:"case_id,omitempty"`
	State      string               `json:"state"`
	Steps      map[string]string    `json:"steps"`
	FailStage  string               `json:"fail_stage,omitempty"`
	FailReason string               `json:"fail_reason,omitempty"`
	Metrics    *models.Metrics      `json:"metrics,omitempty"`
	Severity   *metrics.Severity    `json:"severity,omitempty"`
	Bundle     *models.ExportBundle `json:"bundle,omitempty"`
}

type BatchInput struct {
	BatchID               string   `json:"batch_id"`
	Claims                []string `json:"claims"`
	MaxConcurrentChildren int      `json:"max_concurrent_children"`
	RetryAttempts         int      `json:"retry_attempts,omitempty"`
	RetryDelaySeconds     int      `json:"retry_delay_seconds,omitempty"`
}

type BatchProgress struct {
	BatchID       string            `json:"batch_id"`
	Total         int               `json:"total"`
	Done          int               `json:"done"`
	Failed        int               `json:"failed"`
	PerClaim      map[string]string `json:"per_claim_status"`
	ChildWorkflow map[string]string `json:"child_workflow_ids,omitempty"`
}
