package activities

import (
	"time"

	"factflow/internal/models"
)

type FetchEvidenceInput struct {
	RunID string `json:"run_id"`
	Claim string `json:"claim"`
}

type FetchEvidenceOutput struct {
	Evidence models.EvidenceSet `json:"evidence"`
}

type SynthesizeReportInput struct {
	RunID     string             `json:"run_id"`
	Claim     string             `json:"claim"`
	Evidence  models.EvidenceSet `json:"evidence"`
	CaseID    string             `json:"case_id"`
	Timestamp string             `json:"timestamp"`
}

type SynthesizeSummaryInput struct {
	RunID  string `json:"run_id"`
	Report string `json:"report"`
}

type TextOutput struct {
	Text string `json:"text"`
}

type ExportArtifactsInput struct {
	RunID     string             `json:"run_id"`
	CaseID    string             `json:"case_id"`
	Claim     string             `json:"claim"`
	Report    string             `json:"report"`
	Summary   string             `json:"summary"`
	Evidence  models.EvidenceSet `json:"evidence"`
	Metrics   models.Metrics     `json:"metrics"`
	Timestamp time.Time          `json:"timestamp"`
}

type ExportArtifactsOutput struct {
	Bundle models.ExportBundle `json:"bundle"`
}

type UpdateInvestigationInput struct {
	RunID      string `json:"run_id"`
	Claim      string `json:"claim,omitempty"`
	State      string `json:"state"`
	FailStage  string `json:"fail_stage,omitempty"`
	FailReason string `json:"fail_reason,omitempty"`
}
