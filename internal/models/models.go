package models

import "time"

// Unavailable marks a metric field the report text did not carry.
const Unavailable = "unavailable"

type EvidenceItem struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	PublishedDate string `json:"published_date,omitempty"`
	Content       string `json:"content"`
}

// EvidenceSet keeps the search provider's ranking. Citation numbers in the
// report are 1-based positions in Items.
type EvidenceSet struct {
	Items  []EvidenceItem `json:"items"`
	Answer string         `json:"answer,omitempty"`
}

func (s EvidenceSet) Empty() bool {
	return len(s.Items) == 0
}

type Metrics struct {
	Score      string `json:"score"`
	Confidence string `json:"confidence"`
	Verdict    string `json:"verdict"`
	Composite  string `json:"composite"`
}

func UnavailableMetrics() Metrics {
	return Metrics{Score: Unavailable, Confidence: Unavailable, Verdict: Unavailable, Composite: Unavailable}
}

type ExportBundle struct {
	CaseFolder string `json:"case_folder"`
	TextPath   string `json:"text_path"`
	HTMLPath   string `json:"html_path"`
	PDFPath    string `json:"pdf_path"`
}

func (b ExportBundle) Paths() []string {
	return []string{b.TextPath, b.HTMLPath, b.PDFPath}
}

type Investigation struct {
	RunID      string       `json:"run_id"`
	Claim      string       `json:"claim"`
	CaseID     string       `json:"case_id,omitempty"`
	State      string       `json:"state"`
	FailStage  string       `json:"fail_stage,omitempty"`
	FailReason string       `json:"fail_reason,omitempty"`
	Metrics    Metrics      `json:"metrics"`
	Severity   string       `json:"severity,omitempty"`
	Bundle     ExportBundle `json:"bundle"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}
