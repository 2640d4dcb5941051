package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.FetchEvidenceActivity)
	w.RegisterActivity(a.SynthesizeReportActivity)
	w.RegisterActivity(a.SynthesizeSummaryActivity)
	w.RegisterActivity(a.ExportArtifactsActivity)
	w.RegisterActivity(a.UpdateInvestigationActivity)
	w.RegisterActivity(a.CompleteInvestigationActivity)
}
