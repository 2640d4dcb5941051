// Package pipeline sequences one investigation: evidence, report, summary,
// metrics and export.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"factflow/internal/export"
	"factflow/internal/logging"
	"factflow/internal/metrics"
	"factflow/internal/models"
	"factflow/internal/providers"
	"factflow/internal/retry"
	"factflow/internal/util"
)

type EvidenceSource interface {
	Fetch(ctx context.Context, claim string) (models.EvidenceSet, error)
}

type ReportWriter interface {
	SynthesizeReport(ctx context.Context, claim string, ev models.EvidenceSet, caseID, timestamp string) (string, error)
	SynthesizeSummary(ctx context.Context, report string) (string, error)
}

type ArtifactExporter interface {
	Export(ctx context.Context, in export.Input) (models.ExportBundle, error)
}

type Options struct {
	RetryAttempts int
	RetryDelay    time.Duration
	Reporter      Reporter
	Now           func() time.Time
}

type Result struct {
	RunID    string              `json:"run_id"`
	CaseID   string              `json:"case_id"`
	Metrics  models.Metrics      `json:"metrics"`
	Severity metrics.Severity    `json:"severity"`
	Bundle   models.ExportBundle `json:"bundle"`
}

// Controller runs investigations. It holds no per-run state, so one
// Controller serves concurrent runs.
type Controller struct {
	evidence EvidenceSource
	writer   ReportWriter
	exporter ArtifactExporter
	opts     Options
	log      *slog.Logger
}

func NewController(ev EvidenceSource, w ReportWriter, ex ArtifactExporter, opts Options) *Controller {
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{evidence: ev, writer: w, exporter: ex, opts: opts, log: logging.New("pipeline")}
}

func (c *Controller) Run(ctx context.Context, claim string) (Result, error) {
	return c.RunWithID(ctx, uuid.NewString(), claim)
}

// RunWithID executes every stage in order and stops at the first failure,
// which is returned as a *StageError.
func (c *Controller) RunWithID(ctx context.Context, runID, claim string) (Result, error) {
	claim = strings.TrimSpace(claim)
	r := &run{c: c, id: runID, claim: claim, state: StateIdle}
	if claim == "" {
		return Result{}, r.fail(util.ErrEmptyClaim)
	}
	ctx = providers.WithRunID(ctx, runID)
	started := c.opts.Now()
	caseID := CaseID(runID, started)
	stamp := started.Format("2006-01-02 15:04:05")
	lg := logging.ForRun(c.log, runID, caseID)

	if err := r.advance(StateFetching); err != nil {
		return Result{}, err
	}
	ev, err := retry.Do(ctx, r.policy("evidence fetch"), func(ctx context.Context) (models.EvidenceSet, error) {
		return c.evidence.Fetch(ctx, claim)
	})
	if err != nil {
		return Result{}, r.fail(err)
	}
	lg.Debug("evidence fetched", "items", len(ev.Items))

	if err := r.advance(StateSynthesizing); err != nil {
		return Result{}, err
	}
	report, err := retry.Do(ctx, r.policy("report generation"), func(ctx context.Context) (string, error) {
		return c.writer.SynthesizeReport(ctx, claim, ev, caseID, stamp)
	})
	if err != nil {
		return Result{}, r.fail(err)
	}

	if err := r.advance(StateSummarizing); err != nil {
		return Result{}, err
	}
	summary, err := retry.Do(ctx, r.policy("summary generation"), func(ctx context.Context) (string, error) {
		return c.writer.SynthesizeSummary(ctx, report)
	})
	if err != nil {
		return Result{}, r.fail(err)
	}

	if err := r.advance(StateExporting); err != nil {
		return Result{}, err
	}
	m := metrics.Extract(report)
	if gaps := metrics.Gaps(m); len(gaps) > 0 {
		lg.Debug("metric fields unavailable", "fields", gaps)
	}
	bundle, err := c.exporter.Export(ctx, export.Input{
		Claim:     claim,
		Report:    report,
		Summary:   summary,
		Evidence:  ev,
		Metrics:   m,
		CaseID:    caseID,
		RunID:     runID,
		Timestamp: started,
	})
	if err != nil {
		return Result{}, r.fail(err)
	}

	if err := r.advance(StateDone); err != nil {
		return Result{}, err
	}
	return Result{RunID: runID, CaseID: caseID, Metrics: m, Severity: metrics.Classify(m.Score), Bundle: bundle}, nil
}

// CaseID is the human facing identifier printed in the report header.
func CaseID(runID string, t time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(runID, "-", ""))
	if len(short) > 6 {
		short = short[:6]
	}
	return fmt.Sprintf("CASO-%s-%s", t.Format("20060102-150405"), short)
}

type run struct {
	c     *Controller
	id    string
	claim string
	state State
}

func (r *run) advance(to State) error {
	if !CanTransition(r.state, to) {
		return fmt.Errorf("invalid transition %s -> %s", r.state, to)
	}
	r.state = to
	r.c.opts.Reporter.Report(Event{Kind: EventState, RunID: r.id, Claim: r.claim, State: to, Time: r.c.opts.Now()})
	return nil
}

func (r *run) fail(err error) error {
	stage := r.state
	serr := &StageError{Stage: stage, Err: err}
	r.state = StateFailed
	r.c.opts.Reporter.Report(Event{Kind: EventState, RunID: r.id, Claim: r.claim, State: StateFailed, Time: r.c.opts.Now(), Err: serr})
	return serr
}

func (r *run) policy(op string) retry.Policy {
	return retry.Policy{
		MaxAttempts: r.c.opts.RetryAttempts,
		Delay:       r.c.opts.RetryDelay,
		Operation:   op,
		Notify: func(n retry.Notice) {
			r.c.opts.Reporter.Report(Event{Kind: EventRetry, RunID: r.id, Claim: r.claim, State: r.state, Time: r.c.opts.Now(), Notice: &n})
		},
	}
}
