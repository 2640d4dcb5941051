package pipeline

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"factflow/internal/config"
	"factflow/internal/models"
	"factflow/internal/providers"
	"factflow/internal/render/rendertest"
	"factflow/internal/search"
)

type scriptedLLM struct {
	mu       sync.Mutex
	report   string
	summary  string
	failures map[string]int
	err      error
}

func (s *scriptedLLM) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[req.Operation] > 0 {
		s.failures[req.Operation]--
		return providers.GenerateResponse{}, providers.ProviderInfo{}, s.err
	}
	if req.Operation == providers.OperationReport {
		return providers.GenerateResponse{Text: s.report}, providers.ProviderInfo{Name: "scripted"}, nil
	}
	return providers.GenerateResponse{Text: s.summary}, providers.ProviderInfo{Name: "scripted"}, nil
}

type flakySearch struct {
	failures int
	err      error
	calls    int
}

func (f *flakySearch) Search(ctx context.Context, req search.Request) (search.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return search.Response{}, f.err
	}
	return search.Response{}, nil
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Report(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) states() []State {
	var out []State
	for _, e := range l.events {
		if e.Kind == EventState {
			out = append(out, e.State)
		}
	}
	return out
}

func (l *eventLog) retries() int {
	n := 0
	for _, e := range l.events {
		if e.Kind == EventRetry {
			n++
		}
	}
	return n
}

const moonReport = "# Relatório\nNenhuma evidência sustenta a alegação.\n\nSCORE_DESINFORMACAO: 95\nCONFIANCA_ANALISE: ALTA\nVEREDITO_CODIGO: FALSO\n"

func newTestController(t *testing.T, llm providers.LLMProvider, sp search.Provider, r *rendertest.Renderer, events Reporter) (*Controller, string) {
	t.Helper()
	out := t.TempDir()
	cfg := config.Config{
		OutputDir:          out,
		MaxResults:         10,
		ExcerptChars:       500,
		ReportTemperature:  0.1,
		SummaryTemperature: 0.3,
		RetryAttempts:      3,
	}
	comps, err := NewComponents(cfg, Deps{LLM: llm, Search: sp, Renderer: r})
	require.NoError(t, err)
	return comps.Controller(events), out
}

func TestMoonIsMadeOfCheeseEndToEnd(t *testing.T) {
	llm := &scriptedLLM{report: moonReport, summary: "A Lua não é feita de queijo."}
	events := &eventLog{}
	renderer := &rendertest.Renderer{}
	c, out := newTestController(t, llm, search.Static{}, renderer, events)

	res, err := c.Run(context.Background(), "The moon is made of cheese")
	require.NoError(t, err)

	require.Equal(t, models.Metrics{Score: "95", Confidence: "ALTA", Verdict: "FALSO", Composite: models.Unavailable}, res.Metrics)
	require.Equal(t, 5, res.Severity.Level)
	require.NotEmpty(t, res.RunID)
	require.True(t, strings.HasPrefix(res.CaseID, "CASO-"))

	cases, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.True(t, strings.HasPrefix(cases[0].Name(), "The_moon_is_made_of_cheese_"))
	files, err := os.ReadDir(res.Bundle.CaseFolder)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, p := range res.Bundle.Paths() {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}

	require.Equal(t, []State{StateFetching, StateSynthesizing, StateSummarizing, StateExporting, StateDone}, events.states())
	require.Equal(t, 0, events.retries())
	require.NotContains(t, string(renderer.LastHTML()), "evidence-row")
}

func TestTransientFailuresAreRetriedPerStage(t *testing.T) {
	boom := errors.New("generate error 503")
	llm := &scriptedLLM{report: moonReport, summary: "ok", err: boom, failures: map[string]int{
		providers.OperationReport:  2,
		providers.OperationSummary: 1,
	}}
	sp := &flakySearch{failures: 1, err: errors.New("tavily http 502")}
	events := &eventLog{}
	c, _ := newTestController(t, llm, sp, &rendertest.Renderer{}, events)

	_, err := c.Run(context.Background(), "claim")
	require.NoError(t, err)
	require.Equal(t, 4, events.retries())
	require.Equal(t, 2, sp.calls)
}

func TestFetchFailureStopsRun(t *testing.T) {
	final := errors.New("tavily http 500")
	sp := &flakySearch{failures: 10, err: final}
	events := &eventLog{}
	c, out := newTestController(t, &scriptedLLM{report: moonReport}, sp, &rendertest.Renderer{}, events)

	_, err := c.Run(context.Background(), "claim")
	var serr *StageError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, StateFetching, serr.Stage)
	require.True(t, serr.Err == final)
	require.Equal(t, 3, sp.calls)
	require.Equal(t, 2, events.retries())
	require.Equal(t, []State{StateFetching, StateFailed}, events.states())

	entries, _ := os.ReadDir(out)
	require.Empty(t, entries)
}

func TestSummaryFailureIsFatal(t *testing.T) {
	boom := errors.New("permanent")
	llm := &scriptedLLM{report: moonReport, err: boom, failures: map[string]int{providers.OperationSummary: 99}}
	renderer := &rendertest.Renderer{}
	c, _ := newTestController(t, llm, search.Static{}, renderer, nil)

	_, err := c.Run(context.Background(), "claim")
	var serr *StageError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, StateSummarizing, serr.Stage)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, renderer.Calls())
}

func TestExportFailureLeavesNothingBehind(t *testing.T) {
	renderer := &rendertest.Renderer{Err: errors.New("no chrome")}
	c, out := newTestController(t, &scriptedLLM{report: moonReport, summary: "s"}, search.Static{}, renderer, nil)

	_, err := c.Run(context.Background(), "claim")
	var serr *StageError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, StateExporting, serr.Stage)
	entries, _ := os.ReadDir(out)
	require.Empty(t, entries)
}

func TestEmptyClaimFailsBeforeFetching(t *testing.T) {
	events := &eventLog{}
	c, _ := newTestController(t, &scriptedLLM{}, search.Static{}, &rendertest.Renderer{}, events)
	_, err := c.Run(context.Background(), "   ")
	var serr *StageError
	require.True(t, errors.As(err, &serr))
	require.Equal(t, StateIdle, serr.Stage)
	require.Equal(t, []State{StateFailed}, events.states())
}

func TestConcurrentRunsUseDistinctFolders(t *testing.T) {
	c, out := newTestController(t, &scriptedLLM{report: moonReport, summary: "s"}, search.Static{}, &rendertest.Renderer{}, nil)
	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Run(context.Background(), "mesma alegação")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	entries, _ := os.ReadDir(out)
	require.Len(t, entries, 4)
}

func TestCaseID(t *testing.T) {
	ts := time.Date(2026, 10, 17, 9, 5, 0, 0, time.UTC)
	require.Equal(t, "CASO-20261017-090500-0F8E2C", CaseID("0f8e2c1a-aaaa", ts))
}
