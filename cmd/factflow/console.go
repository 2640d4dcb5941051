package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"factflow/internal/pipeline"
)

var stateMessages = map[pipeline.State]string{
	pipeline.StateFetching:     "buscando evidências",
	pipeline.StateSynthesizing: "gerando relatório de investigação",
	pipeline.StateSummarizing:  "gerando resumo executivo",
	pipeline.StateExporting:    "exportando TXT, HTML e PDF",
	pipeline.StateDone:         "investigação concluída",
}

// consoleReporter prints one line per event. Lines from concurrent runs are
// serialized and tagged with the short run id.
type consoleReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out}
}

func (c *consoleReporter) Report(e pipeline.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tag := shortID(e.RunID)
	switch {
	case e.Kind == pipeline.EventRetry && e.Notice != nil:
		fmt.Fprintf(c.out, "[%s] ! %s\n", tag, e.Notice.String())
	case e.State == pipeline.StateFailed:
		fmt.Fprintf(c.out, "[%s] x falha: %v\n", tag, e.Err)
	default:
		if msg, ok := stateMessages[e.State]; ok {
			fmt.Fprintf(c.out, "[%s] > %s\n", tag, msg)
		}
	}
}

// printResult writes the summary block in a single Write so blocks from
// parallel runs never interleave.
func printResult(out io.Writer, claim string, res pipeline.Result) {
	var b strings.Builder
	fmt.Fprintf(&b, "\nAlegação:   %s\n", claim)
	fmt.Fprintf(&b, "Caso:       %s\n", res.CaseID)
	fmt.Fprintf(&b, "Pontuação:  %s (%s)\n", res.Metrics.Score, res.Severity.String())
	fmt.Fprintf(&b, "Confiança:  %s\n", res.Metrics.Confidence)
	fmt.Fprintf(&b, "Veredito:   %s\n", res.Metrics.Verdict)
	fmt.Fprintf(&b, "Média:      %s\n", res.Metrics.Composite)
	fmt.Fprintf(&b, "Pasta:      %s\n", res.Bundle.CaseFolder)
	_, _ = io.WriteString(out, b.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
