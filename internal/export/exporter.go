// Package export writes the three artifacts of a finished investigation into
// a fresh case folder.
package export

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"factflow/internal/logging"
	"factflow/internal/metrics"
	"factflow/internal/models"
	"factflow/internal/render"
	"factflow/internal/util"
)

const (
	fileTimestampLayout    = "20060102_150405"
	displayTimestampLayout = "02/01/2006 15:04:05"
	shortRunIDLen          = 8
	htmlExcerptRunes       = 250
)

//go:embed templates/report.html.tmpl
var htmlTemplate string

var reportHTML = template.Must(template.New("report").Parse(htmlTemplate))

// Mirror receives a copy of every artifact once all three are on disk.
type Mirror interface {
	Put(ctx context.Context, caseFolder, name string, content []byte, contentType string) error
}

type Input struct {
	Claim     string
	Report    string
	Summary   string
	Evidence  models.EvidenceSet
	Metrics   models.Metrics
	CaseID    string
	RunID     string
	Timestamp time.Time
}

type Exporter struct {
	outputDir   string
	renderer    render.Renderer
	methodology string
	mirror      Mirror
	log         *slog.Logger
}

func NewExporter(outputDir string, r render.Renderer, methodology string) *Exporter {
	return &Exporter{outputDir: outputDir, renderer: r, methodology: strings.TrimSpace(methodology), log: logging.New("export")}
}

func (e *Exporter) SetMirror(m Mirror) {
	e.mirror = m
}

// Export creates the case folder and writes relatorio_<ts>.{txt,html,pdf}.
// Either all three files exist afterwards or the folder is removed and the
// error is returned with the underlying cause wrapped.
func (e *Exporter) Export(ctx context.Context, in Input) (models.ExportBundle, error) {
	if e.renderer == nil {
		return models.ExportBundle{}, util.ErrRendererAbsent
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	stamp := in.Timestamp.Format(fileTimestampLayout)

	if err := util.EnsureDir(e.outputDir); err != nil {
		return models.ExportBundle{}, err
	}
	folder := filepath.Join(e.outputDir, CaseFolderName(in.Claim, stamp, in.RunID))
	if err := os.Mkdir(folder, 0o755); err != nil {
		return models.ExportBundle{}, fmt.Errorf("create case folder: %w", err)
	}

	base := "relatorio_" + stamp
	bundle := models.ExportBundle{
		CaseFolder: folder,
		TextPath:   filepath.Join(folder, base+".txt"),
		HTMLPath:   filepath.Join(folder, base+".html"),
		PDFPath:    filepath.Join(folder, base+".pdf"),
	}
	if err := e.write(ctx, in, bundle); err != nil {
		if rmErr := os.RemoveAll(folder); rmErr != nil {
			e.log.Error("remove incomplete case folder", "folder", folder, "err", rmErr)
		}
		return models.ExportBundle{}, err
	}
	e.log.Info("artifacts exported", "folder", folder, "case_id", in.CaseID)
	return bundle, nil
}

func (e *Exporter) write(ctx context.Context, in Input, bundle models.ExportBundle) error {
	severity := metrics.Classify(in.Metrics.Score)

	text := e.PlainText(in, severity)
	if err := util.WriteTextAtomic(bundle.TextPath, text); err != nil {
		return fmt.Errorf("write text artifact: %w", err)
	}

	html, err := e.HTML(in, severity)
	if err != nil {
		return err
	}
	if err := util.WriteFileAtomic(bundle.HTMLPath, html); err != nil {
		return fmt.Errorf("write html artifact: %w", err)
	}

	pdf, err := e.renderer.Render(ctx, html)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if _, err := render.Verify(pdf); err != nil {
		return err
	}
	if err := util.WriteFileAtomic(bundle.PDFPath, pdf); err != nil {
		return fmt.Errorf("write pdf artifact: %w", err)
	}

	if e.mirror == nil {
		return nil
	}
	caseFolder := filepath.Base(bundle.CaseFolder)
	uploads := []struct {
		path, contentType string
		body              []byte
	}{
		{bundle.TextPath, "text/plain; charset=utf-8", []byte(text)},
		{bundle.HTMLPath, "text/html; charset=utf-8", html},
		{bundle.PDFPath, "application/pdf", pdf},
	}
	for _, u := range uploads {
		if err := e.mirror.Put(ctx, caseFolder, filepath.Base(u.path), u.body, u.contentType); err != nil {
			return fmt.Errorf("mirror artifact: %w", err)
		}
	}
	return nil
}

// CaseFolderName is <sanitized claim>_<timestamp>_<short run id>.
func CaseFolderName(claim, stamp, runID string) string {
	short := strings.ReplaceAll(strings.TrimSpace(runID), "-", "")
	if short == "" {
		short = util.SHA256Hex([]byte(claim + stamp))
	}
	if len(short) > shortRunIDLen {
		short = short[:shortRunIDLen]
	}
	return SanitizeFolderName(claim) + "_" + stamp + "_" + short
}

func (e *Exporter) PlainText(in Input, severity metrics.Severity) string {
	var b strings.Builder
	rule := strings.Repeat("=", 72)
	b.WriteString(rule + "\nRELATÓRIO DE VERIFICAÇÃO\n" + rule + "\n")
	fmt.Fprintf(&b, "Caso: %s\n", in.CaseID)
	fmt.Fprintf(&b, "Data: %s\n", in.Timestamp.Format(displayTimestampLayout))
	fmt.Fprintf(&b, "Alegação: %s\n\n", in.Claim)

	b.WriteString("MÉTRICAS\n")
	fmt.Fprintf(&b, "  Score de desinformação: %s\n", in.Metrics.Score)
	fmt.Fprintf(&b, "  Severidade: %s\n", severity)
	fmt.Fprintf(&b, "  Confiança da análise: %s\n", in.Metrics.Confidence)
	fmt.Fprintf(&b, "  Veredito: %s\n", in.Metrics.Verdict)
	fmt.Fprintf(&b, "  Média conspiratória: %s\n\n", in.Metrics.Composite)

	b.WriteString("RESUMO\n")
	b.WriteString(strings.TrimSpace(in.Summary) + "\n\n")
	if e.methodology != "" {
		b.WriteString("METODOLOGIA\n")
		b.WriteString(e.methodology + "\n\n")
	}
	b.WriteString("RELATÓRIO COMPLETO\n" + rule + "\n")
	b.WriteString(in.Report)
	if !strings.HasSuffix(in.Report, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

type evidenceRow struct {
	Index int
	models.EvidenceItem
}

// HTML renders the styled report. Summary, methodology and report are
// markdown and come out as HTML, tables included. Evidence rows keep the input
// order and are numbered from 1 to match the report citations.
func (e *Exporter) HTML(in Input, severity metrics.Severity) ([]byte, error) {
	rows := make([]evidenceRow, 0, len(in.Evidence.Items))
	for i, it := range in.Evidence.Items {
		if it.Title == "" {
			it.Title = it.URL
		}
		it.Content = util.Excerpt(it.Content, htmlExcerptRunes)
		rows = append(rows, evidenceRow{Index: i + 1, EvidenceItem: it})
	}
	summary, err := markdownHTML(in.Summary)
	if err != nil {
		return nil, err
	}
	report, err := markdownHTML(in.Report)
	if err != nil {
		return nil, err
	}
	methodology, err := markdownHTML(e.methodology)
	if err != nil {
		return nil, err
	}
	data := struct {
		CaseID      string
		Timestamp   string
		Claim       string
		Summary     template.HTML
		Report      template.HTML
		Methodology template.HTML
		Metrics     models.Metrics
		Severity    string
		BadgeClass  string
		ScoreColor  template.CSS
		Evidence    []evidenceRow
	}{
		CaseID:      in.CaseID,
		Timestamp:   in.Timestamp.Format(displayTimestampLayout),
		Claim:       in.Claim,
		Summary:     summary,
		Report:      report,
		Methodology: methodology,
		Metrics:     in.Metrics,
		Severity:    severity.String(),
		BadgeClass:  BadgeClass(in.Metrics.Verdict),
		ScoreColor:  template.CSS(ScoreColor(in.Metrics.Score)),
		Evidence:    rows,
	}
	var buf bytes.Buffer
	if err := reportHTML.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
