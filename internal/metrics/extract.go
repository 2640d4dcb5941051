// Package metrics reads the machine-readable trailer of an investigation
// report and classifies the misinformation score.
package metrics

import (
	"regexp"
	"strconv"
	"strings"

	"factflow/internal/models"
)

// Labels of the report trailer. The report prompt must keep emitting them.
const (
	LabelScore      = "SCORE_DESINFORMACAO"
	LabelConfidence = "CONFIANCA_ANALISE"
	LabelVerdict    = "VEREDITO_CODIGO"
	LabelComposite  = "MÉDIA"
)

var (
	Confidences = []string{"ALTA", "MEDIA", "BAIXA"}
	Verdicts    = []string{"VERDADEIRO", "FALSO", "PARCIAL", "CONTEXTO", "INCONCLUSIVO", "DESATUALIZADO"}
)

// Labels may carry markdown emphasis on either side of the colon. The
// composite label is matched in upper case only, so the word "média" in prose
// never stands in for it.
var (
	scoreRe      = regexp.MustCompile(`(?i)SCORE_DESINFORMACAO[*_#\s]*:[*_#\s]*(\d+)`)
	confidenceRe = regexp.MustCompile(`(?i)CONFIANCA_ANALISE[*_#\s]*:[*_#\s]*([\p{L}]+)`)
	verdictRe    = regexp.MustCompile(`(?i)VEREDITO_CODIGO[*_#\s]*:[*_#\s]*([\p{L}_]+)`)
	compositeRe  = regexp.MustCompile(`(?m)^.*M[ÉE]DIA.*?(\d+(?:[.,]\d+)?)\s*/\s*10\b`)
)

// Extract never fails: any field it cannot find, or whose value falls outside
// its closed set, is models.Unavailable. When a label appears more than once
// the last occurrence wins, since the trailer closes the report.
func Extract(text string) models.Metrics {
	m := models.UnavailableMetrics()

	if v, ok := lastGroup(scoreRe, text); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 100 {
			m.Score = v
		}
	}
	if v, ok := lastGroup(confidenceRe, text); ok {
		if c := normalizeWord(v); contains(Confidences, c) {
			m.Confidence = c
		}
	}
	if v, ok := lastGroup(verdictRe, text); ok {
		if c := normalizeWord(v); contains(Verdicts, c) {
			m.Verdict = c
		}
	}
	if v, ok := lastGroup(compositeRe, text); ok {
		m.Composite = strings.ReplaceAll(v, ",", ".") + "/10"
	}
	return m
}

// Gaps lists the fields Extract resolved to the sentinel.
func Gaps(m models.Metrics) []string {
	var out []string
	if m.Score == models.Unavailable {
		out = append(out, "score")
	}
	if m.Confidence == models.Unavailable {
		out = append(out, "confidence")
	}
	if m.Verdict == models.Unavailable {
		out = append(out, "verdict")
	}
	if m.Composite == models.Unavailable {
		out = append(out, "composite")
	}
	return out
}

func lastGroup(re *regexp.Regexp, text string) (string, bool) {
	all := re.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return "", false
	}
	return all[len(all)-1][1], true
}

func normalizeWord(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "É", "E")
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
