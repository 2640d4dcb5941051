package export

import (
	"strconv"
	"strings"
)

const inconclusiveBadge = "badge-inconclusive"

var verdictBadges = map[string]string{
	"VERDADEIRO":    "badge-true",
	"FALSO":         "badge-false",
	"PARCIAL":       "badge-partial",
	"CONTEXTO":      "badge-context",
	"INCONCLUSIVO":  inconclusiveBadge,
	"DESATUALIZADO": "badge-outdated",
}

// BadgeClass maps a verdict code to its CSS class. Unknown codes, the
// unavailable sentinel included, get the inconclusive badge.
func BadgeClass(verdict string) string {
	if c, ok := verdictBadges[strings.ToUpper(strings.TrimSpace(verdict))]; ok {
		return c
	}
	return inconclusiveBadge
}

// ScoreColor tints the score figure: red above 60, amber above 40, teal above
// 20, green otherwise. A score that is not an integer is grey.
func ScoreColor(score string) string {
	n, err := strconv.Atoi(strings.TrimSpace(score))
	switch {
	case err != nil:
		return "#5f6368"
	case n > 60:
		return "#721c24"
	case n > 40:
		return "#856404"
	case n > 20:
		return "#0c5460"
	default:
		return "#155724"
	}
}
