package metrics

import (
	"strconv"
	"strings"
)

type Severity struct {
	Level int    `json:"level"`
	Label string `json:"label"`
}

const IndeterminateLabel = "INDETERMINADO"

var bands = []struct {
	max   int
	label string
}{
	{20, "MUITO BAIXO"},
	{40, "BAIXO"},
	{60, "MODERADO"},
	{80, "ALTO"},
}

// Classify is the only place the score is read as a number. Anything that is
// not an integer, the unavailable sentinel included, is level 0.
func Classify(score string) Severity {
	n, err := strconv.Atoi(strings.TrimSpace(score))
	if err != nil {
		return Severity{Level: 0, Label: IndeterminateLabel}
	}
	for i, b := range bands {
		if n <= b.max {
			return Severity{Level: i + 1, Label: b.label}
		}
	}
	return Severity{Level: len(bands) + 1, Label: "CRÍTICO"}
}

func (s Severity) String() string {
	if s.Level == 0 {
		return s.Label
	}
	return strconv.Itoa(s.Level) + "/5 " + s.Label
}
