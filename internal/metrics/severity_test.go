package metrics

import (
	"testing"

	"factflow/internal/models"
)

func TestClassifyBandsAreMonotonic(t *testing.T) {
	scores := []string{"0", "20", "21", "40", "41", "60", "61", "80", "81", "100"}
	want := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
	prev := 0
	for i, s := range scores {
		got := Classify(s)
		if got.Level != want[i] {
			t.Fatalf("Classify(%s) = %d, want %d", s, got.Level, want[i])
		}
		if got.Level < prev {
			t.Fatalf("band decreased at %s", s)
		}
		prev = got.Level
	}
	if Classify("95").Label != "CRÍTICO" {
		t.Fatalf("95 must be in the highest band")
	}
}

func TestClassifyIndeterminate(t *testing.T) {
	for _, s := range []string{models.Unavailable, "", "abc", "9.5"} {
		got := Classify(s)
		if got.Level != 0 || got.Label != IndeterminateLabel {
			t.Fatalf("Classify(%q) = %+v", s, got)
		}
	}
	if Classify("x").String() != IndeterminateLabel {
		t.Fatalf("unexpected string for indeterminate severity")
	}
	if Classify("55").String() != "3/5 MODERADO" {
		t.Fatalf("unexpected string: %s", Classify("55").String())
	}
}
