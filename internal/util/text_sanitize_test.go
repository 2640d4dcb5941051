package util

import (
	"testing"
	"unicode/utf8"
)

func TestSanitizeTextRemovesNulAndControls(t *testing.T) {
	in := "ab\x00cd\x01\x02\n\txy"
	out := SanitizeText(in)
	if out != "abcd\n\txy" {
		t.Fatalf("unexpected sanitized output: %q", out)
	}
}

func TestExcerptBoundsRunes(t *testing.T) {
	in := "Lua   feita\nde queijo? Não, a Lua é composta de rocha."
	out := Excerpt(in, 10)
	if out != "Lua feita..." {
		t.Fatalf("unexpected excerpt: %q", out)
	}
	if utf8.RuneCountInString(Excerpt("ção", 10)) != 3 {
		t.Fatalf("short input must be returned whole")
	}
	if Excerpt("a  b", 0) != "a b" {
		t.Fatalf("zero bound must only normalize whitespace")
	}
}
