package export

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// The claim part of a case folder is bounded in runes for readability and in
// bytes so that, with the _<timestamp>_<run id> suffix, the name stays far
// below the 255 byte NAME_MAX of common filesystems.
const (
	MaxFolderNameRunes = 60
	MaxFolderNameBytes = 180
	fallbackFolderName = "caso"
)

// SanitizeFolderName keeps letters, digits, underscores, hyphens and
// whitespace, turns each whitespace run into one underscore and bounds the
// result. Sanitizing its own output returns it unchanged.
func SanitizeFolderName(claim string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range claim {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
		default:
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	out := bound(trimSeparators(b.String()))
	if out == "" {
		return fallbackFolderName
	}
	return out
}

// bound cuts s on a rune boundary at whichever limit it reaches first.
func bound(s string) string {
	runes := 0
	for i, r := range s {
		if runes == MaxFolderNameRunes || i+utf8.RuneLen(r) > MaxFolderNameBytes {
			return trimSeparators(s[:i])
		}
		runes++
	}
	return s
}

func trimSeparators(s string) string {
	return strings.Trim(s, "_-")
}
