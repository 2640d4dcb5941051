package providers

import "strings"

// ProviderRef is one entry of a "name:alias|name" provider list.
type ProviderRef struct {
	Raw      string
	Name     string
	KeyAlias string
}

func ParseProviderList(raw string) []ProviderRef {
	parts := strings.Split(raw, "|")
	out := make([]ProviderRef, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, parseRef(p))
	}
	if len(out) == 0 {
		out = append(out, ProviderRef{Raw: "mock", Name: "mock"})
	}
	return out
}

func parseRef(p string) ProviderRef {
	p = strings.TrimSpace(p)
	ref := ProviderRef{Raw: p, Name: p}
	if name, alias, ok := strings.Cut(p, ":"); ok {
		ref.Name = strings.TrimSpace(name)
		ref.KeyAlias = strings.TrimSpace(alias)
	}
	return ref
}
