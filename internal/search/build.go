package search

import (
	"fmt"
	"strings"
	"time"

	"factflow/internal/config"
)

// FromConfig builds the configured provider behind the result cache. The
// "mock" provider always answers with an empty result set.
func FromConfig(cfg config.Config) (Provider, error) {
	var p Provider
	switch strings.ToLower(strings.TrimSpace(cfg.SearchProvider)) {
	case "", "tavily":
		p = NewTavily(cfg.TavilyAPIKey, time.Duration(cfg.SearchTimeoutSecs)*time.Second)
	case "mock":
		p = Static{}
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", cfg.SearchProvider)
	}
	if cfg.SearchCacheSize <= 0 {
		return p, nil
	}
	return NewCached(p, cfg.SearchCacheSize, cfg.SearchCacheTTL()), nil
}
