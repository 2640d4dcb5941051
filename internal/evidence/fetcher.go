// Package evidence turns search provider hits into the ranked evidence set an
// investigation cites.
package evidence

import (
	"context"
	"strings"

	"factflow/internal/models"
	"factflow/internal/search"
	"factflow/internal/util"
)

const DefaultExcerptChars = 1500

type Fetcher struct {
	provider     search.Provider
	maxResults   int
	excerptChars int
}

func NewFetcher(p search.Provider, maxResults, excerptChars int) *Fetcher {
	if excerptChars <= 0 {
		excerptChars = DefaultExcerptChars
	}
	return &Fetcher{provider: p, maxResults: maxResults, excerptChars: excerptChars}
}

// Fetch runs one advanced-depth search with the direct answer requested. No
// results is a valid outcome. Provider errors are returned unchanged so the
// caller's retry policy sees them.
func (f *Fetcher) Fetch(ctx context.Context, claim string) (models.EvidenceSet, error) {
	if strings.TrimSpace(claim) == "" {
		return models.EvidenceSet{}, util.ErrEmptyClaim
	}
	resp, err := f.provider.Search(ctx, search.Request{
		Query:         claim,
		Depth:         search.DepthAdvanced,
		MaxResults:    f.maxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		return models.EvidenceSet{}, err
	}
	return f.normalize(resp), nil
}

func (f *Fetcher) normalize(resp search.Response) models.EvidenceSet {
	set := models.EvidenceSet{
		Answer: strings.TrimSpace(util.SanitizeText(resp.Answer)),
		Items:  make([]models.EvidenceItem, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		if f.maxResults > 0 && len(set.Items) >= f.maxResults {
			break
		}
		set.Items = append(set.Items, models.EvidenceItem{
			URL:           strings.TrimSpace(r.URL),
			Title:         util.Excerpt(r.Title, 0),
			PublishedDate: strings.TrimSpace(r.PublishedDate),
			Content:       util.Excerpt(r.Content, f.excerptChars),
		})
	}
	return set
}
