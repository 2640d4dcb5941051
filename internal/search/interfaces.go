// Package search talks to web search providers that return ranked pages with
// content excerpts.
package search

import "context"

const (
	DepthBasic    = "basic"
	DepthAdvanced = "advanced"
)

type Request struct {
	Query         string `json:"query"`
	Depth         string `json:"depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type Result struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	PublishedDate string `json:"published_date,omitempty"`
	Content       string `json:"content"`
}

type Response struct {
	Results []Result `json:"results"`
	Answer  string   `json:"answer,omitempty"`
}

type Provider interface {
	Search(ctx context.Context, req Request) (Response, error)
}
