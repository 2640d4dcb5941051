package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const tavilyURL = "https://api.tavily.com/search"

// Tavily calls the Tavily search API. Rate limiting surfaces as an error; the
// caller's retry policy owns backoff.
type Tavily struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

func NewTavily(apiKey string, timeout time.Duration) *Tavily {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewTavilyWithClient(apiKey, &http.Client{Timeout: timeout})
}

func NewTavilyWithClient(apiKey string, client *http.Client) *Tavily {
	return &Tavily{APIKey: apiKey, BaseURL: tavilyURL, client: client}
}

func (t *Tavily) Search(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(t.APIKey) == "" {
		return Response{}, errors.New("tavily: API key is missing")
	}
	depth := req.Depth
	if depth == "" {
		depth = DepthAdvanced
	}
	body := map[string]any{
		"api_key":        t.APIKey,
		"query":          req.Query,
		"search_depth":   depth,
		"include_answer": req.IncludeAnswer,
	}
	if req.MaxResults > 0 {
		body["max_results"] = req.MaxResults
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("tavily request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read tavily response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("tavily http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Answer  *string `json:"answer"`
		Results []struct {
			Title         *string `json:"title"`
			URL           *string `json:"url"`
			Content       *string `json:"content"`
			PublishedDate *string `json:"published_date"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Response{}, fmt.Errorf("decode tavily response: %w", err)
	}

	out := Response{Answer: deref(parsed.Answer), Results: make([]Result, 0, len(parsed.Results))}
	for _, r := range parsed.Results {
		out.Results = append(out.Results, Result{
			URL:           deref(r.URL),
			Title:         deref(r.Title),
			PublishedDate: deref(r.PublishedDate),
			Content:       deref(r.Content),
		})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
