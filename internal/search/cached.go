package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cached serves repeated identical searches from an expiring LRU. Errors are
// never cached.
type Cached struct {
	next  Provider
	cache *expirable.LRU[string, Response]
}

func NewCached(next Provider, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = 128
	}
	return &Cached{next: next, cache: expirable.NewLRU[string, Response](size, nil, ttl)}
}

func (c *Cached) Search(ctx context.Context, req Request) (Response, error) {
	key := cacheKey(req)
	if hit, ok := c.cache.Get(key); ok {
		return clone(hit), nil
	}
	resp, err := c.next.Search(ctx, req)
	if err != nil {
		return Response{}, err
	}
	c.cache.Add(key, clone(resp))
	return resp, nil
}

func (c *Cached) Len() int {
	return c.cache.Len()
}

func cacheKey(req Request) string {
	q := strings.ToLower(strings.Join(strings.Fields(req.Query), " "))
	return fmt.Sprintf("%s|%d|%t|%s", req.Depth, req.MaxResults, req.IncludeAnswer, q)
}

func clone(r Response) Response {
	return Response{Answer: r.Answer, Results: append([]Result(nil), r.Results...)}
}
