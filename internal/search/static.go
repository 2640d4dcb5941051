package search

import "context"

// Static answers every query with the same response. It backs the offline
// "mock" search provider and tests.
type Static struct {
	Response Response
	Err      error
}

func (s Static) Search(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if s.Err != nil {
		return Response{}, s.Err
	}
	out := Response{Answer: s.Response.Answer, Results: append([]Result(nil), s.Response.Results...)}
	if req.MaxResults > 0 && len(out.Results) > req.MaxResults {
		out.Results = out.Results[:req.MaxResults]
	}
	return out, nil
}
