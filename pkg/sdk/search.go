package riskboard

import (
	"context"
	"time"
)

// Search ranks companies and news against req.Query. Every company hit is
// returned; news hits are paged.
func (c *Client) Search(ctx context.Context, req SearchRequest) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	sr, err := toSearchRequest(req)
	if err != nil {
		return SearchResult{}, err
	}
	resp := c.searchSvc.Search(ctx, c.profile, sr)
	return SearchResult{
		Query:     resp.Query,
		Companies: fromResults(resp.Companies),
		News:      fromTablePage(resp.News, fromResult),
	}, nil
}
