package riskboard

import (
	"context"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// Watch adds a company to the watchlist. Watching twice is a no-op.
func (c *Client) Watch(ctx context.Context, name string) (_ Company, err error) {
	start := time.Now()
	defer func() { c.obs.observe("watch", start, err) }()

	return c.watchSvc.Add(ctx, c.profile, name)
}

// Unwatch removes a company from the watchlist.
func (c *Client) Unwatch(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("unwatch", start, err) }()

	return c.watchSvc.Remove(ctx, c.profile, name)
}

// Watchlist returns one page of the watched companies.
func (c *Client) Watchlist(ctx context.Context, q Query) (_ Page[Company], err error) {
	start := time.Now()
	defer func() { c.obs.observe("watchlist", start, err) }()

	vq, err := toViewQuery(q)
	if err != nil {
		return Page[Company]{}, err
	}
	p, err := c.browseSvc.Watchlist(ctx, c.profile, vq)
	if err != nil {
		return Page[Company]{}, err
	}
	return fromTablePage(p, same[record.Company]), nil
}
