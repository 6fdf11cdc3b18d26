package riskboard

import (
	"context"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/usecase/browse"
)

// News returns one page of the news table.
func (c *Client) News(ctx context.Context, q Query) (_ Page[News], err error) {
	start := time.Now()
	defer func() { c.obs.observe("news", start, err) }()

	vq, err := toViewQuery(q)
	if err != nil {
		return Page[News]{}, err
	}
	return fromTablePage(c.browseSvc.News(ctx, c.profile, vq), same[record.News]), nil
}

// Companies returns one page of the company list.
func (c *Client) Companies(ctx context.Context, q Query) (_ Page[Company], err error) {
	start := time.Now()
	defer func() { c.obs.observe("companies", start, err) }()

	vq, err := toViewQuery(q)
	if err != nil {
		return Page[Company]{}, err
	}
	return fromTablePage(c.browseSvc.Companies(ctx, c.profile, vq), same[record.Company]), nil
}

// NewsByID returns the news row at file index id.
func (c *Client) NewsByID(ctx context.Context, id int) (_ NewsDetail, err error) {
	start := time.Now()
	defer func() { c.obs.observe("news_detail", start, err) }()

	d, err := c.browseSvc.NewsByID(id)
	if err != nil {
		return NewsDetail{}, err
	}
	return NewsDetail(d), nil
}

// Company returns the named company with the news that mentions it.
func (c *Client) Company(ctx context.Context, name string) (_ CompanyDetail, err error) {
	start := time.Now()
	defer func() { c.obs.observe("company_detail", start, err) }()

	d, err := c.browseSvc.Company(name)
	if err != nil {
		return CompanyDetail{}, err
	}
	watched, err := c.watchSvc.IsWatched(ctx, c.profile, d.Company.Name)
	if err != nil {
		return CompanyDetail{}, err
	}
	return fromCompanyDetail(d, watched), nil
}

// NewsFacets returns value counts of a news column.
func (c *Client) NewsFacets(ctx context.Context, field string) (_ []Facet, err error) {
	start := time.Now()
	defer func() { c.obs.observe("news_facets", start, err) }()

	return c.browseSvc.NewsFacets(field)
}

// CompanyFacets returns value counts of a company column.
func (c *Client) CompanyFacets(ctx context.Context, field string) (_ []Facet, err error) {
	start := time.Now()
	defer func() { c.obs.observe("company_facets", start, err) }()

	return c.browseSvc.CompanyFacets(field)
}

func fromCompanyDetail(d browse.CompanyDetail, watched bool) CompanyDetail {
	return CompanyDetail{
		Company:   d.Company,
		RiskTypes: d.RiskTypes,
		OppTypes:  d.OppTypes,
		News:      d.News,
		Watched:   watched,
	}
}
