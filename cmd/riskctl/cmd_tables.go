package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	riskboard "github.com/kailas-cloud/riskboard/pkg/sdk"
)

const dateLayout = "2006-01-02"

// queryFlags are the view flags shared by the table commands.
type queryFlags struct {
	sort     []string
	filters  []string
	from, to string
	page     int
	pageSize int
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.sort, "sort", "s", nil, `Sort keys, "field:asc" or "field:desc", highest priority first`)
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, `Filter as "field=v1,v2"; repeat for more fields`)
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest date, YYYY-MM-DD (inclusive)")
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "Page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Rows per page (default: stored preference)")
}

func (f *queryFlags) query() (riskboard.Query, error) {
	q := riskboard.Query{Sort: f.sort, Page: f.page, PageSize: f.pageSize}
	if len(f.filters) > 0 {
		q.Filters = make(map[string][]string, len(f.filters))
		for _, raw := range f.filters {
			field, vals, ok := strings.Cut(raw, "=")
			if !ok || strings.TrimSpace(field) == "" {
				return riskboard.Query{}, fmt.Errorf("--filter %q: want field=v1,v2", raw)
			}
			field = strings.TrimSpace(field)
			for _, v := range strings.Split(vals, ",") {
				if v = strings.TrimSpace(v); v != "" {
					q.Filters[field] = append(q.Filters[field], v)
				}
			}
		}
	}
	var err error
	if q.From, err = parseDate("from", f.from); err != nil {
		return riskboard.Query{}, err
	}
	if q.To, err = parseDate("to", f.to); err != nil {
		return riskboard.Query{}, err
	}
	return q, nil
}

func parseDate(flag, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", flag, s)
	}
	return t, nil
}

func newNewsCmd(a *app) *cobra.Command {
	var qf queryFlags
	cmd := &cobra.Command{
		Use:   "news [id]",
		Short: "List news, or show one news item by id",
		Long: `Lists the news table with the given sort, filters and page.

Examples:
  riskctl news --sort risklev:desc --sort time:desc
  riskctl news -f source_level=A,B --from 2024-01-01 --to 2024-03-31
  riskctl news 42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var id int
				if _, err := fmt.Sscan(args[0], &id); err != nil {
					return fmt.Errorf("news id must be a number, got %q", args[0])
				}
				return a.run(cmd, func(ctx context.Context, c *riskboard.Client) error {
					d, err := c.NewsByID(ctx, id)
					if err != nil {
						return err
					}
					return a.render(d, func() string { return renderNewsDetail(d) })
				})
			}
			q, err := qf.query()
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *riskboard.Client) error {
				p, err := c.News(ctx, q)
				if err != nil {
					return err
				}
				return a.render(p, func() string { return renderNewsPage(p) })
			})
		},
	}
	qf.register(cmd)
	return cmd
}

func newCompaniesCmd(a *app) *cobra.Command {
	var (
		qf      queryFlags
		watched bool
	)
	cmd := &cobra.Command{
		Use:     "companies [name]",
		Aliases: []string{"corp"},
		Short:   "List companies, or show one company with its news",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return a.run(cmd, func(ctx context.Context, c *riskboard.Client) error {
					d, err := c.Company(ctx, args[0])
					if err != nil {
						return err
					}
					return a.render(d, func() string { return renderCompanyDetail(d) })
				})
			}
			q, err := qf.query()
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *riskboard.Client) error {
				list := c.Companies
				if watched {
					list = c.Watchlist
				}
				p, err := list(ctx, q)
				if err != nil {
					return err
				}
				return a.render(p, func() string { return renderCompanyPage(p) })
			})
		},
	}
	qf.register(cmd)
	cmd.Flags().BoolVar(&watched, "watched", false, "Only companies on the profile's watchlist")
	return cmd
}
