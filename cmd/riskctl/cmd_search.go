package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	riskboard "github.com/kailas-cloud/riskboard/pkg/sdk"
)

func newSearchCmd(a *app) *cobra.Command {
	var req riskboard.SearchRequest
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank companies and news by keyword relevance",
		Long: `Matches every query term against company names, news titles and
summaries. Company hits are all listed; news hits are paged.

Examples:
  riskctl search acme
  riskctl search "supply chain" --sort-by date --order asc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Query = strings.Join(args, " ")
			return a.run(cmd, func(ctx context.Context, c *riskboard.Client) error {
				res, err := c.Search(ctx, req)
				if err != nil {
					return err
				}
				return a.render(res, func() string { return renderSearch(res) })
			})
		},
	}
	cmd.Flags().StringVar(&req.OrderBy, "sort-by", "relevance", "Order by relevance or date")
	cmd.Flags().StringVar(&req.Direction, "order", "desc", "Order direction: asc or desc")
	cmd.Flags().IntVarP(&req.Page, "page", "p", 1, "News page number")
	cmd.Flags().IntVar(&req.PageSize, "page-size", 0, "News hits per page (default: stored preference)")
	return cmd
}
