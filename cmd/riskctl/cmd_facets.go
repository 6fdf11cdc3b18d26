package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	riskboard "github.com/kailas-cloud/riskboard/pkg/sdk"
)

func newFacetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "facets <news|companies> <field>",
		Short: "Count the values of one column",
		Long: `Prints how many rows carry each value of a column. Level columns list
every level, including those with no rows.

Examples:
  riskctl facets news risklev
  riskctl facets companies risk`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"news", "companies"},
		RunE: func(cmd *cobra.Command, args []string) error {
			table, field := args[0], args[1]
			return a.run(cmd, func(ctx context.Context, c *riskboard.Client) error {
				var (
					facets []riskboard.Facet
					err    error
				)
				switch table {
				case "news":
					facets, err = c.NewsFacets(ctx, field)
				case "companies", "corp":
					facets, err = c.CompanyFacets(ctx, field)
				default:
					return fmt.Errorf("unknown table %q (want news or companies)", table)
				}
				if err != nil {
					return err
				}
				return a.render(facets, func() string { return renderFacets(field, facets) })
			})
		},
	}
}
