// Package riskboard embeds the riskboard dashboard engine in a Go program:
// the news and company tables with sort, filter and paging, keyword
// relevance search, facets, per-profile preferences and a watchlist.
//
// The client loads both CSV files once at construction and keeps the
// snapshot in memory. Reload swaps it atomically.
//
//	client, err := riskboard.New(ctx,
//	    riskboard.WithSources("data/newslevel.csv", "data/corplevel.csv"),
//	    riskboard.WithFileStore("var/kv"),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	page, _ := client.News(ctx, riskboard.Query{
//	    Sort:    []string{"risklev:desc", "time:desc"},
//	    Filters: map[string][]string{"source_level": {"A"}},
//	})
//	hits, _ := client.Search(ctx, riskboard.SearchRequest{Query: "acme"})
//
// Preferences and the watchlist are kept per profile. WithProfile selects
// the profile; the default is "sdk".
package riskboard
