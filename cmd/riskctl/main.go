// Command riskctl browses the news and company CSV files from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kailas-cloud/riskboard/internal/version"
	riskboard "github.com/kailas-cloud/riskboard/pkg/sdk"
)

// app holds the global flags and the state shared by subcommands.
type app struct {
	newsPath    string
	companyPath string
	storeDir    string
	profile     string
	output      string
	verbose     bool
	timeout     time.Duration

	logger *zap.Logger
	out    io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "riskctl",
		Short:         "Browse news and company risk levels from CSV files",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `riskctl reads the news and company CSV files and prints filtered,
sorted and paged views of them, relevance search results and value counts.

Preferences and the watchlist live in a local store shared with the SDK.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.output != "table" && a.output != "json" {
				return fmt.Errorf("--output must be table or json, got %q", a.output)
			}
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			a.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.newsPath, "news", "data/newslevel.csv", "News CSV path or URL")
	flags.StringVar(&a.companyPath, "companies", "data/corplevel.csv", "Company CSV path or URL")
	flags.StringVar(&a.storeDir, "store", "", "Preference store directory (default: user cache dir)")
	flags.StringVar(&a.profile, "profile", "cli", "Profile whose preferences apply")
	flags.StringVarP(&a.output, "output", "o", "table", "Output format: table or json")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "Operation timeout")

	root.AddCommand(
		newNewsCmd(a),
		newCompaniesCmd(a),
		newSearchCmd(a),
		newFacetsCmd(a),
	)
	return root
}

// open loads the dataset. The caller closes the client.
func (a *app) open(ctx context.Context) (*riskboard.Client, error) {
	opts := []riskboard.Option{
		riskboard.WithSources(a.newsPath, a.companyPath),
		riskboard.WithProfile(a.profile),
	}
	if a.storeDir != "" {
		opts = append(opts, riskboard.WithFileStore(a.storeDir))
	}
	client, err := riskboard.New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	st := client.Status()
	a.logger.Debug("dataset loaded",
		zap.Int("news_rows", st.NewsRows),
		zap.Int("company_rows", st.CompanyRows),
	)
	return client, nil
}

// run opens a client for the duration of fn.
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, c *riskboard.Client) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()

	client, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(ctx, client)
}

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
