package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/commcap/prospector/internal/config"
	"github.com/commcap/prospector/internal/enrich"
	"github.com/commcap/prospector/internal/store"
	"github.com/commcap/prospector/pkg/apollo"
	"github.com/commcap/prospector/pkg/places"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "prospector",
	Short: "Micro-ticket prospect finder for equipment finance brokers",
	Long:  "Searches local businesses by city and industry, enriches them with firmographic data, and scores micro-ticket financing fit.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newStore opens the configured store backend.
func newStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return store.NewSQLite(cfg.Store.DatabaseURL)
	}
}

// newPipeline wires the provider clients into an enrichment pipeline.
func newPipeline() (*enrich.Pipeline, places.Client, apollo.Client) {
	pl := places.NewClient(cfg.Places.Key, places.WithBaseURL(cfg.Places.BaseURL))
	orgs := apollo.NewClient(cfg.Apollo.Key,
		apollo.WithBaseURL(cfg.Apollo.BaseURL),
		apollo.WithRateLimit(cfg.Apollo.RatePerSecond, cfg.Apollo.Burst),
	)
	cached := enrich.NewCachedOrgClient(orgs, time.Duration(cfg.Apollo.CacheTTLMins)*time.Minute)
	return enrich.NewPipeline(pl, cached), pl, cached
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
