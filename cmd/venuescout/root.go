package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfreeman/venuescout/internal/api"
	"github.com/mfreeman/venuescout/internal/config"
	"github.com/mfreeman/venuescout/internal/events"
	"github.com/mfreeman/venuescout/internal/llm"
	"github.com/mfreeman/venuescout/internal/logger"
	"github.com/mfreeman/venuescout/internal/pipeline"
	"github.com/mfreeman/venuescout/internal/places"
	"github.com/mfreeman/venuescout/internal/scraper"
	"github.com/mfreeman/venuescout/internal/storage"
)

var (
	flagAddress    string
	flagRadius     float64
	flagCategories []string
	flagListen     string
	flagVerbose    bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "venuescout",
		Short: "Aggregate metro-area venues and their upcoming events",
		Long: `venuescout discovers venues around an address, enriches them with
place details and language-model inference, scrapes event listings from
multiple sources, and serves the result over a small read API.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logger.LevelInfo
			if flagVerbose {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.New(level, os.Stderr))
		},
	}

	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newUpdateVenuesCmd())
	cmd.AddCommand(newScrapeEventsCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

func newUpdateVenuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-venues",
		Short: "Discover and enrich venues around an address",
		RunE:  runUpdateVenues,
	}

	cmd.Flags().StringVar(&flagAddress, "address", "", "Address to search near (required)")
	cmd.Flags().Float64Var(&flagRadius, "radius", 10, "Search radius in miles")
	cmd.Flags().StringSliceVar(&flagCategories, "category", nil, "Place categories to search (default: built-in vocabulary)")
	cmd.MarkFlagRequired("address")

	return cmd
}

func runUpdateVenues(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	log := logger.Default()
	metrics := logger.DefaultMetrics()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	extractor, err := llm.New(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("initializing extractor: %w", err)
	}

	enricher := pipeline.NewEnricher(
		places.New(cfg.GoogleMapsAPIKey, cfg.HTTPTimeout),
		extractor, store, log, metrics,
	)

	count, err := enricher.Enrich(ctx, flagAddress, flagRadius, flagCategories)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	log.Info("run metrics", metrics.Snapshot())
	fmt.Printf("Successfully updated %d venues in the database.\n", count)
	return nil
}

func newScrapeEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape-events",
		Short: "Collect events for every stored venue",
		RunE:  runScrapeEvents,
	}
}

func runScrapeEvents(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	log := logger.Default()
	metrics := logger.DefaultMetrics()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	extractor, err := llm.New(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("initializing extractor: %w", err)
	}

	// Searcher order decides which duplicate survives the merge.
	searchers := []pipeline.EventSearcher{
		events.NewTicketmaster(cfg.TicketmasterAPIKey, cfg.City, cfg.HTTPTimeout),
		events.NewEventbrite(cfg.EventbriteAPIKey, cfg.City, cfg.HTTPTimeout),
	}

	aggregator := pipeline.NewAggregator(
		searchers,
		scraper.NewStatic(cfg.HTTPTimeout),
		scraper.NewDynamic(cfg.ChromeBin, cfg.HTTPTimeout, extractor.ExtractEvents),
		scraper.NewLocal(cfg.LocalEventsURL, cfg.HTTPTimeout),
		store, log, metrics,
	)

	count, err := aggregator.Aggregate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	log.Info("run metrics", metrics.Snapshot())
	fmt.Printf("Successfully updated events for %d venues.\n", count)
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the venue store over HTTP",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagListen, "listen", "", "Bind address (default from LISTEN_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.Default()

	addr := cfg.ListenAddr
	if flagListen != "" {
		addr = flagListen
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	srv := api.New(store, log)
	log.Info("serving venue API", logger.Fields{"addr": addr})
	return http.ListenAndServe(addr, srv.Router())
}
