package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/i474232898/area-weather/internal/batchfile"
	"github.com/i474232898/area-weather/internal/config"
	"github.com/i474232898/area-weather/internal/report"
	"github.com/i474232898/area-weather/internal/weather"
	"github.com/i474232898/area-weather/internal/weather/providers"
)

var (
	city         string
	km           float64
	batchFile    string
	concurrency  int
	stationsFile string
)

var rootCmd = &cobra.Command{
	Use:   "weather",
	Short: "Current temperature and area average for one or many locations",
	Long: `Shows the current temperature of a location and the average temperature
of the weather stations within the given radius around it.

  weather --city Moscow --km 200
  weather --file cities.txt`,
	SilenceUsage: true,
	RunE:         runReport,
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&concurrency, "concurrency", "c", 0, "Locations resolved in parallel (default BATCH_CONCURRENCY)")
	rootCmd.PersistentFlags().StringVar(&stationsFile, "stations", "", "Offline station fixture (JSON) used instead of OpenWeatherMap")

	rootCmd.Flags().StringVar(&city, "city", "Yaroslavl", "Location to report")
	rootCmd.Flags().Float64Var(&km, "km", 150, "Radius in kilometers of the area around the location")
	rootCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Batch file with one name:km per line")

	rootCmd.AddCommand(serveCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	// A parse error must stop the run before any provider call.
	var locs []weather.Location
	if batchFile != "" {
		if locs, err = batchfile.Load(batchFile); err != nil {
			return err
		}
	}

	aggregator, err := newAggregator(cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if batchFile == "" {
		res, err := aggregator.RunSingle(cmd.Context(), weather.Location{Name: city, RadiusKm: km})
		if err != nil {
			return fmt.Errorf("could not determine the weather, check the location and radius: %w", err)
		}
		return report.Single(out, res)
	}

	return report.Batch(out, aggregator.RunBatch(cmd.Context(), locs))
}

// setup loads configuration and installs the default logger. Logs go to stderr
// so stdout carries only the report.
func setup() (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if concurrency > 0 {
		cfg.Concurrency = concurrency
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newAggregator(cfg *config.AppConfig, logger *slog.Logger) (*weather.Aggregator, error) {
	client, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	pipeline := weather.NewPipeline(client,
		weather.WithLogger(logger),
		weather.WithTaskTimeout(cfg.TaskTimeout),
	)
	return weather.NewAggregator(pipeline, cfg.Concurrency, logger), nil
}

func newProvider(cfg *config.AppConfig) (weather.ProviderClient, error) {
	if stationsFile != "" {
		index, err := providers.LoadStationIndex(stationsFile)
		if err != nil {
			return nil, err
		}
		return index, nil
	}
	if cfg.OpenWeatherAPIKey == "" {
		return nil, errors.New("OPENWEATHER_API_KEY (or TOKEN) is not set")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	return providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL), nil
}
