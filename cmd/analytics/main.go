// cmd/analytics/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/expeditionrm/revenue-studio/internal/analytics"
	"github.com/expeditionrm/revenue-studio/internal/config"
	"github.com/expeditionrm/revenue-studio/internal/domain"
	"github.com/expeditionrm/revenue-studio/internal/pipeline"
	"github.com/expeditionrm/revenue-studio/internal/snapshot"
	"github.com/expeditionrm/revenue-studio/pkg/logger"
)

func newAsOfFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "as-of",
		Usage:    "Analysis reference date (YYYY-MM-DD)",
		Required: true,
		EnvVars:  []string{"ANALYSIS_DATE"},
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory holding the input snapshot tables",
		Value:   "./data",
		EnvVars: []string{"APP_DATA_DIR"},
	}
}

func newOutputDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output-dir",
		Usage:   "Directory receiving the derived tables",
		Value:   "./data/output",
		EnvVars: []string{"APP_OUTPUT_DIR"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "analytics",
		Usage: "Run booking analytics stages over a snapshot",
		Commands: []*cli.Command{
			{
				Name:   "pace",
				Usage:  "Compare future sailings against their region's historical booking pace",
				Flags:  []cli.Flag{newAsOfFlag(), newDataDirFlag(), newOutputDirFlag()},
				Action: runPace,
			},
			{
				Name:   "forecast",
				Usage:  "Project final occupancy and revenue for future sailings",
				Flags:  []cli.Flag{newAsOfFlag(), newDataDirFlag(), newOutputDirFlag()},
				Action: runForecast,
			},
			{
				Name:   "classify",
				Usage:  "Bucket forecasted sailings by status and log the revenue impact",
				Flags:  []cli.Flag{newOutputDirFlag()},
				Action: runClassify,
			},
			{
				Name:   "run",
				Usage:  "Run every stage and record the run manifest",
				Flags:  []cli.Flag{newAsOfFlag(), newDataDirFlag(), newOutputDirFlag()},
				Action: runAll,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runPace(c *cli.Context) error {
	cfg := config.Load()
	asOf, err := config.ParseAnalysisDate(c.String("as-of"))
	if err != nil {
		return err
	}

	store := snapshot.NewStore(c.String("data-dir"), c.String("output-dir"))
	snap, err := store.Load()
	if err != nil {
		return err
	}

	params := pipeline.ParamsFromPolicy(cfg.Policy)
	bySailing := analytics.GroupBookingsBySailing(snap.Bookings)
	historical, future := analytics.SplitByDeparture(snap.Sailings, asOf)

	averages := analytics.BuildRegionAverageCurves(historical, bySailing)
	records := analytics.AnalyzePace(future, bySailing, averages, asOf, params.DefaultPaceTarget)

	if err := snapshot.WritePaceAnalysis(store.PacePath(), records); err != nil {
		return fmt.Errorf("write pace analysis: %w", err)
	}

	logger.Log.Info().
		Int("records", len(records)).
		Str("path", store.PacePath()).
		Msg("Pace analysis written")
	return nil
}

func runForecast(c *cli.Context) error {
	cfg := config.Load()
	asOf, err := config.ParseAnalysisDate(c.String("as-of"))
	if err != nil {
		return err
	}

	store := snapshot.NewStore(c.String("data-dir"), c.String("output-dir"))
	snap, err := store.Load()
	if err != nil {
		return err
	}

	params := pipeline.ParamsFromPolicy(cfg.Policy)
	bySailing := analytics.GroupBookingsBySailing(snap.Bookings)
	historical, future := analytics.SplitByDeparture(snap.Sailings, asOf)

	estimate := analytics.EstimateCompletionRatios(historical, bySailing, params.Forecast.AnchorDaysOut)
	forecasts := analytics.ForecastFuture(future, bySailing, estimate, asOf, params.Forecast)

	if err := snapshot.WriteForecasts(store.ForecastPath(), forecasts); err != nil {
		return fmt.Errorf("write forecasts: %w", err)
	}

	logger.Log.Info().
		Int("forecasts", len(forecasts)).
		Int("completion_samples", len(estimate.Samples)).
		Str("path", store.ForecastPath()).
		Msg("Revenue forecast written")
	return nil
}

func runClassify(c *cli.Context) error {
	cfg := config.Load()
	outputDir := c.String("output-dir")

	forecasts, err := snapshot.LoadForecasts(filepath.Join(outputDir, snapshot.ForecastFile))
	if err != nil {
		return err
	}

	params := pipeline.ParamsFromPolicy(cfg.Policy)
	classifications := analytics.ClassifyAll(forecasts, params.Classify)

	path := filepath.Join(outputDir, snapshot.ClassificationFile)
	if err := snapshot.WriteClassifications(path, classifications); err != nil {
		return fmt.Errorf("write classifications: %w", err)
	}

	logger.Log.Info().
		Int("classifications", len(classifications)).
		Str("path", path).
		Msg("Classification table written")
	logImpact(analytics.ComputeRevenueImpact(classifications, params.Impact))
	return nil
}

func runAll(c *cli.Context) error {
	cfg := config.Load()
	asOf, err := config.ParseAnalysisDate(c.String("as-of"))
	if err != nil {
		return err
	}

	store := snapshot.NewStore(c.String("data-dir"), c.String("output-dir"))
	params := pipeline.ParamsFromPolicy(cfg.Policy)

	results, _, err := pipeline.NewRunner(store, params).Run(c.Context, asOf)
	if err != nil {
		return err
	}

	logImpact(analytics.ComputeRevenueImpact(results.Classifications, params.Impact))
	return nil
}

func logImpact(impact domain.RevenueImpact) {
	logger.Log.Info().
		Int("at_risk_sailings", impact.AtRiskSailings).
		Str("revenue_at_risk", impact.RevenueAtRisk.String()).
		Int("overperforming_sailings", impact.OverperformingSailings).
		Str("pricing_opportunity", impact.PricingOpportunity.String()).
		Str("total_opportunity", impact.TotalOpportunity.String()).
		Msg("Revenue impact analysis")
}
