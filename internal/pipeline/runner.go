package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/expeditionrm/revenue-studio/internal/analytics"
	"github.com/expeditionrm/revenue-studio/internal/domain"
	"github.com/expeditionrm/revenue-studio/internal/snapshot"
	"github.com/expeditionrm/revenue-studio/pkg/logger"
)

// Runner executes the analytics stages over one input snapshot: load,
// estimate completion ratios, pace, forecast, classify, publish.
type Runner struct {
	store  *snapshot.Store
	params Params
}

// NewRunner creates a runner over the given snapshot store.
func NewRunner(store *snapshot.Store, params Params) *Runner {
	return &Runner{store: store, params: params}
}

// Compute loads the input tables and runs every stage in memory, without
// writing derived tables. The reference date governs the historical/future
// partition for all stages.
func (r *Runner) Compute(ctx context.Context, refDate time.Time) (*Results, error) {
	snap, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bySailing := analytics.GroupBookingsBySailing(snap.Bookings)
	historical, future := analytics.SplitByDeparture(snap.Sailings, refDate)
	logger.Log.Info().
		Str("analysis_date", refDate.Format("2006-01-02")).
		Int("sailings", len(snap.Sailings)).
		Int("bookings", len(snap.Bookings)).
		Int("historical", len(historical)).
		Int("future", len(future)).
		Msg("Snapshot loaded")

	estimate := analytics.EstimateCompletionRatios(historical, bySailing, r.params.Forecast.AnchorDaysOut)
	logger.Log.Info().
		Int("samples", len(estimate.Samples)).
		Int("region_anchor_cells", len(estimate.Table)).
		Msg("Completion ratios estimated")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	averages := analytics.BuildRegionAverageCurves(historical, bySailing)
	pace := analytics.AnalyzePace(future, bySailing, averages, refDate, r.params.DefaultPaceTarget)
	forecasts := analytics.ForecastFuture(future, bySailing, estimate, refDate, r.params.Forecast)
	classifications := analytics.ClassifyAll(forecasts, r.params.Classify)
	logger.Log.Info().
		Int("pace_records", len(pace)).
		Int("forecasts", len(forecasts)).
		Int("classifications", len(classifications)).
		Msg("Stages computed")

	// Booking curves reflect only what was observable at the reference date,
	// collapsed to one point per booking day for plotting.
	curves := make(map[string][]domain.CurvePoint, len(snap.Sailings))
	for _, s := range snap.Sailings {
		observed := analytics.BookingsOnOrBefore(bySailing[s.SailingID], refDate)
		if points := analytics.BuildBookingCurve(observed, s.CapacityCabins); len(points) > 0 {
			curves[s.SailingID] = analytics.CollapseCurveByDay(points)
		}
	}

	sailingsByID := make(map[string]domain.Sailing, len(snap.Sailings))
	for _, s := range snap.Sailings {
		sailingsByID[s.SailingID] = s
	}
	paceBySailing := make(map[string]domain.PaceRecord, len(pace))
	for _, p := range pace {
		paceBySailing[p.SailingID] = p
	}

	return &Results{
		AnalysisDate:      refDate,
		Sailings:          snap.Sailings,
		SailingsByID:      sailingsByID,
		BookingsBySailing: bySailing,
		Historical:        historical,
		Future:            future,
		Estimate:          estimate,
		Curves:            curves,
		Pace:              pace,
		PaceBySailing:     paceBySailing,
		Forecasts:         forecasts,
		Classifications:   classifications,
	}, nil
}

// Run computes all stages, writes the derived tables and records the run in
// the manifest. A failed run still writes the manifest so operators can see
// what broke.
func (r *Runner) Run(ctx context.Context, refDate time.Time) (*Results, *Run, error) {
	run := &Run{
		ID:           uuid.NewString(),
		AnalysisDate: refDate,
		Status:       StatusProcessing,
		StartedAt:    time.Now().UTC(),
	}
	logger.Log.Info().
		Str("run_id", run.ID).
		Str("analysis_date", refDate.Format("2006-01-02")).
		Msg("Analytics run started")

	results, err := r.Compute(ctx, refDate)
	if err != nil {
		return nil, r.fail(run, err), err
	}
	if err := r.writeOutputs(results); err != nil {
		return nil, r.fail(run, err), err
	}

	run.Counts = resultCounts(results)
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = StatusCompleted

	if err := snapshot.WriteRunManifest(r.store.ManifestPath(), r.manifest(run)); err != nil {
		return nil, r.fail(run, err), err
	}

	logger.Log.Info().
		Str("run_id", run.ID).
		Int("classifications", run.Counts.Classifications).
		Dur("elapsed", now.Sub(run.StartedAt)).
		Msg("Analytics run completed")
	return results, run, nil
}

func (r *Runner) writeOutputs(results *Results) error {
	if err := snapshot.WritePaceAnalysis(r.store.PacePath(), results.Pace); err != nil {
		return fmt.Errorf("write pace analysis: %w", err)
	}
	if err := snapshot.WriteForecasts(r.store.ForecastPath(), results.Forecasts); err != nil {
		return fmt.Errorf("write forecasts: %w", err)
	}
	if err := snapshot.WriteClassifications(r.store.ClassificationPath(), results.Classifications); err != nil {
		return fmt.Errorf("write classifications: %w", err)
	}
	return nil
}

func (r *Runner) fail(run *Run, err error) *Run {
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = StatusFailed
	run.ErrorMessage = err.Error()
	logger.Log.Error().Err(err).Str("run_id", run.ID).Msg("Analytics run failed")

	if werr := snapshot.WriteRunManifest(r.store.ManifestPath(), r.manifest(run)); werr != nil {
		logger.Log.Warn().Err(werr).Msg("Could not write run manifest for failed run")
	}
	return run
}

func (r *Runner) manifest(run *Run) snapshot.RunManifest {
	m := snapshot.RunManifest{
		RunID:        run.ID,
		AnalysisDate: run.AnalysisDate.Format("2006-01-02"),
		StartedAt:    run.StartedAt,
		Status:       string(run.Status),
		Counts:       run.Counts,
		Error:        run.ErrorMessage,
	}
	if run.CompletedAt != nil {
		m.CompletedAt = *run.CompletedAt
	}
	if run.Status == StatusCompleted {
		m.Outputs = []string{snapshot.PaceFile, snapshot.ForecastFile, snapshot.ClassificationFile}
	}
	return m
}

func resultCounts(results *Results) snapshot.RunCounts {
	bookings := 0
	for _, bs := range results.BookingsBySailing {
		bookings += len(bs)
	}
	return snapshot.RunCounts{
		Sailings:           len(results.Sailings),
		Bookings:           bookings,
		HistoricalSailings: len(results.Historical),
		FutureSailings:     len(results.Future),
		CompletionSamples:  len(results.Estimate.Samples),
		PaceRecords:        len(results.Pace),
		Forecasts:          len(results.Forecasts),
		Classifications:    len(results.Classifications),
	}
}
