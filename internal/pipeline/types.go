package pipeline

import (
	"time"

	"github.com/expeditionrm/revenue-studio/internal/analytics"
	"github.com/expeditionrm/revenue-studio/internal/config"
	"github.com/expeditionrm/revenue-studio/internal/domain"
	"github.com/expeditionrm/revenue-studio/internal/snapshot"
)

// RunStatus represents the state of one analytics run.
type RunStatus string

const (
	StatusPending    RunStatus = "pending"
	StatusProcessing RunStatus = "processing"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// Run tracks a single execution of the analytics pipeline over one snapshot.
type Run struct {
	ID           string
	AnalysisDate time.Time
	Status       RunStatus
	Counts       snapshot.RunCounts
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// Params bundles the policy knobs each stage consumes.
type Params struct {
	Forecast          analytics.ForecastParams
	Classify          analytics.ClassifyParams
	Impact            analytics.ImpactParams
	DefaultPaceTarget float64
}

// ParamsFromPolicy maps the policy configuration onto stage parameters.
func ParamsFromPolicy(p config.PolicyConfig) Params {
	return Params{
		Forecast: analytics.ForecastParams{
			AnchorDaysOut:          p.AnchorDaysOut,
			TargetOccupancyPct:     p.TargetOccupancyPct,
			DefaultCompletionRatio: p.DefaultCompletionRatio,
			DefaultFinalOccupancy:  p.DefaultFinalOccupancy,
			FareEstimateFactor:     p.FareEstimateFactor,
			OccupantsPerCabin:      p.OccupantsPerCabin,
		},
		Classify: analytics.ClassifyParams{
			OverperformThreshold:  p.OverperformThreshold,
			AtRiskThreshold:       p.AtRiskThreshold,
			CompetitorCheapBand:   p.CompetitorCheapBand,
			CompetitorPremiumBand: p.CompetitorPremiumBand,
			LowOccupancyPct:       p.LowOccupancyPct,
			SelloutOccupancyPct:   p.SelloutOccupancyPct,
			NearWindowDays:        p.NearWindowDays,
			MidWindowDays:         p.MidWindowDays,
			FarWindowDays:         p.FarWindowDays,
		},
		Impact: analytics.ImpactParams{
			OccupantsPerCabin:    p.OccupantsPerCabin,
			OverperformUpliftPct: p.OverperformUpliftPct,
		},
		DefaultPaceTarget: p.DefaultPaceTargetPct,
	}
}

// Results holds everything one run computed, indexed for dashboard lookups.
// Built once per run and read-only afterwards.
type Results struct {
	AnalysisDate      time.Time
	Sailings          []domain.Sailing
	SailingsByID      map[string]domain.Sailing
	BookingsBySailing map[string][]domain.Booking
	Historical        []domain.Sailing
	Future            []domain.Sailing
	Estimate          analytics.CompletionEstimate
	Curves            map[string][]domain.CurvePoint
	Pace              []domain.PaceRecord
	PaceBySailing     map[string]domain.PaceRecord
	Forecasts         []domain.Forecast
	Classifications   []domain.Classification
}
