package analytics

import (
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// ForecastParams carries the policy knobs the forecaster consumes.
type ForecastParams struct {
	AnchorDaysOut          []int
	TargetOccupancyPct     float64
	DefaultCompletionRatio float64
	DefaultFinalOccupancy  float64
	FareEstimateFactor     float64
	OccupantsPerCabin      float64
}

// ForecastSailing projects final occupancy and revenue for one future
// sailing as of the reference date.
func ForecastSailing(sailing domain.Sailing, bookings []domain.Booking, est CompletionEstimate, refDate time.Time, p ForecastParams) domain.Forecast {
	daysUntil := daysBetween(refDate, sailing.DepartureDate)

	// 1. Current state from bookings made on or before the reference date.
	current := BookingsOnOrBefore(bookings, refDate)
	currentSold := len(current)
	currentOccupancy := float64(currentSold) / float64(sailing.CapacityCabins) * 100

	// 2. Completion ratio from the nearest anchor. Missing cells fall back
	// to the region's mean across anchors, then to the fixed default when
	// the region has no history at all.
	anchor := nearestOffset(daysUntil, p.AnchorDaysOut)
	ratio, ok := est.Ratio(sailing.Region, anchor)
	if !ok {
		if ratio, ok = est.RegionMeanRatio(sailing.Region); !ok {
			ratio = p.DefaultCompletionRatio
		}
	}

	// 3. Projection, capped at capacity. Zero current occupancy would
	// project to zero under any ratio, so that case uses the region's
	// historical mean final occupancy instead.
	var projected float64
	if currentOccupancy > 0 {
		projected = currentOccupancy * ratio
	} else {
		regional, ok := est.RegionMeanFinalOccupancy(sailing.Region)
		if !ok {
			regional = p.DefaultFinalOccupancy
		}
		projected = regional
	}
	if projected > 100 {
		projected = 100
	}

	// 4. Revenue from projected cabins at the observed average fare, or a
	// discounted base fare when there are no bookings to observe.
	projectedCabins := projected / 100 * float64(sailing.CapacityCabins)
	avgFare := sailing.BaseFarePerPerson * p.FareEstimateFactor
	if currentSold > 0 {
		sum := 0.0
		for _, b := range current {
			sum += b.FarePaidPerPerson
		}
		avgFare = sum / float64(currentSold)
	}
	revenue := projectedCabins * avgFare * p.OccupantsPerCabin

	// 5. Competitor positioning: mean of observed indices, neutral without.
	competitor := 1.0
	if currentSold > 0 {
		sum := 0.0
		for _, b := range current {
			sum += b.CompetitorPriceIndex
		}
		competitor = sum / float64(currentSold)
	}

	return domain.Forecast{
		SailingID:                  sailing.SailingID,
		Region:                     sailing.Region,
		ShipName:                   sailing.ShipName,
		DepartureDate:              sailing.DepartureDate,
		DaysUntilDeparture:         daysUntil,
		CapacityCabins:             sailing.CapacityCabins,
		CurrentCabinsSold:          currentSold,
		CurrentOccupancyPct:        roundFloat(currentOccupancy, 1),
		CompletionRatioUsed:        roundFloat(ratio, 3),
		ProjectedFinalOccupancyPct: roundFloat(projected, 1),
		ProjectedCabinsSold:        roundFloat(projectedCabins, 1),
		AvgFarePerPerson:           roundFloat(avgFare, 0),
		ProjectedRevenue:           roundFloat(revenue, 0),
		TargetOccupancyPct:         p.TargetOccupancyPct,
		ProjectedVsTarget:          roundFloat(projected-p.TargetOccupancyPct, 1),
		CompetitorPriceIndex:       roundFloat(competitor, 2),
	}
}

// ForecastFuture projects every sailing departing on or after the reference
// date, in input order.
func ForecastFuture(sailings []domain.Sailing, bookingsBySailing map[string][]domain.Booking, est CompletionEstimate, refDate time.Time, p ForecastParams) []domain.Forecast {
	forecasts := make([]domain.Forecast, 0)
	for _, sailing := range sailings {
		if sailing.DepartureDate.Before(refDate) {
			continue
		}
		forecasts = append(forecasts, ForecastSailing(sailing, bookingsBySailing[sailing.SailingID], est, refDate, p))
	}

	return forecasts
}
