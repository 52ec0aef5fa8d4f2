package analytics

import (
	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// CompletionEstimate is the forecasting model's whole parameter set: the
// retained per-sailing anchor samples plus their (region, anchor) means.
// Built once per run and read-only afterwards.
type CompletionEstimate struct {
	Samples []domain.CompletionSample
	Table   map[domain.RegionAnchor]domain.RegionAnchorRatio
}

// EstimateCompletionRatios builds the empirical completion-ratio table from
// already-departed sailings. For each sailing and anchor offset the
// occupancy at the anchor date and the occupancy the sailing finished at
// yield a ratio final/at-anchor. Anchors where the sailing had zero
// occupancy contribute no sample: the ratio would divide by zero, and a
// sailing with no early signal says nothing about growth from that point.
// Sailings without any bookings are skipped entirely.
func EstimateCompletionRatios(historical []domain.Sailing, bookingsBySailing map[string][]domain.Booking, anchors []int) CompletionEstimate {
	est := CompletionEstimate{
		Table: make(map[domain.RegionAnchor]domain.RegionAnchorRatio),
	}

	for _, sailing := range historical {
		bookings := bookingsBySailing[sailing.SailingID]
		if len(bookings) == 0 {
			continue
		}

		finalOccupancy := float64(len(bookings)) / float64(sailing.CapacityCabins) * 100

		for _, anchorDays := range anchors {
			anchorDate := sailing.DepartureDate.AddDate(0, 0, -anchorDays)

			cabinsAtAnchor := 0
			for _, b := range bookings {
				if !b.BookingDate.After(anchorDate) {
					cabinsAtAnchor++
				}
			}
			if cabinsAtAnchor == 0 {
				continue
			}

			occupancyAtAnchor := float64(cabinsAtAnchor) / float64(sailing.CapacityCabins) * 100
			est.Samples = append(est.Samples, domain.CompletionSample{
				SailingID:         sailing.SailingID,
				Region:            sailing.Region,
				DepartureDate:     sailing.DepartureDate,
				AnchorDaysOut:     anchorDays,
				OccupancyAtAnchor: roundFloat(occupancyAtAnchor, 1),
				FinalOccupancy:    roundFloat(finalOccupancy, 1),
				CompletionRatio:   roundFloat(finalOccupancy/occupancyAtAnchor, 3),
			})
		}
	}

	type agg struct {
		sum   float64
		count int
	}
	sums := make(map[domain.RegionAnchor]*agg)
	for _, s := range est.Samples {
		key := domain.RegionAnchor{Region: s.Region, AnchorDaysOut: s.AnchorDaysOut}
		a, ok := sums[key]
		if !ok {
			a = &agg{}
			sums[key] = a
		}
		a.sum += s.CompletionRatio
		a.count++
	}
	for key, a := range sums {
		est.Table[key] = domain.RegionAnchorRatio{
			Region:             key.Region,
			AnchorDaysOut:      key.AnchorDaysOut,
			AvgCompletionRatio: a.sum / float64(a.count),
			SampleSize:         a.count,
		}
	}

	return est
}

// Ratio returns the mean completion ratio for a (region, anchor) cell.
func (e CompletionEstimate) Ratio(region string, anchorDays int) (float64, bool) {
	r, ok := e.Table[domain.RegionAnchor{Region: region, AnchorDaysOut: anchorDays}]
	if !ok {
		return 0, false
	}

	return r.AvgCompletionRatio, true
}

// RegionMeanRatio returns the unweighted mean of a region's per-anchor mean
// ratios, the fallback when a specific anchor has no samples.
func (e CompletionEstimate) RegionMeanRatio(region string) (float64, bool) {
	sum, count := 0.0, 0
	for key, r := range e.Table {
		if key.Region == region {
			sum += r.AvgCompletionRatio
			count++
		}
	}
	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}

// RegionMeanFinalOccupancy returns the mean final occupancy over the
// region's retained samples. A sailing counts once per anchor at which it
// had occupancy, the same weighting the sample table itself carries.
func (e CompletionEstimate) RegionMeanFinalOccupancy(region string) (float64, bool) {
	sum, count := 0.0, 0
	for _, s := range e.Samples {
		if s.Region == region {
			sum += s.FinalOccupancy
			count++
		}
	}
	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}
