package analytics

import (
	"sort"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// RegionDayAverages maps region, then exact days to departure, to the mean
// percent filled across every historical curve point observed at that day.
type RegionDayAverages map[string]map[int]float64

// BuildRegionAverageCurves aggregates historical sailings' booking curves
// into per-region averages keyed by exact days to departure. Every curve
// point counts once, so days with more booking activity weigh heavier.
func BuildRegionAverageCurves(historical []domain.Sailing, bookingsBySailing map[string][]domain.Booking) RegionDayAverages {
	type agg struct {
		sum   float64
		count int
	}
	sums := make(map[string]map[int]*agg)

	for _, sailing := range historical {
		curve := BuildBookingCurve(bookingsBySailing[sailing.SailingID], sailing.CapacityCabins)
		if len(curve) == 0 {
			continue
		}

		days, ok := sums[sailing.Region]
		if !ok {
			days = make(map[int]*agg)
			sums[sailing.Region] = days
		}
		for _, pt := range curve {
			a, ok := days[pt.DaysToDeparture]
			if !ok {
				a = &agg{}
				days[pt.DaysToDeparture] = a
			}
			a.sum += pt.PercentFilled
			a.count++
		}
	}

	averages := make(RegionDayAverages, len(sums))
	for region, days := range sums {
		averages[region] = make(map[int]float64, len(days))
		for day, a := range days {
			averages[region][day] = a.sum / float64(a.count)
		}
	}

	return averages
}

// AnalyzePace compares each future sailing's occupancy as of the reference
// date against its region's historical average at the nearest observed
// days-out (no interpolation; equidistant days resolve to the larger).
// Regions without any history fall back to the flat default target.
func AnalyzePace(sailings []domain.Sailing, bookingsBySailing map[string][]domain.Booking, averages RegionDayAverages, refDate time.Time, defaultTargetPct float64) []domain.PaceRecord {
	records := make([]domain.PaceRecord, 0)
	for _, sailing := range sailings {
		if sailing.DepartureDate.Before(refDate) {
			continue
		}

		daysUntil := daysBetween(refDate, sailing.DepartureDate)
		current := BookingsOnOrBefore(bookingsBySailing[sailing.SailingID], refDate)
		currentOccupancy := roundFloat(float64(len(current))/float64(sailing.CapacityCabins)*100, 1)

		target := defaultTargetPct
		if days := averages[sailing.Region]; len(days) > 0 {
			offsets := make([]int, 0, len(days))
			for day := range days {
				offsets = append(offsets, day)
			}
			sort.Sort(sort.Reverse(sort.IntSlice(offsets)))
			target = days[nearestOffset(daysUntil, offsets)]
		}

		records = append(records, domain.PaceRecord{
			SailingID:           sailing.SailingID,
			Region:              sailing.Region,
			DepartureDate:       sailing.DepartureDate,
			CapacityCabins:      sailing.CapacityCabins,
			DaysUntilDeparture:  daysUntil,
			CurrentOccupancyPct: currentOccupancy,
			TargetOccupancyPct:  roundFloat(target, 1),
			PaceDelta:           roundFloat(currentOccupancy-target, 1),
		})
	}

	return records
}
