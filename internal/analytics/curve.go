package analytics

import (
	"sort"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// BuildBookingCurve produces the cumulative fill trajectory for one sailing,
// ordered by decreasing days to departure (earliest booking first). Ties keep
// the incoming booking order. Each booking sells one cabin, so cumulative
// cabins at the k-th point is k and percent filled is 100*k/capacity,
// uncapped. A sailing with no bookings yields an empty curve; callers must
// treat that as "no signal yet", which is not the same state as 0% filled.
func BuildBookingCurve(bookings []domain.Booking, capacityCabins int) []domain.CurvePoint {
	if len(bookings) == 0 {
		return nil
	}

	ordered := make([]domain.Booking, len(bookings))
	copy(ordered, bookings)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DaysToDeparture > ordered[j].DaysToDeparture
	})

	curve := make([]domain.CurvePoint, len(ordered))
	for i, b := range ordered {
		sold := i + 1
		curve[i] = domain.CurvePoint{
			DaysToDeparture:  b.DaysToDeparture,
			CumulativeCabins: sold,
			PercentFilled:    float64(sold) / float64(capacityCabins) * 100,
		}
	}

	return curve
}

// CollapseCurveByDay reduces a curve to one point per distinct days value,
// keeping the day's closing cumulative state. Input order is preserved, so
// the curve stays sorted by decreasing days to departure.
func CollapseCurveByDay(curve []domain.CurvePoint) []domain.CurvePoint {
	if len(curve) == 0 {
		return nil
	}

	collapsed := make([]domain.CurvePoint, 0, len(curve))
	for _, pt := range curve {
		if n := len(collapsed); n > 0 && collapsed[n-1].DaysToDeparture == pt.DaysToDeparture {
			collapsed[n-1] = pt
			continue
		}
		collapsed = append(collapsed, pt)
	}

	return collapsed
}
