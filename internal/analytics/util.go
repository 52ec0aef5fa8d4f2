package analytics

import (
	"math"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// roundFloat rounds a float to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// daysBetween returns the whole days from a to b. Both values are date-only
// timestamps, so the division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// nearestOffset picks the option closest to days by absolute difference.
// Options are scanned in order and replaced only on a strictly smaller
// distance, so with a descending list the larger offset wins ties.
func nearestOffset(days int, options []int) int {
	best := options[0]
	bestDiff := abs(days - best)
	for _, opt := range options[1:] {
		if diff := abs(days - opt); diff < bestDiff {
			best = opt
			bestDiff = diff
		}
	}

	return best
}

// BookingsOnOrBefore filters bookings made on or before the cutoff date.
func BookingsOnOrBefore(bookings []domain.Booking, cutoff time.Time) []domain.Booking {
	kept := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !b.BookingDate.After(cutoff) {
			kept = append(kept, b)
		}
	}

	return kept
}

// SplitByDeparture partitions sailings into historical (departed strictly
// before the reference date) and future (departing on or after it).
func SplitByDeparture(sailings []domain.Sailing, refDate time.Time) (historical, future []domain.Sailing) {
	for _, sailing := range sailings {
		if sailing.DepartureDate.Before(refDate) {
			historical = append(historical, sailing)
		} else {
			future = append(future, sailing)
		}
	}

	return historical, future
}

// GroupBookingsBySailing indexes bookings by their sailing.
func GroupBookingsBySailing(bookings []domain.Booking) map[string][]domain.Booking {
	grouped := make(map[string][]domain.Booking)
	for _, b := range bookings {
		grouped[b.SailingID] = append(grouped[b.SailingID], b)
	}

	return grouped
}
