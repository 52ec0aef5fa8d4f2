package analytics

import (
	"fmt"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func testSailing(id, region string, departure time.Time, capacity int) domain.Sailing {
	return domain.Sailing{
		SailingID:         id,
		ShipName:          "Explorer",
		Region:            region,
		ItineraryName:     region + " Classic 10D",
		DepartureDate:     departure,
		DurationDays:      10,
		CapacityCabins:    capacity,
		CabinMixClass:     "balanced",
		BaseFarePerPerson: 8000,
	}
}

// bookingsAt creates one booking per day offset, dated relative to departure.
func bookingsAt(sailingID string, departure time.Time, daysOut ...int) []domain.Booking {
	bookings := make([]domain.Booking, 0, len(daysOut))
	for i, days := range daysOut {
		bookings = append(bookings, domain.Booking{
			BookingID:            fmt.Sprintf("B%05d", i+1),
			SailingID:            sailingID,
			BookingDate:          departure.AddDate(0, 0, -days),
			DaysToDeparture:      days,
			Channel:              "direct",
			PartySize:            2,
			FarePaidPerPerson:    8000,
			PriceVersion:         "P1",
			CompetitorPriceIndex: 1.0,
			BookingSegment:       "early_planner",
		})
	}

	return bookings
}

// repeatBookingsAt creates n bookings at the same day offset.
func repeatBookingsAt(sailingID string, departure time.Time, daysOut, n int) []domain.Booking {
	days := make([]int, n)
	for i := range days {
		days[i] = daysOut
	}

	return bookingsAt(sailingID, departure, days...)
}

func testForecastParams() ForecastParams {
	return ForecastParams{
		AnchorDaysOut:          []int{180, 120, 90, 60, 30},
		TargetOccupancyPct:     90.0,
		DefaultCompletionRatio: 1.2,
		DefaultFinalOccupancy:  75.0,
		FareEstimateFactor:     0.95,
		OccupantsPerCabin:      2.0,
	}
}

func testClassifyParams() ClassifyParams {
	return ClassifyParams{
		OverperformThreshold:  5.0,
		AtRiskThreshold:       -5.0,
		CompetitorCheapBand:   0.95,
		CompetitorPremiumBand: 1.05,
		LowOccupancyPct:       50.0,
		SelloutOccupancyPct:   95.0,
		NearWindowDays:        60,
		MidWindowDays:         90,
		FarWindowDays:         120,
	}
}
