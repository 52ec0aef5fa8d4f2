// internal/generator/generator.go
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// Generator produces a synthetic booking dataset. Given the same seed and
// cutoff it always produces the same tables, so seeded snapshots can be
// regenerated instead of versioned.
type Generator struct {
	rng *rand.Rand
}

// New creates a generator with its own seeded source.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds the sailings and bookings tables. asOf is the generation
// cutoff: booking events that would land after it have not happened yet and
// are dropped. Sailing IDs are assigned in generation order; the returned
// table is sorted by departure date.
func (g *Generator) Generate(asOf time.Time) ([]domain.Sailing, []domain.Booking) {
	sailings := g.generateSailings()
	sort.Slice(sailings, func(i, j int) bool {
		if !sailings[i].DepartureDate.Equal(sailings[j].DepartureDate) {
			return sailings[i].DepartureDate.Before(sailings[j].DepartureDate)
		}
		return sailings[i].SailingID < sailings[j].SailingID
	})
	bookings := g.generateBookings(sailings, asOf)
	return sailings, bookings
}

func (g *Generator) generateSailings() []domain.Sailing {
	var sailings []domain.Sailing
	id := 1
	for _, region := range regionTable {
		seasonDays := int(region.seasonEnd.Sub(region.seasonStart).Hours() / 24)
		count := g.randInt(10, 18)
		for i := 0; i < count; i++ {
			itinerary := region.itineraries[g.rng.Intn(len(region.itineraries))]
			sailings = append(sailings, domain.Sailing{
				SailingID:         fmt.Sprintf("S%03d", id),
				ShipName:          ships[g.rng.Intn(len(ships))],
				Region:            region.name,
				ItineraryName:     itinerary,
				DepartureDate:     region.seasonStart.AddDate(0, 0, g.randInt(0, seasonDays)),
				DurationDays:      itineraryDuration(itinerary),
				CapacityCabins:    g.randInt(region.capacityMin, region.capacityMax),
				CabinMixClass:     cabinMixClasses[g.rng.Intn(len(cabinMixClasses))],
				BaseFarePerPerson: float64(g.randInt(region.fareMin, region.fareMax)),
			})
			id++
		}
	}
	return sailings
}

func (g *Generator) generateBookings(sailings []domain.Sailing, asOf time.Time) []domain.Booking {
	var bookings []domain.Booking
	id := 1
	for _, s := range sailings {
		region, ok := regionSpecFor(s.Region)
		if !ok {
			continue
		}

		// Each sailing aims at a target occupancy; its bookings are spread
		// over early/mid/late windows per the region's booking pattern.
		target := int(float64(s.CapacityCabins) * g.randFloat(0.75, 0.95))
		early := int(float64(target) * region.earlyWeight)
		mid := int(float64(target) * region.midWeight)
		late := target - early - mid

		days := make([]int, 0, target)
		for i := 0; i < early; i++ {
			days = append(days, g.randInt(180, 300))
		}
		for i := 0; i < mid; i++ {
			days = append(days, g.randInt(60, 180))
		}
		for i := 0; i < late; i++ {
			days = append(days, g.randInt(0, 60))
		}

		for _, daysOut := range days {
			bookingDate := s.DepartureDate.AddDate(0, 0, -daysOut)
			if bookingDate.After(asOf) {
				continue
			}
			bookings = append(bookings, g.booking(id, s, region, daysOut, bookingDate))
			id++
		}
	}
	return bookings
}

func (g *Generator) booking(id int, s domain.Sailing, region regionSpec, daysOut int, bookingDate time.Time) domain.Booking {
	// Last-minute bookings are discounted more often.
	discountProb := 0.35
	if daysOut > 90 {
		discountProb = 0.15
	}
	discounted := g.rng.Float64() < discountProb

	var fare float64
	if discounted {
		fare = s.BaseFarePerPerson * (1 - g.randFloat(0.10, 0.25))
	} else {
		fare = s.BaseFarePerPerson * g.randFloat(0.95, 1.05)
	}

	// Price versions simulate repricing events over the booking window.
	var version string
	switch {
	case daysOut > 180:
		version = "P1"
	case daysOut > 90:
		version = g.choice("P1", "P2")
	default:
		version = g.choice("P2", "P3")
	}

	var segment string
	switch {
	case daysOut > 180:
		segment = g.choice("early_planner", "early_planner", "loyal_guest")
	case daysOut > 60:
		segment = g.choice("early_planner", "mid_booker", "mid_booker")
	default:
		segment = g.choice("last_minute", "last_minute", "mid_booker")
	}

	return domain.Booking{
		BookingID:            fmt.Sprintf("B%05d", id),
		SailingID:            s.SailingID,
		BookingDate:          bookingDate,
		DaysToDeparture:      daysOut,
		Channel:              g.choice("direct", "direct", "web", "travel_agent"),
		PartySize:            g.intChoice(1, 2, 2, 2, 3, 4),
		FarePaidPerPerson:    roundTo(fare, 2),
		DiscountFlag:         discounted,
		PriceVersion:         version,
		CompetitorPriceIndex: roundTo(region.competitorBase+g.randFloat(-0.15, 0.15), 2),
		BookingSegment:       segment,
	}
}

// randInt returns a uniform integer in [min, max].
func (g *Generator) randInt(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

// randFloat returns a uniform float in [min, max).
func (g *Generator) randFloat(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func (g *Generator) choice(options ...string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *Generator) intChoice(options ...int) int {
	return options[g.rng.Intn(len(options))]
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
