// internal/generator/regions.go
package generator

import (
	"strconv"
	"strings"
	"time"
)

var ships = []string{"Explorer", "Endeavour", "Venture", "Resolution"}

var cabinMixClasses = []string{"luxury-heavy", "balanced", "economy-mix"}

// regionSpec describes how a region books: its itineraries, season window,
// fare and capacity ranges, the early/mid/late booking-curve weights, and
// the baseline competitor price index for the market.
type regionSpec struct {
	name           string
	itineraries    []string
	seasonStart    time.Time
	seasonEnd      time.Time
	fareMin        int
	fareMax        int
	capacityMin    int
	capacityMax    int
	earlyWeight    float64
	midWeight      float64
	lateWeight     float64
	competitorBase float64
}

var regionTable = []regionSpec{
	{
		name:           "Antarctica",
		itineraries:    []string{"Antarctica Classic 10D", "Antarctica Explorer 12D", "Falklands & South Georgia 14D"},
		seasonStart:    time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		seasonEnd:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		fareMin:        8000,
		fareMax:        15000,
		capacityMin:    60,
		capacityMax:    100,
		earlyWeight:    0.50,
		midWeight:      0.35,
		lateWeight:     0.15,
		competitorBase: 1.05,
	},
	{
		name:           "Galápagos",
		itineraries:    []string{"Galápagos Outer Loop 7D", "Galápagos Complete 10D"},
		seasonStart:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		seasonEnd:      time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		fareMin:        5000,
		fareMax:        9000,
		capacityMin:    80,
		capacityMax:    120,
		earlyWeight:    0.40,
		midWeight:      0.40,
		lateWeight:     0.20,
		competitorBase: 1.0,
	},
	{
		name:           "Arctic",
		itineraries:    []string{"Svalbard Explorer 8D", "Iceland & Greenland 12D", "Norwegian Fjords 10D"},
		seasonStart:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		seasonEnd:      time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
		fareMin:        6000,
		fareMax:        11000,
		capacityMin:    70,
		capacityMax:    110,
		earlyWeight:    0.45,
		midWeight:      0.35,
		lateWeight:     0.20,
		competitorBase: 1.0,
	},
	{
		name:           "Alaska",
		itineraries:    []string{"Inside Passage 7D", "Glacier Bay & Islands 10D"},
		seasonStart:    time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		seasonEnd:      time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
		fareMin:        4000,
		fareMax:        7500,
		capacityMin:    50,
		capacityMax:    90,
		earlyWeight:    0.30,
		midWeight:      0.40,
		lateWeight:     0.30,
		competitorBase: 0.98,
	},
}

func regionSpecFor(name string) (regionSpec, bool) {
	for _, r := range regionTable {
		if r.name == name {
			return r, true
		}
	}
	return regionSpec{}, false
}

// itineraryDuration parses the trailing day count from an itinerary name,
// e.g. "Antarctica Classic 10D" -> 10.
func itineraryDuration(name string) int {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(fields[len(fields)-1], "D"))
	if err != nil {
		return 0
	}
	return n
}
