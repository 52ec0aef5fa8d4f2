package generator

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

var testAsOf = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func TestGenerate_Deterministic(t *testing.T) {
	sailingsA, bookingsA := New(42).Generate(testAsOf)
	sailingsB, bookingsB := New(42).Generate(testAsOf)

	if !reflect.DeepEqual(sailingsA, sailingsB) {
		t.Error("Expected identical sailings for the same seed")
	}
	if !reflect.DeepEqual(bookingsA, bookingsB) {
		t.Error("Expected identical bookings for the same seed")
	}

	sailingsC, _ := New(43).Generate(testAsOf)
	if reflect.DeepEqual(sailingsA, sailingsC) {
		t.Error("Expected different sailings for a different seed")
	}
}

func TestGenerate_SailingInvariants(t *testing.T) {
	sailings, _ := New(42).Generate(testAsOf)

	perRegion := make(map[string]int)
	seen := make(map[string]bool)
	for i, s := range sailings {
		if seen[s.SailingID] {
			t.Fatalf("Sailing %d: duplicate id %s", i, s.SailingID)
		}
		seen[s.SailingID] = true
		perRegion[s.Region]++

		region, ok := regionSpecFor(s.Region)
		if !ok {
			t.Fatalf("Sailing %s: unknown region %s", s.SailingID, s.Region)
		}

		validItinerary := false
		for _, it := range region.itineraries {
			if it == s.ItineraryName {
				validItinerary = true
			}
		}
		if !validItinerary {
			t.Fatalf("Sailing %s: itinerary %q not in %s table", s.SailingID, s.ItineraryName, s.Region)
		}
		if want := itineraryDuration(s.ItineraryName); s.DurationDays != want || want <= 0 {
			t.Fatalf("Sailing %s: duration %d does not match itinerary %q", s.SailingID, s.DurationDays, s.ItineraryName)
		}
		if s.CapacityCabins < region.capacityMin || s.CapacityCabins > region.capacityMax {
			t.Fatalf("Sailing %s: capacity %d outside [%d,%d]", s.SailingID, s.CapacityCabins, region.capacityMin, region.capacityMax)
		}
		if s.BaseFarePerPerson < float64(region.fareMin) || s.BaseFarePerPerson > float64(region.fareMax) {
			t.Fatalf("Sailing %s: base fare %v outside [%d,%d]", s.SailingID, s.BaseFarePerPerson, region.fareMin, region.fareMax)
		}
		if s.DepartureDate.Before(region.seasonStart) || s.DepartureDate.After(region.seasonEnd) {
			t.Fatalf("Sailing %s: departure %v outside season", s.SailingID, s.DepartureDate)
		}
		if i > 0 && sailings[i-1].DepartureDate.After(s.DepartureDate) {
			t.Fatalf("Sailing %s: table not sorted by departure date", s.SailingID)
		}
	}

	if len(perRegion) != len(regionTable) {
		t.Errorf("Expected sailings in all %d regions, got %d", len(regionTable), len(perRegion))
	}
	for region, n := range perRegion {
		if n < 10 || n > 18 {
			t.Errorf("Region %s: expected 10-18 sailings, got %d", region, n)
		}
	}
}

func TestGenerate_BookingInvariants(t *testing.T) {
	sailings, bookings := New(42).Generate(testAsOf)
	if len(bookings) == 0 {
		t.Fatal("Expected bookings to be generated")
	}

	byID := make(map[string]domain.Sailing, len(sailings))
	for _, s := range sailings {
		byID[s.SailingID] = s
	}

	channels := map[string]bool{"direct": true, "web": true, "travel_agent": true}
	parties := map[int]bool{1: true, 2: true, 3: true, 4: true}

	for i, b := range bookings {
		if want := fmt.Sprintf("B%05d", i+1); b.BookingID != want {
			t.Fatalf("Booking %d: expected id %s, got %s", i, want, b.BookingID)
		}
		s, ok := byID[b.SailingID]
		if !ok {
			t.Fatalf("Booking %s: unknown sailing %s", b.BookingID, b.SailingID)
		}
		if b.BookingDate.After(testAsOf) {
			t.Fatalf("Booking %s: dated %v after cutoff %v", b.BookingID, b.BookingDate, testAsOf)
		}
		if want := s.DepartureDate.AddDate(0, 0, -b.DaysToDeparture); !b.BookingDate.Equal(want) {
			t.Fatalf("Booking %s: date %v does not match departure minus %d days", b.BookingID, b.BookingDate, b.DaysToDeparture)
		}
		if b.DaysToDeparture < 0 || b.DaysToDeparture > 300 {
			t.Fatalf("Booking %s: days_to_departure %d outside [0,300]", b.BookingID, b.DaysToDeparture)
		}

		base := s.BaseFarePerPerson
		if b.DiscountFlag {
			if b.FarePaidPerPerson < 0.75*base-0.01 || b.FarePaidPerPerson > 0.90*base+0.01 {
				t.Fatalf("Booking %s: discounted fare %v outside 10-25%% off base %v", b.BookingID, b.FarePaidPerPerson, base)
			}
		} else {
			if b.FarePaidPerPerson < 0.95*base-0.01 || b.FarePaidPerPerson > 1.05*base+0.01 {
				t.Fatalf("Booking %s: fare %v outside 5%% noise of base %v", b.BookingID, b.FarePaidPerPerson, base)
			}
		}

		switch {
		case b.DaysToDeparture > 180:
			if b.PriceVersion != "P1" {
				t.Fatalf("Booking %s: expected P1 beyond 180 days, got %s", b.BookingID, b.PriceVersion)
			}
			if b.BookingSegment != "early_planner" && b.BookingSegment != "loyal_guest" {
				t.Fatalf("Booking %s: unexpected early segment %s", b.BookingID, b.BookingSegment)
			}
		case b.DaysToDeparture > 90:
			if b.PriceVersion != "P1" && b.PriceVersion != "P2" {
				t.Fatalf("Booking %s: unexpected mid price version %s", b.BookingID, b.PriceVersion)
			}
		default:
			if b.PriceVersion != "P2" && b.PriceVersion != "P3" {
				t.Fatalf("Booking %s: unexpected late price version %s", b.BookingID, b.PriceVersion)
			}
		}
		if b.DaysToDeparture <= 180 && b.DaysToDeparture > 60 {
			if b.BookingSegment != "early_planner" && b.BookingSegment != "mid_booker" {
				t.Fatalf("Booking %s: unexpected mid segment %s", b.BookingID, b.BookingSegment)
			}
		}
		if b.DaysToDeparture <= 60 {
			if b.BookingSegment != "last_minute" && b.BookingSegment != "mid_booker" {
				t.Fatalf("Booking %s: unexpected late segment %s", b.BookingID, b.BookingSegment)
			}
		}

		if !channels[b.Channel] {
			t.Fatalf("Booking %s: unexpected channel %s", b.BookingID, b.Channel)
		}
		if !parties[b.PartySize] {
			t.Fatalf("Booking %s: unexpected party size %d", b.BookingID, b.PartySize)
		}

		region, _ := regionSpecFor(s.Region)
		if b.CompetitorPriceIndex < region.competitorBase-0.16 || b.CompetitorPriceIndex > region.competitorBase+0.16 {
			t.Fatalf("Booking %s: competitor index %v outside %v±0.15", b.BookingID, b.CompetitorPriceIndex, region.competitorBase)
		}
	}
}

func TestGenerate_CutoffBeforeSeasonYieldsNoBookings(t *testing.T) {
	_, bookings := New(42).Generate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if len(bookings) != 0 {
		t.Errorf("Expected no bookings before any booking window opens, got %d", len(bookings))
	}
}

func TestItineraryDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"Classic", "Antarctica Classic 10D", 10},
		{"ShortLoop", "Galápagos Outer Loop 7D", 7},
		{"TwoWordSuffix", "Falklands & South Georgia 14D", 14},
		{"Empty", "", 0},
		{"NoDuration", "Mystery Voyage", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := itineraryDuration(tc.in); got != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRegionTable_AllItinerariesCarryDurations(t *testing.T) {
	for _, region := range regionTable {
		for _, it := range region.itineraries {
			if itineraryDuration(it) <= 0 {
				t.Errorf("Region %s: itinerary %q has no parseable duration", region.name, it)
			}
		}
	}
}
