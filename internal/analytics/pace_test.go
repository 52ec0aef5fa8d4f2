package analytics

import (
	"testing"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

func TestBuildRegionAverageCurves(t *testing.T) {
	s1 := testSailing("H001", "Antarctica", date(2025, time.June, 1), 10)
	s2 := testSailing("H002", "Arctic", date(2025, time.July, 1), 20)
	bookings := map[string][]domain.Booking{
		"H001": bookingsAt("H001", s1.DepartureDate, 100, 100, 50),
		"H002": bookingsAt("H002", s2.DepartureDate, 80),
	}

	averages := BuildRegionAverageCurves([]domain.Sailing{s1, s2}, bookings)

	antarctica := averages["Antarctica"]
	if len(antarctica) != 2 {
		t.Fatalf("Expected 2 observed days for Antarctica, got %d", len(antarctica))
	}
	// Two points at day 100 (10% and 20% filled) average to 15.
	if antarctica[100] != 15.0 {
		t.Errorf("Expected mean 15.0 at day 100, got %v", antarctica[100])
	}
	if antarctica[50] != 30.0 {
		t.Errorf("Expected mean 30.0 at day 50, got %v", antarctica[50])
	}
	if averages["Arctic"][80] != 5.0 {
		t.Errorf("Expected mean 5.0 at day 80 for Arctic, got %v", averages["Arctic"][80])
	}
}

func TestAnalyzePace_NearestObservedDay(t *testing.T) {
	averages := RegionDayAverages{
		"Antarctica": {100: 15.0, 50: 30.0},
	}
	ref := date(2025, time.September, 1)

	// 70 days out: day 50 is closer than day 100.
	sailing := testSailing("S030", "Antarctica", ref.AddDate(0, 0, 70), 10)
	bookings := map[string][]domain.Booking{
		"S030": repeatBookingsAt("S030", sailing.DepartureDate, 120, 4),
	}

	records := AnalyzePace([]domain.Sailing{sailing}, bookings, averages, ref, 50.0)

	if len(records) != 1 {
		t.Fatalf("Expected 1 pace record, got %d", len(records))
	}
	r := records[0]
	if r.DaysUntilDeparture != 70 {
		t.Errorf("Expected 70 days until departure, got %d", r.DaysUntilDeparture)
	}
	if r.CurrentOccupancyPct != 40.0 {
		t.Errorf("Expected current occupancy 40.0, got %v", r.CurrentOccupancyPct)
	}
	if r.TargetOccupancyPct != 30.0 {
		t.Errorf("Expected target from day 50 (30.0), got %v", r.TargetOccupancyPct)
	}
	if r.PaceDelta != 10.0 {
		t.Errorf("Expected pace delta 10.0, got %v", r.PaceDelta)
	}
}

func TestAnalyzePace_EquidistantPrefersLargerDay(t *testing.T) {
	averages := RegionDayAverages{
		"Antarctica": {100: 15.0, 50: 30.0},
	}
	ref := date(2025, time.September, 1)

	// 75 days out sits exactly between the observed days 50 and 100.
	sailing := testSailing("S031", "Antarctica", ref.AddDate(0, 0, 75), 10)
	bookings := map[string][]domain.Booking{
		"S031": repeatBookingsAt("S031", sailing.DepartureDate, 120, 4),
	}

	records := AnalyzePace([]domain.Sailing{sailing}, bookings, averages, ref, 50.0)

	if records[0].TargetOccupancyPct != 15.0 {
		t.Errorf("Expected equidistant lookup to use day 100 (15.0), got %v", records[0].TargetOccupancyPct)
	}
	if records[0].PaceDelta != 25.0 {
		t.Errorf("Expected pace delta 25.0, got %v", records[0].PaceDelta)
	}
}

func TestAnalyzePace_DefaultTargetAndPartition(t *testing.T) {
	ref := date(2025, time.September, 1)
	departed := testSailing("S032", "Galápagos", date(2025, time.March, 1), 10)
	future := testSailing("S033", "Galápagos", ref.AddDate(0, 0, 40), 10)
	bookings := map[string][]domain.Booking{
		"S033": repeatBookingsAt("S033", future.DepartureDate, 90, 3),
	}

	records := AnalyzePace([]domain.Sailing{departed, future}, bookings, RegionDayAverages{}, ref, 50.0)

	if len(records) != 1 {
		t.Fatalf("Expected only the future sailing, got %d records", len(records))
	}
	r := records[0]
	if r.SailingID != "S033" {
		t.Errorf("Expected S033, got %s", r.SailingID)
	}
	if r.TargetOccupancyPct != 50.0 {
		t.Errorf("Expected flat default target 50.0, got %v", r.TargetOccupancyPct)
	}
	if r.PaceDelta != -20.0 {
		t.Errorf("Expected pace delta 30 - 50 = -20.0, got %v", r.PaceDelta)
	}
}
