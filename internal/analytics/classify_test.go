package analytics

import (
	"reflect"
	"testing"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

func testForecast(delta, currentOcc, projectedOcc float64, daysUntil int, competitorIdx float64) domain.Forecast {
	return domain.Forecast{
		SailingID:                  "S100",
		Region:                     "Antarctica",
		ShipName:                   "Venture",
		DepartureDate:              date(2025, time.December, 1),
		DaysUntilDeparture:         daysUntil,
		CapacityCabins:             100,
		CurrentOccupancyPct:        currentOcc,
		ProjectedFinalOccupancyPct: projectedOcc,
		TargetOccupancyPct:         90.0,
		ProjectedVsTarget:          delta,
		CompetitorPriceIndex:       competitorIdx,
	}
}

func TestClassifySailing_StatusThresholds(t *testing.T) {
	tests := []struct {
		name       string
		delta      float64
		wantStatus string
	}{
		{"WellAbove", 10.0, domain.StatusOverperforming},
		{"JustAbove", 5.1, domain.StatusOverperforming},
		{"ExactUpperBoundary", 5.0, domain.StatusOnTrack},
		{"Zero", 0.0, domain.StatusOnTrack},
		{"ExactLowerBoundary", -5.0, domain.StatusOnTrack},
		{"JustBelow", -5.1, domain.StatusAtRisk},
		{"WellBelow", -15.0, domain.StatusAtRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testForecast(tt.delta, 70, 90+tt.delta, 100, 1.0)
			c := ClassifySailing(f, testClassifyParams())
			if c.Status != tt.wantStatus {
				t.Errorf("delta %v: expected %q, got %q", tt.delta, tt.wantStatus, c.Status)
			}
			if c.StatusCategory != domain.StatusCategory(tt.wantStatus) {
				t.Errorf("delta %v: expected category %q, got %q",
					tt.delta, domain.StatusCategory(tt.wantStatus), c.StatusCategory)
			}
		})
	}
}

func TestClassifySailing_AtRiskPricingDiagnosisLeads(t *testing.T) {
	// Competitors meaningfully cheaper, inside 60 days, above the
	// viability floor: pricing actions first, then both time escalations.
	f := testForecast(-12.0, 60.0, 78.0, 45, 0.85)

	c := ClassifySailing(f, testClassifyParams())

	want := []string{
		"Pricing misalignment: competitors 15% cheaper",
		"Recommend targeted price reduction (10-15%) on mid-tier cabins",
		"Audit competitive set pricing weekly",
		"Launch flash sale: 15-20% off select categories (48-72hr window)",
		"Engage travel agent partners with override commission",
		"Coordinate with sales team for direct outreach to qualified leads",
		"Consider bundled value-adds (pre/post hotel, excursions) vs straight discount",
	}
	if !reflect.DeepEqual(c.Recommendations, want) {
		t.Errorf("Unexpected recommendation list:\n got: %q\nwant: %q", c.Recommendations, want)
	}
}

func TestClassifySailing_AtRiskDemandDiagnosis(t *testing.T) {
	// Competitive price, far out, under half full inside the far window.
	f := testForecast(-20.0, 40.0, 70.0, 100, 1.0)

	c := ClassifySailing(f, testClassifyParams())

	want := []string{
		"Increase marketing spend: digital + email remarketing",
		"Activate past guest outreach with limited-time incentive",
		"CRITICAL: Evaluate sailing viability vs consolidation",
		"Prepare passenger communication plan if itinerary change needed",
	}
	if !reflect.DeepEqual(c.Recommendations, want) {
		t.Errorf("Unexpected recommendation list:\n got: %q\nwant: %q", c.Recommendations, want)
	}
}

func TestClassifySailing_OverperformingBranches(t *testing.T) {
	params := testClassifyParams()

	// Premium-priced, far out, near sell-out: every rule fires.
	c := ClassifySailing(testForecast(8.0, 90.0, 98.0, 120, 1.10), params)
	want := []string{
		"Increase price 8-12% for remaining inventory",
		"Consider closed-to-arrival restrictions for lowest categories",
		"Explore charter/group opportunities at premium rates",
		"Activate premium pricing tier for final cabins",
		"Consider waitlist protocol",
	}
	if !reflect.DeepEqual(c.Recommendations, want) {
		t.Errorf("Unexpected full-branch list:\n got: %q\nwant: %q", c.Recommendations, want)
	}

	// Competitive market, close in, short of sell-out: moderate increase only.
	c = ClassifySailing(testForecast(6.0, 88.0, 94.0, 60, 1.0), params)
	want = []string{"Increase price 3-5% for remaining inventory"}
	if !reflect.DeepEqual(c.Recommendations, want) {
		t.Errorf("Unexpected moderate list:\n got: %q\nwant: %q", c.Recommendations, want)
	}
}

func TestClassifySailing_OnTrackBranches(t *testing.T) {
	params := testClassifyParams()
	tests := []struct {
		name          string
		daysUntil     int
		competitorIdx float64
		want          []string
	}{
		{
			"EarlyCycle", 150, 1.02,
			[]string{
				"Monitor pace weekly against forecast",
				"Maintain current pricing strategy",
				"Focus on awareness-building and early booker campaigns",
			},
		},
		{
			"MidCycleCheaperCompetitors", 90, 0.9,
			[]string{
				"Monitor pace weekly against forecast",
				"Prepare shoulder-season promotional offers",
				"Review cabin mix availability for targeted marketing",
				"Note: Competitors priced lower - monitor for pace impact",
			},
		},
		{
			"FinalWindow", 30, 1.0,
			[]string{
				"Monitor pace weekly against forecast",
				"Activate final push: 'Last Chance' messaging",
				"Leverage scarcity messaging in marketing creative",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ClassifySailing(testForecast(0.0, 85.0, 90.0, tt.daysUntil, tt.competitorIdx), params)
			if c.Status != domain.StatusOnTrack {
				t.Fatalf("Expected On Track, got %q", c.Status)
			}
			if !reflect.DeepEqual(c.Recommendations, tt.want) {
				t.Errorf("Unexpected list:\n got: %q\nwant: %q", c.Recommendations, tt.want)
			}
		})
	}
}

func TestClassifySailing_PureAndIdempotent(t *testing.T) {
	params := testClassifyParams()
	f := testForecast(-12.0, 60.0, 78.0, 45, 0.85)

	first := ClassifySailing(f, params)
	second := ClassifySailing(f, params)
	if !reflect.DeepEqual(first, second) {
		t.Error("Classification of identical input differed between calls")
	}

	// Feeding the classified record's own forecast fields back through the
	// classifier reproduces the identical result.
	again := ClassifySailing(first.Forecast, params)
	if again.Status != first.Status || again.StatusCategory != first.StatusCategory {
		t.Errorf("Round trip changed status: %q/%q -> %q/%q",
			first.Status, first.StatusCategory, again.Status, again.StatusCategory)
	}
	if !reflect.DeepEqual(again.Recommendations, first.Recommendations) {
		t.Error("Round trip changed the recommendation list")
	}
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	forecasts := []domain.Forecast{
		testForecast(10.0, 90.0, 100.0, 120, 1.1),
		testForecast(0.0, 80.0, 90.0, 80, 1.0),
		testForecast(-12.0, 60.0, 78.0, 45, 0.9),
	}

	classified := ClassifyAll(forecasts, testClassifyParams())

	if len(classified) != 3 {
		t.Fatalf("Expected 3 classifications, got %d", len(classified))
	}
	wantStatuses := []string{domain.StatusOverperforming, domain.StatusOnTrack, domain.StatusAtRisk}
	for i, want := range wantStatuses {
		if classified[i].Status != want {
			t.Errorf("Position %d: expected %q, got %q", i, want, classified[i].Status)
		}
	}
}
