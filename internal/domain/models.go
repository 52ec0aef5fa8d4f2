// internal/domain/models.go
package domain

import "time"

// Sailing represents one scheduled voyage instance. Immutable once loaded.
type Sailing struct {
	SailingID         string    `json:"sailing_id"`
	ShipName          string    `json:"ship_name"`
	Region            string    `json:"itinerary_region"`
	ItineraryName     string    `json:"itinerary_name"`
	DepartureDate     time.Time `json:"departure_date"`
	DurationDays      int       `json:"duration_days"`
	CapacityCabins    int       `json:"capacity_cabins"`
	CabinMixClass     string    `json:"cabin_mix_class"`
	BaseFarePerPerson float64   `json:"base_fare_per_person"`
}

// Booking represents a single cabin sale against a sailing. One booking sells
// exactly one cabin; party size is recorded but never consumes extra cabins.
type Booking struct {
	BookingID            string    `json:"booking_id"`
	SailingID            string    `json:"sailing_id"`
	BookingDate          time.Time `json:"booking_date"`
	DaysToDeparture      int       `json:"days_to_departure"`
	Channel              string    `json:"channel"`
	PartySize            int       `json:"party_size"`
	FarePaidPerPerson    float64   `json:"fare_paid_per_person"`
	DiscountFlag         bool      `json:"discount_flag"`
	PriceVersion         string    `json:"price_version"`
	CompetitorPriceIndex float64   `json:"competitor_price_index"`
	BookingSegment       string    `json:"booking_segment"`
}

// CurvePoint is one step of a sailing's cumulative booking curve, ordered by
// decreasing days to departure (earliest booking first).
type CurvePoint struct {
	DaysToDeparture  int     `json:"days_to_departure"`
	CumulativeCabins int     `json:"cumulative_cabins"`
	PercentFilled    float64 `json:"percent_filled"`
}

// CompletionSample is one retained (historical sailing, anchor) observation:
// occupancy at the anchor offset and the occupancy the sailing finished at.
// Samples with zero occupancy at the anchor are never retained.
type CompletionSample struct {
	SailingID         string    `json:"sailing_id"`
	Region            string    `json:"region"`
	DepartureDate     time.Time `json:"departure_date"`
	AnchorDaysOut     int       `json:"anchor_days_out"`
	OccupancyAtAnchor float64   `json:"occupancy_at_anchor"`
	FinalOccupancy    float64   `json:"final_occupancy"`
	CompletionRatio   float64   `json:"completion_ratio"`
}

// RegionAnchor keys the completion-ratio lookup table.
type RegionAnchor struct {
	Region        string
	AnchorDaysOut int
}

// RegionAnchorRatio is the aggregated completion multiplier for a region at
// an anchor offset, with the number of samples behind it.
type RegionAnchorRatio struct {
	Region             string  `json:"region"`
	AnchorDaysOut      int     `json:"anchor_days_out"`
	AvgCompletionRatio float64 `json:"avg_completion_ratio"`
	SampleSize         int     `json:"sample_size"`
}

// Forecast represents the projected outcome for one future sailing.
type Forecast struct {
	SailingID                  string    `json:"sailing_id"`
	Region                     string    `json:"itinerary_region"`
	ShipName                   string    `json:"ship_name"`
	DepartureDate              time.Time `json:"departure_date"`
	DaysUntilDeparture         int       `json:"days_until_departure"`
	CapacityCabins             int       `json:"capacity_cabins"`
	CurrentCabinsSold          int       `json:"current_cabins_sold"`
	CurrentOccupancyPct        float64   `json:"current_occupancy_pct"`
	CompletionRatioUsed        float64   `json:"completion_ratio_used"`
	ProjectedFinalOccupancyPct float64   `json:"projected_final_occupancy_pct"`
	ProjectedCabinsSold        float64   `json:"projected_cabins_sold"`
	AvgFarePerPerson           float64   `json:"avg_fare_per_person"`
	ProjectedRevenue           float64   `json:"projected_revenue"`
	TargetOccupancyPct         float64   `json:"target_occupancy_pct"`
	ProjectedVsTarget          float64   `json:"projected_vs_target"`
	CompetitorPriceIndex       float64   `json:"competitor_price_index"`
}

// Classification represents a forecasted sailing with its status bucket and
// the ordered list of recommended actions. Joining recommendations with a
// pipe separator is left to the writers and exports.
type Classification struct {
	Forecast
	Status          string   `json:"status"`
	StatusCategory  string   `json:"status_category"`
	Recommendations []string `json:"recommendations"`
}

// PaceRecord compares a future sailing's current occupancy against the
// historical average for its region at the nearest observed days-out.
type PaceRecord struct {
	SailingID           string    `json:"sailing_id"`
	Region              string    `json:"itinerary_region"`
	DepartureDate       time.Time `json:"departure_date"`
	CapacityCabins      int       `json:"capacity_cabins"`
	DaysUntilDeparture  int       `json:"days_until_departure"`
	CurrentOccupancyPct float64   `json:"current_occupancy_pct"`
	TargetOccupancyPct  float64   `json:"target_occupancy_pct"`
	PaceDelta           float64   `json:"pace_delta"`
}
