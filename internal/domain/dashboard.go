package domain

import "github.com/shopspring/decimal"

// PortfolioSummary represents the dashboard headline numbers across the
// filtered set of forecasted sailings.
type PortfolioSummary struct {
	TotalSailings         int     `json:"total_sailings"`
	AvgCurrentOccupancy   float64 `json:"avg_current_occupancy_pct"`
	AvgProjectedOccupancy float64 `json:"avg_projected_occupancy_pct"`
	AvgProjectedVsTarget  float64 `json:"avg_projected_vs_target"`
	TotalProjectedRevenue float64 `json:"total_projected_revenue"`
	AtRiskCount           int     `json:"at_risk_count"`
	OnTrackCount          int     `json:"on_track_count"`
	OverperformingCount   int     `json:"overperforming_count"`
}

// StatusCount represents the number of sailings in one status bucket.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// RegionStatusCount represents one cell of the region-by-status breakdown.
type RegionStatusCount struct {
	Region string `json:"region"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusDistribution aggregates status counts overall and per region.
type StatusDistribution struct {
	ByStatus []StatusCount       `json:"by_status"`
	ByRegion []RegionStatusCount `json:"by_region"`
}

// BookingInsights summarizes the lead-time mix of one sailing's bookings.
type BookingInsights struct {
	TotalBookings   int     `json:"total_bookings"`
	EarlyBookings   int     `json:"early_bookings"`
	RecentBookings  int     `json:"recent_bookings"`
	AvgLeadTimeDays float64 `json:"avg_lead_time_days"`
}

// SailingDeepDive bundles everything the dashboard shows for one sailing.
type SailingDeepDive struct {
	Classification Classification  `json:"classification"`
	BookingCurve   []CurvePoint    `json:"booking_curve"`
	Insights       BookingInsights `json:"insights"`
	Pace           *PaceRecord     `json:"pace,omitempty"`
}

// RevenueImpact quantifies the money at stake across the portfolio: the gap
// to target on at-risk sailings and the pricing upside on overperformers.
type RevenueImpact struct {
	AtRiskSailings         int             `json:"at_risk_sailings"`
	RevenueAtRisk          decimal.Decimal `json:"revenue_at_risk"`
	OverperformingSailings int             `json:"overperforming_sailings"`
	PricingOpportunity     decimal.Decimal `json:"pricing_opportunity"`
	TotalOpportunity       decimal.Decimal `json:"total_opportunity"`
}

// DashboardFilter narrows dashboard queries. Empty slices mean "all".
type DashboardFilter struct {
	Regions  []string `json:"regions"`
	Ships    []string `json:"ships"`
	Statuses []string `json:"statuses"`
}

// FilterOptions lists the distinct values available for dashboard filters.
type FilterOptions struct {
	Regions  []string `json:"regions"`
	Ships    []string `json:"ships"`
	Statuses []string `json:"statuses"`
}
