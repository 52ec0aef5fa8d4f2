package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/expeditionrm/revenue-studio/internal/analytics"
	"github.com/expeditionrm/revenue-studio/internal/cache"
	"github.com/expeditionrm/revenue-studio/internal/domain"
	"github.com/expeditionrm/revenue-studio/internal/pipeline"
	"github.com/expeditionrm/revenue-studio/internal/snapshot"
)

var (
	// ErrNotReady is returned before the first successful refresh has
	// populated the analytics view.
	ErrNotReady = errors.New("analytics results not ready")
	// ErrSailingNotFound is returned for deep dives on unknown sailing IDs.
	ErrSailingNotFound = errors.New("sailing not found")
)

// Lead-time buckets for the deep-dive booking insights.
const (
	earlyBookingDays  = 180
	recentBookingDays = 60
)

// RevenueService serves dashboard queries from an in-memory analytics view.
// Refresh recomputes the view from the snapshot tables and swaps it
// atomically; reads never block on a running refresh.
type RevenueService struct {
	runner *pipeline.Runner
	cache  cache.DashboardCache
	impact analytics.ImpactParams

	mu      sync.RWMutex
	results *pipeline.Results
}

func NewRevenueService(runner *pipeline.Runner, cacheImpl cache.DashboardCache, impact analytics.ImpactParams) *RevenueService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &RevenueService{runner: runner, cache: cacheImpl, impact: impact}
}

// Refresh runs the analytics pipeline against the snapshot tables as of
// refDate and installs the result as the serving view. The previous view
// keeps serving until the new one is ready.
func (s *RevenueService) Refresh(ctx context.Context, refDate time.Time) error {
	results, err := s.runner.Compute(ctx, refDate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.results = results
	s.mu.Unlock()

	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("Dashboard cache invalidation failed")
	}

	log.Info().
		Time("analysis_date", results.AnalysisDate).
		Int("future_sailings", len(results.Future)).
		Msg("Analytics view refreshed")

	return nil
}

func (s *RevenueService) view() (*pipeline.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.results == nil {
		return nil, ErrNotReady
	}
	return s.results, nil
}

// AnalysisDate reports the reference date of the current view.
func (s *RevenueService) AnalysisDate() (time.Time, error) {
	results, err := s.view()
	if err != nil {
		return time.Time{}, err
	}
	return results.AnalysisDate, nil
}

// Summary returns portfolio-level KPIs over the filtered forecast set.
func (s *RevenueService) Summary(ctx context.Context, filter domain.DashboardFilter) (*domain.PortfolioSummary, error) {
	results, err := s.view()
	if err != nil {
		return nil, err
	}

	if summary, ok, err := s.cache.GetSummary(ctx, filter); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("Dashboard cache get failed")
	}

	summary := buildSummary(filterClassifications(results.Classifications, filter))

	if err := s.cache.SetSummary(ctx, filter, summary); err != nil {
		log.Warn().Err(err).Msg("Dashboard cache set failed")
	}

	return summary, nil
}

// StatusDistribution counts sailings per status, overall and per region.
func (s *RevenueService) StatusDistribution(filter domain.DashboardFilter) (*domain.StatusDistribution, error) {
	results, err := s.view()
	if err != nil {
		return nil, err
	}

	classifications := filterClassifications(results.Classifications, filter)

	statusCounts := make(map[string]int)
	regionCounts := make(map[string]map[string]int)
	for _, c := range classifications {
		statusCounts[c.Status]++
		byStatus := regionCounts[c.Region]
		if byStatus == nil {
			byStatus = make(map[string]int)
			regionCounts[c.Region] = byStatus
		}
		byStatus[c.Status]++
	}

	dist := &domain.StatusDistribution{}
	for _, status := range domain.Statuses() {
		dist.ByStatus = append(dist.ByStatus, domain.StatusCount{
			Status: status,
			Count:  statusCounts[status],
		})
	}

	regions := make([]string, 0, len(regionCounts))
	for region := range regionCounts {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	for _, region := range regions {
		for _, status := range domain.Statuses() {
			count := regionCounts[region][status]
			if count == 0 {
				continue
			}
			dist.ByRegion = append(dist.ByRegion, domain.RegionStatusCount{
				Region: region,
				Status: status,
				Count:  count,
			})
		}
	}

	return dist, nil
}

// Sailings returns the filtered classification detail in urgency order:
// at-risk sailings first, soonest departures first within a status.
func (s *RevenueService) Sailings(filter domain.DashboardFilter) ([]domain.Classification, error) {
	results, err := s.view()
	if err != nil {
		return nil, err
	}

	classifications := filterClassifications(results.Classifications, filter)

	sort.SliceStable(classifications, func(i, j int) bool {
		a, b := classifications[i], classifications[j]
		if ra, rb := domain.StatusRank(a.Status), domain.StatusRank(b.Status); ra != rb {
			return ra < rb
		}
		if a.DaysUntilDeparture != b.DaysUntilDeparture {
			return a.DaysUntilDeparture < b.DaysUntilDeparture
		}
		return a.SailingID < b.SailingID
	})

	return classifications, nil
}

// DeepDive returns the full dashboard view of one forecasted sailing.
func (s *RevenueService) DeepDive(sailingID string) (*domain.SailingDeepDive, error) {
	results, err := s.view()
	if err != nil {
		return nil, err
	}

	for _, c := range results.Classifications {
		if c.SailingID != sailingID {
			continue
		}

		dive := &domain.SailingDeepDive{
			Classification: c,
			BookingCurve:   results.Curves[sailingID],
			Insights:       buildInsights(results.BookingsBySailing[sailingID], results.AnalysisDate),
		}
		if pace, ok := results.PaceBySailing[sailingID]; ok {
			paceCopy := pace
			dive.Pace = &paceCopy
		}

		return dive, nil
	}

	return nil, ErrSailingNotFound
}

// Impact totals revenue at risk and pricing opportunity across the whole
// classified portfolio.
func (s *RevenueService) Impact() (*domain.RevenueImpact, error) {
	results, err := s.view()
	if err != nil {
		return nil, err
	}

	impact := analytics.ComputeRevenueImpact(results.Classifications, s.impact)
	return &impact, nil
}

// FilterOptions lists the distinct filterable values in the current view.
func (s *RevenueService) FilterOptions() (*domain.FilterOptions, error) {
	results, err := s.view()
	if err != nil {
		return nil, err
	}

	regionSet := make(map[string]bool)
	shipSet := make(map[string]bool)
	for _, c := range results.Classifications {
		regionSet[c.Region] = true
		shipSet[c.ShipName] = true
	}

	return &domain.FilterOptions{
		Regions:  sortedKeys(regionSet),
		Ships:    sortedKeys(shipSet),
		Statuses: domain.Statuses(),
	}, nil
}

// ExportCSV renders the filtered classification table, urgency-ordered, as
// CSV for download.
func (s *RevenueService) ExportCSV(filter domain.DashboardFilter) ([]byte, error) {
	classifications, err := s.Sailings(filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := snapshot.WriteClassificationsTo(&buf, classifications); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func buildSummary(classifications []domain.Classification) *domain.PortfolioSummary {
	summary := &domain.PortfolioSummary{TotalSailings: len(classifications)}

	var currentSum, projectedSum, deltaSum, revenueSum float64
	for _, c := range classifications {
		currentSum += c.CurrentOccupancyPct
		projectedSum += c.ProjectedFinalOccupancyPct
		deltaSum += c.ProjectedVsTarget
		revenueSum += c.ProjectedRevenue

		switch c.Status {
		case domain.StatusAtRisk:
			summary.AtRiskCount++
		case domain.StatusOnTrack:
			summary.OnTrackCount++
		case domain.StatusOverperforming:
			summary.OverperformingCount++
		}
	}

	if n := float64(len(classifications)); n > 0 {
		summary.AvgCurrentOccupancy = round1(currentSum / n)
		summary.AvgProjectedOccupancy = round1(projectedSum / n)
		summary.AvgProjectedVsTarget = round1(deltaSum / n)
	}
	summary.TotalProjectedRevenue = revenueSum

	return summary
}

func buildInsights(bookings []domain.Booking, refDate time.Time) domain.BookingInsights {
	observed := analytics.BookingsOnOrBefore(bookings, refDate)

	insights := domain.BookingInsights{TotalBookings: len(observed)}

	var leadSum int
	for _, b := range observed {
		leadSum += b.DaysToDeparture
		if b.DaysToDeparture >= earlyBookingDays {
			insights.EarlyBookings++
		}
		if b.DaysToDeparture < recentBookingDays {
			insights.RecentBookings++
		}
	}

	if len(observed) > 0 {
		insights.AvgLeadTimeDays = round1(float64(leadSum) / float64(len(observed)))
	}

	return insights
}

// filterClassifications always returns a fresh slice so callers may reorder
// it without touching the shared view.
func filterClassifications(classifications []domain.Classification, filter domain.DashboardFilter) []domain.Classification {
	regions := toSet(filter.Regions)
	ships := toSet(filter.Ships)
	statuses := toSet(filter.Statuses)

	filtered := make([]domain.Classification, 0, len(classifications))
	for _, c := range classifications {
		if len(regions) > 0 && !regions[c.Region] {
			continue
		}
		if len(ships) > 0 && !ships[c.ShipName] {
			continue
		}
		if len(statuses) > 0 && !statuses[c.Status] {
			continue
		}
		filtered = append(filtered, c)
	}

	return filtered
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
