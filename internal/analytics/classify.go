package analytics

import (
	"fmt"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// neutralCompetitorIndex is price parity with the competitive set.
const neutralCompetitorIndex = 1.0

// ClassifyParams carries the status thresholds and recommendation bands.
type ClassifyParams struct {
	OverperformThreshold  float64
	AtRiskThreshold       float64
	CompetitorCheapBand   float64
	CompetitorPremiumBand float64
	LowOccupancyPct       float64
	SelloutOccupancyPct   float64
	NearWindowDays        int
	MidWindowDays         int
	FarWindowDays         int
}

// ruleInput is the classifier's full view of one sailing. Classification is
// a pure function of these fields: same input, same status, same actions in
// the same order.
type ruleInput struct {
	delta         float64
	currentOcc    float64
	projectedOcc  float64
	daysUntil     int
	competitorIdx float64
	params        ClassifyParams
}

// actionRule emits recommendations when its condition holds. Rules are
// evaluated in declaration order and their output order is part of the
// contract: operators read the first action as the leading diagnosis.
type actionRule struct {
	applies func(in ruleInput) bool
	actions func(in ruleInput) []string
}

// Overperforming: strong demand, projected to beat target. Optimize revenue.
var overperformingRules = []actionRule{
	{
		// Selling well while cheaper than the competitive set: pricing power.
		applies: func(in ruleInput) bool { return in.competitorIdx > in.params.CompetitorPremiumBand },
		actions: func(in ruleInput) []string {
			return []string{
				"Increase price 8-12% for remaining inventory",
				"Consider closed-to-arrival restrictions for lowest categories",
			}
		},
	},
	{
		applies: func(in ruleInput) bool { return in.competitorIdx <= in.params.CompetitorPremiumBand },
		actions: func(in ruleInput) []string {
			return []string{"Increase price 3-5% for remaining inventory"}
		},
	},
	{
		applies: func(in ruleInput) bool { return in.daysUntil > in.params.MidWindowDays },
		actions: func(in ruleInput) []string {
			return []string{"Explore charter/group opportunities at premium rates"}
		},
	},
	{
		applies: func(in ruleInput) bool { return in.projectedOcc > in.params.SelloutOccupancyPct },
		actions: func(in ruleInput) []string {
			return []string{
				"Activate premium pricing tier for final cabins",
				"Consider waitlist protocol",
			}
		},
	},
}

// At Risk: projected to miss target. Diagnose the cause before stimulating,
// then escalate by time to departure.
var atRiskRules = []actionRule{
	{
		applies: func(in ruleInput) bool { return in.competitorIdx < in.params.CompetitorCheapBand },
		actions: func(in ruleInput) []string {
			priceGap := (1 - in.competitorIdx) * 100
			return []string{
				fmt.Sprintf("Pricing misalignment: competitors %.0f%% cheaper", priceGap),
				"Recommend targeted price reduction (10-15%) on mid-tier cabins",
				"Audit competitive set pricing weekly",
			}
		},
	},
	{
		// Price is competitive, so the gap is awareness or value perception.
		applies: func(in ruleInput) bool { return in.competitorIdx >= in.params.CompetitorCheapBand },
		actions: func(in ruleInput) []string {
			return []string{
				"Increase marketing spend: digital + email remarketing",
				"Activate past guest outreach with limited-time incentive",
			}
		},
	},
	{
		applies: func(in ruleInput) bool { return in.daysUntil < in.params.MidWindowDays },
		actions: func(in ruleInput) []string {
			return []string{
				"Launch flash sale: 15-20% off select categories (48-72hr window)",
				"Engage travel agent partners with override commission",
			}
		},
	},
	{
		applies: func(in ruleInput) bool { return in.daysUntil < in.params.NearWindowDays },
		actions: func(in ruleInput) []string {
			return []string{
				"Coordinate with sales team for direct outreach to qualified leads",
				"Consider bundled value-adds (pre/post hotel, excursions) vs straight discount",
			}
		},
	},
	{
		// Less than half full inside the far window: viability question.
		applies: func(in ruleInput) bool {
			return in.currentOcc < in.params.LowOccupancyPct && in.daysUntil < in.params.FarWindowDays
		},
		actions: func(in ruleInput) []string {
			return []string{
				"CRITICAL: Evaluate sailing viability vs consolidation",
				"Prepare passenger communication plan if itinerary change needed",
			}
		},
	},
}

// On Track: performing as expected. Monitor, with stage-appropriate prep.
var onTrackRules = []actionRule{
	{
		applies: func(in ruleInput) bool { return true },
		actions: func(in ruleInput) []string {
			return []string{"Monitor pace weekly against forecast"}
		},
	},
	{
		applies: func(in ruleInput) bool { return in.daysUntil > in.params.FarWindowDays },
		actions: func(in ruleInput) []string {
			return []string{
				"Maintain current pricing strategy",
				"Focus on awareness-building and early booker campaigns",
			}
		},
	},
	{
		applies: func(in ruleInput) bool {
			return in.daysUntil <= in.params.FarWindowDays && in.daysUntil > in.params.NearWindowDays
		},
		actions: func(in ruleInput) []string {
			return []string{
				"Prepare shoulder-season promotional offers",
				"Review cabin mix availability for targeted marketing",
			}
		},
	},
	{
		applies: func(in ruleInput) bool { return in.daysUntil <= in.params.NearWindowDays },
		actions: func(in ruleInput) []string {
			return []string{
				"Activate final push: 'Last Chance' messaging",
				"Leverage scarcity messaging in marketing creative",
			}
		},
	},
	{
		applies: func(in ruleInput) bool { return in.competitorIdx < neutralCompetitorIndex },
		actions: func(in ruleInput) []string {
			return []string{"Note: Competitors priced lower - monitor for pace impact"}
		},
	},
}

// ClassifySailing buckets one forecast into a status and synthesizes the
// ordered recommendation list for that status. Both threshold comparisons
// are strict: a delta of exactly +5.0 or -5.0 stays On Track.
func ClassifySailing(f domain.Forecast, p ClassifyParams) domain.Classification {
	in := ruleInput{
		delta:         f.ProjectedVsTarget,
		currentOcc:    f.CurrentOccupancyPct,
		projectedOcc:  f.ProjectedFinalOccupancyPct,
		daysUntil:     f.DaysUntilDeparture,
		competitorIdx: f.CompetitorPriceIndex,
		params:        p,
	}

	var status string
	var rules []actionRule
	switch {
	case in.delta > p.OverperformThreshold:
		status = domain.StatusOverperforming
		rules = overperformingRules
	case in.delta < p.AtRiskThreshold:
		status = domain.StatusAtRisk
		rules = atRiskRules
	default:
		status = domain.StatusOnTrack
		rules = onTrackRules
	}

	return domain.Classification{
		Forecast:        f,
		Status:          status,
		StatusCategory:  domain.StatusCategory(status),
		Recommendations: applyRules(rules, in),
	}
}

func applyRules(rules []actionRule, in ruleInput) []string {
	var actions []string
	for _, rule := range rules {
		if rule.applies(in) {
			actions = append(actions, rule.actions(in)...)
		}
	}

	return actions
}

// ClassifyAll classifies every forecast, preserving input order.
func ClassifyAll(forecasts []domain.Forecast, p ClassifyParams) []domain.Classification {
	out := make([]domain.Classification, len(forecasts))
	for i, f := range forecasts {
		out[i] = ClassifySailing(f, p)
	}

	return out
}
