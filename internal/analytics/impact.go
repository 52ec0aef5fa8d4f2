package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// ImpactParams carries the revenue-impact assumptions.
type ImpactParams struct {
	// OccupantsPerCabin scales cabin counts to passenger revenue.
	OccupantsPerCabin float64
	// OverperformUpliftPct is the fractional price increase assumed on the
	// remaining inventory of overperforming sailings, e.g. 0.05 for 5%.
	OverperformUpliftPct float64
}

// ComputeRevenueImpact totals the money at stake across a classified
// portfolio. At-risk exposure is the fare value of the occupancy gap between
// target and projection; pricing opportunity is the uplift captured by
// repricing the unsold inventory of overperforming sailings. Each sailing is
// valued at its own average fare per person.
func ComputeRevenueImpact(classifications []domain.Classification, p ImpactParams) domain.RevenueImpact {
	occupants := decimal.NewFromFloat(p.OccupantsPerCabin)
	uplift := decimal.NewFromFloat(p.OverperformUpliftPct)

	impact := domain.RevenueImpact{
		RevenueAtRisk:      decimal.Zero,
		PricingOpportunity: decimal.Zero,
	}

	for _, c := range classifications {
		switch c.Status {
		case domain.StatusAtRisk:
			impact.AtRiskSailings++
			gapPct := c.TargetOccupancyPct - c.ProjectedFinalOccupancyPct
			if gapPct <= 0 {
				continue
			}
			cabinsGap := decimal.NewFromFloat(gapPct / 100).
				Mul(decimal.NewFromInt(int64(c.CapacityCabins)))
			fare := decimal.NewFromFloat(c.AvgFarePerPerson)
			impact.RevenueAtRisk = impact.RevenueAtRisk.
				Add(cabinsGap.Mul(fare).Mul(occupants))

		case domain.StatusOverperforming:
			impact.OverperformingSailings++
			remainingPct := 100 - c.CurrentOccupancyPct
			if remainingPct <= 0 {
				continue
			}
			remainingCabins := decimal.NewFromFloat(remainingPct / 100).
				Mul(decimal.NewFromInt(int64(c.CapacityCabins)))
			fare := decimal.NewFromFloat(c.AvgFarePerPerson)
			impact.PricingOpportunity = impact.PricingOpportunity.
				Add(remainingCabins.Mul(fare).Mul(uplift).Mul(occupants))
		}
	}

	impact.RevenueAtRisk = impact.RevenueAtRisk.Round(2)
	impact.PricingOpportunity = impact.PricingOpportunity.Round(2)
	impact.TotalOpportunity = impact.RevenueAtRisk.Add(impact.PricingOpportunity)

	return impact
}
