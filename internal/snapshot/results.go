// internal/snapshot/results.go
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

var paceColumns = []string{
	"sailing_id",
	"itinerary_region",
	"departure_date",
	"capacity_cabins",
	"days_until_departure",
	"current_occupancy_pct",
	"target_occupancy_pct",
	"pace_delta",
}

var forecastColumns = []string{
	"sailing_id",
	"itinerary_region",
	"ship_name",
	"departure_date",
	"days_until_departure",
	"capacity_cabins",
	"current_cabins_sold",
	"current_occupancy_pct",
	"completion_ratio_used",
	"projected_final_occupancy_pct",
	"projected_cabins_sold",
	"avg_fare_per_person",
	"projected_revenue",
	"target_occupancy_pct",
	"projected_vs_target",
	"competitor_price_index",
}

var classificationColumns = append(append([]string(nil), forecastColumns...),
	"status", "status_category", "recommended_action")

// WritePaceAnalysis writes the pace table for future sailings.
func WritePaceAnalysis(path string, records []domain.PaceRecord) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(paceColumns); err != nil {
		return err
	}
	for _, p := range records {
		rec := []string{
			p.SailingID,
			p.Region,
			p.DepartureDate.Format(dateLayout),
			strconv.Itoa(p.CapacityCabins),
			strconv.Itoa(p.DaysUntilDeparture),
			formatFloat(p.CurrentOccupancyPct, 1),
			formatFloat(p.TargetOccupancyPct, 1),
			formatFloat(p.PaceDelta, 1),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func forecastFields(fc domain.Forecast) []string {
	return []string{
		fc.SailingID,
		fc.Region,
		fc.ShipName,
		fc.DepartureDate.Format(dateLayout),
		strconv.Itoa(fc.DaysUntilDeparture),
		strconv.Itoa(fc.CapacityCabins),
		strconv.Itoa(fc.CurrentCabinsSold),
		formatFloat(fc.CurrentOccupancyPct, 1),
		formatFloat(fc.CompletionRatioUsed, 3),
		formatFloat(fc.ProjectedFinalOccupancyPct, 1),
		formatFloat(fc.ProjectedCabinsSold, 1),
		formatFloat(fc.AvgFarePerPerson, 0),
		formatFloat(fc.ProjectedRevenue, 0),
		formatFloat(fc.TargetOccupancyPct, 1),
		formatFloat(fc.ProjectedVsTarget, 1),
		formatFloat(fc.CompetitorPriceIndex, 2),
	}
}

// WriteForecasts writes the revenue forecast table.
func WriteForecasts(path string, forecasts []domain.Forecast) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(forecastColumns); err != nil {
		return err
	}
	for _, fc := range forecasts {
		if err := w.Write(forecastFields(fc)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// LoadForecasts reads a revenue forecast table back, typically to
// reclassify it without re-running the forecaster.
func LoadForecasts(path string) ([]domain.Forecast, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open forecast table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	cols, err := indexColumns(header, forecastColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var forecasts []domain.Forecast
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		fc, err := parseForecast(record{cols: cols, fields: fields})
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		forecasts = append(forecasts, fc)
	}
	return forecasts, nil
}

func parseForecast(r record) (domain.Forecast, error) {
	var fc domain.Forecast

	fc.SailingID = r.get("sailing_id")
	if fc.SailingID == "" {
		return fc, errors.New("sailing_id is empty")
	}
	fc.Region = r.get("itinerary_region")
	fc.ShipName = r.get("ship_name")

	var err error
	if fc.DepartureDate, err = r.getDate("departure_date"); err != nil {
		return fc, err
	}
	if fc.DaysUntilDeparture, err = r.getInt("days_until_departure"); err != nil {
		return fc, err
	}
	if fc.CapacityCabins, err = r.getInt("capacity_cabins"); err != nil {
		return fc, err
	}
	if fc.CurrentCabinsSold, err = r.getInt("current_cabins_sold"); err != nil {
		return fc, err
	}
	if fc.CurrentOccupancyPct, err = r.getFloat("current_occupancy_pct"); err != nil {
		return fc, err
	}
	if fc.CompletionRatioUsed, err = r.getFloat("completion_ratio_used"); err != nil {
		return fc, err
	}
	if fc.ProjectedFinalOccupancyPct, err = r.getFloat("projected_final_occupancy_pct"); err != nil {
		return fc, err
	}
	if fc.ProjectedCabinsSold, err = r.getFloat("projected_cabins_sold"); err != nil {
		return fc, err
	}
	if fc.AvgFarePerPerson, err = r.getFloat("avg_fare_per_person"); err != nil {
		return fc, err
	}
	if fc.ProjectedRevenue, err = r.getFloat("projected_revenue"); err != nil {
		return fc, err
	}
	if fc.TargetOccupancyPct, err = r.getFloat("target_occupancy_pct"); err != nil {
		return fc, err
	}
	if fc.ProjectedVsTarget, err = r.getFloat("projected_vs_target"); err != nil {
		return fc, err
	}
	if fc.CompetitorPriceIndex, err = r.getFloat("competitor_price_index"); err != nil {
		return fc, err
	}
	return fc, nil
}

// WriteClassifications writes the classification table. The ordered
// recommendation list is collapsed into a single pipe-delimited column;
// consumers that need the list use the JSON API instead.
func WriteClassifications(path string, classifications []domain.Classification) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteClassificationsTo(f, classifications)
}

// WriteClassificationsTo writes the classification table to w. The dashboard
// CSV export streams through here without touching the filesystem.
func WriteClassificationsTo(out io.Writer, classifications []domain.Classification) error {
	w := csv.NewWriter(out)
	if err := w.Write(classificationColumns); err != nil {
		return err
	}
	for _, c := range classifications {
		rec := append(forecastFields(c.Forecast),
			c.Status,
			c.StatusCategory,
			JoinRecommendations(c.Recommendations),
		)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// JoinRecommendations renders an ordered recommendation list as the single
// recommended_action column value.
func JoinRecommendations(items []string) string {
	return strings.Join(items, " | ")
}
