// internal/snapshot/sailings.go
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

var sailingColumns = []string{
	"sailing_id",
	"ship_name",
	"itinerary_region",
	"itinerary_name",
	"departure_date",
	"duration_days",
	"capacity_cabins",
	"cabin_mix_class",
	"base_fare_per_person",
}

// LoadSailings reads the sailings table. Structurally invalid rows are
// fatal: out-of-range capacities, durations and fares indicate a producer
// defect upstream, so the loader refuses to substitute defaults.
func LoadSailings(path string) ([]domain.Sailing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sailings table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	cols, err := indexColumns(header, sailingColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var sailings []domain.Sailing
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		sl, err := parseSailing(record{cols: cols, fields: fields})
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		sailings = append(sailings, sl)
	}
	return sailings, nil
}

func parseSailing(r record) (domain.Sailing, error) {
	var s domain.Sailing

	s.SailingID = r.get("sailing_id")
	if s.SailingID == "" {
		return s, errors.New("sailing_id is empty")
	}
	s.ShipName = r.get("ship_name")
	s.Region = r.get("itinerary_region")
	if s.Region == "" {
		return s, errors.New("itinerary_region is empty")
	}
	s.ItineraryName = r.get("itinerary_name")

	var err error
	if s.DepartureDate, err = r.getDate("departure_date"); err != nil {
		return s, err
	}
	if s.DurationDays, err = r.getInt("duration_days"); err != nil {
		return s, err
	}
	if s.DurationDays <= 0 {
		return s, fmt.Errorf("duration_days must be positive, got %d", s.DurationDays)
	}
	if s.CapacityCabins, err = r.getInt("capacity_cabins"); err != nil {
		return s, err
	}
	if s.CapacityCabins <= 0 {
		return s, fmt.Errorf("capacity_cabins must be positive, got %d", s.CapacityCabins)
	}
	s.CabinMixClass = r.get("cabin_mix_class")
	if s.BaseFarePerPerson, err = r.getFloat("base_fare_per_person"); err != nil {
		return s, err
	}
	if s.BaseFarePerPerson <= 0 {
		return s, fmt.Errorf("base_fare_per_person must be positive, got %v", s.BaseFarePerPerson)
	}
	return s, nil
}

// WriteSailings writes the sailings table in the canonical column order.
func WriteSailings(path string, sailings []domain.Sailing) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sailingColumns); err != nil {
		return err
	}
	for _, s := range sailings {
		rec := []string{
			s.SailingID,
			s.ShipName,
			s.Region,
			s.ItineraryName,
			s.DepartureDate.Format(dateLayout),
			strconv.Itoa(s.DurationDays),
			strconv.Itoa(s.CapacityCabins),
			s.CabinMixClass,
			formatFloat(s.BaseFarePerPerson, 0),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
