// internal/snapshot/bookings.go
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

var bookingColumns = []string{
	"booking_id",
	"sailing_id",
	"booking_date",
	"days_to_departure",
	"channel",
	"party_size",
	"fare_paid_per_person",
	"discount_flag",
	"price_version",
	"competitor_price_index",
	"booking_segment",
}

// LoadBookings reads the bookings table. Negative days_to_departure and
// malformed flags are fatal for the same reason as in LoadSailings.
func LoadBookings(path string) ([]domain.Booking, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bookings table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	cols, err := indexColumns(header, bookingColumns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var bookings []domain.Booking
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		b, err := parseBooking(record{cols: cols, fields: fields})
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func parseBooking(r record) (domain.Booking, error) {
	var b domain.Booking

	b.BookingID = r.get("booking_id")
	if b.BookingID == "" {
		return b, errors.New("booking_id is empty")
	}
	b.SailingID = r.get("sailing_id")
	if b.SailingID == "" {
		return b, errors.New("sailing_id is empty")
	}

	var err error
	if b.BookingDate, err = r.getDate("booking_date"); err != nil {
		return b, err
	}
	if b.DaysToDeparture, err = r.getInt("days_to_departure"); err != nil {
		return b, err
	}
	if b.DaysToDeparture < 0 {
		return b, fmt.Errorf("days_to_departure must not be negative, got %d", b.DaysToDeparture)
	}
	b.Channel = r.get("channel")
	if b.PartySize, err = r.getInt("party_size"); err != nil {
		return b, err
	}
	if b.FarePaidPerPerson, err = r.getFloat("fare_paid_per_person"); err != nil {
		return b, err
	}

	switch v := r.get("discount_flag"); v {
	case "0":
		b.DiscountFlag = false
	case "1":
		b.DiscountFlag = true
	default:
		return b, fmt.Errorf("invalid discount_flag %q: expected 0 or 1", v)
	}

	b.PriceVersion = r.get("price_version")
	if b.CompetitorPriceIndex, err = r.getFloat("competitor_price_index"); err != nil {
		return b, err
	}
	b.BookingSegment = r.get("booking_segment")
	return b, nil
}

// WriteBookings writes the bookings table in the canonical column order.
func WriteBookings(path string, bookings []domain.Booking) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(bookingColumns); err != nil {
		return err
	}
	for _, b := range bookings {
		flag := "0"
		if b.DiscountFlag {
			flag = "1"
		}
		rec := []string{
			b.BookingID,
			b.SailingID,
			b.BookingDate.Format(dateLayout),
			strconv.Itoa(b.DaysToDeparture),
			b.Channel,
			strconv.Itoa(b.PartySize),
			formatFloat(b.FarePaidPerPerson, 2),
			flag,
			b.PriceVersion,
			formatFloat(b.CompetitorPriceIndex, 2),
			b.BookingSegment,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
