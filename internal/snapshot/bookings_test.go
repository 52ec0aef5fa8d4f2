package snapshot

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

const bookingHeader = "booking_id,sailing_id,booking_date,days_to_departure,channel,party_size,fare_paid_per_person,discount_flag,price_version,competitor_price_index,booking_segment"

func TestWriteLoadBookings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.csv")
	in := []domain.Booking{
		{
			BookingID:            "B00001",
			SailingID:            "S001",
			BookingDate:          time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
			DaysToDeparture:      180,
			Channel:              "direct",
			PartySize:            2,
			FarePaidPerPerson:    8550.25,
			DiscountFlag:         false,
			PriceVersion:         "P1",
			CompetitorPriceIndex: 1.05,
			BookingSegment:       "early_planner",
		},
		{
			BookingID:            "B00002",
			SailingID:            "S001",
			BookingDate:          time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
			DaysToDeparture:      11,
			Channel:              "travel_agent",
			PartySize:            4,
			FarePaidPerPerson:    6840.5,
			DiscountFlag:         true,
			PriceVersion:         "P3",
			CompetitorPriceIndex: 0.92,
			BookingSegment:       "last_minute",
		},
	}

	if err := WriteBookings(path, in); err != nil {
		t.Fatalf("WriteBookings failed: %v", err)
	}
	out, err := LoadBookings(path)
	if err != nil {
		t.Fatalf("LoadBookings failed: %v", err)
	}

	if len(out) != len(in) {
		t.Fatalf("Expected %d bookings, got %d", len(in), len(out))
	}
	for i := range in {
		if !out[i].BookingDate.Equal(in[i].BookingDate) {
			t.Errorf("Booking %d: expected date %v, got %v", i, in[i].BookingDate, out[i].BookingDate)
		}
		out[i].BookingDate = in[i].BookingDate
		if out[i] != in[i] {
			t.Errorf("Booking %d: expected %+v, got %+v", i, in[i], out[i])
		}
	}
}

func TestLoadBookings_Validation(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr string
	}{
		{
			name:    "EmptyBookingID",
			row:     ",S001,2025-06-04,180,direct,2,8550.25,0,P1,1.05,early_planner",
			wantErr: "booking_id is empty",
		},
		{
			name:    "EmptySailingID",
			row:     "B00001,,2025-06-04,180,direct,2,8550.25,0,P1,1.05,early_planner",
			wantErr: "sailing_id is empty",
		},
		{
			name:    "BadBookingDate",
			row:     "B00001,S001,June 4 2025,180,direct,2,8550.25,0,P1,1.05,early_planner",
			wantErr: "invalid booking_date",
		},
		{
			name:    "NegativeDaysToDeparture",
			row:     "B00001,S001,2025-06-04,-3,direct,2,8550.25,0,P1,1.05,early_planner",
			wantErr: "days_to_departure must not be negative",
		},
		{
			name:    "BadDiscountFlag",
			row:     "B00001,S001,2025-06-04,180,direct,2,8550.25,yes,P1,1.05,early_planner",
			wantErr: "invalid discount_flag",
		},
		{
			name:    "NonNumericFare",
			row:     "B00001,S001,2025-06-04,180,direct,2,eight,0,P1,1.05,early_planner",
			wantErr: "invalid fare_paid_per_person",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bookings.csv")
			writeFile(t, path, bookingHeader+"\n"+tc.row+"\n")

			_, err := LoadBookings(path)
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}

func TestLoadBookings_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookings.csv")
	writeFile(t, path, "booking_id,sailing_id,booking_date\nB00001,S001,2025-06-04\n")

	_, err := LoadBookings(path)
	if err == nil {
		t.Fatal("Expected error for missing columns, got nil")
	}
	for _, col := range []string{"days_to_departure", "discount_flag", "booking_segment"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("Expected error to name %s, got %q", col, err.Error())
		}
	}
}
