package snapshot

import (
	"path/filepath"
	"strings"
	"testing"
)

const (
	validSailingRows = "S001,Explorer,Antarctica,Antarctica Classic 10D,2025-12-01,10,100,balanced,9000\n" +
		"S002,Venture,Alaska,Alaska Glaciers 7D,2025-06-15,7,64,economy-mix,5200\n"
	validBookingRow = "B00001,S001,2025-06-04,180,direct,2,8550.25,0,P1,1.05,early_planner\n"
)

func writeSnapshotDir(t *testing.T, sailingRows, bookingRows string) *Store {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, SailingsFile), sailingHeader+"\n"+sailingRows)
	writeFile(t, filepath.Join(dir, BookingsFile), bookingHeader+"\n"+bookingRows)
	return NewStore(dir, filepath.Join(dir, "output"))
}

func TestStoreLoad_Valid(t *testing.T) {
	store := writeSnapshotDir(t, validSailingRows, validBookingRow)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Sailings) != 2 {
		t.Errorf("Expected 2 sailings, got %d", len(snap.Sailings))
	}
	if len(snap.Bookings) != 1 {
		t.Errorf("Expected 1 booking, got %d", len(snap.Bookings))
	}
}

func TestStoreLoad_DuplicateSailingID(t *testing.T) {
	rows := "S001,Explorer,Antarctica,Antarctica Classic 10D,2025-12-01,10,100,balanced,9000\n" +
		"S001,Venture,Alaska,Alaska Glaciers 7D,2025-06-15,7,64,economy-mix,5200\n"
	store := writeSnapshotDir(t, rows, validBookingRow)

	_, err := store.Load()
	if err == nil {
		t.Fatal("Expected duplicate sailing_id error, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate sailing_id S001") {
		t.Errorf("Expected duplicate sailing_id error, got %q", err.Error())
	}
}

func TestStoreLoad_UnknownSailingReference(t *testing.T) {
	booking := "B00001,S999,2025-06-04,180,direct,2,8550.25,0,P1,1.05,early_planner\n"
	store := writeSnapshotDir(t, validSailingRows, booking)

	_, err := store.Load()
	if err == nil {
		t.Fatal("Expected unknown sailing reference error, got nil")
	}
	if !strings.Contains(err.Error(), "unknown sailing_id S999") {
		t.Errorf("Expected unknown sailing reference error, got %q", err.Error())
	}
}

func TestStoreLoad_BookinglessSailingIsValid(t *testing.T) {
	store := writeSnapshotDir(t, validSailingRows, "")

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed for empty bookings table: %v", err)
	}
	if len(snap.Bookings) != 0 {
		t.Errorf("Expected no bookings, got %d", len(snap.Bookings))
	}
}

func TestStorePaths(t *testing.T) {
	store := NewStore("data", "out")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Sailings", store.SailingsPath(), filepath.Join("data", SailingsFile)},
		{"Bookings", store.BookingsPath(), filepath.Join("data", BookingsFile)},
		{"Pace", store.PacePath(), filepath.Join("out", PaceFile)},
		{"Forecast", store.ForecastPath(), filepath.Join("out", ForecastFile)},
		{"Classification", store.ClassificationPath(), filepath.Join("out", ClassificationFile)},
		{"Manifest", store.ManifestPath(), filepath.Join("out", ManifestFile)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, tc.got)
			}
		})
	}
}
