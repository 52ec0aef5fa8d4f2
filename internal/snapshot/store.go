// internal/snapshot/store.go
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/expeditionrm/revenue-studio/internal/domain"
)

// Snapshot table file names. Input tables live under the data directory,
// derived tables under the output directory.
const (
	SailingsFile       = "sailings.csv"
	BookingsFile       = "bookings.csv"
	PaceFile           = "pace_analysis.csv"
	ForecastFile       = "revenue_forecast.csv"
	ClassificationFile = "sailing_classification.csv"
	ManifestFile       = "run_manifest.json"
)

const dateLayout = "2006-01-02"

// Store resolves snapshot table locations under a data and an output
// directory and loads cross-validated input tables.
type Store struct {
	dataDir   string
	outputDir string
}

// NewStore creates a store rooted at the given directories.
func NewStore(dataDir, outputDir string) *Store {
	return &Store{dataDir: dataDir, outputDir: outputDir}
}

func (s *Store) SailingsPath() string { return filepath.Join(s.dataDir, SailingsFile) }
func (s *Store) BookingsPath() string { return filepath.Join(s.dataDir, BookingsFile) }
func (s *Store) PacePath() string     { return filepath.Join(s.outputDir, PaceFile) }
func (s *Store) ForecastPath() string { return filepath.Join(s.outputDir, ForecastFile) }
func (s *Store) ClassificationPath() string {
	return filepath.Join(s.outputDir, ClassificationFile)
}
func (s *Store) ManifestPath() string { return filepath.Join(s.outputDir, ManifestFile) }

// Snapshot is one loaded pair of input tables.
type Snapshot struct {
	Sailings []domain.Sailing
	Bookings []domain.Booking
}

// Load reads both input tables and cross-validates them: sailing IDs must be
// unique and every booking must reference a known sailing. A sailing without
// bookings is a valid state; a booking without a sailing is a producer defect.
func (s *Store) Load() (*Snapshot, error) {
	sailings, err := LoadSailings(s.SailingsPath())
	if err != nil {
		return nil, err
	}
	bookings, err := LoadBookings(s.BookingsPath())
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(sailings))
	for _, sl := range sailings {
		if _, ok := known[sl.SailingID]; ok {
			return nil, fmt.Errorf("%s: duplicate sailing_id %s", s.SailingsPath(), sl.SailingID)
		}
		known[sl.SailingID] = struct{}{}
	}
	for _, b := range bookings {
		if _, ok := known[b.SailingID]; !ok {
			return nil, fmt.Errorf("%s: booking %s references unknown sailing_id %s",
				s.BookingsPath(), b.BookingID, b.SailingID)
		}
	}

	return &Snapshot{Sailings: sailings, Bookings: bookings}, nil
}

// indexColumns maps each required column name to its header position.
// Matching is tolerant of case and separator differences.
func indexColumns(header []string, required []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[normalizeColumnName(h)] = i
	}

	cols := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		pos, ok := positions[normalizeColumnName(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// record wraps one CSV row with its resolved column positions. Field parsing
// is strict: malformed values are errors, never silently zeroed.
type record struct {
	cols   map[string]int
	fields []string
}

func (r record) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r record) getInt(name string) (int, error) {
	v := r.get(name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func (r record) getFloat(name string) (float64, error) {
	v := r.get(name)
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return f, nil
}

func (r record) getDate(name string) (time.Time, error) {
	v := r.get(name)
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", name, v)
	}
	return t, nil
}

// createFile creates the file and any missing parent directories.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
