// internal/snapshot/manifest.go
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// RunCounts holds per-stage row counts for one analytics run.
type RunCounts struct {
	Sailings           int `json:"sailings"`
	Bookings           int `json:"bookings"`
	HistoricalSailings int `json:"historical_sailings"`
	FutureSailings     int `json:"future_sailings"`
	CompletionSamples  int `json:"completion_samples"`
	PaceRecords        int `json:"pace_records"`
	Forecasts          int `json:"forecasts"`
	Classifications    int `json:"classifications"`
}

// RunManifest records what one analytics run produced, so operators and the
// dashboard can tell which reference date and inputs the derived tables
// were computed from.
type RunManifest struct {
	RunID        string    `json:"run_id"`
	AnalysisDate string    `json:"analysis_date"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
	Status       string    `json:"status"`
	Counts       RunCounts `json:"counts"`
	Outputs      []string  `json:"outputs"`
	Error        string    `json:"error,omitempty"`
}

// WriteRunManifest writes the manifest as indented JSON.
func WriteRunManifest(path string, m RunManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}
	_, err = f.Write([]byte("\n"))
	return err
}

// LoadRunManifest reads a manifest written by a previous run.
func LoadRunManifest(path string) (RunManifest, error) {
	var m RunManifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read run manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse run manifest %s: %w", path, err)
	}
	return m, nil
}
