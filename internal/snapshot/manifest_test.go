package snapshot

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRunManifest_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output", ManifestFile)
	in := RunManifest{
		RunID:        "3f1c9af2-9a1e-4a7d-9f3e-6a1f0c2b4d5e",
		AnalysisDate: "2025-09-01",
		StartedAt:    time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
		CompletedAt:  time.Date(2025, 9, 1, 8, 0, 2, 0, time.UTC),
		Status:       "completed",
		Counts: RunCounts{
			Sailings:           56,
			Bookings:           3120,
			HistoricalSailings: 18,
			FutureSailings:     38,
			CompletionSamples:  74,
			PaceRecords:        38,
			Forecasts:          38,
			Classifications:    38,
		},
		Outputs: []string{PaceFile, ForecastFile, ClassificationFile},
	}

	if err := WriteRunManifest(path, in); err != nil {
		t.Fatalf("WriteRunManifest failed: %v", err)
	}
	out, err := LoadRunManifest(path)
	if err != nil {
		t.Fatalf("LoadRunManifest failed: %v", err)
	}

	if out.RunID != in.RunID {
		t.Errorf("Expected run_id %s, got %s", in.RunID, out.RunID)
	}
	if out.AnalysisDate != in.AnalysisDate {
		t.Errorf("Expected analysis_date %s, got %s", in.AnalysisDate, out.AnalysisDate)
	}
	if !out.StartedAt.Equal(in.StartedAt) || !out.CompletedAt.Equal(in.CompletedAt) {
		t.Errorf("Expected timestamps %v/%v, got %v/%v", in.StartedAt, in.CompletedAt, out.StartedAt, out.CompletedAt)
	}
	if out.Counts != in.Counts {
		t.Errorf("Expected counts %+v, got %+v", in.Counts, out.Counts)
	}
	if len(out.Outputs) != 3 || out.Outputs[0] != PaceFile {
		t.Errorf("Expected outputs %v, got %v", in.Outputs, out.Outputs)
	}
}

func TestLoadRunManifest_Missing(t *testing.T) {
	_, err := LoadRunManifest(filepath.Join(t.TempDir(), "nope", ManifestFile))
	if err == nil {
		t.Fatal("Expected error for missing manifest, got nil")
	}
}
