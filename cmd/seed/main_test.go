package main

import (
	"strings"
	"testing"

	"github.com/expeditionrm/revenue-studio/internal/storage"
)

func TestCSVKeys(t *testing.T) {
	objects := []storage.ObjectInfo{
		{Key: "snapshots/sailings.csv"},
		{Key: "snapshots/bookings.CSV"},
		{Key: "snapshots/readme.md"},
		{Key: "snapshots/archive/bookings.csv.gz"},
	}

	keys := csvKeys(objects)
	want := []string{"snapshots/sailings.csv", "snapshots/bookings.CSV"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("Expected keys %v, got %v", want, keys)
	}
}

func TestObjectRelativePath(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"UnderPrefix", "snapshots/", "snapshots/sailings.csv", "sailings.csv"},
		{"PrefixWithoutSlash", "snapshots", "snapshots/bookings.csv", "bookings.csv"},
		{"NestedKey", "snapshots/", "snapshots/2025/bookings.csv", "2025/bookings.csv"},
		{"EmptyPrefix", "", "sailings.csv", "sailings.csv"},
		{"KeyOutsidePrefix", "snapshots/", "other/sailings.csv", "other/sailings.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := objectRelativePath(tt.prefix, tt.key); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
