package domain

import "strings"

// Classification statuses. Rank order doubles as dashboard urgency order.
const (
	StatusAtRisk         = "At Risk"
	StatusOnTrack        = "On Track"
	StatusOverperforming = "Overperforming"
)

var statusCategories = map[string]string{
	StatusAtRisk:         "risk",
	StatusOnTrack:        "monitor",
	StatusOverperforming: "opportunity",
}

var statusRanks = map[string]int{
	StatusAtRisk:         0,
	StatusOnTrack:        1,
	StatusOverperforming: 2,
}

var statusLabels = map[string]string{
	"at risk":        StatusAtRisk,
	"on track":       StatusOnTrack,
	"overperforming": StatusOverperforming,
}

// StatusCategory returns the action category for a classification status.
func StatusCategory(status string) string {
	if category, ok := statusCategories[status]; ok {
		return category
	}

	return "monitor"
}

// StatusRank returns the urgency rank for a status; lower is more urgent.
// Unknown statuses sort last.
func StatusRank(status string) int {
	if rank, ok := statusRanks[status]; ok {
		return rank
	}

	return len(statusRanks)
}

// ParseStatus returns the canonical status for a label (case-insensitive).
func ParseStatus(label string) (string, bool) {
	status, ok := statusLabels[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// Statuses lists all classification statuses in urgency order.
func Statuses() []string {
	return []string{StatusAtRisk, StatusOnTrack, StatusOverperforming}
}
