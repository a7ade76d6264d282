package metrics

import "github.com/ahrav/go-triptych/internal/domain"

// Safety score labels.
const (
	SafetySafe         = "Safe"
	SafetyCaution      = "Caution Required"
	SafetyNotAvailable = "Not Available"
)

// SafetyScore collapses upstream safety ratings into a single label: Not
// Available without ratings, Caution Required if any rating is HIGH or
// MEDIUM, Safe otherwise.
func SafetyScore(ratings []domain.SafetyRating) string {
	if len(ratings) == 0 {
		return SafetyNotAvailable
	}
	for _, r := range ratings {
		if r.Probability == "HIGH" || r.Probability == "MEDIUM" {
			return SafetyCaution
		}
	}
	return SafetySafe
}
