package application

import (
	"github.com/agnivade/levenshtein"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/metrics"
)

// SlotPair names two slots whose responses were compared.
type SlotPair struct {
	A domain.SlotID `json:"a"`
	B domain.SlotID `json:"b"`
}

// Similarity is the normalized edit-distance similarity of two responses,
// in [0, 1] where 1 means identical text.
type Similarity struct {
	Pair  SlotPair `json:"pair"`
	Score float64  `json:"score"`
}

// Comparison summarizes the successful results of one batch. Slot fields
// are empty when the batch had no successes.
type Comparison struct {
	ModelsTested        []domain.ModelID `json:"modelsTested"`
	TotalResponses      int              `json:"totalResponses"`
	TotalCost           float64          `json:"totalCost"`
	AverageResponseTime float64          `json:"averageResponseTime"`

	Fastest           domain.SlotID `json:"fastest,omitempty"`
	Slowest           domain.SlotID `json:"slowest,omitempty"`
	MostCostEffective domain.SlotID `json:"mostCostEffective,omitempty"`
	LongestResponse   domain.SlotID `json:"longestResponse,omitempty"`
	BestSafetyScore   domain.SlotID `json:"bestSafetyScore,omitempty"`

	Similarities []Similarity `json:"similarities"`
}

// Compare derives a Comparison from batch. Slots are visited in sorted
// order, so ties go to the lowest slot.
func Compare(batch *domain.BatchResult) Comparison {
	c := Comparison{ModelsTested: []domain.ModelID{}, Similarities: []Similarity{}}
	if batch == nil {
		return c
	}
	c.ModelsTested = modelsTested(batch)

	slots := domain.SortedSlots(batch.Results)
	c.TotalResponses = len(slots)
	if len(slots) == 0 {
		return c
	}

	var totalTime int64
	var fastest, slowest, cheapest, longest *domain.CallResult
	for _, slot := range slots {
		r := batch.Results[slot]
		totalTime += r.ResponseTime
		c.TotalCost += r.Performance.EstimatedCost

		if fastest == nil || r.ResponseTime < fastest.ResponseTime {
			fastest, c.Fastest = r, slot
		}
		if slowest == nil || r.ResponseTime > slowest.ResponseTime {
			slowest, c.Slowest = r, slot
		}
		if cheapest == nil || r.Performance.EstimatedCost < cheapest.Performance.EstimatedCost {
			cheapest, c.MostCostEffective = r, slot
		}
		if longest == nil || r.Quality.ResponseLength.Characters > longest.Quality.ResponseLength.Characters {
			longest, c.LongestResponse = r, slot
		}
	}
	c.AverageResponseTime = float64(totalTime) / float64(len(slots))
	c.BestSafetyScore = bestSafety(batch, slots)

	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			c.Similarities = append(c.Similarities, Similarity{
				Pair:  SlotPair{A: a, B: b},
				Score: TextSimilarity(batch.Results[a].Text, batch.Results[b].Text),
			})
		}
	}
	return c
}

// modelsTested lists the model of every slot in the batch, failed slots
// included when their error names one.
func modelsTested(batch *domain.BatchResult) []domain.ModelID {
	all := make(map[domain.SlotID]domain.ModelID, batch.Len())
	for slot, r := range batch.Results {
		all[slot] = r.ModelID
	}
	for slot, err := range batch.Errors {
		if m := domain.ModelOf(err); m != "" {
			all[slot] = m
		}
	}
	models := make([]domain.ModelID, 0, len(all))
	for _, slot := range domain.SortedSlots(all) {
		models = append(models, all[slot])
	}
	return models
}

// bestSafety picks the first slot rated Safe, falling back to the first
// slot that needed caution.
func bestSafety(batch *domain.BatchResult, slots []domain.SlotID) domain.SlotID {
	var caution domain.SlotID
	for _, slot := range slots {
		switch batch.Results[slot].Quality.SafetyScore {
		case metrics.SafetySafe:
			return slot
		case metrics.SafetyCaution:
			if caution == "" {
				caution = slot
			}
		}
	}
	return caution
}

// TextSimilarity returns 1 - distance/maxLen over runes, so two empty
// strings are identical.
func TextSimilarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}
