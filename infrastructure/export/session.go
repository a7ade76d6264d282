// Package export writes a completed comparison to disk as a JSON session
// document.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ahrav/go-triptych/internal/application"
	"github.com/ahrav/go-triptych/internal/domain"
)

// SessionExport is the on-disk shape of one comparison.
type SessionExport struct {
	Session    SessionInfo                       `json:"session"`
	Responses  map[domain.SlotID]*ResponseExport `json:"responses"`
	Errors     map[domain.SlotID]ErrorExport     `json:"errors"`
	Comparison ComparisonExport                  `json:"comparison"`
}

// SessionInfo summarizes the batch.
type SessionInfo struct {
	Timestamp           time.Time        `json:"timestamp"`
	Prompt              string           `json:"prompt"`
	ModelsTested        []domain.ModelID `json:"models_tested"`
	TotalResponses      int              `json:"total_responses"`
	TotalCost           float64          `json:"total_cost"`
	AverageResponseTime float64          `json:"average_response_time"`
}

// ResponseExport is one successful slot.
type ResponseExport struct {
	Response           string                    `json:"response"`
	PerformanceMetrics domain.PerformanceMetrics `json:"performance_metrics"`
	QualityMetrics     domain.QualityMetrics     `json:"quality_metrics"`
	TechnicalMetadata  domain.TechnicalMetadata  `json:"technical_metadata"`
}

// ErrorExport is one failed slot.
type ErrorExport struct {
	Message string         `json:"message"`
	ModelID domain.ModelID `json:"model_id,omitempty"`
}

// ComparisonExport names the model that won each comparison. Ties and
// empty batches follow application.Compare.
type ComparisonExport struct {
	FastestModel       string                   `json:"fastest_model"`
	SlowestModel       string                   `json:"slowest_model"`
	MostCostEffective  string                   `json:"most_cost_effective"`
	LongestResponse    string                   `json:"longest_response"`
	BestSafetyScore    string                   `json:"best_safety_score"`
	ResponseSimilarity []application.Similarity `json:"response_similarity"`
}

// BuildSession assembles the export document. Every slot in slots gets a
// responses entry, null when the slot did not succeed.
func BuildSession(
	prompt string,
	slots map[domain.SlotID]domain.ModelID,
	batch *domain.BatchResult,
	cmp application.Comparison,
	now time.Time,
) SessionExport {
	if batch == nil {
		batch = domain.NewBatchResult()
	}

	out := SessionExport{
		Session: SessionInfo{
			Timestamp:           now.UTC(),
			Prompt:              prompt,
			ModelsTested:        cmp.ModelsTested,
			TotalResponses:      cmp.TotalResponses,
			TotalCost:           cmp.TotalCost,
			AverageResponseTime: cmp.AverageResponseTime,
		},
		Responses: make(map[domain.SlotID]*ResponseExport, len(slots)),
		Errors:    make(map[domain.SlotID]ErrorExport, len(batch.Errors)),
		Comparison: ComparisonExport{
			FastestModel:       modelIn(batch, cmp.Fastest),
			SlowestModel:       modelIn(batch, cmp.Slowest),
			MostCostEffective:  modelIn(batch, cmp.MostCostEffective),
			LongestResponse:    modelIn(batch, cmp.LongestResponse),
			BestSafetyScore:    modelIn(batch, cmp.BestSafetyScore),
			ResponseSimilarity: cmp.Similarities,
		},
	}
	if out.Session.ModelsTested == nil {
		out.Session.ModelsTested = []domain.ModelID{}
	}
	if out.Comparison.ResponseSimilarity == nil {
		out.Comparison.ResponseSimilarity = []application.Similarity{}
	}

	for slot := range slots {
		out.Responses[slot] = nil
	}
	for slot, r := range batch.Results {
		out.Responses[slot] = &ResponseExport{
			Response:           r.Text,
			PerformanceMetrics: r.Performance,
			QualityMetrics:     r.Quality,
			TechnicalMetadata:  r.Technical,
		}
	}
	for slot, err := range batch.Errors {
		model := domain.ModelOf(err)
		if model == "" {
			model = slots[slot]
		}
		out.Errors[slot] = ErrorExport{Message: err.Error(), ModelID: model}
	}
	return out
}

func modelIn(batch *domain.BatchResult, slot domain.SlotID) string {
	if r, ok := batch.Results[slot]; ok {
		return string(r.ModelID)
	}
	return ""
}

// FileName returns the default export file name for now.
func FileName(now time.Time) string {
	return "gemini-comparison-" + now.UTC().Format("2006-01-02") + ".json"
}

// Writer writes session documents as indented JSON.
type Writer struct {
	// Dir is used when Write is given a bare file name. Empty means the
	// working directory.
	Dir string
}

// Write serializes session to path, creating parent directories. It
// returns the path written.
func (w Writer) Write(path string, session SessionExport) (string, error) {
	if path == "" {
		path = FileName(session.Session.Timestamp)
	}
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." && w.Dir != "" {
		path = filepath.Join(w.Dir, path)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write session: %w", err)
	}
	return path, nil
}
