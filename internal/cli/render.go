package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/ahrav/go-triptych/internal/application"
	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

var (
	okLabel   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	heading   = color.New(color.FgCyan, color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
)

func newTable() *uitable.Table {
	t := uitable.New()
	t.MaxColWidth = 60
	t.Wrap = true
	return t
}

// renderBatch writes the per-slot summary table, every response in slot
// order and the comparison table.
func renderBatch(
	w io.Writer,
	slots map[domain.SlotID]domain.ModelID,
	batch *domain.BatchResult,
	cmp application.Comparison,
	cat ports.ModelCatalog,
	format textFormatter,
) {
	if format == nil {
		format = plainText
	}
	summary := newTable()
	summary.AddRow("SLOT", "MODEL", "STATUS", "TIME (ms)", "TOKENS", "COST (USD)", "READING LEVEL", "SAFETY")
	for _, slot := range domain.SortedSlots(slots) {
		model := slots[slot]
		if r, ok := batch.Results[slot]; ok {
			summary.AddRow(slot, cat.DisplayName(model), okLabel("OK"), r.ResponseTime,
				r.Performance.TokenUsage.Total, fmt.Sprintf("%.6f", r.Performance.EstimatedCost),
				r.Quality.EstimatedReadingLevel, r.Quality.SafetyScore)
			continue
		}
		summary.AddRow(slot, cat.DisplayName(model), failLabel("FAILED"), "-", "-", "-", "-", "-")
	}
	fmt.Fprintln(w, summary)

	for _, slot := range domain.SortedSlots(slots) {
		fmt.Fprintf(w, "\n%s\n", heading(fmt.Sprintf("== %s: %s ==", slot, cat.DisplayName(slots[slot]))))
		if r, ok := batch.Results[slot]; ok {
			fmt.Fprintln(w, format(r.Text))
			fmt.Fprintln(w, dim(fmt.Sprintf("finish=%s words=%d categories=%s language=%s",
				r.Quality.FinishReason, r.Quality.ResponseLength.Words,
				strings.Join(r.Quality.ContentCategories, ","), r.Quality.LanguageDetected)))
			continue
		}
		if err, ok := batch.Errors[slot]; ok {
			fmt.Fprintln(w, failLabel("error: ")+err.Error())
		}
	}

	if cmp.TotalResponses == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", heading("== comparison =="))
	fmt.Fprintln(w, comparisonTable(batch, cmp, cat))
}

func comparisonTable(batch *domain.BatchResult, cmp application.Comparison, cat ports.ModelCatalog) *uitable.Table {
	name := func(slot domain.SlotID) string {
		r, ok := batch.Results[slot]
		if !ok {
			return "-"
		}
		return fmt.Sprintf("%s (%s)", cat.DisplayName(r.ModelID), slot)
	}

	t := newTable()
	t.AddRow("Fastest:", name(cmp.Fastest))
	t.AddRow("Slowest:", name(cmp.Slowest))
	t.AddRow("Most cost-effective:", name(cmp.MostCostEffective))
	t.AddRow("Longest response:", name(cmp.LongestResponse))
	t.AddRow("Best safety score:", name(cmp.BestSafetyScore))
	t.AddRow("Total cost (USD):", fmt.Sprintf("%.6f", cmp.TotalCost))
	t.AddRow("Average response time:", fmt.Sprintf("%.0f ms", cmp.AverageResponseTime))
	for _, s := range cmp.Similarities {
		t.AddRow(fmt.Sprintf("Similarity %s/%s:", s.Pair.A, s.Pair.B), fmt.Sprintf("%.0f%%", s.Score*100))
	}
	return t
}

func renderModels(w io.Writer, models []domain.ModelInfo, defaults map[domain.ModelID][]string) {
	t := newTable()
	t.AddRow("ID", "NAME", "CATEGORY", "GENERATION", "CONTEXT", "FEATURES", "DEFAULT")
	for _, m := range models {
		t.AddRow(m.ID, m.Name, m.Category, m.Generation, m.ContextWindow,
			strings.Join(m.Features, ", "), strings.Join(defaults[m.ID], ","))
	}
	fmt.Fprintln(w, t)
}
