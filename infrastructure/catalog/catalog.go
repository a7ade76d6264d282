// Package catalog provides the static table of Gemini models the comparison
// tool knows how to describe.
package catalog

import (
	"sort"

	"github.com/ahrav/go-triptych/internal/domain"
	"github.com/ahrav/go-triptych/internal/ports"
)

var _ ports.ModelCatalog = (*Catalog)(nil)

// Model categories.
const (
	CategoryFlagship     = "flagship"
	CategoryBalanced     = "balanced"
	CategoryFast         = "fast"
	CategoryLite         = "lite"
	CategoryPro          = "pro"
	CategoryExperimental = "experimental"
	CategorySpecialized  = "specialized"
	CategoryLive         = "live"
	CategoryLegacy       = "legacy"
)

// DefaultSelection is the model bound to each canonical slot when nothing
// else is configured.
func DefaultSelection() map[domain.SlotID]domain.ModelID {
	return map[domain.SlotID]domain.ModelID{
		domain.SlotColumn1: "gemini-2.5-pro",
		domain.SlotColumn2: "gemini-2.5-flash",
		domain.SlotColumn3: "gemini-2.0-flash",
	}
}

// Catalog is a read-only, concurrency-safe model table.
type Catalog struct {
	models map[domain.ModelID]domain.ModelInfo
}

// New returns a catalog over models. Later entries replace earlier ones
// with the same ID.
func New(models []domain.ModelInfo) *Catalog {
	c := &Catalog{models: make(map[domain.ModelID]domain.ModelInfo, len(models))}
	for _, m := range models {
		m.Features = append([]string(nil), m.Features...)
		c.models[m.ID] = m
	}
	return c
}

// Default returns the catalog of known Gemini models.
func Default() *Catalog { return New(geminiModels) }

// Lookup returns the entry for id.
func (c *Catalog) Lookup(id domain.ModelID) (domain.ModelInfo, bool) {
	m, ok := c.models[id]
	if !ok {
		return domain.ModelInfo{}, false
	}
	return clone(m), true
}

// DisplayName returns the human-readable name of id, or id itself when the
// model is unknown.
func (c *Catalog) DisplayName(id domain.ModelID) string {
	if m, ok := c.models[id]; ok && m.Name != "" {
		return m.Name
	}
	return string(id)
}

// All returns every entry sorted by ID.
func (c *Catalog) All() []domain.ModelInfo {
	out := make([]domain.ModelInfo, 0, len(c.models))
	for _, m := range c.models {
		out = append(out, clone(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByCategory groups the entries by category, each group sorted by ID.
func (c *Catalog) ByCategory() map[string][]domain.ModelInfo {
	groups := make(map[string][]domain.ModelInfo)
	for _, m := range c.All() {
		groups[m.Category] = append(groups[m.Category], m)
	}
	return groups
}

// ByGeneration returns the entries of one generation, sorted by ID.
func (c *Catalog) ByGeneration(generation string) []domain.ModelInfo {
	var out []domain.ModelInfo
	for _, m := range c.All() {
		if m.Generation == generation {
			out = append(out, m)
		}
	}
	return out
}

// ByFeature returns the entries that list feature, sorted by ID.
func (c *Catalog) ByFeature(feature string) []domain.ModelInfo {
	var out []domain.ModelInfo
	for _, m := range c.All() {
		for _, f := range m.Features {
			if f == feature {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func clone(m domain.ModelInfo) domain.ModelInfo {
	m.Features = append([]string(nil), m.Features...)
	return m
}
