package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/ahrav/go-triptych/internal/ports"
)

// TemplateExportVersion is written into every template export document.
const TemplateExportVersion = "1.0"

// DefaultCategory groups templates saved without a category.
const DefaultCategory = "Other"

// ErrInvalidTemplateFile is returned when an import document has no
// templates array.
var ErrInvalidTemplateFile = errors.New("invalid template file format")

// Template is a saved, reusable prompt. Timestamps are Unix milliseconds.
type Template struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required,max=200"`
	Category    string   `json:"category"`
	Content     string   `json:"content" validate:"required"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" validate:"dive,required"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// TemplateDraft holds the caller-supplied fields of a new template.
type TemplateDraft struct {
	Name        string
	Category    string
	Content     string
	Description string
	Tags        []string
}

// TemplateUpdate lists the fields to change. Nil fields are left alone.
type TemplateUpdate struct {
	Name        *string
	Category    *string
	Content     *string
	Description *string
	Tags        []string
}

// TemplateExport is the document produced by ExportTemplates.
type TemplateExport struct {
	Version    string     `json:"version"`
	ExportedAt time.Time  `json:"exportedAt"`
	Templates  []Template `json:"templates"`
}

var templateValidator = validator.New()

// ListTemplates returns every stored template in insertion order.
func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTemplates(ctx)
}

func (s *Store) loadTemplates(ctx context.Context) ([]Template, error) {
	var templates []Template
	if _, err := s.getJSON(ctx, KeyTemplates, &templates); err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []Template{}
	}
	return templates, nil
}

// GetTemplate returns the template with id, or ports.ErrNotFound.
func (s *Store) GetTemplate(ctx context.Context, id string) (Template, error) {
	templates, err := s.ListTemplates(ctx)
	if err != nil {
		return Template{}, err
	}
	for _, t := range templates {
		if t.ID == id {
			return t, nil
		}
	}
	return Template{}, ports.NewStoreError(id, "get template", ports.ErrNotFound)
}

// AddTemplate assigns an ID and timestamps to draft and appends it.
func (s *Store) AddTemplate(ctx context.Context, draft TemplateDraft) (Template, error) {
	now := s.now().UnixMilli()
	t := Template{
		ID:          s.newID(),
		Name:        strings.TrimSpace(draft.Name),
		Category:    strings.TrimSpace(draft.Category),
		Content:     draft.Content,
		Description: draft.Description,
		Tags:        append([]string(nil), draft.Tags...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := templateValidator.Struct(&t); err != nil {
		return Template{}, fmt.Errorf("invalid template: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	templates, err := s.loadTemplates(ctx)
	if err != nil {
		return Template{}, err
	}
	templates = append(templates, t)
	if err := s.putJSON(ctx, KeyTemplates, templates); err != nil {
		return Template{}, err
	}
	return t, nil
}

// UpdateTemplate applies upd to the template with id and refreshes its
// UpdatedAt. A missing id yields ports.ErrNotFound.
func (s *Store) UpdateTemplate(ctx context.Context, id string, upd TemplateUpdate) (Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.loadTemplates(ctx)
	if err != nil {
		return Template{}, err
	}
	idx := -1
	for i := range templates {
		if templates[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Template{}, ports.NewStoreError(id, "update template", ports.ErrNotFound)
	}

	t := templates[idx]
	if upd.Name != nil {
		t.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Category != nil {
		t.Category = strings.TrimSpace(*upd.Category)
	}
	if upd.Content != nil {
		t.Content = *upd.Content
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Tags != nil {
		t.Tags = append([]string(nil), upd.Tags...)
	}
	t.UpdatedAt = s.now().UnixMilli()
	if err := templateValidator.Struct(&t); err != nil {
		return Template{}, fmt.Errorf("invalid template: %w", err)
	}

	templates[idx] = t
	if err := s.putJSON(ctx, KeyTemplates, templates); err != nil {
		return Template{}, err
	}
	return t, nil
}

// DeleteTemplate removes the template with id. Unknown ids are ignored.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := s.loadTemplates(ctx)
	if err != nil {
		return err
	}
	kept := templates[:0]
	for _, t := range templates {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.putJSON(ctx, KeyTemplates, kept)
}

// TemplatesByCategory groups templates by category. Templates without a
// category are grouped under DefaultCategory.
func TemplatesByCategory(templates []Template) map[string][]Template {
	groups := make(map[string][]Template)
	for _, t := range templates {
		c := t.Category
		if c == "" {
			c = DefaultCategory
		}
		groups[c] = append(groups[c], t)
	}
	return groups
}

// Categories returns the sorted category names of groups.
func Categories(groups map[string][]Template) []string {
	names := make([]string, 0, len(groups))
	for c := range groups {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// SearchTemplates returns the templates whose name, content, description
// or any tag contains query, ignoring case. An empty query matches all.
func SearchTemplates(templates []Template, query string) []Template {
	fold := cases.Fold()
	q := fold.String(query)
	contains := func(s string) bool { return strings.Contains(fold.String(s), q) }

	out := []Template{}
	for _, t := range templates {
		if contains(t.Name) || contains(t.Content) || (t.Description != "" && contains(t.Description)) {
			out = append(out, t)
			continue
		}
		for _, tag := range t.Tags {
			if contains(tag) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// ExportTemplates writes every stored template to w as an indented
// TemplateExport document.
func (s *Store) ExportTemplates(ctx context.Context, w io.Writer) (int, error) {
	templates, err := s.ListTemplates(ctx)
	if err != nil {
		return 0, err
	}
	doc := TemplateExport{
		Version:    TemplateExportVersion,
		ExportedAt: s.now().UTC(),
		Templates:  templates,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return 0, fmt.Errorf("failed to encode templates: %w", err)
	}
	return len(templates), nil
}

// DecodeTemplateExport parses an export document. Documents without a
// templates array yield ErrInvalidTemplateFile.
func DecodeTemplateExport(r io.Reader) ([]Template, error) {
	var doc struct {
		Templates *[]Template `json:"templates"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}
	if doc.Templates == nil {
		return nil, ErrInvalidTemplateFile
	}
	return *doc.Templates, nil
}

// ImportTemplates decodes an export document from r and merges it into the
// store. Templates with a known ID replace the stored copy; the rest are
// appended. It returns the number of templates imported.
func (s *Store) ImportTemplates(ctx context.Context, r io.Reader) (int, error) {
	incoming, err := DecodeTemplateExport(r)
	if err != nil {
		return 0, err
	}
	for i := range incoming {
		if incoming[i].ID == "" {
			incoming[i].ID = s.newID()
		}
		if err := templateValidator.Struct(&incoming[i]); err != nil {
			return 0, fmt.Errorf("invalid template %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	templates, err := s.loadTemplates(ctx)
	if err != nil {
		return 0, err
	}
	index := make(map[string]int, len(templates))
	for i, t := range templates {
		index[t.ID] = i
	}
	for _, t := range incoming {
		if i, ok := index[t.ID]; ok {
			templates[i] = t
			continue
		}
		index[t.ID] = len(templates)
		templates = append(templates, t)
	}
	if err := s.putJSON(ctx, KeyTemplates, templates); err != nil {
		return 0, err
	}
	return len(incoming), nil
}

// TemplateExportFileName returns the default export file name for now.
func TemplateExportFileName(now time.Time) string {
	return "gemini-prompt-templates-" + now.UTC().Format("2006-01-02") + ".json"
}
