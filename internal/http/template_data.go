package httpx

import (
	"net/http"

	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/http/ui/viewmodel"
)

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination adds a pager for page whose links point at basePath and keep
// the request's filters.
func (b *TemplateDataBuilder) WithPagination(basePath string, page model.Page) *TemplateDataBuilder {
	b.data["Pagination"] = viewmodel.NewPagination(
		basePath, b.r.URL.Query(), page.CurrentPage, page.TotalPages, page.Count,
	)
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithTitle replaces the page title and the document title derived from it.
func (b *TemplateDataBuilder) WithTitle(title string) *TemplateDataBuilder {
	b.data["Title"] = title
	b.data["DocumentTitle"] = viewmodel.Layout{Title: title}.DocumentTitle(Brand)
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Value returns a field set earlier, or nil.
func (b *TemplateDataBuilder) Value(key string) any {
	return b.data[key]
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
