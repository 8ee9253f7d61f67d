package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
)

// ImageNormalizer re-encodes uploads before they are sent upstream.
type ImageNormalizer interface {
	Normalize(u ports.Upload) (ports.Upload, error)
}

// ChromeInvalidator drops cached layout chrome after content changes.
type ChromeInvalidator interface {
	InvalidateChrome(ctx context.Context)
}

// CatalogDeps holds the optional collaborators of CatalogService.
type CatalogDeps struct {
	Images ImageNormalizer
	Chrome ChromeInvalidator
	Logger *slog.Logger
}

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	API      ports.CatalogAPI
	Registry *resource.Registry
	// PageSize is sent as per_page for paginated lists that do not set one.
	PageSize int
	Deps     CatalogDeps
}

// CatalogService implements the generic list and modal form behaviour shared
// by every back-office screen. Each operation is parameterized by a schema
// name from the registry.
type CatalogService struct {
	api      ports.CatalogAPI
	registry *resource.Registry
	pageSize int
	images   ImageNormalizer
	chrome   ChromeInvalidator
	logger   *slog.Logger
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	if opts.API == nil {
		panic("CatalogAPI is required")
	}
	registry := opts.Registry
	if registry == nil {
		registry = resource.DefaultRegistry()
	}
	logger := opts.Deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		api:      opts.API,
		registry: registry,
		pageSize: opts.PageSize,
		images:   opts.Deps.Images,
		chrome:   opts.Deps.Chrome,
		logger:   logger.With("component", "catalog"),
	}
}

// FieldErrors maps form field names to messages. It is returned when a
// submission fails local validation; no upstream call is made.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Registry exposes the schemas.
func (s *CatalogService) Registry() *resource.Registry { return s.registry }

// Schema returns the schema registered under name.
func (s *CatalogService) Schema(name string) (resource.Schema, error) {
	sc, ok := s.registry.Get(name)
	if !ok {
		return resource.Schema{}, apperrors.NotFoundf("unknown resource %q", name)
	}
	return sc, nil
}

// List fetches one page of a resource.
func (s *CatalogService) List(ctx context.Context, name string, q ports.ListQuery) (model.Page, error) {
	sc, err := s.Schema(name)
	if err != nil {
		return model.Page{}, err
	}
	switch {
	case !sc.Paginated:
		q.Page, q.PerPage = 0, 0
	case q.PerPage <= 0:
		q.PerPage = s.pageSize
	}
	if sc.Name == resource.Product {
		return s.api.SearchProducts(ctx, q)
	}
	return s.api.List(ctx, sc, q)
}

// Options loads the choices of every select field of the schema. A failed
// lookup yields an empty list for that field so the form still renders.
func (s *CatalogService) Options(ctx context.Context, sc resource.Schema) map[string][]Option {
	out := make(map[string][]Option)
	for _, f := range sc.Fields {
		if f.Kind != resource.KindSelect || f.OptionsFrom == "" {
			continue
		}
		src, ok := s.registry.Get(f.OptionsFrom)
		if !ok {
			continue
		}
		page, err := s.api.List(ctx, src, ports.ListQuery{})
		if err != nil {
			s.logger.WarnContext(ctx, "load select options failed", "field", f.Name, "source", src.Name, "error", err)
			out[f.Name] = nil
			continue
		}
		opts := make([]Option, 0, len(page.Items))
		for _, rec := range page.Items {
			opts = append(opts, Option{Value: rec.ID(), Label: optionLabel(src, rec)})
		}
		out[f.Name] = opts
	}
	return out
}

func optionLabel(src resource.Schema, rec model.Record) string {
	for _, f := range src.Fields {
		if f.Kind == resource.KindText {
			if v := rec.String(f.Name); v != "" {
				return v
			}
		}
	}
	return rec.ID()
}

// Submission is a create (empty ID) or update form post.
type Submission struct {
	ID    string
	Form  url.Values
	Files []ports.Upload
}

// Submit validates and forwards a form. Image fields are only required on
// create; an update without a new file keeps the stored image.
func (s *CatalogService) Submit(ctx context.Context, name string, sub Submission) error {
	sc, err := s.Schema(name)
	if err != nil {
		return err
	}
	if sc.ReadOnly {
		return apperrors.Validation(sc.Title + " cannot be edited.")
	}

	mode := resource.ModeCreate
	if sub.ID != "" {
		mode = resource.ModeUpdate
	}

	present := make(map[string]bool, len(sub.Files))
	for _, f := range sub.Files {
		if len(f.Data) > 0 {
			present[f.Field] = true
		}
	}
	if errs := sc.Validate(sub.Form, present, mode); len(errs) > 0 {
		return FieldErrors(errs)
	}

	files, err := s.normalize(sc, sub.Files)
	if err != nil {
		return err
	}
	mut := ports.Mutation{Values: sc.Values(sub.Form), Files: files}

	if mode == resource.ModeCreate {
		err = s.api.Create(ctx, sc, mut)
	} else {
		err = s.api.Update(ctx, sc, sub.ID, mut)
	}
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "resource saved", "resource", sc.Name, "mode", string(mode), "id", sub.ID)
	s.invalidate(ctx, sc)
	return nil
}

func (s *CatalogService) normalize(sc resource.Schema, uploads []ports.Upload) ([]ports.Upload, error) {
	out := make([]ports.Upload, 0, len(uploads))
	for _, u := range uploads {
		f, ok := sc.Field(u.Field)
		if !ok || f.Kind != resource.KindImage || len(u.Data) == 0 {
			continue
		}
		if s.images == nil {
			out = append(out, u)
			continue
		}
		n, err := s.images.Normalize(u)
		if err != nil {
			if apperrors.IsValidation(err) {
				return nil, FieldErrors{u.Field: apperrors.UserMessage(err, "Invalid image.")}
			}
			return nil, fmt.Errorf("normalize %s: %w", u.Field, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// DeleteResult is the list page shown after a delete the API accepted.
// ReloadErr is set when the record is gone but the page could not be fetched.
type DeleteResult struct {
	Page      model.Page
	ReloadErr error
}

// DeleteAndReload deletes one record and returns the page the list should
// show next. When the deleted row was the last one on a page after the first,
// the previous page is returned instead of an empty one. A non-nil error
// means nothing was deleted.
func (s *CatalogService) DeleteAndReload(ctx context.Context, name, id string, q ports.ListQuery) (DeleteResult, error) {
	sc, err := s.Schema(name)
	if err != nil {
		return DeleteResult{}, err
	}
	if strings.TrimSpace(id) == "" {
		return DeleteResult{}, apperrors.Validation("Missing record id.")
	}

	if err := s.api.Delete(ctx, sc, id); err != nil {
		return DeleteResult{}, err
	}
	s.logger.InfoContext(ctx, "resource deleted", "resource", sc.Name, "id", id)
	s.invalidate(ctx, sc)

	page, err := s.List(ctx, name, q)
	if err == nil && len(page.Items) == 0 && q.Page > 1 && sc.Paginated {
		q.Page--
		page, err = s.List(ctx, name, q)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "reload after delete failed", "resource", sc.Name, "id", id, "error", err)
		return DeleteResult{ReloadErr: err}, nil
	}
	return DeleteResult{Page: page}, nil
}

func (s *CatalogService) invalidate(ctx context.Context, sc resource.Schema) {
	if s.chrome == nil {
		return
	}
	switch sc.Name {
	case resource.Category, resource.Footer, resource.Service:
		s.chrome.InvalidateChrome(ctx)
	}
}
