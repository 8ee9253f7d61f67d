package httpx

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	"github.com/snmtc/parts-web/internal/http/ui/viewmodel"
	"github.com/snmtc/parts-web/internal/ports"
	"github.com/snmtc/parts-web/internal/router"
	"github.com/snmtc/parts-web/internal/service"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxUploadBytes bounds resource form posts when no limit is configured.
const DefaultMaxUploadBytes = 10 << 20

const eventResourceChanged = "resource:changed"

// resourcePanel is one list + modal section of a back-office page.
type resourcePanel struct {
	Schema     resource.Schema
	Columns    []resource.Field
	Rows       []model.Record
	Page       model.Page
	Pagination viewmodel.Pagination
	Search     string
	Options    map[string][]service.Option
	Error      string
	// ListURL is the fragment endpoint that reloads the panel.
	ListURL   string
	CSRFToken string
}

// Cell returns the display text of a column. Select fields show the label of
// the referenced record when it is known.
func (p resourcePanel) Cell(rec model.Record, f resource.Field) string {
	v := rec.String(f.Name)
	if f.Kind != resource.KindSelect {
		return v
	}
	for _, o := range p.Options[f.Name] {
		if o.Value == v {
			return o.Label
		}
	}
	// Joined list rows often carry the label under <source>_name.
	if f.OptionsFrom != "" {
		if label := rec.String(f.OptionsFrom + "_name"); label != "" {
			return label
		}
	}
	return v
}

// EditValues is the row as form values, sent with the edit button so the
// modal opens prefilled without another upstream call.
func (p resourcePanel) EditValues(rec model.Record) map[string]string {
	out := make(map[string]string, len(p.Schema.Fields)+1)
	for _, f := range p.Schema.Fields {
		out[f.Name] = rec.String(f.Name)
	}
	return out
}

// ReloadURL reloads the panel on its current page and search term.
func (p resourcePanel) ReloadURL() string {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	page := p.Page.CurrentPage
	if page < 1 {
		page = 1
	}
	return viewmodel.PageURL(p.ListURL, q, page)
}

// EditURL opens the edit modal for rec.
func (p resourcePanel) EditURL(rec model.Record) string {
	q := url.Values{}
	for k, v := range p.EditValues(rec) {
		q.Set(k, v)
	}
	return p.ListURL + "/" + url.PathEscape(rec.ID()) + "/edit?" + q.Encode()
}

// listQuery reads the panel paging and search state.
func listQuery(q url.Values, sc resource.Schema) ports.ListQuery {
	lq := ports.ListQuery{}
	if sc.Paginated {
		lq.Page = pageParam(q)
	}
	if sc.Searchable {
		lq.Search = strings.TrimSpace(q.Get("search"))
	}
	return lq
}

// panelState keeps only the query keys that describe a panel's list.
func panelState(q url.Values) url.Values {
	out := url.Values{}
	for _, k := range []string{"page", "search"} {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			out.Set(k, v)
		}
	}
	return out
}

func resourceListURL(name string) string { return "/admin/resources/" + name }

// loadPanel fetches the list and, for tables showing select columns, the
// option labels. A failed list leaves the panel with an error message.
func (h *UIHandlers) loadPanel(ctx context.Context, sc resource.Schema, q url.Values) resourcePanel {
	q = panelState(q)
	lq := listQuery(q, sc)
	p := resourcePanel{
		Schema:  sc,
		Columns: sc.Columns(),
		Search:  lq.Search,
		ListURL: resourceListURL(sc.Name),
	}

	var g errgroup.Group
	g.Go(func() error {
		page, err := h.Catalog.List(ctx, sc.Name, lq)
		if err != nil {
			p.Error = userMessage(err, "Failed to load "+strings.ToLower(sc.Title)+".")
			h.logger().Warn("resource list failed", "resource", sc.Name, "error", err)
			return nil
		}
		p.Page = page
		return nil
	})
	g.Go(func() error {
		p.Options = h.Catalog.Options(ctx, sc)
		return nil
	})
	_ = g.Wait()

	p.setPage(p.Page, q)
	return p
}

func (p *resourcePanel) setPage(page model.Page, q url.Values) {
	p.Page = page
	p.Rows = page.Items
	if p.Schema.Paginated {
		p.Pagination = viewmodel.NewPagination(p.ListURL, q, page.CurrentPage, page.TotalPages, page.Count)
	}
}

// ResourcesPage renders a back-office page made of resource panels.
func (h *UIHandlers) ResourcesPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	names := adminResources[m.Route.Name]
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(ctx context.Context, b *TemplateDataBuilder) error {
			panels := make([]resourcePanel, len(names))
			g, gctx := errgroup.WithContext(ctx)
			for i, name := range names {
				g.Go(func() error {
					sc, err := h.Catalog.Schema(name)
					if err != nil {
						return err
					}
					panels[i] = h.loadPanel(gctx, sc, r.URL.Query())
					panels[i].CSRFToken = GetCSRFToken(r)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			b.With("Panels", panels)
			return nil
		},
	})
}

// schemaFromPath resolves {resource} or answers 404.
func (h *UIHandlers) schemaFromPath(w http.ResponseWriter, r *http.Request) (resource.Schema, bool) {
	sc, err := h.Catalog.Schema(r.PathValue("resource"))
	if err != nil || sc.ReadOnly {
		http.NotFound(w, r)
		return resource.Schema{}, false
	}
	return sc, true
}

// ResourceList handles GET /admin/resources/{resource} and re-renders one panel.
func (h *UIHandlers) ResourceList(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.schemaFromPath(w, r)
	if !ok {
		return
	}
	p := h.loadPanel(r.Context(), sc, r.URL.Query())
	p.CSRFToken = GetCSRFToken(r)
	h.renderFragment(w, r, "resource-panel", p)
}

// resourceForm is the data of the create/edit modal.
type resourceForm struct {
	Schema       resource.Schema
	Mode         FormMode
	ID           string
	Action       string
	Values       map[string]string
	Options      map[string][]service.Option
	Errors       map[string]string
	ErrorMessage string
	CSRFToken    string
}

// Value returns the current value of a field.
func (f resourceForm) Value(name string) string { return f.Values[name] }

func (h *UIHandlers) newResourceForm(ctx context.Context, r *http.Request, sc resource.Schema, id string) resourceForm {
	f := resourceForm{
		Schema:    sc,
		Mode:      FormModeCreate,
		Action:    resourceListURL(sc.Name),
		Values:    map[string]string{},
		Options:   h.Catalog.Options(ctx, sc),
		CSRFToken: GetCSRFToken(r),
	}
	if id != "" {
		f.Mode = FormModeEdit
		f.ID = id
		f.Action = resourceListURL(sc.Name) + "/" + url.PathEscape(id)
	}
	return f
}

// ResourceNew handles GET /admin/resources/{resource}/new.
func (h *UIHandlers) ResourceNew(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.schemaFromPath(w, r)
	if !ok {
		return
	}
	h.renderFragment(w, r, "resource-form", h.newResourceForm(r.Context(), r, sc, ""))
}

// ResourceEdit handles GET /admin/resources/{resource}/{id}/edit. The row's
// values arrive as query parameters.
func (h *UIHandlers) ResourceEdit(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.schemaFromPath(w, r)
	if !ok {
		return
	}
	f := h.newResourceForm(r.Context(), r, sc, r.PathValue("id"))
	q := r.URL.Query()
	for _, fld := range sc.Fields {
		f.Values[fld.Name] = q.Get(fld.Name)
	}
	h.renderFragment(w, r, "resource-form", f)
}

// ResourceCreate handles POST /admin/resources/{resource}.
func (h *UIHandlers) ResourceCreate(w http.ResponseWriter, r *http.Request) {
	h.submitResource(w, r, "")
}

// ResourceUpdate handles POST /admin/resources/{resource}/{id}.
func (h *UIHandlers) ResourceUpdate(w http.ResponseWriter, r *http.Request) {
	h.submitResource(w, r, r.PathValue("id"))
}

func (h *UIHandlers) submitResource(w http.ResponseWriter, r *http.Request, id string) {
	sc, ok := h.schemaFromPath(w, r)
	if !ok {
		return
	}

	form, files, err := h.parseResourceForm(w, r, sc)
	if err != nil {
		f := h.newResourceForm(r.Context(), r, sc, id)
		f.ErrorMessage = "The upload is too large or malformed."
		triggerToast(w, f.ErrorMessage, "error")
		h.renderFragment(w, r, "resource-form", f)
		return
	}

	err = h.Catalog.Submit(r.Context(), sc.Name, service.Submission{ID: id, Form: form, Files: files})
	if err != nil {
		f := h.newResourceForm(r.Context(), r, sc, id)
		f.Values = sc.Values(form)
		fields := map[string]string{}
		f.ErrorMessage = processError(err, &fields)
		if len(fields) > 0 {
			f.Errors = fields
		}
		if f.ErrorMessage == "" {
			f.ErrorMessage = errMsgFixBelow
		} else {
			triggerToast(w, f.ErrorMessage, "error")
			h.logger().Warn("resource save failed", "resource", sc.Name, "id", id, "error", err)
		}
		h.renderFragment(w, r, "resource-form", f)
		return
	}

	if !IsHTMX(r) {
		h.backToResourcePage(w, r, sc.Name)
		return
	}
	verb := "added"
	if id != "" {
		verb = "updated"
	}
	HTMX(w).Triggers(map[string]any{
		"showToast":          map[string]string{"message": sc.Title + " " + verb + " successfully.", "type": "success"},
		eventResourceChanged: map[string]string{"resource": sc.Name},
	})
	// An empty body closes the modal.
	w.WriteHeader(http.StatusOK)
}

// parseResourceForm reads the form fields and the uploads of image fields.
func (h *UIHandlers) parseResourceForm(w http.ResponseWriter, r *http.Request, sc resource.Schema) (url.Values, []ports.Upload, error) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return nil, nil, err
		}
		return r.PostForm, nil, nil
	}
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, nil, err
	}

	var uploads []ports.Upload
	for _, f := range sc.Fields {
		if f.Kind != resource.KindImage {
			continue
		}
		up, err := readUpload(r, f.Name)
		if err != nil {
			return nil, nil, err
		}
		if up != nil {
			uploads = append(uploads, *up)
		}
	}
	return r.MultipartForm.Value, uploads, nil
}

func readUpload(r *http.Request, field string) (*ports.Upload, error) {
	file, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &ports.Upload{
		Field:       field,
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// ResourceDelete handles POST /admin/resources/{resource}/{id}/delete and
// answers with the reloaded panel.
func (h *UIHandlers) ResourceDelete(w http.ResponseWriter, r *http.Request) {
	sc, ok := h.schemaFromPath(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	// Paging state travels in the form so the reload stays on the same page.
	q := panelState(r.Form)
	id := r.PathValue("id")

	res, err := h.Catalog.DeleteAndReload(r.Context(), sc.Name, id, listQuery(q, sc))
	if err != nil {
		msg := userMessage(err, "Failed to delete "+strings.ToLower(sc.Title)+".")
		triggerToast(w, msg, "error")
		h.logger().Warn("resource delete failed", "resource", sc.Name, "id", id, "error", err)
		p := h.loadPanel(r.Context(), sc, q)
		p.CSRFToken = GetCSRFToken(r)
		h.renderFragment(w, r, "resource-panel", p)
		return
	}

	if !IsHTMX(r) {
		h.backToResourcePage(w, r, sc.Name)
		return
	}
	p := resourcePanel{Schema: sc, Columns: sc.Columns(), Search: listQuery(q, sc).Search, ListURL: resourceListURL(sc.Name)}
	p.Options = h.Catalog.Options(r.Context(), sc)
	if res.ReloadErr != nil {
		// The record is gone; only the list is stale.
		p.Error = userMessage(res.ReloadErr, "Failed to load "+strings.ToLower(sc.Title)+".")
	} else {
		p.setPage(res.Page, q)
	}
	p.CSRFToken = GetCSRFToken(r)
	triggerToast(w, sc.Title+" deleted successfully.", "success")
	h.renderFragment(w, r, "resource-panel", p)
}

// backToResourcePage answers a plain form post with a redirect to the page
// that shows the resource.
func (h *UIHandlers) backToResourcePage(w http.ResponseWriter, r *http.Request, name string) {
	target, ok := resourcePages[name]
	if !ok {
		target = AfterLoginPath
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
