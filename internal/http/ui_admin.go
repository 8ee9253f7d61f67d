package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/http/ui/viewmodel"
	"github.com/snmtc/parts-web/internal/router"
	"github.com/snmtc/parts-web/internal/service"
)

// DashboardPage renders the back-office landing tiles.
func (h *UIHandlers) DashboardPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(ctx context.Context, b *TemplateDataBuilder) error {
			b.With("Dashboard", h.Dashboard.Load(ctx))
			return nil
		},
	})
}

// notificationView is the data of the inquiry list fragment.
type notificationView struct {
	List         service.InquiryList
	Pagination   viewmodel.Pagination
	Presets      []string
	Errors       map[string]string
	ErrorMessage string
	CSRFToken    string
}

func inquiryFilter(q url.Values) service.InquiryFilter {
	return service.InquiryFilter{
		Preset: q.Get("preset"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Search: q.Get("search"),
		Page:   pageParam(q),
	}
}

// filterQuery is the canonical query of a resolved list, used for pager links.
func filterQuery(l service.InquiryList) url.Values {
	q := url.Values{"preset": {l.Range.Preset}}
	if l.Range.Preset == service.PresetCustom && !l.Range.From.IsZero() && !l.Range.To.IsZero() {
		q.Set("from", l.Range.FromParam())
		q.Set("to", l.Range.ToParam())
	}
	if l.Search != "" {
		q.Set("search", l.Search)
	}
	return q
}

func (h *UIHandlers) notificationView(r *http.Request, list service.InquiryList, err error) notificationView {
	v := notificationView{
		List:      list,
		Presets:   []string{service.PresetToday, service.PresetWeek, service.PresetMonth, service.PresetCustom},
		CSRFToken: GetCSRFToken(r),
	}
	if err != nil {
		fields := map[string]string{}
		v.ErrorMessage = processError(err, &fields)
		if len(fields) > 0 {
			v.Errors = fields
		}
		if v.ErrorMessage == "" {
			v.ErrorMessage = "Please choose a valid date range."
		}
	}
	v.Pagination = viewmodel.NewPagination("/admin/notification/_list", filterQuery(list),
		list.Page.CurrentPage, list.Page.TotalPages, list.Page.Count)
	return v
}

// NotificationPage renders the inquiry list with its date filters.
func (h *UIHandlers) NotificationPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(ctx context.Context, b *TemplateDataBuilder) error {
			list, err := h.Inquiries.List(ctx, inquiryFilter(r.URL.Query()))
			b.With("Notifications", h.notificationView(r, list, err))
			return nil
		},
	})
}

// NotificationList handles GET /admin/notification/_list.
func (h *UIHandlers) NotificationList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Inquiries.List(r.Context(), inquiryFilter(r.URL.Query()))
	if err != nil && !apperrors.IsValidation(err) {
		h.logger().Warn("inquiry list failed", "error", err)
	}
	h.renderFragment(w, r, "notification-list", h.notificationView(r, list, err))
}

// NotificationDelete handles POST /admin/notification/{id}/delete. The
// current filter travels in the form.
func (h *UIHandlers) NotificationDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	f := inquiryFilter(r.PostForm)

	list, deleted, err := h.Inquiries.Delete(r.Context(), id, f)
	switch {
	case !deleted:
		triggerToast(w, userMessage(err, "Failed to delete inquiry."), "error")
		h.logger().Warn("inquiry delete failed", "id", id, "error", err)
		list, err = h.Inquiries.List(r.Context(), f)
	case err != nil:
		// The inquiry is gone; the list shows its load error.
		triggerToast(w, "Inquiry deleted successfully.", "success")
		h.logger().Warn("inquiry reload after delete failed", "id", id, "error", err)
	default:
		triggerToast(w, "Inquiry deleted successfully.", "success")
	}
	h.renderFragment(w, r, "notification-list", h.notificationView(r, list, err))
}

// SidebarFragment handles GET /admin/_sidebar: it applies one sidebar
// operation to the state echoed by the page and re-renders the sidebar.
func (h *UIHandlers) SidebarFragment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	desktop, _ := strconv.ParseBool(q.Get("desktop"))
	state := viewmodel.SidebarStateFromQuery(q).Apply(q.Get("op"), desktop)

	path := q.Get("path")
	if path == "" {
		path = CurrentPath(r)
	}
	sb := viewmodel.BuildSidebar(viewmodel.AdminNav(), path, state)
	h.renderFragment(w, r, "admin-sidebar", map[string]any{"Sidebar": sb})
}
