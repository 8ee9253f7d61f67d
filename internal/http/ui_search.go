package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/snmtc/parts-web/internal/domain/resource"
	"github.com/snmtc/parts-web/internal/http/ui/viewmodel"
	"github.com/snmtc/parts-web/internal/service"
)

// Search boxes, used as coalescer key suffixes and metric labels.
const (
	searchBoxShop          = "shop"
	searchBoxAdminProducts = "admin-products"
	searchBoxNotifications = "notifications"
)

// Search outcomes recorded in metrics.
const (
	searchFired      = "fired"
	searchSuperseded = "superseded"
	searchCanceled   = "canceled"
	searchError      = "error"
)

// clientKey names the browser by its client id cookie, issuing one when the
// ClientID middleware has not run.
func (h *UIHandlers) clientKey(w http.ResponseWriter, r *http.Request) string {
	if id := GetClientID(r.Context()); id != "" {
		return id
	}
	return h.ClientIDs.Ensure(w, r)
}

// settle waits out the quiet period of box for this browser. It returns
// false when the response has already been decided: 204 for a request
// superseded by a newer keystroke, nothing for a canceled one.
func (h *UIHandlers) settle(w http.ResponseWriter, r *http.Request, box, term string) bool {
	if h.Searches == nil {
		h.Metrics.search(box, searchFired)
		return true
	}
	fire, err := h.Searches.Wait(r.Context(), h.clientKey(w, r)+"|"+box, term)
	switch {
	case err != nil:
		h.Metrics.search(box, searchCanceled)
		if !errors.Is(err, context.Canceled) {
			h.logger().Debug("search wait ended", "box", box, "error", err)
		}
		return false
	case !fire:
		h.Metrics.search(box, searchSuperseded)
		w.WriteHeader(http.StatusNoContent)
		return false
	default:
		h.Metrics.search(box, searchFired)
		return true
	}
}

// ShopSearch handles GET /shop/_search and answers with the product grid.
// Terms shorter than the minimum search length list every product.
func (h *UIHandlers) ShopSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sq := service.ShopQuery{
		CategoryID: strings.TrimSpace(q.Get("categoryId")),
		Search:     strings.TrimSpace(q.Get("search")),
		Page:       pageParam(q),
	}
	if !h.settle(w, r, searchBoxShop, sq.Search) {
		return
	}

	shop := h.Storefront.Shop(r.Context(), sq, nil)
	if shop.Err != "" {
		h.Metrics.search(searchBoxShop, searchError)
	}

	base := "/shop"
	if sq.CategoryID != "" {
		base += "/" + url.PathEscape(sq.CategoryID)
	}
	state := url.Values{}
	if sq.Search != "" {
		state.Set("search", sq.Search)
	}
	HTMX(w).ReplaceURL(viewmodel.PageURL(base, state, 1))

	h.renderFragment(w, r, "shop-results", map[string]any{
		"Shop":       shop,
		"SearchPath": shopSearchPath,
		"Pagination": viewmodel.NewPagination(base, state, shop.Page.CurrentPage, shop.Page.TotalPages, shop.Page.Count),
	})
}

// AdminProductSearch handles GET /admin/products/_search and answers with
// the product panel.
func (h *UIHandlers) AdminProductSearch(w http.ResponseWriter, r *http.Request) {
	sc, err := h.Catalog.Schema(resource.Product)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	// A new term always starts from the first page.
	q.Del("page")
	if !h.settle(w, r, searchBoxAdminProducts, strings.TrimSpace(q.Get("search"))) {
		return
	}

	p := h.loadPanel(r.Context(), sc, q)
	if p.Error != "" {
		h.Metrics.search(searchBoxAdminProducts, searchError)
	}
	p.CSRFToken = GetCSRFToken(r)
	h.renderFragment(w, r, "resource-panel", p)
}

// NotificationSearch handles GET /admin/notification/_search. The term
// filters the fetched page locally.
func (h *UIHandlers) NotificationSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !h.settle(w, r, searchBoxNotifications, strings.TrimSpace(q.Get("search"))) {
		return
	}
	h.NotificationList(w, r)
}
