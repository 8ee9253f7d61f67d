package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/router"
	"github.com/snmtc/parts-web/internal/service"
)

const shopSearchPath = "/shop/_search"

const (
	msgInquirySent   = "Thank you! Your message was sent successfully."
	msgInquiryFailed = "There was an error sending your inquiry."
)

// HomePage renders the storefront landing page.
func (h *UIHandlers) HomePage(w http.ResponseWriter, r *http.Request, m router.Match) {
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(ctx context.Context, b *TemplateDataBuilder) error {
			b.With("Home", h.Storefront.Home(ctx))
			return nil
		},
	})
}

// AboutPage renders the company profile and journey timeline.
func (h *UIHandlers) AboutPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(ctx context.Context, b *TemplateDataBuilder) error {
			b.With("About", h.Storefront.About(ctx))
			return nil
		},
	})
}

// ServicesPage lists the workshop services.
func (h *UIHandlers) ServicesPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(ctx context.Context, b *TemplateDataBuilder) error {
			items, err := h.Storefront.Services(ctx)
			b.With("Services", items)
			return err
		},
	})
}

// ServiceDetailPage renders one service.
func (h *UIHandlers) ServiceDetailPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	id, _ := m.Params.Get("id")
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(ctx context.Context, b *TemplateDataBuilder) error {
			svc, err := h.Storefront.ServiceDetail(ctx, id)
			if err != nil {
				return err
			}
			b.With("Service", svc).WithTitle(svc.Title)
			return nil
		},
	})
}

// shopQuery reads the shop filters from the route and query string.
func shopQuery(r *http.Request, m router.Match) service.ShopQuery {
	categoryID, _ := m.Params.Get("categoryId")
	q := r.URL.Query()
	return service.ShopQuery{
		CategoryID: categoryID,
		Search:     strings.TrimSpace(q.Get("search")),
		Page:       pageParam(q),
	}
}

// ShopPage renders the product grid, optionally narrowed to one category.
func (h *UIHandlers) ShopPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	q := shopQuery(r, m)
	h.Page(w, r, PageSpec{
		Meta:        metaForRoute(m.Route),
		ChromeFirst: true,
		Fetch: func(ctx context.Context, b *TemplateDataBuilder) error {
			chrome, _ := b.Value("Chrome").(service.Chrome)
			shop := h.Storefront.Shop(ctx, q, chrome.Categories)
			if shop.Category != nil {
				b.WithTitle(shop.Category.Name)
			}
			b.With("Shop", shop).
				With("SearchPath", shopSearchPath).
				WithPagination(r.URL.Path, shop.Page)
			return nil
		},
	})
}

// InquiryPage renders the product inquiry form.
func (h *UIHandlers) InquiryPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	id, _ := m.Params.Get("id")
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(_ context.Context, b *TemplateDataBuilder) error {
			b.With("InquiryForm", inquiryForm{Action: "/inquiry/" + id, ProductID: id, CSRFToken: GetCSRFToken(r)})
			return nil
		},
	})
}

// ContactPage renders the general contact form.
func (h *UIHandlers) ContactPage(w http.ResponseWriter, r *http.Request, m router.Match) {
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(m.Route),
		Fetch: func(_ context.Context, b *TemplateDataBuilder) error {
			b.With("InquiryForm", inquiryForm{Action: "/contact", CSRFToken: GetCSRFToken(r)})
			return nil
		},
	})
}

// inquiryForm is the state of the customer message form.
type inquiryForm struct {
	Action       string
	ProductID    string
	Values       model.InquiryRequest
	Errors       map[string]string
	ErrorMessage string
	Sent         bool
	CSRFToken    string
}

// SubmitInquiry handles POST /inquiry/{id}.
func (h *UIHandlers) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.sendInquiry(w, r, inquiryForm{Action: "/inquiry/" + id, ProductID: id}, router.RouteInquiry)
}

// SubmitContact handles POST /contact.
func (h *UIHandlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	h.sendInquiry(w, r, inquiryForm{Action: "/contact"}, router.RouteContact)
}

// sendInquiry forwards a customer message. htmx posts get the form fragment
// back; plain posts get the whole page.
func (h *UIHandlers) sendInquiry(w http.ResponseWriter, r *http.Request, form inquiryForm, route string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form.CSRFToken = GetCSRFToken(r)
	form.Values = model.InquiryRequest{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		UserName:    r.PostFormValue("user_name"),
		Phone:       r.PostFormValue("phone"),
		ProductID:   form.ProductID,
	}

	if err := h.Storefront.SendInquiry(r.Context(), form.Values); err != nil {
		fields := map[string]string{}
		if general := processError(err, &fields); general != "" {
			form.ErrorMessage = msgInquiryFailed
			triggerToast(w, msgInquiryFailed, "error")
			h.logger().Warn("inquiry not sent", "error", err, "product_id", form.ProductID)
		} else {
			form.ErrorMessage = errMsgFixBelow
		}
		if len(fields) > 0 {
			form.Errors = fields
		}
	} else {
		form.Sent = true
		form.Values = model.InquiryRequest{}
		triggerToast(w, msgInquirySent, "success")
	}

	if IsHTMX(r) {
		h.renderFragment(w, r, "inquiry-form", form)
		return
	}

	rt, _ := h.Navigator.Table().Lookup(route)
	h.Page(w, r, PageSpec{
		Meta: metaForRoute(rt),
		Fetch: func(_ context.Context, b *TemplateDataBuilder) error {
			b.With("InquiryForm", form)
			return nil
		},
	})
}
