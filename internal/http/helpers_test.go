package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	domainauth "github.com/snmtc/parts-web/internal/domain/auth"
	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/mocks/session"
	"github.com/snmtc/parts-web/internal/ports"
	"github.com/snmtc/parts-web/internal/router"
	"github.com/snmtc/parts-web/internal/service"
	"github.com/stretchr/testify/require"
)

const testCSRFToken = "test-csrf-token"

var testNow = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

// fakeStorefront returns canned storefront data.
type fakeStorefront struct {
	mu sync.Mutex

	chrome      service.Chrome
	home        service.HomePage
	about       service.AboutPage
	services    []model.Service
	servicesErr error
	detail      model.Service
	detailErr   error
	shop        func(q service.ShopQuery) service.ShopPage
	inquiryErr  error

	shopQueries []service.ShopQuery
	inquiries   []model.InquiryRequest
}

func (f *fakeStorefront) Chrome(context.Context) service.Chrome { return f.chrome }
func (f *fakeStorefront) Home(context.Context) service.HomePage { return f.home }
func (f *fakeStorefront) About(context.Context) service.AboutPage { return f.about }
func (f *fakeStorefront) Services(context.Context) ([]model.Service, error) {
	return f.services, f.servicesErr
}

func (f *fakeStorefront) ServiceDetail(_ context.Context, id string) (model.Service, error) {
	if f.detailErr != nil {
		return model.Service{}, f.detailErr
	}
	d := f.detail
	d.ID = id
	return d, nil
}

func (f *fakeStorefront) Shop(_ context.Context, q service.ShopQuery, _ []model.Category) service.ShopPage {
	f.mu.Lock()
	f.shopQueries = append(f.shopQueries, q)
	f.mu.Unlock()
	if f.shop != nil {
		return f.shop(q)
	}
	return service.ShopPage{Query: q, Page: model.Page{CurrentPage: 1, TotalPages: 1}}
}

func (f *fakeStorefront) SendInquiry(_ context.Context, req model.InquiryRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inquiryErr != nil {
		return f.inquiryErr
	}
	f.inquiries = append(f.inquiries, req)
	return nil
}

// fakeCatalog serves the default resource schemas over in-memory pages.
type fakeCatalog struct {
	mu sync.Mutex

	registry  *resource.Registry
	pages     map[string]model.Page
	listErr   error
	options   map[string][]service.Option
	submitErr error
	deleteErr error
	// reloadErr fails the list fetch that follows an accepted delete.
	reloadErr error

	submissions []service.Submission
	deleted     []string
	listQueries []ports.ListQuery
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{registry: resource.DefaultRegistry(), pages: map[string]model.Page{}}
}

func (f *fakeCatalog) Schema(name string) (resource.Schema, error) {
	sc, ok := f.registry.Get(name)
	if !ok {
		return resource.Schema{}, apperrors.NotFoundf("unknown resource %q", name)
	}
	return sc, nil
}

func (f *fakeCatalog) List(_ context.Context, name string, q ports.ListQuery) (model.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listQueries = append(f.listQueries, q)
	if f.listErr != nil {
		return model.Page{}, f.listErr
	}
	return f.pages[name], nil
}

func (f *fakeCatalog) Options(context.Context, resource.Schema) map[string][]service.Option {
	return f.options
}

func (f *fakeCatalog) Submit(_ context.Context, _ string, sub service.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, sub)
	return f.submitErr
}

func (f *fakeCatalog) DeleteAndReload(_ context.Context, name, id string, _ ports.ListQuery) (service.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return service.DeleteResult{}, f.deleteErr
	}
	f.deleted = append(f.deleted, name+"/"+id)
	if f.reloadErr != nil {
		return service.DeleteResult{ReloadErr: f.reloadErr}, nil
	}
	return service.DeleteResult{Page: f.pages[name]}, nil
}

// fakeInquiries lists a fixed set of inquiries.
type fakeInquiries struct {
	list      service.InquiryList
	listErr   error
	deleteErr error
	reloadErr error

	filters []service.InquiryFilter
	deleted []string
}

func (f *fakeInquiries) List(_ context.Context, flt service.InquiryFilter) (service.InquiryList, error) {
	f.filters = append(f.filters, flt)
	return f.list, f.listErr
}

func (f *fakeInquiries) Delete(_ context.Context, id string, flt service.InquiryFilter) (service.InquiryList, bool, error) {
	f.filters = append(f.filters, flt)
	if f.deleteErr != nil {
		return service.InquiryList{}, false, f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	if f.reloadErr != nil {
		return service.InquiryList{}, true, f.reloadErr
	}
	return f.list, true, nil
}

// fakeDashboard counts loads so guard tests can assert nothing was fetched.
type fakeDashboard struct {
	dash  service.Dashboard
	loads atomic.Int32
}

func (f *fakeDashboard) Load(context.Context) service.Dashboard {
	f.loads.Add(1)
	return f.dash
}

// fakeAuth accepts one password and flips the shared session flag.
type fakeAuth struct {
	sessions ports.SessionProvider
	password string
	otpErr   error
	resetErr error

	otpSent []string
}

func (f *fakeAuth) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, c domainauth.Credentials) error {
	if c.Email == "" || c.Password == "" {
		return service.FieldErrors{"email": "Email and password are required."}
	}
	if c.Password != f.password {
		return apperrors.Unauthorized("Invalid email or password.")
	}
	return f.sessions.SetAuthenticated(ctx, w, r)
}

func (f *fakeAuth) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return f.sessions.ClearAuthenticated(ctx, w, r)
}

func (f *fakeAuth) SendOTP(_ context.Context, email string) error {
	if f.otpErr != nil {
		return f.otpErr
	}
	f.otpSent = append(f.otpSent, email)
	return nil
}

func (f *fakeAuth) ResetPassword(context.Context, domainauth.PasswordReset) error { return f.resetErr }

// testDeps bundles the fakes behind one router or handler set.
type testDeps struct {
	sessions   *session.FakeProvider
	storefront *fakeStorefront
	catalog    *fakeCatalog
	inquiries  *fakeInquiries
	dashboard  *fakeDashboard
	auth       *fakeAuth
}

func newTestDeps(signedIn bool) *testDeps {
	raw := ""
	if signedIn {
		raw = domainauth.FlagTrue
	}
	sessions := session.NewFakeProvider(raw)
	return &testDeps{
		sessions: sessions,
		storefront: &fakeStorefront{
			chrome: service.Chrome{
				Categories: []model.Category{{ID: "7", Name: "Brakes"}},
				Footer:     model.Footer{CompanyDescription: "Genuine spare parts since 1998.", Phone: "0771234567"},
				Services:   []model.Service{{ID: "3", Title: "Wheel Alignment"}},
			},
		},
		catalog:   newFakeCatalog(),
		dashboard: &fakeDashboard{},
		inquiries: &fakeInquiries{},
		auth:      &fakeAuth{sessions: sessions, password: "secret"},
	}
}

func (d *testDeps) routerServices() RouterServices {
	return RouterServices{
		Navigator:    router.NewNavigator(router.DefaultTable()),
		Sessions:     d.sessions,
		Auth:         d.auth,
		Catalog:      d.catalog,
		Storefront:   d.storefront,
		Inquiries:    d.inquiries,
		Dashboard:    d.dashboard,
		MediaBaseURL: "https://media.test/uploads/",
		Now:          func() time.Time { return testNow },
	}
}

// newTestRenderer parses the on-disk templates.
func newTestRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:   os.DirFS(TemplatePathFromTest),
		MediaBaseURL: "https://media.test/uploads/",
		Now:          func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return tr
}

// newTestHandlers builds UIHandlers over d without the router middleware.
func newTestHandlers(t *testing.T, d *testDeps) *UIHandlers {
	t.Helper()
	return &UIHandlers{
		T:          newTestRenderer(t),
		Navigator:  router.NewNavigator(router.DefaultTable()),
		Sessions:   d.sessions,
		Auth:       d.auth,
		Catalog:    d.catalog,
		Storefront: d.storefront,
		Inquiries:  d.inquiries,
		Dashboard:  d.dashboard,
	}
}

// newTestRouter builds the full handler over the embedded templates.
func newTestRouter(t *testing.T, d *testDeps) http.Handler {
	t.Helper()
	h, err := NewRouter(d.routerServices())
	require.NoError(t, err)
	return h
}

// withSession runs req through the session flag and a fixed CSRF token, the
// way the router middleware would.
func withSession(req *http.Request, sessions ports.SessionProvider) *http.Request {
	ctx := SetAuthenticatedInContext(req.Context(), sessions.IsAuthenticated(req))
	ctx = setCSRFTokenInContext(ctx, testCSRFToken)
	return req.WithContext(ctx)
}

// htmxRequest marks req as a plain htmx swap.
func htmxRequest(req *http.Request, currentURL string) *http.Request {
	req.Header.Set("HX-Request", "true")
	if currentURL != "" {
		req.Header.Set("HX-Current-URL", currentURL)
	}
	return req
}

// postForm builds a form post carrying the CSRF cookie and header.
func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(DefaultCSRFHeaderName, testCSRFToken)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
	return req
}

// serve runs req through h and returns the recorder.
func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// counterValue reads one series of vec.
func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	return testutil.ToFloat64(vec.WithLabelValues(labels...))
}
