package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/snmtc/parts-web/internal/adapters/memstore"
	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/mocks"
	"github.com/snmtc/parts-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newStorefront(t *testing.T, cache ports.Cache) (*StorefrontService, *mocks.MockPartsAPI) {
	t.Helper()
	api := mocks.NewMockPartsAPI(gomock.NewController(t))
	svc := NewStorefrontService(StorefrontServiceOptions{
		API:    api,
		Cache:  cache,
		Config: StorefrontConfig{ChromeTTL: time.Minute},
	})
	return svc, api
}

func listBySchema(pages map[string]model.Page, errs map[string]error) func(context.Context, resource.Schema, ports.ListQuery) (model.Page, error) {
	return func(_ context.Context, sc resource.Schema, _ ports.ListQuery) (model.Page, error) {
		if err := errs[sc.Name]; err != nil {
			return model.Page{}, err
		}
		return pages[sc.Name], nil
	}
}

func TestStorefrontService_ChromeCachedWhenComplete(t *testing.T) {
	cache := memstore.NewCache()
	svc, api := newStorefront(t, cache)
	ctx := context.Background()

	pages := map[string]model.Page{
		resource.Category: {Items: []model.Record{{"id": 1.0, "category": "Brakes"}}},
		resource.Footer:   {Items: []model.Record{{"id": 1.0, "phone": "9876543210", "email": "shop@example.com"}}},
	}
	api.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(listBySchema(pages, nil)).Times(2)
	api.EXPECT().ServiceTitles(gomock.Any()).Return([]model.Record{{"id": 5.0, "title": "Alignment"}}, nil).Times(1)

	first := svc.Chrome(ctx)
	require.Len(t, first.Categories, 1)
	assert.Equal(t, "Brakes", first.Categories[0].Name)
	assert.Equal(t, "9876543210", first.Footer.Phone)
	require.Len(t, first.Services, 1)

	// Served from the cache: the mock would fail on a second round of calls.
	second := svc.Chrome(ctx)
	assert.Equal(t, first, second)
}

func TestStorefrontService_ChromePartialNotCached(t *testing.T) {
	cache := memstore.NewCache()
	svc, api := newStorefront(t, cache)
	ctx := context.Background()

	errs := map[string]error{resource.Footer: apperrors.Upstream(http.StatusInternalServerError, "")}
	api.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(listBySchema(nil, errs)).Times(4)
	api.EXPECT().ServiceTitles(gomock.Any()).Return(nil, nil).Times(2)

	c := svc.Chrome(ctx)
	assert.Empty(t, c.Footer.Phone)

	raw, err := cache.Get(ctx, chromeCacheKey)
	require.NoError(t, err)
	assert.Nil(t, raw)

	svc.Chrome(ctx)
}

func TestStorefrontService_InvalidateChrome(t *testing.T) {
	cache := memstore.NewCache()
	svc, api := newStorefront(t, cache)
	ctx := context.Background()

	api.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Page{}, nil).Times(4)
	api.EXPECT().ServiceTitles(gomock.Any()).Return(nil, nil).Times(2)

	svc.Chrome(ctx)
	svc.InvalidateChrome(ctx)
	svc.Chrome(ctx)
}

func TestStorefrontService_ChromeWithoutCache(t *testing.T) {
	svc, api := newStorefront(t, nil)
	ctx := context.Background()

	api.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Page{}, nil).Times(4)
	api.EXPECT().ServiceTitles(gomock.Any()).Return(nil, nil).Times(2)

	svc.Chrome(ctx)
	svc.Chrome(ctx)
	svc.InvalidateChrome(ctx)
}

func TestStorefrontService_HomeSectionsIndependent(t *testing.T) {
	svc, api := newStorefront(t, nil)

	pages := map[string]model.Page{
		resource.Slider: {Items: []model.Record{{"id": 1.0, "title": "Genuine parts", "filename": "s.jpg"}}},
		resource.About:  {Items: []model.Record{{"id": 1.0, "title": "Since 1998", "experience": 25.0}}},
	}
	errs := map[string]error{resource.Service: apperrors.Upstream(http.StatusBadGateway, "Service list unavailable")}
	api.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(listBySchema(pages, errs)).Times(3)

	products := make([]model.Record, 0, 10)
	for i := range 10 {
		products = append(products, model.Record{"id": float64(i + 1), "productname": "Part"})
	}
	api.EXPECT().SearchProducts(gomock.Any(), ports.ListQuery{Page: 1, PerPage: 8}).
		Return(model.Page{Items: products}, nil)

	home := svc.Home(context.Background())
	require.Len(t, home.Slides, 1)
	assert.Equal(t, "s.jpg", home.Slides[0].Image)
	require.NotNil(t, home.About)
	assert.Equal(t, "25", home.About.Experience)
	assert.Empty(t, home.Services)
	assert.Len(t, home.Products, 8)
	assert.Equal(t, SectionErrors{"services": "Service list unavailable"}, home.Errors)
}

func TestStorefrontService_AboutPage(t *testing.T) {
	svc, api := newStorefront(t, nil)

	pages := map[string]model.Page{
		resource.Journey: {Items: []model.Record{{"id": 1.0, "year": "1998", "title": "Founded"}}},
	}
	errs := map[string]error{resource.About: errors.New("dial tcp: refused")}
	api.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(listBySchema(pages, errs)).Times(2)

	p := svc.About(context.Background())
	assert.Empty(t, p.About)
	require.Len(t, p.Journey, 1)
	assert.Equal(t, "1998", p.Journey[0].Year)
	assert.Equal(t, "Failed to load about.", p.Errors["about"])
}

func TestShopQuery_EffectiveSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"br", ""},
		{"  br  ", ""},
		{"bra", "bra"},
		{" brake pad ", "brake pad"},
		{"पहि", "पहि"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShopQuery{Search: tt.in}.EffectiveSearch(), "input %q", tt.in)
	}
}

func TestStorefrontService_Shop(t *testing.T) {
	svc, api := newStorefront(t, nil)
	categories := []model.Category{{ID: "1", Name: "Brakes"}, {ID: "2", Name: "Filters"}}

	api.EXPECT().SearchProducts(gomock.Any(), ports.ListQuery{Page: 1, PerPage: 12, CategoryID: "2"}).
		Return(model.Page{Items: []model.Record{{"id": 9.0, "name": "Oil filter", "image": "f.jpg"}}, CurrentPage: 1, TotalPages: 4}, nil)

	p := svc.Shop(context.Background(), ShopQuery{CategoryID: "2", Search: "oi"}, categories)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Filters", p.Category.Name)
	require.Len(t, p.Products, 1)
	assert.Equal(t, "Oil filter", p.Products[0].Name)
	assert.True(t, p.Page.HasNext())
	assert.Empty(t, p.Err)
}

func TestStorefrontService_ShopError(t *testing.T) {
	svc, api := newStorefront(t, nil)

	api.EXPECT().SearchProducts(gomock.Any(), gomock.Any()).Return(model.Page{}, errors.New("timeout"))

	p := svc.Shop(context.Background(), ShopQuery{Page: 3}, nil)
	assert.Equal(t, "Failed to fetch products", p.Err)
	assert.Equal(t, 3, p.Page.CurrentPage)
	assert.Nil(t, p.Category)
}

func TestStorefrontService_ServiceDetail(t *testing.T) {
	svc, api := newStorefront(t, nil)

	api.EXPECT().Show(gomock.Any(), gomock.Any(), "5").Return(model.Record{"id": 5.0, "title": "Alignment"}, nil)
	s, err := svc.ServiceDetail(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Alignment", s.Title)

	api.EXPECT().Show(gomock.Any(), gomock.Any(), "6").Return(nil, apperrors.NotFound("Service not found"))
	_, err = svc.ServiceDetail(context.Background(), "6")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStorefrontService_SendInquiry(t *testing.T) {
	svc, api := newStorefront(t, nil)
	ctx := context.Background()

	err := svc.SendInquiry(ctx, model.InquiryRequest{UserName: " ", Phone: "12ab", Title: "Price", Description: "How much?"})
	var fields FieldErrors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "Please enter your name.", fields["user_name"])
	assert.Equal(t, "Please enter a valid phone number.", fields["phone"])
	assert.NotContains(t, fields, "title")

	want := model.InquiryRequest{UserName: "Ravi", Phone: "9876543210", Title: "Price", Description: "How much?", ProductID: "12"}
	api.EXPECT().SendInquiry(gomock.Any(), want).Return(nil)
	require.NoError(t, svc.SendInquiry(ctx, model.InquiryRequest{
		UserName: " Ravi ", Phone: "9876543210", Title: "Price", Description: "How much? ", ProductID: "12",
	}))
}
