package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
	"golang.org/x/sync/errgroup"
)

// MinSearchLength is the shortest term sent to the product search endpoint.
// Shorter non-empty terms fall back to the plain list.
const MinSearchLength = 3

const chromeCacheKey = "chrome:v1"

// StorefrontConfig tunes the public pages.
type StorefrontConfig struct {
	ShopPageSize int
	HomeProducts int
	ChromeTTL    time.Duration
}

// StorefrontServiceOptions groups dependencies for StorefrontService.
type StorefrontServiceOptions struct {
	API    ports.CatalogAPI
	Cache  ports.Cache
	Config StorefrontConfig
}

// StorefrontService loads the data of the public pages. Independent fetches
// run concurrently and each failure only blanks its own section.
type StorefrontService struct {
	api      ports.CatalogAPI
	cache    ports.Cache
	cfg      StorefrontConfig
	registry *resource.Registry
	validate *validator.Validate
	logger   *slog.Logger
}

// NewStorefrontService constructs a new StorefrontService.
func NewStorefrontService(opts StorefrontServiceOptions) *StorefrontService {
	if opts.API == nil {
		panic("CatalogAPI is required")
	}
	cfg := opts.Config
	if cfg.ShopPageSize <= 0 {
		cfg.ShopPageSize = 12
	}
	if cfg.HomeProducts <= 0 {
		cfg.HomeProducts = 8
	}
	return &StorefrontService{
		api:      opts.API,
		cache:    opts.Cache,
		cfg:      cfg,
		registry: resource.DefaultRegistry(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default().With("component", "storefront"),
	}
}

// SectionErrors records which parts of a page failed to load, keyed by
// section name. The page still renders.
type SectionErrors map[string]string

func (e SectionErrors) add(mu *sync.Mutex, section string, err error) {
	mu.Lock()
	defer mu.Unlock()
	e[section] = apperrors.UserMessage(err, "Failed to load "+section+".")
}

func (s *StorefrontService) schema(name string) resource.Schema {
	sc, _ := s.registry.Get(name)
	return sc
}

// Chrome is the data of the public navbar and footer.
type Chrome struct {
	Categories []model.Category `json:"categories"`
	Footer     model.Footer     `json:"footer"`
	Services   []model.Service  `json:"services"`
}

// Chrome loads the navbar categories, the footer block and the footer
// service links. Any failed part is left empty; Chrome never fails.
func (s *StorefrontService) Chrome(ctx context.Context) Chrome {
	if c, ok := s.cachedChrome(ctx); ok {
		return c
	}

	var (
		c       Chrome
		partial bool
		mu      sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.api.List(gctx, s.schema(resource.Category), ports.ListQuery{})
		if err != nil {
			s.chromeFailed(ctx, "categories", err, &mu, &partial)
			return nil
		}
		c.Categories = mapRecords(page.Items, model.CategoryFromRecord)
		return nil
	})
	g.Go(func() error {
		page, err := s.api.List(gctx, s.schema(resource.Footer), ports.ListQuery{})
		if err != nil {
			s.chromeFailed(ctx, "footer", err, &mu, &partial)
			return nil
		}
		if len(page.Items) > 0 {
			c.Footer = model.FooterFromRecord(page.Items[0])
		}
		return nil
	})
	g.Go(func() error {
		rows, err := s.api.ServiceTitles(gctx)
		if err != nil {
			s.chromeFailed(ctx, "service titles", err, &mu, &partial)
			return nil
		}
		c.Services = mapRecords(rows, model.ServiceFromRecord)
		return nil
	})
	_ = g.Wait()

	if !partial {
		s.storeChrome(ctx, c)
	}
	return c
}

func (s *StorefrontService) chromeFailed(ctx context.Context, part string, err error, mu *sync.Mutex, partial *bool) {
	mu.Lock()
	*partial = true
	mu.Unlock()
	if !apperrors.IsCanceled(err) {
		s.logger.WarnContext(ctx, "layout chrome fetch failed", "part", part, "error", err)
	}
}

func (s *StorefrontService) cachedChrome(ctx context.Context) (Chrome, bool) {
	if s.cache == nil || s.cfg.ChromeTTL <= 0 {
		return Chrome{}, false
	}
	raw, err := s.cache.Get(ctx, chromeCacheKey)
	if err != nil {
		s.logger.DebugContext(ctx, "chrome cache read failed", "error", err)
		return Chrome{}, false
	}
	if raw == nil {
		return Chrome{}, false
	}
	var c Chrome
	if err := json.Unmarshal(raw, &c); err != nil {
		return Chrome{}, false
	}
	return c, true
}

func (s *StorefrontService) storeChrome(ctx context.Context, c Chrome) {
	if s.cache == nil || s.cfg.ChromeTTL <= 0 {
		return
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, chromeCacheKey, raw, s.cfg.ChromeTTL); err != nil {
		s.logger.DebugContext(ctx, "chrome cache write failed", "error", err)
	}
}

// InvalidateChrome drops the cached chrome so the next page view refetches it.
func (s *StorefrontService) InvalidateChrome(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Delete(ctx, chromeCacheKey); err != nil {
		s.logger.WarnContext(ctx, "chrome cache invalidation failed", "error", err)
	}
}

// HomePage is the data of "/".
type HomePage struct {
	Slides   []model.Slide
	About    *model.About
	Services []model.Service
	Products []model.Product
	Errors   SectionErrors
}

// Home loads the four home page sections concurrently.
func (s *StorefrontService) Home(ctx context.Context) HomePage {
	p := HomePage{Errors: SectionErrors{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.api.List(gctx, s.schema(resource.Slider), ports.ListQuery{})
		if err != nil {
			p.Errors.add(&mu, "slides", err)
			return nil
		}
		p.Slides = mapRecords(page.Items, model.SlideFromRecord)
		return nil
	})
	g.Go(func() error {
		page, err := s.api.List(gctx, s.schema(resource.About), ports.ListQuery{})
		if err != nil {
			p.Errors.add(&mu, "about", err)
			return nil
		}
		if len(page.Items) > 0 {
			a := model.AboutFromRecord(page.Items[0])
			p.About = &a
		}
		return nil
	})
	g.Go(func() error {
		page, err := s.api.List(gctx, s.schema(resource.Service), ports.ListQuery{})
		if err != nil {
			p.Errors.add(&mu, "services", err)
			return nil
		}
		p.Services = mapRecords(page.Items, model.ServiceFromRecord)
		return nil
	})
	g.Go(func() error {
		page, err := s.api.SearchProducts(gctx, ports.ListQuery{Page: 1, PerPage: s.cfg.HomeProducts})
		if err != nil {
			p.Errors.add(&mu, "products", err)
			return nil
		}
		p.Products = mapRecords(page.Items, model.ProductFromRecord)
		if len(p.Products) > s.cfg.HomeProducts {
			p.Products = p.Products[:s.cfg.HomeProducts]
		}
		return nil
	})
	_ = g.Wait()
	return p
}

// AboutPage is the data of "/about".
type AboutPage struct {
	About   []model.About
	Journey []model.Journey
	Errors  SectionErrors
}

// About loads the company profile and the journey timeline concurrently.
func (s *StorefrontService) About(ctx context.Context) AboutPage {
	p := AboutPage{Errors: SectionErrors{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.api.List(gctx, s.schema(resource.About), ports.ListQuery{})
		if err != nil {
			p.Errors.add(&mu, "about", err)
			return nil
		}
		p.About = mapRecords(page.Items, model.AboutFromRecord)
		return nil
	})
	g.Go(func() error {
		page, err := s.api.List(gctx, s.schema(resource.Journey), ports.ListQuery{})
		if err != nil {
			p.Errors.add(&mu, "journey", err)
			return nil
		}
		p.Journey = mapRecords(page.Items, model.JourneyFromRecord)
		return nil
	})
	_ = g.Wait()
	return p
}

// Services lists every service.
func (s *StorefrontService) Services(ctx context.Context) ([]model.Service, error) {
	page, err := s.api.List(ctx, s.schema(resource.Service), ports.ListQuery{})
	if err != nil {
		return nil, err
	}
	return mapRecords(page.Items, model.ServiceFromRecord), nil
}

// ServiceDetail loads one service.
func (s *StorefrontService) ServiceDetail(ctx context.Context, id string) (model.Service, error) {
	rec, err := s.api.Show(ctx, s.schema(resource.Service), id)
	if err != nil {
		return model.Service{}, err
	}
	return model.ServiceFromRecord(rec), nil
}

// ShopQuery selects a page of the shop grid.
type ShopQuery struct {
	CategoryID string
	Search     string
	Page       int
}

// EffectiveSearch returns the term sent upstream: empty when shorter than
// MinSearchLength.
func (q ShopQuery) EffectiveSearch() string {
	term := strings.TrimSpace(q.Search)
	if len([]rune(term)) < MinSearchLength {
		return ""
	}
	return term
}

// ShopPage is the data of "/shop" and "/shop/:categoryId".
type ShopPage struct {
	Query    ShopQuery
	Products []model.Product
	Page     model.Page
	Category *model.Category
	Err      string
}

// Shop loads one page of products. categories is the navbar list used to
// resolve the selected category's name.
func (s *StorefrontService) Shop(ctx context.Context, q ShopQuery, categories []model.Category) ShopPage {
	if q.Page < 1 {
		q.Page = 1
	}
	p := ShopPage{Query: q}
	for i := range categories {
		if categories[i].ID == q.CategoryID && q.CategoryID != "" {
			c := categories[i]
			p.Category = &c
		}
	}

	page, err := s.SearchProducts(ctx, q)
	if err != nil {
		p.Err = apperrors.UserMessage(err, "Failed to fetch products")
		p.Page = model.Page{CurrentPage: q.Page, TotalPages: q.Page}
		return p
	}
	p.Page = page
	p.Products = mapRecords(page.Items, model.ProductFromRecord)
	return p
}

// SearchProducts runs the upstream product query for q.
func (s *StorefrontService) SearchProducts(ctx context.Context, q ShopQuery) (model.Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	return s.api.SearchProducts(ctx, ports.ListQuery{
		Page:       q.Page,
		PerPage:    s.cfg.ShopPageSize,
		Search:     q.EffectiveSearch(),
		CategoryID: q.CategoryID,
	})
}

type inquiryInput struct {
	UserName    string `validate:"required,max=100"`
	Phone       string `validate:"required,numeric,min=7,max=15"`
	Title       string `validate:"required,max=200"`
	Description string `validate:"required,max=5000"`
}

//nolint:gochecknoglobals // static read-only lookup.
var inquiryFieldNames = map[string]string{
	"UserName":    "user_name",
	"Phone":       "phone",
	"Title":       "title",
	"Description": "description",
}

//nolint:gochecknoglobals // static read-only lookup.
var inquiryMessages = map[string]string{
	"user_name":   "Please enter your name.",
	"phone":       "Please enter a valid phone number.",
	"title":       "Please enter a subject.",
	"description": "Please enter your message.",
}

// SendInquiry validates and forwards a customer message. ProductID is empty
// for the contact form.
func (s *StorefrontService) SendInquiry(ctx context.Context, req model.InquiryRequest) error {
	req.UserName = strings.TrimSpace(req.UserName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	err := s.validate.Struct(inquiryInput{
		UserName:    req.UserName,
		Phone:       req.Phone,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		fields := FieldErrors{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				name := inquiryFieldNames[fe.Field()]
				fields[name] = inquiryMessages[name]
			}
		}
		if len(fields) == 0 {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Invalid inquiry.")
		}
		return fields
	}

	return s.api.SendInquiry(ctx, req)
}

func mapRecords[T any](rows []model.Record, fn func(model.Record) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}
