package service

import (
	"context"
	"sync"
	"time"

	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	"github.com/snmtc/parts-web/internal/ports"
	"golang.org/x/sync/errgroup"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	API ports.CatalogAPI
	Now func() time.Time
}

// DashboardService computes the admin landing statistics.
type DashboardService struct {
	api      ports.CatalogAPI
	now      func() time.Time
	registry *resource.Registry
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.API == nil {
		panic("CatalogAPI is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &DashboardService{api: opts.API, now: now, registry: resource.DefaultRegistry()}
}

// Stat is one dashboard tile. Value is -1 when the count could not be loaded.
type Stat struct {
	Name  string
	Value int
	Link  string
}

// Dashboard holds the tiles and the most recent inquiries.
type Dashboard struct {
	Stats  []Stat
	Recent []model.Inquiry
}

// pageTotal prefers the API's total; some endpoints only report the rows
// of the current page.
func pageTotal(p model.Page) int {
	return max(p.Count, len(p.Items))
}

// Load fetches the counts concurrently. A failed count shows as -1.
func (s *DashboardService) Load(ctx context.Context) Dashboard {
	today := startOfDay(s.now()).Format(time.DateOnly)

	stats := []Stat{
		{Name: "Products", Link: "/admin/products"},
		{Name: "Categories", Link: "/admin/category"},
		{Name: "Services", Link: "/admin/services"},
		{Name: "Inquiries Today", Link: "/admin/notification"},
	}
	var (
		recent []model.Inquiry
		mu     sync.Mutex
	)
	set := func(i int, v int) {
		mu.Lock()
		stats[i].Value = v
		mu.Unlock()
	}

	sc := func(name string) resource.Schema {
		v, _ := s.registry.Get(name)
		return v
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.api.SearchProducts(gctx, ports.ListQuery{Page: 1})
		if err != nil {
			set(0, -1)
			return nil
		}
		set(0, pageTotal(p))
		return nil
	})
	g.Go(func() error {
		p, err := s.api.List(gctx, sc(resource.Category), ports.ListQuery{})
		if err != nil {
			set(1, -1)
			return nil
		}
		set(1, len(p.Items))
		return nil
	})
	g.Go(func() error {
		p, err := s.api.List(gctx, sc(resource.Service), ports.ListQuery{})
		if err != nil {
			set(2, -1)
			return nil
		}
		set(2, len(p.Items))
		return nil
	})
	g.Go(func() error {
		p, err := s.api.List(gctx, sc(resource.Inquiry), ports.ListQuery{Page: 1, From: today, To: today})
		if err != nil {
			set(3, -1)
			return nil
		}
		set(3, pageTotal(p))
		rows := mapRecords(p.Items, model.InquiryFromRecord)
		if len(rows) > 5 {
			rows = rows[:5]
		}
		mu.Lock()
		recent = rows
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	return Dashboard{Stats: stats, Recent: recent}
}
