package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
)

// Date presets of the notification screen.
const (
	PresetToday  = "today"
	PresetWeek   = "week"
	PresetMonth  = "month"
	PresetCustom = "custom"
)

// DateRange is an inclusive day range.
type DateRange struct {
	Preset string
	From   time.Time
	To     time.Time
}

// FromParam formats From as the API expects.
func (r DateRange) FromParam() string { return r.From.Format(time.DateOnly) }

// ToParam formats To as the API expects.
func (r DateRange) ToParam() string { return r.To.Format(time.DateOnly) }

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ResolveRange turns a preset (and, for custom, the from/to inputs) into a
// range ending today. Weeks start on Sunday. An unknown or empty preset means
// today. A custom range with missing or unparsable dates, or with from after
// to, is a validation error.
func ResolveRange(preset, from, to string, now time.Time) (DateRange, error) {
	today := startOfDay(now)
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case PresetWeek:
		return DateRange{Preset: PresetWeek, From: today.AddDate(0, 0, -int(today.Weekday())), To: today}, nil
	case PresetMonth:
		return DateRange{Preset: PresetMonth, From: today.AddDate(0, 0, 1-today.Day()), To: today}, nil
	case PresetCustom:
		f, ferr := time.ParseInLocation(time.DateOnly, strings.TrimSpace(from), now.Location())
		t, terr := time.ParseInLocation(time.DateOnly, strings.TrimSpace(to), now.Location())
		if ferr != nil {
			return DateRange{Preset: PresetCustom}, apperrors.ValidationField("from", "Choose a valid start date.")
		}
		if terr != nil {
			return DateRange{Preset: PresetCustom, From: f}, apperrors.ValidationField("to", "Choose a valid end date.")
		}
		if f.After(t) {
			return DateRange{Preset: PresetCustom, From: f, To: t}, apperrors.ValidationField("from", "Start date must be before end date.")
		}
		return DateRange{Preset: PresetCustom, From: f, To: t}, nil
	default:
		return DateRange{Preset: PresetToday, From: today, To: today}, nil
	}
}

// InquiryServiceOptions groups dependencies for InquiryService.
type InquiryServiceOptions struct {
	Catalog *CatalogService
	Now     func() time.Time
	Logger  *slog.Logger
}

// InquiryService backs the admin notification screen.
type InquiryService struct {
	catalog *CatalogService
	now     func() time.Time
	logger  *slog.Logger
}

// NewInquiryService constructs a new InquiryService.
func NewInquiryService(opts InquiryServiceOptions) *InquiryService {
	if opts.Catalog == nil {
		panic("CatalogService is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &InquiryService{catalog: opts.Catalog, now: now, logger: logger.With("component", "inquiry")}
}

// InquiryFilter selects the notification list.
type InquiryFilter struct {
	Preset string
	From   string
	To     string
	Search string
	Page   int
}

// InquiryList is one page of notifications after the local search filter.
type InquiryList struct {
	Range      DateRange
	Items      []model.Inquiry
	Page       model.Page
	Search     string
	Unfiltered int
}

// Now returns the service clock.
func (s *InquiryService) Now() time.Time { return s.now() }

// List loads inquiries for the filter's range. The search term narrows the
// fetched page by product name, customer name, email or phone without another
// upstream call.
func (s *InquiryService) List(ctx context.Context, f InquiryFilter) (InquiryList, error) {
	rng, err := ResolveRange(f.Preset, f.From, f.To, s.now())
	if err != nil {
		return InquiryList{Range: rng, Search: f.Search}, err
	}
	if f.Page < 1 {
		f.Page = 1
	}

	page, err := s.catalog.List(ctx, resource.Inquiry, s.query(rng, f.Page))
	if err != nil {
		return InquiryList{Range: rng, Search: f.Search, Page: model.Page{CurrentPage: f.Page, TotalPages: f.Page}}, err
	}
	return s.build(rng, f.Search, page), nil
}

// Delete removes one inquiry and reloads, stepping back a page when the
// deleted row was the last one on it. deleted reports whether the API
// accepted the delete; when it did, a non-nil error is the reload failure.
func (s *InquiryService) Delete(ctx context.Context, id string, f InquiryFilter) (list InquiryList, deleted bool, err error) {
	rng, err := ResolveRange(f.Preset, f.From, f.To, s.now())
	if err != nil {
		return InquiryList{Range: rng, Search: f.Search}, false, err
	}
	if f.Page < 1 {
		f.Page = 1
	}

	res, err := s.catalog.DeleteAndReload(ctx, resource.Inquiry, id, s.query(rng, f.Page))
	if err != nil {
		return InquiryList{Range: rng, Search: f.Search}, false, err
	}
	if res.ReloadErr != nil {
		return InquiryList{Range: rng, Search: f.Search, Page: model.Page{CurrentPage: f.Page, TotalPages: f.Page}}, true, res.ReloadErr
	}
	return s.build(rng, f.Search, res.Page), true, nil
}

func (s *InquiryService) query(rng DateRange, page int) ports.ListQuery {
	return ports.ListQuery{Page: page, From: rng.FromParam(), To: rng.ToParam()}
}

func (s *InquiryService) build(rng DateRange, search string, page model.Page) InquiryList {
	all := mapRecords(page.Items, model.InquiryFromRecord)
	out := InquiryList{Range: rng, Page: page, Search: search, Unfiltered: len(all)}

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		out.Items = all
		return out
	}
	for _, in := range all {
		if strings.Contains(strings.ToLower(in.ProductName), term) ||
			strings.Contains(strings.ToLower(in.UserName), term) ||
			strings.Contains(strings.ToLower(in.Email), term) ||
			strings.Contains(in.Phone, term) {
			out.Items = append(out.Items, in)
		}
	}
	return out
}
