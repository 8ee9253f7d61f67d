package viewmodel

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	TotalCount int
	PrevURL    string
	NextURL    string
}

// NewPagination builds links for current/total under basePath, keeping the
// non-empty values of q.
func NewPagination(basePath string, q url.Values, current, total, count int) Pagination {
	if current < 1 {
		current = 1
	}
	if total < current {
		total = current
	}
	p := Pagination{
		Page:       current,
		TotalPages: total,
		HasPrev:    current > 1,
		HasNext:    current < total,
		TotalCount: count,
	}
	if p.HasPrev {
		p.PrevURL = PageURL(basePath, q, current-1)
	}
	if p.HasNext {
		p.NextURL = PageURL(basePath, q, current+1)
	}
	return p
}

// PageURL returns basePath with page set, dropping empty and htmx params.
func PageURL(basePath string, q url.Values, page int) string {
	qq := make(url.Values, len(q)+1)
	for k, vs := range q {
		if k == "page" || strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		for _, v := range vs {
			if v != "" {
				qq.Add(k, v)
			}
		}
	}
	qq.Set("page", strconv.Itoa(page))
	return basePath + "?" + qq.Encode()
}
