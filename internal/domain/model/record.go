package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one row as returned by the parts API. Keys are the API's field
// names (productname, category_id, filename, ...). Values keep their decoded
// JSON types.
type Record map[string]any

// ID returns the record identifier as a string.
func (r Record) ID() string {
	return r.String("id")
}

// String returns the value at key rendered as text. Numbers are formatted
// without exponent; missing and null values yield "".
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Int returns the value at key as an int, or 0 when absent or not numeric.
func (r Record) Int(key string) int {
	s := strings.TrimSpace(r.String(key))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// Image returns the stored media filename. Products use "image"; sliders,
// services and about entries use "filename".
func (r Record) Image() string {
	if v := r.String("image"); v != "" {
		return v
	}
	return r.String("filename")
}

// Page is one page of a list endpoint.
type Page struct {
	Items       []Record
	CurrentPage int
	TotalPages  int
	Count       int
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.CurrentPage < p.TotalPages }

// Normalize fills in defaults when the API omits pagination fields.
func (p *Page) Normalize() {
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.TotalPages < p.CurrentPage {
		p.TotalPages = p.CurrentPage
	}
	if p.Count == 0 {
		p.Count = len(p.Items)
	}
}
