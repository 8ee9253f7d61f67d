package partsapi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/snmtc/parts-web/internal/domain/model"
)

// Expressions locate envelope fields in a decoded response body. The API is
// not consistent about pagination keys, so each field is a JMESPath
// expression that may list alternatives with ||.
type Expressions struct {
	Items       string
	StatusCode  string
	Status      string
	Success     string
	Message     string
	CurrentPage string
	TotalPages  string
	Count       string
}

// DefaultExpressions matches the envelopes returned by the parts API.
func DefaultExpressions() Expressions {
	return Expressions{
		Items:       "data.data || data",
		StatusCode:  "statusCode",
		Status:      "status",
		Success:     "success",
		Message:     "message || error",
		CurrentPage: "current_page || data.current_page",
		TotalPages:  "total_pages || total_page || data.last_page",
		Count:       "current_count || data.total",
	}
}

func (e Expressions) withDefaults() Expressions {
	d := DefaultExpressions()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&e.Items, d.Items)
	fill(&e.StatusCode, d.StatusCode)
	fill(&e.Status, d.Status)
	fill(&e.Success, d.Success)
	fill(&e.Message, d.Message)
	fill(&e.CurrentPage, d.CurrentPage)
	fill(&e.TotalPages, d.TotalPages)
	fill(&e.Count, d.Count)
	return e
}

// Validate compiles every expression.
func (e Expressions) Validate() error {
	e = e.withDefaults()
	for name, expr := range map[string]string{
		"items":        e.Items,
		"status_code":  e.StatusCode,
		"status":       e.Status,
		"success":      e.Success,
		"message":      e.Message,
		"current_page": e.CurrentPage,
		"total_pages":  e.TotalPages,
		"count":        e.Count,
	} {
		if _, err := jmespath.Compile(expr); err != nil {
			return fmt.Errorf("invalid %s expression %q: %w", name, expr, err)
		}
	}
	return nil
}

// envelope is the decoded wrapper around every API response.
type envelope struct {
	StatusCode  int
	HasCode     bool
	Status      *bool
	Success     *bool
	Message     string
	Items       any
	CurrentPage int
	TotalPages  int
	Count       int
}

// accepted reports whether the envelope signals success. success:false fails,
// and so does any statusCode other than 200 or 201. Without a statusCode,
// status:false fails.
func (e envelope) accepted() bool {
	if e.Success != nil && !*e.Success {
		return false
	}
	if e.HasCode {
		return e.StatusCode == 200 || e.StatusCode == 201
	}
	return e.Status == nil || *e.Status
}

func decodeEnvelope(body []byte, exprs Expressions) (envelope, error) {
	var env envelope
	if len(strings.TrimSpace(string(body))) == 0 {
		return env, nil
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return env, fmt.Errorf("decode response: %w", err)
	}
	if _, ok := doc.(map[string]any); !ok {
		// Bare arrays are treated as the item list.
		env.Items = doc
		return env, nil
	}

	search := func(expr string) any {
		v, err := jmespath.Search(expr, doc)
		if err != nil {
			return nil
		}
		return v
	}

	if code, ok := toInt(search(exprs.StatusCode)); ok {
		env.StatusCode, env.HasCode = code, true
	}
	env.Status = toBool(search(exprs.Status))
	env.Success = toBool(search(exprs.Success))
	if msg, ok := search(exprs.Message).(string); ok {
		env.Message = msg
	}
	env.Items = search(exprs.Items)
	env.CurrentPage, _ = toInt(search(exprs.CurrentPage))
	env.TotalPages, _ = toInt(search(exprs.TotalPages))
	env.Count, _ = toInt(search(exprs.Count))
	return env, nil
}

// records converts the item payload into rows. A single object becomes a
// one-row list.
func (e envelope) records() []model.Record {
	switch v := e.Items.(type) {
	case []any:
		out := make([]model.Record, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, model.Record(m))
			}
		}
		return out
	case map[string]any:
		return []model.Record{model.Record(v)}
	default:
		return nil
	}
}

func (e envelope) page() model.Page {
	p := model.Page{
		Items:       e.records(),
		CurrentPage: e.CurrentPage,
		TotalPages:  e.TotalPages,
		Count:       e.Count,
	}
	p.Normalize()
	return p
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	default:
		return 0, false
	}
}

func toBool(v any) *bool {
	switch x := v.(type) {
	case bool:
		return &x
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		return &b
	default:
		return nil
	}
}
