package httpx

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const (
	hxRequest        = "Hx-Request"
	hxBoosted        = "Hx-Boosted"
	hxHistoryRestore = "Hx-History-Restore-Request"
	hxCurrentURL     = "Hx-Current-Url"
	hxRedirect       = "Hx-Redirect"
	hxReplaceURL     = "Hx-Replace-Url"
	hxTrigger        = "Hx-Trigger"
)

func headerTrue(r *http.Request, name string) bool {
	return strings.EqualFold(r.Header.Get(name), "true")
}

// IsHTMX reports whether the request was initiated by htmx.
func IsHTMX(r *http.Request) bool { return headerTrue(r, hxRequest) }

// WantsPartial reports whether only the main fragment should be rendered.
// Boosted links and history restores swap the whole body and get the full page.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r) && !headerTrue(r, hxBoosted) && !headerTrue(r, hxHistoryRestore)
}

// CurrentURL returns the browser location htmx sent with the request.
func CurrentURL(r *http.Request) string { return r.Header.Get(hxCurrentURL) }

// CurrentPath returns the path of CurrentURL, or "" when it is absent or
// unparsable.
func CurrentPath(r *http.Request) string {
	raw := CurrentURL(r)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.EscapedPath()
}

// HTMXResponse sets htmx response headers.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX wraps w.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect sends the browser to url with a full navigation and writes 204.
// Nothing else may be written afterwards.
func (h *HTMXResponse) Redirect(url string) {
	h.w.Header().Set(hxRedirect, url)
	h.w.WriteHeader(http.StatusNoContent)
}

// ReplaceURL replaces the current history entry with url.
func (h *HTMXResponse) ReplaceURL(url string) *HTMXResponse {
	h.w.Header().Set(hxReplaceURL, url)
	return h
}

// Trigger adds a client-side event to Hx-Trigger. A nil payload sends true.
// Events already set on the response are kept.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	if payload == nil {
		payload = true
	}
	return h.Triggers(map[string]any{event: payload})
}

// Triggers merges events into Hx-Trigger; a repeated event takes the new payload.
func (h *HTMXResponse) Triggers(events map[string]any) *HTMXResponse {
	if len(events) == 0 {
		return h
	}
	merged := map[string]any{}
	if existing := h.w.Header().Get(hxTrigger); existing != "" {
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			// A bare event name.
			merged = map[string]any{existing: true}
		}
	}
	for k, v := range events {
		merged[k] = v
	}
	b, err := json.Marshal(merged)
	if err != nil {
		return h
	}
	h.w.Header().Set(hxTrigger, string(b))
	return h
}
