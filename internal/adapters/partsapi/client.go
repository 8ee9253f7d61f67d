// Package partsapi is the HTTP client for the remote parts REST API that owns
// every piece of catalog, content and account data.
package partsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://snmtc.in/parts/api"

// DefaultPublicBaseURL serves the resources published under /public.
const DefaultPublicBaseURL = "https://snmtc.in/parts/public/api"

const maxResponseBytes = 8 << 20

// Config configures a Client.
type Config struct {
	BaseURL       string
	PublicBaseURL string
	Timeout       time.Duration
	Expressions   Expressions
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
	Metrics    *Metrics
	Logger     *slog.Logger
}

// Client talks to the parts API. It implements ports.PartsAPI.
type Client struct {
	baseURL       string
	publicBaseURL string
	exprs         Expressions
	client        *http.Client
	metrics       *Metrics
	logger        *slog.Logger
}

var _ ports.PartsAPI = (*Client)(nil)

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid parts api base url %q: %w", base, err)
	}

	public := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if public == "" {
		public = DefaultPublicBaseURL
	}
	if _, err := url.ParseRequestURI(public); err != nil {
		return nil, fmt.Errorf("invalid parts api public base url %q: %w", public, err)
	}

	exprs := cfg.Expressions.withDefaults()
	if err := exprs.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:       base,
		publicBaseURL: public,
		exprs:         exprs,
		client:        hc,
		metrics:       cfg.Metrics,
		logger:        logger.With("component", "partsapi"),
	}, nil
}

type call struct {
	resource    string
	op          string
	method      string
	public      bool
	path        string
	query       url.Values
	body        []byte
	contentType string
	// failMessage is shown when the API rejects the call without a message.
	failMessage string
}

func (c *Client) do(ctx context.Context, in call) (envelope, error) {
	started := time.Now()
	env, err := c.roundTrip(ctx, in)
	c.metrics.observe(in.resource, in.op, started, err)
	if err != nil && !apperrors.IsCanceled(err) {
		c.logger.WarnContext(ctx, "parts api call failed",
			"resource", in.resource,
			"op", in.op,
			"error", err)
	}
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, in call) (envelope, error) {
	base := c.baseURL
	if in.public {
		base = c.publicBaseURL
	}
	target := base + "/" + strings.TrimLeft(in.path, "/")
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}

	var body io.Reader
	if in.body != nil {
		body = bytes.NewReader(in.body)
	}
	req, err := http.NewRequestWithContext(ctx, in.method, target, body)
	if err != nil {
		return envelope{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build parts api request")
	}
	req.Header.Set("Accept", "application/json")
	if in.contentType != "" {
		req.Header.Set("Content-Type", in.contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return envelope{}, apperrors.FromContext(err, "The parts service is unreachable.")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close parts api response body", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return envelope{}, apperrors.FromContext(err, "read parts api response")
	}

	env, decodeErr := decodeEnvelope(raw, c.exprs)
	failMsg := in.failMessage
	if failMsg == "" {
		failMsg = fmt.Sprintf("%s %s failed", in.resource, in.op)
	}
	if env.Message != "" {
		failMsg = env.Message
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return envelope{}, apperrors.Upstream(resp.StatusCode, failMsg)
	}
	if decodeErr != nil {
		e := apperrors.Upstream(resp.StatusCode, failMsg)
		e.Cause = decodeErr
		return envelope{}, e
	}
	if !env.accepted() {
		status := env.StatusCode
		if status == 0 {
			status = resp.StatusCode
		}
		return envelope{}, apperrors.Upstream(status, failMsg)
	}
	return env, nil
}

func jsonBody(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
	}
	return b, nil
}

// multipartBody encodes values and files as multipart/form-data. Fields are
// written in name order.
func multipartBody(m ports.Mutation) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	names := make([]string, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := mw.WriteField(name, m.Values[name]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	for _, f := range m.Files {
		if f.Field == "" {
			return nil, "", errors.New("upload without field name")
		}
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", f.Field, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}
