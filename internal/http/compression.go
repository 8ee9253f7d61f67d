package httpx

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// CompressionConfig configures the gzip middleware.
type CompressionConfig struct {
	Level int // gzip level; 0 uses gzip.DefaultCompression
	// MinSize holds back compression until the body reaches this many bytes.
	// Shorter bodies go out uncompressed.
	MinSize int
	Logger  *slog.Logger
}

// compressibleTypes are the media types worth compressing. Images other than
// SVG are already compressed.
var compressibleTypes = map[string]bool{
	"text/html":              true,
	"text/css":               true,
	"text/plain":             true,
	"text/javascript":        true,
	"application/javascript": true,
	"application/json":       true,
	"image/svg+xml":          true,
}

// gzipPools keeps one writer pool per compression level.
type gzipPools struct {
	mu    sync.Mutex
	pools map[int]*sync.Pool
}

func (p *gzipPools) get(level int, dst io.Writer) *gzip.Writer {
	p.mu.Lock()
	pool, ok := p.pools[level]
	if !ok {
		pool = &sync.Pool{New: func() any {
			zw, err := gzip.NewWriterLevel(io.Discard, level)
			if err != nil {
				zw = gzip.NewWriter(io.Discard)
			}
			return zw
		}}
		p.pools[level] = pool
	}
	p.mu.Unlock()

	zw, _ := pool.Get().(*gzip.Writer)
	zw.Reset(dst)
	return zw
}

func (p *gzipPools) put(level int, zw *gzip.Writer) {
	p.mu.Lock()
	pool := p.pools[level]
	p.mu.Unlock()
	zw.Reset(io.Discard)
	pool.Put(zw)
}

// Compression gzips page, fragment and asset responses for clients that
// accept it. HEAD requests, bodiless statuses and responses that already
// carry a Content-Encoding pass through untouched.
func Compression(cfg CompressionConfig) func(http.Handler) http.Handler {
	if cfg.Level == 0 {
		cfg.Level = gzip.DefaultCompression
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	pools := &gzipPools{pools: map[int]*sync.Pool{}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Accept-Encoding")

			cw := &compressWriter{ResponseWriter: w, cfg: &cfg, pools: pools}
			next.ServeHTTP(cw, r)
			if err := cw.finish(); err != nil {
				cfg.Logger.DebugContext(r.Context(), "finishing compressed response", "error", err)
			}
		})
	}
}

// acceptsGzip reports whether the Accept-Encoding header allows gzip with a
// non-zero quality.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "gzip") {
			continue
		}
		for _, p := range strings.Split(params, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || !strings.EqualFold(k, "q") {
				continue
			}
			q, err := strconv.ParseFloat(v, 64)
			if err != nil || q <= 0 {
				return false
			}
		}
		return true
	}
	return false
}

func compressible(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return compressibleTypes[mt]
}

// compressWriter defers the status line until it knows whether the body will
// be gzipped.
type compressWriter struct {
	http.ResponseWriter
	cfg   *CompressionConfig
	pools *gzipPools

	status  int
	decided bool
	passed  bool // status written; body goes out as-is
	zw      *gzip.Writer
	pending []byte
}

func (c *compressWriter) WriteHeader(status int) {
	if c.status != 0 {
		return
	}
	c.status = status
	if status < http.StatusOK || status == http.StatusNoContent || status == http.StatusNotModified ||
		c.Header().Get("Content-Encoding") != "" {
		c.pass()
		return
	}
	if ct := c.Header().Get("Content-Type"); ct != "" && !compressible(ct) {
		c.pass()
	}
}

func (c *compressWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		if c.Header().Get("Content-Type") == "" {
			c.Header().Set("Content-Type", http.DetectContentType(b))
		}
		c.WriteHeader(http.StatusOK)
	}
	switch {
	case c.passed:
		return c.ResponseWriter.Write(b)
	case c.zw != nil:
		return c.zw.Write(b)
	}

	if c.Header().Get("Content-Type") == "" {
		c.Header().Set("Content-Type", http.DetectContentType(b))
	}
	if !compressible(c.Header().Get("Content-Type")) {
		c.pass()
		return c.ResponseWriter.Write(b)
	}
	c.pending = append(c.pending, b...)
	if len(c.pending) < c.cfg.MinSize {
		return len(b), nil
	}
	if err := c.startGzip(); err != nil {
		return 0, err
	}
	return len(b), nil
}

// pass writes the held status and disables compression.
func (c *compressWriter) pass() {
	if c.decided {
		return
	}
	c.decided, c.passed = true, true
	c.ResponseWriter.WriteHeader(c.status)
}

func (c *compressWriter) startGzip() error {
	c.decided = true
	h := c.Header()
	h.Set("Content-Encoding", "gzip")
	h.Del("Content-Length")
	c.ResponseWriter.WriteHeader(c.status)

	c.zw = c.pools.get(c.cfg.Level, c.ResponseWriter)
	buf := c.pending
	c.pending = nil
	_, err := c.zw.Write(buf)
	return err
}

// finish flushes whatever the handler left behind. A body shorter than
// MinSize is written uncompressed.
func (c *compressWriter) finish() error {
	if c.zw != nil {
		err := c.zw.Close()
		c.pools.put(c.cfg.Level, c.zw)
		c.zw = nil
		return err
	}
	if c.status == 0 {
		// The handler wrote nothing at all.
		return nil
	}
	c.pass()
	if len(c.pending) == 0 {
		return nil
	}
	_, err := c.ResponseWriter.Write(c.pending)
	c.pending = nil
	return err
}

func (c *compressWriter) Flush() {
	if !c.decided && c.status != 0 {
		if len(c.pending) > 0 {
			if err := c.startGzip(); err != nil {
				c.cfg.Logger.Debug("starting gzip on flush", "error", err)
			}
		} else {
			c.pass()
		}
	}
	if c.zw != nil {
		if err := c.zw.Flush(); err != nil {
			c.cfg.Logger.Debug("flushing gzip writer", "error", err)
		}
	}
	if f, ok := c.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (c *compressWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hj, ok := c.ResponseWriter.(http.Hijacker); ok {
		return hj.Hijack()
	}
	return nil, nil, errors.New("http.Hijacker not supported")
}
