package collector

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

// RequestOptions configures the request collector
type RequestOptions struct {
	// SkipPaths is a list of path prefixes to skip for request collection.
	// Useful for excluding static files.
	SkipPaths []string

	// NotifierOptions are options for notification about new requests
	NotifierOptions *NotifierOptions
}

// DefaultRequestOptions returns default options for the request collector
func DefaultRequestOptions() RequestOptions {
	return RequestOptions{}
}

// Request is a served HTTP request.
type Request struct {
	ID         uuid.UUID     `json:"id"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	Query      string        `json:"query,omitempty"`
	StatusCode int           `json:"status"`
	Location   string        `json:"location,omitempty"`
	Start      time.Time     `json:"start"`
	Duration   time.Duration `json:"duration"`
}

// LogValue renders the request for structured logs.
func (r Request) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.Path),
		slog.Int("status", r.StatusCode),
		slog.Duration("duration", r.Duration),
	}
	if r.Location != "" {
		attrs = append(attrs, slog.String("location", r.Location))
	}
	return slog.GroupValue(attrs...)
}

// RequestCollector records the requests served by a handler.
type RequestCollector struct {
	buffer   *RingBuffer[Request]
	notifier *Notifier[Request]
	options  RequestOptions
}

// NewRequestCollector creates a new collector for served requests
func NewRequestCollector(capacity uint64) *RequestCollector {
	return NewRequestCollectorWithOptions(capacity, DefaultRequestOptions())
}

// NewRequestCollectorWithOptions creates a new collector with specified options
func NewRequestCollectorWithOptions(capacity uint64, options RequestOptions) *RequestCollector {
	notifierOptions := DefaultNotifierOptions()
	if options.NotifierOptions != nil {
		notifierOptions = *options.NotifierOptions
	}

	return &RequestCollector{
		buffer:   NewRingBuffer[Request](capacity),
		notifier: NewNotifierWithOptions[Request](notifierOptions),
		options:  options,
	}
}

// Tail returns the last n requests, oldest first.
func (c *RequestCollector) Tail(n int) []Request {
	return c.buffer.Tail(n)
}

// Requests returns all buffered requests, oldest first.
func (c *RequestCollector) Requests() []Request {
	return c.buffer.All()
}

// Add records a request and notifies subscribers
func (c *RequestCollector) Add(req Request) {
	c.buffer.Add(req)
	c.notifier.Notify(req)
}

// Subscribe returns a channel receiving every new request until ctx is done
func (c *RequestCollector) Subscribe(ctx context.Context) <-chan Request {
	return c.notifier.Subscribe(ctx)
}

// Close releases resources used by the collector
func (c *RequestCollector) Close() {
	c.notifier.Close()
}

// Middleware returns an http.Handler middleware that records every request
func (c *RequestCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range c.options.SkipPaths {
			if prefix != "" && strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		req := Request{
			ID:     uuid.Must(uuid.NewV7()),
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Start:  time.Now(),
		}

		crw := &statusResponseWriter{ResponseWriter: w}
		next.ServeHTTP(crw, r)

		req.Duration = time.Since(req.Start)
		req.StatusCode = crw.status()
		req.Location = crw.Header().Get("Location")

		c.Add(req)
	})
}

// statusResponseWriter is a wrapper for http.ResponseWriter that remembers the status code
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader implements http.ResponseWriter
func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if w.statusCode == 0 {
		w.statusCode = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write implements http.ResponseWriter
func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if w.statusCode == 0 {
		w.statusCode = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Flush implements http.Flusher if the original response writer implements it
func (w *statusResponseWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap gives http.ResponseController access to the original writer
func (w *statusResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusResponseWriter) status() int {
	if w.statusCode == 0 {
		return http.StatusOK
	}
	return w.statusCode
}
