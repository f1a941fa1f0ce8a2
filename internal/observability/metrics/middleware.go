package metrics

import (
	"net/http"
	"strconv"
	"time"

	"itemkeeper/internal/handler/http/responsewriter"
)

// ExpositionPath is the scrape endpoint. Requests to it bypass
// instrumentation entirely so a scrape never measures itself.
const ExpositionPath = "/metrics"

// statusClientClosedRequest is the synthetic status recorded when the
// client goes away before the handler writes a response (nginx's 499).
const statusClientClosedRequest = 499

// PathLabel maps a request path onto the bounded vocabulary used for the
// path label. Implementations must return values drawn from a small fixed
// set (registered route patterns), never raw request paths, to keep series
// cardinality bounded.
type PathLabel func(path string) string

// Instrument returns middleware that records request count, duration, and
// request/response sizes for every request except metrics scrapes.
//
// The observation is recorded in a deferred function, so a request is
// counted even when the downstream handler panics; the recovery middleware
// is expected to sit inside this one and turn the panic into a 500 before
// the record happens. Instrumentation itself never fails a request: a
// malformed Content-Length is treated as size zero.
func Instrument(reg *Registry, pathLabel PathLabel) func(http.Handler) http.Handler {
	if pathLabel == nil {
		pathLabel = func(path string) string { return path }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == ExpositionPath {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			requestSize := parseContentLength(r.Header.Get("Content-Length"))

			reg.ActiveConnections.Inc()
			wrapped := responsewriter.Wrap(w)

			defer func() {
				reg.ActiveConnections.Dec()

				status := wrapped.StatusCode()
				if r.Context().Err() != nil && !wrapped.Written() {
					status = statusClientClosedRequest
				}

				responseSize := int64(wrapped.BytesWritten())
				if cl := parseContentLength(wrapped.Header().Get("Content-Length")); cl > 0 {
					responseSize = cl
				}

				reg.RecordHTTPRequest(
					r.Method,
					pathLabel(r.URL.Path),
					strconv.Itoa(status),
					time.Since(start),
					requestSize,
					responseSize,
				)
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

// parseContentLength parses a Content-Length header value.
// Absent, malformed, or negative values are treated as zero.
func parseContentLength(value string) int64 {
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
