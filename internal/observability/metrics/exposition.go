package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sampler refreshes process and system gauges. Implementations must not
// fail: read errors are logged and swallowed so a scrape always succeeds.
type Sampler interface {
	Sample()
}

// ExpositionHandler serves the registry contents in the Prometheus text
// exposition format. Each scrape triggers one sampler pass for freshness
// before gathering. Gather errors degrade to partial output instead of a
// failed scrape.
func ExpositionHandler(reg *Registry, sampler Sampler) http.Handler {
	inner := promhttp.HandlerFor(reg.Underlying(), promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sampler != nil {
			sampler.Sample()
		}
		inner.ServeHTTP(w, r)
	})
}
