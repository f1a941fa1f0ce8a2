// Package metrics provides the Prometheus metric registry and HTTP
// instrumentation for the application.
//
// The Registry owns every instrument for the process:
//   - HTTP request metrics (count, duration, sizes, active connections)
//   - Business metrics (items created, items in database)
//   - Database query metrics
//   - Process and system gauges written by the system sampler
//
// Unlike the promauto default-registry style, the Registry is constructed
// explicitly at startup and passed to the middleware, the sampler, and the
// exposition handler. Nothing in this package holds global mutable state.
//
// Example usage:
//
//	reg := metrics.NewRegistry()
//	mux.Handle("GET /metrics", metrics.ExpositionHandler(reg, sampler))
//	handler := metrics.Instrument(reg, pathLabel)(mux)
package metrics
