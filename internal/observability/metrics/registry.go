package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// sizeBuckets covers typical request/response body sizes in bytes.
var sizeBuckets = []float64{100, 500, 1000, 5000, 10000, 50000, 100000}

// Registry owns all Prometheus instruments for the process.
// It is created once at startup and injected into the middleware, the
// system sampler, and the exposition handler. Label-partitioned series are
// created lazily on first observation, so series never observed are absent
// from the exposition output.
//
// Registering two instruments under the same name with a different schema
// fails at construction time (promauto panics with
// prometheus.AlreadyRegisteredError), so schema conflicts abort startup
// rather than silently merging.
type Registry struct {
	reg *prometheus.Registry

	// HTTP metrics track HTTP request patterns and performance.

	// HTTPRequestsTotal counts total HTTP requests by method, path, and status.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration measures HTTP request duration in seconds.
	HTTPRequestDuration *prometheus.HistogramVec
	// HTTPRequestSize measures HTTP request body size in bytes.
	HTTPRequestSize *prometheus.HistogramVec
	// HTTPResponseSize measures HTTP response body size in bytes.
	HTTPResponseSize *prometheus.HistogramVec
	// ActiveConnections tracks the number of in-flight HTTP requests.
	ActiveConnections prometheus.Gauge

	// Business metrics track application-specific operations.

	// ItemsCreatedTotal counts items created since process start.
	ItemsCreatedTotal prometheus.Counter
	// ItemsInDatabase tracks the current number of stored items.
	ItemsInDatabase prometheus.Gauge

	// Database metrics track database performance.

	// DBQueryDuration measures database query duration by operation.
	DBQueryDuration *prometheus.HistogramVec
	// DBConnectionsActive tracks in-use database connections.
	DBConnectionsActive prometheus.Gauge
	// DBConnectionsIdle tracks idle database connections.
	DBConnectionsIdle prometheus.Gauge

	// Process and system gauges, written only by the system sampler.

	// CPUUtilization is the system-wide CPU utilization percentage since
	// the previous sample.
	CPUUtilization prometheus.Gauge
	// ResidentMemory is the process resident memory size in bytes.
	ResidentMemory prometheus.Gauge
	// VirtualMemory is the process virtual memory size in bytes.
	VirtualMemory prometheus.Gauge
	// CPUSeconds is the total user and system CPU time spent in seconds.
	CPUSeconds prometheus.Gauge
	// Threads is the number of OS threads in the process.
	Threads prometheus.Gauge
	// OpenFDs is the number of open file descriptors.
	OpenFDs prometheus.Gauge
	// StartTime is the process start time in seconds since the epoch.
	StartTime prometheus.Gauge
	// Uptime is the number of seconds since process start.
	Uptime prometheus.Gauge
}

// NewRegistry constructs a Registry with all instrument families registered
// against a fresh prometheus.Registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: sizeBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: sizeBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ActiveConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_connections",
				Help: "Number of in-flight HTTP requests",
			},
		),

		ItemsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "items_created_total",
				Help: "Total number of items created",
			},
		),
		ItemsInDatabase: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "items_in_database",
				Help: "Current number of items stored in the database",
			},
		),

		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
			},
			[]string{"operation"},
		),
		DBConnectionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Number of in-use database connections",
			},
		),
		DBConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Number of idle database connections",
			},
		),

		CPUUtilization: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "process_cpu_utilization_percent",
				Help: "System-wide CPU utilization percentage",
			},
		),
		ResidentMemory: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "process_resident_memory_bytes",
				Help: "Resident memory size in bytes",
			},
		),
		VirtualMemory: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "process_virtual_memory_bytes",
				Help: "Virtual memory size in bytes",
			},
		),
		CPUSeconds: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "process_cpu_seconds_total",
				Help: "Total user and system CPU time spent in seconds",
			},
		),
		Threads: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "process_threads",
				Help: "Total number of OS threads in the process",
			},
		),
		OpenFDs: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "process_open_fds",
				Help: "Number of open file descriptors",
			},
		),
		StartTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "process_start_time_seconds",
				Help: "Start time of the process since unix epoch in seconds",
			},
		),
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "process_uptime_seconds",
				Help: "Seconds since process start",
			},
		),
	}
}

// Underlying exposes the owned prometheus.Registry for gathering and for
// the exposition handler.
func (r *Registry) Underlying() *prometheus.Registry {
	return r.reg
}

// Snapshot returns a point-in-time rendering of every series currently
// instantiated. Calling Snapshot twice with no observations in between
// yields identical output.
func (r *Registry) Snapshot() ([]*dto.MetricFamily, error) {
	return r.reg.Gather()
}

// RecordHTTPRequest records one completed HTTP request.
// Sizes of zero are recorded as zero observations rather than skipped, so
// absent Content-Length headers still count toward the distribution.
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int64) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	r.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	r.HTTPResponseSize.WithLabelValues(method, path, status).Observe(float64(responseSize))
}

// RecordDBQuery records the duration of a database query.
// Operation should describe the query (e.g., "insert_item", "list_items").
func (r *Registry) RecordDBQuery(operation string, duration time.Duration) {
	r.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordItemCreated increments the items-created counter.
func (r *Registry) RecordItemCreated() {
	r.ItemsCreatedTotal.Inc()
}

// SetItemsInDatabase updates the gauge tracking the stored item count.
func (r *Registry) SetItemsInDatabase(n int64) {
	r.ItemsInDatabase.Set(float64(n))
}

// UpdateDBConnectionStats updates database connection pool gauges.
func (r *Registry) UpdateDBConnectionStats(active, idle int) {
	r.DBConnectionsActive.Set(float64(active))
	r.DBConnectionsIdle.Set(float64(idle))
}
