// Package telemetry counts imports, reference table loads and metric failures
// on a private Prometheus registry, which the CLI writes out in the textfile
// exposition format.
package telemetry

import (
	"errors"
	"time"

	"github.com/RyanBlaney/spectra/photometrics"
	"github.com/RyanBlaney/spectra/reference"
	"github.com/RyanBlaney/spectra/response"
	"github.com/RyanBlaney/spectra/spectrum"
	"github.com/RyanBlaney/spectra/spectrum/parser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "spectra"

// Option configures a Collector
type Option func(*Collector)

// WithNamespace sets the metric name prefix
func WithNamespace(namespace string) Option {
	return func(c *Collector) {
		if namespace != "" {
			c.namespace = namespace
		}
	}
}

// WithRegistry registers the collectors on registry instead of a fresh one
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Collector) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// Collector implements spectrum.ImportObserver, reference.LoadObserver and
// photometrics.FailureObserver.
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	imports        *prometheus.CounterVec
	samples        *prometheus.CounterVec
	skippedRows    *prometheus.CounterVec
	registryLoads  *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	registryCurves prometheus.Gauge
	metricFailures *prometheus.CounterVec
}

var (
	_ spectrum.ImportObserver      = (*Collector)(nil)
	_ reference.LoadObserver       = (*Collector)(nil)
	_ photometrics.FailureObserver = (*Collector)(nil)
)

// NewCollector creates and registers the spectra collectors
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		namespace: defaultNamespace,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	factory := promauto.With(c.registry)

	c.imports = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "import",
		Name:      "files_total",
		Help:      "Spectral files parsed, by format.",
	}, []string{"format"})
	c.samples = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "import",
		Name:      "samples_total",
		Help:      "Wavelength samples accepted, by format.",
	}, []string{"format"})
	c.skippedRows = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "import",
		Name:      "skipped_rows_total",
		Help:      "Malformed rows dropped in skip-invalid mode, by format.",
	}, []string{"format"})
	c.registryLoads = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "reference",
		Name:      "loads_total",
		Help:      "Reference table loads, by result.",
	}, []string{"result"})
	c.loadDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Subsystem: "reference",
		Name:      "load_duration_seconds",
		Help:      "Time spent parsing and reshaping the reference table.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	})
	c.registryCurves = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Subsystem: "reference",
		Name:      "curves",
		Help:      "Curves held by the reference registry.",
	})
	c.metricFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Subsystem: "metrics",
		Name:      "failures_total",
		Help:      "Metric computations that failed, by metric and error kind.",
	}, []string{"metric", "kind"})

	return c
}

// Registry returns the registry the collectors live on
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveImport records one parse
func (c *Collector) ObserveImport(stats parser.Stats) {
	format := string(stats.Format)
	c.imports.WithLabelValues(format).Inc()
	c.samples.WithLabelValues(format).Add(float64(stats.Samples))
	c.skippedRows.WithLabelValues(format).Add(float64(stats.Skipped))
}

// ObserveRegistryLoad records one reference table load
func (c *Collector) ObserveRegistryLoad(curves int, elapsed time.Duration, err error) {
	c.loadDuration.Observe(elapsed.Seconds())
	if err != nil {
		c.registryLoads.WithLabelValues("error").Inc()
		return
	}
	c.registryLoads.WithLabelValues("ok").Inc()
	c.registryCurves.Set(float64(curves))
}

// ObserveMetricFailure records a metric that could not be computed
func (c *Collector) ObserveMetricFailure(metric string, err error) {
	c.metricFailures.WithLabelValues(metric, ErrorKind(err)).Inc()
}

// WriteTextfile writes every collected metric to path in the text exposition
// format, for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Error kinds reported by ErrorKind
const (
	KindFormat        = "format"
	KindEmpty         = "empty_distribution"
	KindZeroPeak      = "zero_peak"
	KindInvalidValue  = "invalid_value"
	KindInvalidShape  = "invalid_shape"
	KindDisjointRange = "disjoint_range"
	KindUnknownCurve  = "unknown_curve"
	KindDegenerate    = "degenerate_response"
	KindNotReshaped   = "not_reshaped"
	KindOther         = "other"
)

// ErrorKind classifies err by the engine sentinel it wraps
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, parser.ErrFormat):
		return KindFormat
	case errors.Is(err, spectrum.ErrEmptyDistribution):
		return KindEmpty
	case errors.Is(err, spectrum.ErrZeroPeak):
		return KindZeroPeak
	case errors.Is(err, spectrum.ErrInvalidValue):
		return KindInvalidValue
	case errors.Is(err, spectrum.ErrInvalidShape):
		return KindInvalidShape
	case errors.Is(err, response.ErrDisjointRange):
		return KindDisjointRange
	case errors.Is(err, reference.ErrUnknownCurve):
		return KindUnknownCurve
	case errors.Is(err, photometrics.ErrDegenerateResponse):
		return KindDegenerate
	case errors.Is(err, photometrics.ErrNotReshaped):
		return KindNotReshaped
	default:
		return KindOther
	}
}
