// Package promstats exports reactive runtime activity as Prometheus metrics.
//
// Metrics collected (namespace "realm" by default):
//   - realm_scopes_created_total, realm_scopes_destroyed_total
//   - realm_scopes_live: gauge of scopes currently in the arena
//   - realm_queue_drains_total{queue}: drains per queue kind
//   - realm_queue_tasks_total{queue}: tasks run per queue kind
//   - realm_queue_drain_passes{queue}: histogram of fixpoint passes per drain
//   - realm_events_published_total, realm_event_deliveries_total
//
// Example:
//
//	stats := promstats.New(promstats.WithRegistry(reg))
//	rt := reactive.NewRuntime(reactive.WithHooks(stats))
package promstats

import (
	"github.com/delaneyj/realm/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "realm").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// PassBuckets are the histogram buckets for passes per drain.
	PassBuckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithPassBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.PassBuckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:   "realm",
		PassBuckets: []float64{1, 2, 3, 5, 8, 13, 21},
		Registry:    prometheus.DefaultRegisterer,
	}
}

// Collector implements reactive.Hooks.
type Collector struct {
	scopesCreated   prometheus.Counter
	scopesDestroyed prometheus.Counter
	scopesLive      prometheus.Gauge
	drains          *prometheus.CounterVec
	tasks           *prometheus.CounterVec
	passes          *prometheus.HistogramVec
	published       prometheus.Counter
	deliveries      prometheus.Counter
}

var _ reactive.Hooks = (*Collector)(nil)

// New registers the collector's metrics. Registering two collectors with
// the same namespace on one registry panics, as promauto does.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		scopesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scopes_created_total",
			Help:        "Total number of scopes created",
			ConstLabels: config.ConstLabels,
		}),

		scopesDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scopes_destroyed_total",
			Help:        "Total number of scopes destroyed",
			ConstLabels: config.ConstLabels,
		}),

		scopesLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "scopes_live",
			Help:        "Number of scopes currently alive",
			ConstLabels: config.ConstLabels,
		}),

		drains: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_drains_total",
			Help:        "Total number of queue drains by queue kind",
			ConstLabels: config.ConstLabels,
		}, []string{"queue"}),

		tasks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_tasks_total",
			Help:        "Total number of queued tasks run by queue kind",
			ConstLabels: config.ConstLabels,
		}, []string{"queue"}),

		passes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "queue_drain_passes",
			Help:        "Fixpoint passes needed per drain that ran tasks",
			ConstLabels: config.ConstLabels,
			Buckets:     config.PassBuckets,
		}, []string{"queue"}),

		published: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_published_total",
			Help:        "Total number of events published",
			ConstLabels: config.ConstLabels,
		}),

		deliveries: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_deliveries_total",
			Help:        "Total number of handler calls made by published events",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (c *Collector) ScopeCreated(reactive.ScopeID) {
	c.scopesCreated.Inc()
	c.scopesLive.Inc()
}

func (c *Collector) ScopeDestroyed(reactive.ScopeID) {
	c.scopesDestroyed.Inc()
	c.scopesLive.Dec()
}

func (c *Collector) QueueDrained(kind reactive.QueueKind, passes, tasks int) {
	label := kind.String()
	c.drains.WithLabelValues(label).Inc()
	if tasks == 0 {
		return
	}
	c.tasks.WithLabelValues(label).Add(float64(tasks))
	c.passes.WithLabelValues(label).Observe(float64(passes))
}

func (c *Collector) EventPublished(handlers int) {
	c.published.Inc()
	c.deliveries.Add(float64(handlers))
}
