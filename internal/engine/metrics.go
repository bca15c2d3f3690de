package engine

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Kind names a class of engine-allocated object.
type Kind string

const (
	KindWorld      Kind = "world"
	KindURI        Kind = "uri"
	KindNode       Kind = "node"
	KindStatement  Kind = "statement"
	KindStorage    Kind = "storage"
	KindModel      Kind = "model"
	KindStream     Kind = "stream"
	KindIterator   Kind = "iterator"
	KindParser     Kind = "parser"
	KindSerializer Kind = "serializer"
)

// Kinds lists every object kind in allocation order.
var Kinds = []Kind{
	KindWorld, KindURI, KindNode, KindStatement, KindStorage,
	KindModel, KindStream, KindIterator, KindParser, KindSerializer,
}

type metrics struct {
	allocations *prometheus.CounterVec
	releases    *prometheus.CounterVec
	live        *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rdfstore",
			Subsystem: "engine",
			Name:      "allocations_total",
			Help:      "Engine objects allocated, by kind.",
		}, []string{"kind"}),
		releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rdfstore",
			Subsystem: "engine",
			Name:      "releases_total",
			Help:      "Engine objects freed, by kind.",
		}, []string{"kind"}),
		live: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rdfstore",
			Subsystem: "engine",
			Name:      "live_objects",
			Help:      "Engine objects currently allocated, by kind.",
		}, []string{"kind"}),
	}
	if reg == nil {
		return m
	}
	m.allocations = registerOrReuse(reg, m.allocations)
	m.releases = registerOrReuse(reg, m.releases)
	m.live = registerOrReuse(reg, m.live)
	return m
}

// registerOrReuse registers c, or returns the collector already registered
// under the same descriptor so several worlds can share one registry.
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

func (m *metrics) allocated(kind Kind) {
	m.allocations.WithLabelValues(string(kind)).Inc()
	m.live.WithLabelValues(string(kind)).Inc()
}

func (m *metrics) released(kind Kind) {
	m.releases.WithLabelValues(string(kind)).Inc()
	m.live.WithLabelValues(string(kind)).Dec()
}
