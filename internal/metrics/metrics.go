// Package metrics exposes Prometheus counters for the bot core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors the bot and API layers record into.
type Metrics struct {
	EventsTotal    *prometheus.CounterVec
	IntentsTotal   *prometheus.CounterVec
	EntriesCreated prometheus.Counter
	SettleRuns     prometheus.Counter
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors with the given registerer. Tests pass
// a fresh registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_events_total",
				Help: "Inbound events by turn type",
			},
			[]string{"type"},
		),
		IntentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tally_intents_total",
				Help: "Dispatched intents by name",
			},
			[]string{"intent"},
		),
		EntriesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tally_entries_created_total",
				Help: "Ledger entries successfully recorded",
			},
		),
		SettleRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tally_settlements_total",
				Help: "Settlement computations run",
			},
		),
	}
}
