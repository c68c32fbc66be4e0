package stream

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks stream client activity.
type Metrics struct {
	sentTotal          *prometheus.CounterVec
	consumedTotal      *prometheus.CounterVec
	decodeFailureTotal *prometheus.CounterVec

	registerer prometheus.Registerer
	registered bool
}

func newStreamCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ticketflow",
			Subsystem: "stream",
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// NewMetrics creates a stream metrics collector. A nil registerer falls back
// to the default Prometheus registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		registerer:         registerer,
		sentTotal:          newStreamCounterVec("messages_sent_total", "Total number of messages sent per channel", []string{"channel", "encoding"}),
		consumedTotal:      newStreamCounterVec("messages_consumed_total", "Total number of messages consumed per channel", []string{"channel"}),
		decodeFailureTotal: newStreamCounterVec("decode_failures_total", "Total number of consumed messages that could not be decoded", []string{"channel"}),
	}
}

// Register registers the Prometheus collectors. Safe to call multiple times.
func (m *Metrics) Register() error {
	if m.registered {
		return nil
	}

	collectors := []prometheus.Collector{
		m.sentTotal,
		m.consumedTotal,
		m.decodeFailureTotal,
	}

	for _, c := range collectors {
		if err := m.registerer.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	m.registered = true
	return nil
}

// MessageSent records a successful send on a channel.
func (m *Metrics) MessageSent(channel, encoding string) {
	m.sentTotal.WithLabelValues(channel, encoding).Inc()
}

// MessageConsumed records a successfully handled message on a channel.
func (m *Metrics) MessageConsumed(channel string) {
	m.consumedTotal.WithLabelValues(channel).Inc()
}

// DecodeFailure records a consumed message that could not be decoded.
func (m *Metrics) DecodeFailure(channel string) {
	m.decodeFailureTotal.WithLabelValues(channel).Inc()
}
