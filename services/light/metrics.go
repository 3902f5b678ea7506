package light

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts control requests per verb and their failures per code.
type Metrics struct {
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	sleeping *prometheus.GaugeVec
}

// NewMetrics registers the light metrics on reg. A nil reg keeps them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lightcode",
			Subsystem: "light",
			Name:      "requests_total",
			Help:      "Control requests handled, by verb",
		}, []string{"light", "verb"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lightcode",
			Subsystem: "light",
			Name:      "errors_total",
			Help:      "Failed control requests, by verb and error code",
		}, []string{"light", "verb", "code"}),
		sleeping: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lightcode",
			Subsystem: "light",
			Name:      "sleeping",
			Help:      "1 while the chip is in sleep mode",
		}, []string{"light"}),
	}
}

func (m *Metrics) request(light, verb string) {
	m.requests.WithLabelValues(light, verb).Inc()
}

func (m *Metrics) failure(light, verb, code string) {
	m.errors.WithLabelValues(light, verb, code).Inc()
}

func (m *Metrics) setSleeping(light string, sleeping bool) {
	v := 0.0
	if sleeping {
		v = 1
	}
	m.sleeping.WithLabelValues(light).Set(v)
}
