package pipeline

import (
	"github.com/lunfardo314/sestring"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	strings    *prometheus.CounterVec
	payloads   *prometheus.CounterVec
	fallbacks  prometheus.Counter
	mismatches prometheus.Counter
	errors     *prometheus.CounterVec
}

// NewMetrics creates pipeline counters and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	ret := &Metrics{
		strings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sestring_strings_total",
			Help: "Strings processed, by stage",
		}, []string{"stage"}),
		payloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sestring_payloads_total",
			Help: "Decoded payloads, by payload type",
		}, []string{"type"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sestring_raw_fallbacks_total",
			Help: "Frames kept as raw payloads",
		}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sestring_roundtrip_mismatches_total",
			Help: "Decoded strings which do not re-encode to the input bytes",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sestring_errors_total",
			Help: "Failed strings, by stage",
		}, []string{"stage"}),
	}
	reg.MustRegister(ret.strings, ret.payloads, ret.fallbacks, ret.mismatches, ret.errors)
	return ret
}

func (m *Metrics) decoded(r *Result) {
	if m == nil {
		return
	}
	if r.Err != nil {
		m.errors.WithLabelValues(stageDecoder).Inc()
		return
	}
	m.strings.WithLabelValues(stageDecoder).Inc()
	for _, p := range r.Decoded.Payloads() {
		m.payloads.WithLabelValues(p.Type().String()).Inc()
		if p.Type() == sestring.PayloadRaw {
			m.fallbacks.Inc()
		}
	}
	if !r.RoundTrip {
		m.mismatches.Inc()
	}
}

func (m *Metrics) resolved(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.errors.WithLabelValues(stageResolver).Inc()
		return
	}
	m.strings.WithLabelValues(stageResolver).Inc()
}
