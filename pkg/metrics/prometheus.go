package metrics

import (
	"time"

	"ACATN/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements config.Observer using Prometheus.
type Recorder struct {
	initTotal        *prometheus.CounterVec
	initDuration     prometheus.Histogram
	credentialsValid prometheus.Gauge
	symbols          *prometheus.GaugeVec
	auditTotal       *prometheus.CounterVec
}

// New creates a Prometheus recorder registered on reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		initTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acatn_config_init_total",
				Help: "Configuration initialization attempts by result",
			},
			[]string{"result"},
		),
		initDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "acatn_config_init_duration_seconds",
				Help:    "Duration of configuration construction in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		credentialsValid: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "acatn_config_credentials_valid",
				Help: "1 when the service-account credential passed validation",
			},
		),
		symbols: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "acatn_config_symbols",
				Help: "Configured symbol count per asset class",
			},
			[]string{"asset_class"},
		),
		auditTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acatn_config_audit_publish_total",
				Help: "Snapshot audit publications by sink and result",
			},
			[]string{"sink", "result"},
		),
	}
}

// ObserveInit records one initialization outcome.
func (r *Recorder) ObserveInit(result string, d time.Duration) {
	r.initTotal.WithLabelValues(result).Inc()
	r.initDuration.Observe(d.Seconds())
}

// ObserveSnapshot exports the published snapshot's shape.
func (r *Recorder) ObserveSnapshot(s *config.Snapshot) {
	if s.CredentialsValid() {
		r.credentialsValid.Set(1)
	} else {
		r.credentialsValid.Set(0)
	}
	limits := s.Limits()
	for _, class := range config.AssetClasses {
		r.symbols.WithLabelValues(string(class)).Set(float64(len(limits.Symbols(class))))
	}
}

// RecordAudit records an audit publication attempt.
func (r *Recorder) RecordAudit(sink string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.auditTotal.WithLabelValues(sink, result).Inc()
}
