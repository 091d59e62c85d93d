package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label values for the estimates counter.
const (
	VariantMean = "mean"
	VariantPeak = "peak"

	TransportHTTP = "http"
	TransportWS   = "websocket"
)

type Registry struct {
	reg             *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	EstimatesTotal  *prometheus.CounterVec
	DatasetRecords  prometheus.Gauge
	DatasetDays     prometheus.Gauge
	WSConnections   prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "forecast_http_requests_total"}, []string{"method", "path", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forecast_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	estimates := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "forecast_estimates_total"}, []string{"variant", "transport"})
	records := prometheus.NewGauge(prometheus.GaugeOpts{Name: "forecast_dataset_records"})
	days := prometheus.NewGauge(prometheus.GaugeOpts{Name: "forecast_dataset_days"})
	wsConns := prometheus.NewGauge(prometheus.GaugeOpts{Name: "forecast_ws_connections"})

	r.MustRegister(requests, duration, estimates, records, days, wsConns)
	return &Registry{
		reg:             r,
		RequestsTotal:   requests,
		RequestDuration: duration,
		EstimatesTotal:  estimates,
		DatasetRecords:  records,
		DatasetDays:     days,
		WSConnections:   wsConns,
	}
}

// ObserveRequest records one served HTTP request. path should be the route
// pattern, not the raw URL, to keep label cardinality bounded.
func (r *Registry) ObserveRequest(method, path, status string, seconds float64) {
	r.RequestsTotal.WithLabelValues(method, path, status).Inc()
	r.RequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// ObserveEstimate records one completed workload estimate.
func (r *Registry) ObserveEstimate(variant, transport string) {
	r.EstimatesTotal.WithLabelValues(variant, transport).Inc()
}

// SetDatasetSize records the loaded dataset dimensions.
func (r *Registry) SetDatasetSize(records, days int) {
	r.DatasetRecords.Set(float64(records))
	r.DatasetDays.Set(float64(days))
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
