package monitoring

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Kubernetes metadata labels attached to every metric when present.
var (
	kubernetesNamespace = os.Getenv("KUBERNETES_NAMESPACE")
	kubernetesPodName   = os.Getenv("KUBERNETES_POD_NAME")
	helmReleaseName     = os.Getenv("HELM_RELEASE_NAME")
	helmChartVersion    = os.Getenv("HELM_CHART_VERSION")
)

// getKubernetesLabels returns the Kubernetes labels for metrics
func getKubernetesLabels() prometheus.Labels {
	labels := prometheus.Labels{}

	if kubernetesNamespace != "" {
		labels["kubernetes_namespace"] = kubernetesNamespace
	}
	if kubernetesPodName != "" {
		labels["kubernetes_pod_name"] = kubernetesPodName
	}
	if helmReleaseName != "" {
		labels["helm_release"] = helmReleaseName
	}
	if helmChartVersion != "" {
		labels["helm_chart_version"] = helmChartVersion
	}

	return labels
}

var factory = promauto.With(prometheus.WrapRegistererWith(getKubernetesLabels(), prometheus.DefaultRegisterer))

// Prometheus metrics for the HTTP ingestion server
var (
	// HTTP request metrics
	RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Body parsing metrics
	BodyParseTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_body_parse_total",
			Help: "Total number of body parse attempts by decoder and outcome",
		},
		[]string{"decoder", "outcome"},
	)

	BodyParseDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_body_parse_duration_seconds",
			Help:    "Body parse duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"decoder"},
	)

	BodyBytesDrained = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_body_bytes_drained_total",
			Help: "Total bytes drained from request bodies",
		},
	)

	// Server metrics
	ServerInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ingest_server_info",
			Help: "Server build information",
		},
		[]string{"version", "commit", "build_time"},
	)

	ActiveConnections = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_active_connections",
			Help: "Number of active connections",
		},
	)
)

// SetServerInfo sets server build information
func SetServerInfo(version, commit, buildTime string) {
	ServerInfo.WithLabelValues(version, commit, buildTime).Set(1)
}

// RecordBodyParse records one parse attempt. outcome is "parsed" or
// "not_parsed"; decoder is the ParsedBody kind label, or "none".
func RecordBodyParse(decoder, outcome string, duration time.Duration) {
	BodyParseTotal.WithLabelValues(decoder, outcome).Inc()
	BodyParseDuration.WithLabelValues(decoder).Observe(duration.Seconds())
}

// RecordBytesDrained records bytes read off a request body stream.
func RecordBytesDrained(n int) {
	BodyBytesDrained.Add(float64(n))
}
