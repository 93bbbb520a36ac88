package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadMoves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_lead_moves_total",
			Help: "Total number of kanban status transitions",
		},
		[]string{"from", "to"},
	)

	automationActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_automation_actions_total",
			Help: "Total number of automation actions executed",
		},
		[]string{"action", "result"},
	)

	webhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_webhook_deliveries_total",
			Help: "Total number of webhook delivery attempts",
		},
		[]string{"event", "result"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão do chi ("/api/leads/{id}") para não explodir a cardinalidade.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// CRMMetrics expõe os contadores de domínio para os usecases e o sender de webhooks.
type CRMMetrics struct{}

func (CRMMetrics) ObserveMove(from, to entity.LeadStatus) {
	leadMoves.WithLabelValues(string(from), string(to)).Inc()
}

func (CRMMetrics) ObserveAction(kind entity.ActionKind, ok bool) {
	automationActions.WithLabelValues(string(kind), result(ok)).Inc()
}

func (CRMMetrics) ObserveWebhook(event entity.WebhookEvent, success bool) {
	webhookDeliveries.WithLabelValues(string(event), result(success)).Inc()
}
