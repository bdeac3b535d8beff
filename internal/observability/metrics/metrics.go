package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalregistry_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentalregistry_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	registryOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalregistry_operations_total",
		Help: "Registry operations by entity, operation and result",
	}, []string{"entity", "operation", "result"})

	registryOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rentalregistry_operation_duration_seconds",
		Help:    "Duration of registry operations including storage round trips",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "operation"})

	blockedDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalregistry_blocked_deletes_total",
		Help: "Deletes refused because other records still reference the target",
	}, []string{"entity"})

	occupancyTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rentalregistry_occupancy_transitions_total",
		Help: "Apartment occupancy flips caused by contract changes",
	}, []string{"to"})

	vacantApartments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentalregistry_vacant_apartments",
		Help: "Vacant apartments as of the last dashboard computation",
	})

	activeContracts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rentalregistry_active_contracts",
		Help: "Active contracts as of the last dashboard computation",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveOperation records one registry call; result is "ok" or "error".
func ObserveOperation(entity, operation, result string, duration time.Duration) {
	registryOperations.WithLabelValues(entity, operation, result).Inc()
	registryOperationDuration.WithLabelValues(entity, operation).Observe(duration.Seconds())
}

// ObserveBlockedDelete counts a delete refused by a reference guard.
func ObserveBlockedDelete(entity string) {
	blockedDeletes.WithLabelValues(entity).Inc()
}

// ObserveOccupancy counts an apartment becoming occupied or vacant.
func ObserveOccupancy(occupied bool) {
	to := "vacant"
	if occupied {
		to = "occupied"
	}
	occupancyTransitions.WithLabelValues(to).Inc()
}

// SetPortfolio publishes the dashboard gauges.
func SetPortfolio(vacant, active int) {
	vacantApartments.Set(float64(max(vacant, 0)))
	activeContracts.Set(float64(max(active, 0)))
}
