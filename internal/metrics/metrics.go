package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// SensorReadings counts ingested readings by outcome.
	SensorReadings = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sensor_readings_total", Help: "Ingested IoT sensor readings by outcome."},
		[]string{"outcome"},
	)
	// DispatchAssignments counts auto-assignment outcomes.
	DispatchAssignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dispatch_assignments_total", Help: "Waste task auto-assignments by outcome."},
		[]string{"outcome"},
	)
	// RoutesPlanned counts optimized routes.
	RoutesPlanned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "routes_planned_total", Help: "Route optimizations persisted."},
	)
	// VisionFallbacks counts degraded-mode vision responses.
	VisionFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "vision_fallbacks_total", Help: "AI vision calls resolved via the conservative fallback."},
	)
)

var regOnce sync.Once

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(SensorReadings)
		Registry.MustRegister(DispatchAssignments)
		Registry.MustRegister(RoutesPlanned)
		Registry.MustRegister(VisionFallbacks)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
