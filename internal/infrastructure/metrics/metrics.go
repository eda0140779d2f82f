// Package metrics expone contadores Prometheus del motor de asignación y del API HTTP.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/stock-locations-api/internal/application/inventory"
)

const namespace = "stock_locations"

// Resultados de una aplicación del ledger.
const (
	OutcomeFull    = "full"
	OutcomePartial = "partial"
)

var _ inventory.AllocationMetrics = (*Recorder)(nil)

// Recorder agrupa los collectors. Un Recorder sin registrar sigue contando (tests).
type Recorder struct {
	applies    *prometheus.CounterVec
	subtracted *prometheus.CounterVec
	shortfall  *prometheus.CounterVec
	replays    *prometheus.CounterVec
	requests   *prometheus.CounterVec

	registerOnce sync.Once
}

// NewRecorder construye los collectors.
func NewRecorder() *Recorder {
	return &Recorder{
		applies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "allocation",
				Name:      "applies_total",
				Help:      "Asignaciones aplicadas por origen (auto|manual) y resultado (full|partial).",
			},
			[]string{"source", "outcome"},
		),
		subtracted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "allocation",
				Name:      "units_subtracted_total",
				Help:      "Unidades restadas del stock por ubicación.",
			},
			[]string{"source"},
		),
		shortfall: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "allocation",
				Name:      "shortfall_units_total",
				Help:      "Unidades pedidas que no se pudieron restar (asignación parcial).",
			},
			[]string{"source"},
		),
		replays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "allocation",
				Name:      "replays_total",
				Help:      "Aplicaciones repetidas sobre una línea ya reclamada (sin tocar stock).",
			},
			[]string{"source"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Peticiones HTTP por método, ruta y código de estado.",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Register registra los collectors una sola vez.
func (r *Recorder) Register(reg prometheus.Registerer) {
	r.registerOnce.Do(func() {
		reg.MustRegister(r.applies, r.subtracted, r.shortfall, r.replays, r.requests)
	})
}

// ObserveApply registra una aplicación completada del ledger.
func (r *Recorder) ObserveApply(source string, fullySatisfied bool, subtracted, shortfall int64) {
	outcome := OutcomeFull
	if !fullySatisfied {
		outcome = OutcomePartial
	}
	r.applies.WithLabelValues(source, outcome).Inc()
	if subtracted > 0 {
		r.subtracted.WithLabelValues(source).Add(float64(subtracted))
	}
	if shortfall > 0 {
		r.shortfall.WithLabelValues(source).Add(float64(shortfall))
	}
}

// ObserveReplay registra una aplicación repetida.
func (r *Recorder) ObserveReplay(source string) {
	r.replays.WithLabelValues(source).Inc()
}

// ObserveRequest registra una petición HTTP atendida.
func (r *Recorder) ObserveRequest(method, route string, status int) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
