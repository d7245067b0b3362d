// Package metrics expone contadores Prometheus del motor de transferencias.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
)

// Metrics agrupa los collectors sobre un registry propio.
type Metrics struct {
	registry  *prometheus.Registry
	transfers *prometheus.CounterVec
	quantity  prometheus.Counter
	reversals *prometheus.CounterVec
	clears    *prometheus.CounterVec
	conflicts prometheus.Counter
}

var _ inventory.Observer = (*Metrics)(nil)

// New registra los collectors. Incluye los de proceso y runtime de Go.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deposito_transfers_total",
			Help: "Transferencias procesadas por resultado.",
		}, []string{"result"}),
		quantity: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deposito_transfer_quantity_total",
			Help: "Unidades movidas por transferencias confirmadas.",
		}),
		reversals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deposito_reversals_total",
			Help: "Reversiones procesadas por resultado.",
		}, []string{"result"}),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "deposito_history_cleared_total",
			Help: "Ejecuciones de borrado de historial por resultado.",
		}, []string{"result"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deposito_tx_conflicts_total",
			Help: "Conflictos de serialización reintentados por el almacenamiento.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.transfers, m.quantity, m.reversals, m.clears, m.conflicts,
	)
	return m
}

// Registry expone el registry (tests y collectors adicionales).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler sirve el formato de exposición de Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Committed implementa inventory.Observer.
func (m *Metrics) Committed(_ context.Context, op inventory.Operation, t *entity.Transfer) {
	if m == nil {
		return
	}
	switch op {
	case inventory.OpTransfer:
		m.transfers.WithLabelValues("ok").Inc()
		if t != nil {
			m.quantity.Add(float64(t.Quantity))
		}
	case inventory.OpReversal:
		m.reversals.WithLabelValues("ok").Inc()
	case inventory.OpClear:
		m.clears.WithLabelValues("ok").Inc()
	}
}

// Failed implementa inventory.Observer.
func (m *Metrics) Failed(_ context.Context, op inventory.Operation, err error) {
	if m == nil {
		return
	}
	result := Classify(err)
	switch op {
	case inventory.OpTransfer:
		m.transfers.WithLabelValues(result).Inc()
	case inventory.OpReversal:
		m.reversals.WithLabelValues(result).Inc()
	case inventory.OpClear:
		m.clears.WithLabelValues(result).Inc()
	}
}

// ConflictObserved se engancha a los TxRunner; se llama en cada reintento por conflicto.
func (m *Metrics) ConflictObserved() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

// Classify traduce un error del motor a la etiqueta result.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNotSupported):
		return "not_supported"
	case errors.Is(err, domain.ErrTransactionConflict):
		return "conflict"
	default:
		return "error"
	}
}
