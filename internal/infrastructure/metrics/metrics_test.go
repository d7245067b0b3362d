package metrics_test

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/metrics"
)

func TestMetrics_CuentaPorResultado(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()

	m.Committed(ctx, inventory.OpTransfer, &entity.Transfer{Quantity: 4})
	m.Committed(ctx, inventory.OpTransfer, &entity.Transfer{Quantity: 6})
	m.Failed(ctx, inventory.OpTransfer, &domain.InsufficientStockError{Holder: "El Punto"})
	m.Committed(ctx, inventory.OpReversal, &entity.Transfer{Quantity: 4})
	m.Committed(ctx, inventory.OpClear, nil)
	m.ConflictObserved()

	expected := `
# HELP deposito_transfers_total Transferencias procesadas por resultado.
# TYPE deposito_transfers_total counter
deposito_transfers_total{result="insufficient_stock"} 1
deposito_transfers_total{result="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), stringsReader(expected), "deposito_transfers_total"))
	assert.InDelta(t, 10, value(t, m, "deposito_transfer_quantity_total"), 0.001)
	assert.InDelta(t, 1, value(t, m, "deposito_tx_conflicts_total"), 0.001)
}

func TestClassify(t *testing.T) {
	cases := map[string]error{
		"ok":                 nil,
		"insufficient_stock": fmt.Errorf("x: %w", &domain.InsufficientStockError{}),
		"invalid":            domain.InvalidInput("cantidad"),
		"not_found":          domain.NotFound("producto", "p1"),
		"not_supported":      domain.ErrNotSupported,
		"conflict":           fmt.Errorf("commit: %w", domain.ErrTransactionConflict),
		"error":              assert.AnError,
	}
	for want, err := range cases {
		assert.Equal(t, want, metrics.Classify(err), want)
	}
}

func TestHandler_Expone(t *testing.T) {
	m := metrics.New()
	m.Committed(context.Background(), inventory.OpTransfer, &entity.Transfer{Quantity: 1})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `deposito_transfers_total{result="ok"} 1`)
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.Committed(context.Background(), inventory.OpTransfer, nil)
		m.Failed(context.Background(), inventory.OpReversal, assert.AnError)
		m.ConflictObserved()
	})
}
