package metrics_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Fulbito99/Deposito-Unsa/internal/infrastructure/metrics"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

// value suma los contadores de la familia name.
func value(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}
	t.Fatalf("métrica %s no registrada", name)
	return 0
}
