package inventory_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
)

func isSortedDesc(s *entity.Stats) bool {
	return sort.SliceIsSorted(s.Distribution, func(a, b int) bool {
		return s.Distribution[a].Total > s.Distribution[b].Total
	})
}

func TestRecordTransfer_AcumulaYOrdena(t *testing.T) {
	s := &entity.Stats{}
	inventory.RecordTransfer(s, "Mouse", "El Punto", 20)

	for _, qty := range []int{3, 7, 2} {
		inventory.RecordTransfer(s, "Laptop", "La Central", qty)
		assert.True(t, isSortedDesc(s), "la distribución debe quedar ordenada tras cada incremento")
	}

	require.Len(t, s.Distribution, 2)
	assert.Equal(t, entity.DistributionEntry{ProductName: "Mouse", Total: 20}, s.Distribution[0])
	assert.Equal(t, entity.DistributionEntry{ProductName: "Laptop", Total: 12}, s.Distribution[1])

	require.Len(t, s.Destinations, 2)
	assert.Equal(t, entity.DestinationEntry{DestinationName: "El Punto", Total: 20, Count: 1}, s.Destinations[0])
	assert.Equal(t, entity.DestinationEntry{DestinationName: "La Central", Total: 12, Count: 3}, s.Destinations[1])
}

func TestRecordTransfer_RecortaAQuince(t *testing.T) {
	s := &entity.Stats{}
	for i := 1; i <= 20; i++ {
		inventory.RecordTransfer(s, fmt.Sprintf("P%02d", i), "Depósito Central", i)
	}
	require.Len(t, s.Distribution, inventory.DistributionWriteLimit)
	assert.Equal(t, "P20", s.Distribution[0].ProductName)
	assert.Equal(t, "P06", s.Distribution[14].ProductName)
	require.Len(t, s.Destinations, 1)
	assert.Equal(t, 20, s.Destinations[0].Count)
	assert.Equal(t, 210, s.Destinations[0].Total)
}

func TestTopDistribution_LecturaAOcho(t *testing.T) {
	s := &entity.Stats{}
	for i := 1; i <= 12; i++ {
		inventory.RecordTransfer(s, fmt.Sprintf("P%02d", i), "X", i)
	}
	top := inventory.TopDistribution(s, inventory.DistributionReadLimit)
	assert.Len(t, top.Distribution, 8)
	assert.Len(t, s.Distribution, 12, "la entrada no se modifica")
}

func TestRetractTransfer(t *testing.T) {
	s := &entity.Stats{}
	inventory.RecordTransfer(s, "Laptop", "El Punto", 5)
	inventory.RecordTransfer(s, "Mouse", "El Punto", 4)
	inventory.RecordTransfer(s, "Mouse", "La Central", 4)

	inventory.RetractTransfer(s, "Mouse", "La Central", 4)
	assert.Equal(t, []entity.DistributionEntry{{ProductName: "Laptop", Total: 5}, {ProductName: "Mouse", Total: 4}}, s.Distribution)
	assert.Equal(t, []entity.DestinationEntry{{DestinationName: "El Punto", Total: 9, Count: 2}}, s.Destinations)

	inventory.RetractTransfer(s, "Laptop", "El Punto", 5)
	assert.Equal(t, []entity.DistributionEntry{{ProductName: "Mouse", Total: 4}}, s.Distribution)
	assert.Equal(t, []entity.DestinationEntry{{DestinationName: "El Punto", Total: 4, Count: 1}}, s.Destinations)

	// producto ausente: no-op
	inventory.RetractTransfer(s, "Teclado", "Otro", 3)
	assert.Len(t, s.Distribution, 1)
	assert.Len(t, s.Destinations, 1)
}

func TestBuildStats_SumaAntesDeRecortar(t *testing.T) {
	var transfers []*entity.Transfer
	for i := 1; i <= 16; i++ {
		transfers = append(transfers, &entity.Transfer{ProductName: fmt.Sprintf("P%02d", i), DestinationName: "A", Quantity: 10})
	}
	// P00 llega tarde pero acumula lo suficiente para entrar al top
	for i := 0; i < 3; i++ {
		transfers = append(transfers, &entity.Transfer{ProductName: "P00", DestinationName: "B", Quantity: 5})
	}

	s := inventory.BuildStats(transfers)
	require.Len(t, s.Distribution, inventory.DistributionWriteLimit)
	assert.Equal(t, entity.DistributionEntry{ProductName: "P00", Total: 15}, s.Distribution[0])
	assert.Equal(t, []entity.DestinationEntry{{DestinationName: "A", Total: 160, Count: 16}, {DestinationName: "B", Total: 15, Count: 3}}, s.Destinations)
}
