package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

func TestExecute_DepositoALocal(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Laptop Pro 14\"", 20)
	f.locale(t, "l1", "El Punto", nil)

	tr := f.move(t, "p1", entity.Deposit(), entity.LocaleRef("l1"), 5)

	assert.Equal(t, 15, f.masterStock(t, "p1"))
	assert.Equal(t, 5, f.localeStock(t, "l1", "p1"))
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "Laptop Pro 14\"", tr.ProductName)
	assert.Equal(t, "Depósito Central", tr.SourceName)
	assert.Equal(t, "El Punto", tr.DestinationName)
	assert.Equal(t, "04/05/2026, 09:30:01", tr.Date)

	stored, err := f.history.Get(context.Background(), tr.ID)
	require.NoError(t, err)
	assert.Equal(t, tr.Quantity, stored.Quantity)

	s := f.stats(t)
	assert.Equal(t, []entity.DistributionEntry{{ProductName: "Laptop Pro 14\"", Total: 5}}, s.Distribution)
	assert.Equal(t, []entity.DestinationEntry{{DestinationName: "El Punto", Total: 5, Count: 1}}, s.Destinations)
	assert.Equal(t, []inventory.Operation{inventory.OpTransfer}, f.observer.committed)
}

func TestExecute_ConservaUnidadesSinExentos(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Mouse", 50)
	f.locale(t, "l1", "El Punto", nil)
	f.locale(t, "l2", "La Central", nil)
	before := f.totalUnits(t, "p1")

	steps := []struct {
		from, to entity.Holder
		qty      int
	}{
		{entity.Deposit(), entity.LocaleRef("l1"), 20},
		{entity.LocaleRef("l1"), entity.LocaleRef("l2"), 7},
		{entity.LocaleRef("l2"), entity.Deposit(), 3},
		{entity.Deposit(), entity.LocaleRef("l2"), 33},
	}
	for _, s := range steps {
		f.move(t, "p1", s.from, s.to, s.qty)
		assert.Equal(t, before, f.totalUnits(t, "p1"), "las unidades totales no deben cambiar")
	}
	assert.Equal(t, 0, f.masterStock(t, "p1"))
	assert.Equal(t, 13, f.localeStock(t, "l1", "p1"))
	assert.Equal(t, 37, f.localeStock(t, "l2", "p1"))
}

func TestExecute_StockInsuficienteEnDeposito(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Monitor", 5)
	f.locale(t, "l1", "El Punto", nil)

	_, err := f.transfer.Execute(context.Background(), inventory.TransferInput{
		ProductID: "p1", Source: entity.Deposit(), Destination: entity.LocaleRef("l1"), Quantity: 6,
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, "Depósito Central", stockErr.Holder)

	assert.Equal(t, 5, f.masterStock(t, "p1"), "no debe haber cambios")
	assert.Equal(t, 0, f.localeStock(t, "l1", "p1"))
	assert.Empty(t, f.stats(t).Distribution)
	assert.Len(t, f.observer.failed, 1)
}

func TestExecute_StockInsuficienteEnLocal(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Teclado", 0)
	f.locale(t, "l1", "La Guardia", map[string]int{"p1": 2})
	f.locale(t, "l2", "El Punto", nil)

	_, err := f.transfer.Execute(context.Background(), inventory.TransferInput{
		ProductID: "p1", Source: entity.LocaleRef("l1"), Destination: entity.LocaleRef("l2"), Quantity: 3,
	})
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "La Guardia", stockErr.Holder)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 2, f.localeStock(t, "l1", "p1"))
}

func TestExecute_OrigenExentoNoDescuenta(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Auriculares", 0)
	f.locale(t, "soho", "SOHO", map[string]int{"p1": 0})

	tr := f.move(t, "p1", entity.LocaleRef("soho"), entity.Deposit(), 10)

	assert.Equal(t, 10, f.masterStock(t, "p1"))
	assert.Equal(t, 0, f.localeStock(t, "soho", "p1"), "el origen exento no se toca")
	assert.Equal(t, "SOHO", tr.SourceName)
	assert.Equal(t, "Depósito Central", tr.DestinationName)
}

func TestExecute_DestinoExentoSiSuma(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Auriculares", 8)
	f.locale(t, "dique", "Dique", nil)

	f.move(t, "p1", entity.Deposit(), entity.LocaleRef("dique"), 8)
	assert.Equal(t, 8, f.localeStock(t, "dique", "p1"))
}

func TestExecute_ExencionPorFlagConfigurada(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Mouse", 0)
	require.NoError(t, f.repos.Locales.Create(context.Background(), &entity.Locale{ID: "feria", Name: "Feria", Exempt: true}))

	f.move(t, "p1", entity.LocaleRef("feria"), entity.Deposit(), 4)
	assert.Equal(t, 4, f.masterStock(t, "p1"))
}

func TestExecute_OrigenIgualDestinoSinLecturas(t *testing.T) {
	f := newFixture(t)
	// ni producto ni local existen: el rechazo ocurre antes de cualquier lectura
	_, err := f.transfer.Execute(context.Background(), inventory.TransferInput{
		ProductID: "p1", Source: entity.LocaleRef("l1"), Destination: entity.LocaleRef("l1"), Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Mouse", 10)
	f.locale(t, "l1", "El Punto", nil)

	cases := []struct {
		name string
		in   inventory.TransferInput
		want error
	}{
		{"cantidad cero", inventory.TransferInput{ProductID: "p1", Source: entity.Deposit(), Destination: entity.LocaleRef("l1")}, domain.ErrInvalidInput},
		{"cantidad negativa", inventory.TransferInput{ProductID: "p1", Source: entity.Deposit(), Destination: entity.LocaleRef("l1"), Quantity: -2}, domain.ErrInvalidInput},
		{"sin destino", inventory.TransferInput{ProductID: "p1", Source: entity.Deposit(), Quantity: 1}, domain.ErrInvalidInput},
		{"depósito a depósito", inventory.TransferInput{ProductID: "p1", Source: entity.Deposit(), Destination: entity.Deposit(), Quantity: 1}, domain.ErrInvalidInput},
		{"producto inexistente", inventory.TransferInput{ProductID: "px", Source: entity.Deposit(), Destination: entity.LocaleRef("l1"), Quantity: 1}, domain.ErrNotFound},
		{"origen inexistente", inventory.TransferInput{ProductID: "p1", Source: entity.LocaleRef("lx"), Destination: entity.LocaleRef("l1"), Quantity: 1}, domain.ErrNotFound},
		{"destino inexistente", inventory.TransferInput{ProductID: "p1", Source: entity.Deposit(), Destination: entity.LocaleRef("lx"), Quantity: 1}, domain.ErrNotFound},
		{"edición", inventory.TransferInput{ProductID: "p1", Source: entity.Deposit(), Destination: entity.LocaleRef("l1"), Quantity: 1, EditingTransferID: "t1"}, domain.ErrNotSupported},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.transfer.Execute(context.Background(), tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, 10, f.masterStock(t, "p1"))
}

func TestRepeat_MismosParametros(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Laptop", 20)
	f.locale(t, "l1", "El Punto", nil)

	first := f.move(t, "p1", entity.Deposit(), entity.LocaleRef("l1"), 5)
	again, err := f.transfer.Repeat(context.Background(), first.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, again.ID)
	assert.True(t, again.Timestamp.After(first.Timestamp))
	assert.Equal(t, first.ProductID, again.ProductID)
	assert.Equal(t, first.Quantity, again.Quantity)
	assert.Equal(t, first.Source, again.Source)
	assert.Equal(t, first.Destination, again.Destination)
	assert.Equal(t, 10, f.masterStock(t, "p1"))
	assert.Equal(t, 10, f.localeStock(t, "l1", "p1"))

	_, err = f.transfer.Repeat(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExecute_NoDejaSaldosNegativos(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Mouse", 3)
	f.locale(t, "l1", "El Punto", nil)

	for i := 0; i < 5; i++ {
		_, _ = f.transfer.Execute(context.Background(), inventory.TransferInput{
			ProductID: "p1", Source: entity.Deposit(), Destination: entity.LocaleRef("l1"), Quantity: 1,
		})
	}
	assert.Equal(t, 0, f.masterStock(t, "p1"))
	assert.Equal(t, 3, f.localeStock(t, "l1", "p1"))
}

func TestExecute_ConcurrentesNoConsumenDosVeces(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Mouse", 5)
	f.locale(t, "l1", "El Punto", nil)

	results := make(chan error, 12)
	for i := 0; i < 12; i++ {
		go func() {
			_, err := f.transfer.Execute(context.Background(), inventory.TransferInput{
				ProductID: "p1", Source: entity.Deposit(), Destination: entity.LocaleRef("l1"), Quantity: 1,
			})
			results <- err
		}()
	}
	ok, rejected := 0, 0
	for i := 0; i < 12; i++ {
		if err := <-results; err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			rejected++
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 7, rejected)
	assert.Equal(t, 0, f.masterStock(t, "p1"))
	assert.Equal(t, 5, f.localeStock(t, "l1", "p1"))
}

func TestExecute_CantidadSobreElMaximo(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Yerba", 10)
	f.locale(t, "soho", "SOHO", nil)
	f.locale(t, "l1", "El Punto", nil)

	_, err := f.transfer.Execute(context.Background(), inventory.TransferInput{
		ProductID: "p1", Source: entity.LocaleRef("soho"), Destination: entity.LocaleRef("l1"), Quantity: entity.MaxStock + 1,
	})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.localeStock(t, "l1", "p1"))
	assert.Empty(t, f.stats(t).Distribution)
}

func TestExecute_DestinoNoSuperaElMaximo(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Yerba", 10)
	f.locale(t, "soho", "SOHO", nil)
	f.locale(t, "l1", "El Punto", nil)

	first := f.move(t, "p1", entity.LocaleRef("soho"), entity.LocaleRef("l1"), 2_000_000_000)
	require.NotNil(t, first)

	_, err := f.transfer.Execute(context.Background(), inventory.TransferInput{
		ProductID: "p1", Source: entity.LocaleRef("soho"), Destination: entity.LocaleRef("l1"), Quantity: 2_000_000_000,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "El Punto")
	assert.Equal(t, 2_000_000_000, f.localeStock(t, "l1", "p1"), "el saldo del destino no cambia")

	page, err := f.history.List(context.Background(), repository.TransferFilter{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	// Igual con el depósito como destino.
	_, err = f.transfer.Execute(context.Background(), inventory.TransferInput{
		ProductID: "p1", Source: entity.LocaleRef("soho"), Destination: entity.Deposit(), Quantity: entity.MaxStock,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 10, f.masterStock(t, "p1"))
}

func TestExecute_ActualizaFechaDeLocales(t *testing.T) {
	f := newFixture(t)
	f.product(t, "p1", "Yerba", 10)
	f.locale(t, "l1", "El Punto", nil)
	f.locale(t, "l2", "La Central", nil)

	f.move(t, "p1", entity.Deposit(), entity.LocaleRef("l1"), 4)
	tr := f.move(t, "p1", entity.LocaleRef("l1"), entity.LocaleRef("l2"), 1)

	for _, id := range []string{"l1", "l2"} {
		l, err := f.repos.Locales.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, tr.Timestamp, l.UpdatedAt, id)
	}
}
