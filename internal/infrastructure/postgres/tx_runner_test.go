package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
)

func pgErr(code string) error {
	return &pgconn.PgError{Code: code, Message: "simulado"}
}

func TestRetryConflicts_ReintentaHastaExito(t *testing.T) {
	calls, observed := 0, 0
	err := retryConflicts(context.Background(), 3, func(int, error) { observed++ }, func(context.Context) error {
		calls++
		if calls < 3 {
			return domain.Storage("commit transaction", pgErr(codeSerializationFailure))
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, observed)
}

func TestRetryConflicts_AgotaIntentos(t *testing.T) {
	calls := 0
	err := retryConflicts(context.Background(), 2, nil, func(context.Context) error {
		calls++
		return pgErr(codeDeadlockDetected)
	})
	assert.ErrorIs(t, err, domain.ErrTransactionConflict)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "3 intentos")
}

func TestRetryConflicts_NoReintentaErroresDeDominio(t *testing.T) {
	calls := 0
	want := &domain.InsufficientStockError{Holder: "El Punto", Available: 1, Requested: 4}
	err := retryConflicts(context.Background(), 5, nil, func(context.Context) error {
		calls++
		return want
	})
	assert.Same(t, want, err)
	assert.Equal(t, 1, calls)
}

func TestRetryConflicts_RespetaCancelacion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retryConflicts(ctx, 10, func(int, error) { cancel() }, func(context.Context) error {
		calls++
		return pgErr(codeSerializationFailure)
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(pgErr(codeUniqueViolation)))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", pgErr(codeUniqueViolation))))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
	assert.False(t, isConflict(pgErr(codeUniqueViolation)))
	assert.True(t, isConflict(domain.Storage("x", pgErr(codeSerializationFailure))))
}
