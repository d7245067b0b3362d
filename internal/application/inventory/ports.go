package inventory

import (
	"context"
	"time"

	domaininv "github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
	"github.com/Fulbito99/Deposito-Unsa/pkg/logger"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no se aplica ninguna escritura. Ante un conflicto de escritura concurrente
// el runner puede volver a invocar fn desde cero, por lo que fn no debe tener efectos fuera de repos.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error
}

// Operation identifica la operación del motor que confirmó o falló.
type Operation string

const (
	OpTransfer Operation = "transfer"
	OpReversal Operation = "reversal"
	OpClear    Operation = "clear"
)

// Observer recibe los resultados de las operaciones del motor, siempre fuera de la transacción.
// Committed recibe la transferencia creada o revertida (nil para OpClear).
type Observer interface {
	Committed(ctx context.Context, op Operation, t *entity.Transfer)
	Failed(ctx context.Context, op Operation, err error)
}

// Observers reparte cada evento a todos los observadores.
type Observers []Observer

func (obs Observers) Committed(ctx context.Context, op Operation, t *entity.Transfer) {
	for _, o := range obs {
		o.Committed(ctx, op, t)
	}
}

func (obs Observers) Failed(ctx context.Context, op Operation, err error) {
	for _, o := range obs {
		o.Failed(ctx, op, err)
	}
}

// Settings parámetros compartidos por los casos de uso del motor.
type Settings struct {
	Policy                 *domaininv.ExemptionPolicy
	DepositLabel           string
	RetractStatsOnReversal bool
	ChunkSize              int
	Observer               Observer
	Logger                 *logger.Logger
	Now                    func() time.Time
}

const (
	defaultDepositLabel = "Depósito Central"
	defaultChunkSize    = 500
)

func (s Settings) withDefaults() Settings {
	if s.Policy == nil {
		s.Policy = domaininv.NewExemptionPolicy(domaininv.DefaultExemptLocales)
	}
	if s.DepositLabel == "" {
		s.DepositLabel = defaultDepositLabel
	}
	if s.ChunkSize <= 0 {
		s.ChunkSize = defaultChunkSize
	}
	if s.Observer == nil {
		s.Observer = Observers(nil)
	}
	if s.Logger == nil {
		s.Logger = logger.Nop()
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}

// holderName resuelve el nombre visible de un holder. l es el local ya leído por loadHolder,
// nunca nil si h no es el depósito.
func (s Settings) holderName(h entity.Holder, l *entity.Locale) string {
	if h.IsDeposit() {
		return s.DepositLabel
	}
	return l.Name
}
