package inventory

import (
	"context"
	"fmt"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	domaininv "github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

// ReversalUseCase deshace transferencias confirmadas (individualmente o por lotes) y elimina su registro.
type ReversalUseCase struct {
	txRunner  TxRunner
	transfers repository.TransferRepository
	cfg       Settings
}

// NewReversalUseCase construye el caso de uso.
func NewReversalUseCase(txRunner TxRunner, transfers repository.TransferRepository, cfg Settings) *ReversalUseCase {
	return &ReversalUseCase{
		txRunner:  txRunner,
		transfers: transfers,
		cfg:       cfg.withDefaults(),
	}
}

// Undo revierte los saldos de la transferencia y elimina su registro en una sola transacción.
func (uc *ReversalUseCase) Undo(ctx context.Context, transferID string) error {
	var reverted *entity.Transfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		t, err := repos.Transfers.GetByID(ctx, transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.NotFound("transferencia", transferID)
		}
		if err := uc.reverse(ctx, repos, t); err != nil {
			return err
		}
		reverted = t
		return nil
	})
	if err != nil {
		uc.cfg.Observer.Failed(ctx, OpReversal, err)
		return err
	}

	uc.cfg.Logger.Info().
		Str("transfer_id", reverted.ID).
		Str("product_id", reverted.ProductID).
		Int("quantity", reverted.Quantity).
		Msg("transferencia revertida")
	uc.cfg.Observer.Committed(ctx, OpReversal, reverted)
	return nil
}

// ClearHistoryInput filtro del historial a eliminar. KeepStock elimina solo los registros,
// sin tocar saldos ni el resumen.
type ClearHistoryInput struct {
	Filter    repository.TransferFilter
	KeepStock bool
}

// ClearHistoryResult resultado de un borrado por lotes.
type ClearHistoryResult struct {
	Matched int `json:"matched"`
	Removed int `json:"removed"`
	Chunks  int `json:"chunks"`
}

// ClearHistory revierte y elimina todas las transferencias que cumplen el filtro, en lotes de
// ChunkSize registros con una transacción por lote. Si un lote falla se detiene y devuelve el
// resultado parcial junto con el error; los lotes ya confirmados quedan aplicados.
func (uc *ReversalUseCase) ClearHistory(ctx context.Context, in ClearHistoryInput) (*ClearHistoryResult, error) {
	filter := in.Filter
	filter.Limit, filter.Offset = 0, 0
	matched, err := uc.transfers.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := &ClearHistoryResult{Matched: len(matched)}
	for start := 0; start < len(matched); start += uc.cfg.ChunkSize {
		chunk := matched[start:min(start+uc.cfg.ChunkSize, len(matched))]

		var removed int
		err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
			removed = 0
			for _, ref := range chunk {
				// Releer dentro de la tx: pudo haberse revertido entre el listado y el lote.
				t, err := repos.Transfers.GetByID(ctx, ref.ID)
				if err != nil {
					return err
				}
				if t == nil {
					continue
				}
				if in.KeepStock {
					err = repos.Transfers.Delete(ctx, t.ID)
				} else {
					err = uc.reverse(ctx, repos, t)
				}
				if err != nil {
					return err
				}
				removed++
			}
			return nil
		})
		if err != nil {
			uc.cfg.Observer.Failed(ctx, OpClear, err)
			uc.cfg.Logger.Error().Err(err).
				Int("chunk", res.Chunks+1).
				Int("removed", res.Removed).
				Msg("borrado de historial interrumpido")
			return res, fmt.Errorf("lote %d de historial: %w", res.Chunks+1, err)
		}
		res.Chunks++
		res.Removed += removed
	}

	uc.cfg.Logger.Info().
		Int("matched", res.Matched).
		Int("removed", res.Removed).
		Int("chunks", res.Chunks).
		Bool("keep_stock", in.KeepStock).
		Msg("historial eliminado")
	if res.Removed > 0 {
		uc.cfg.Observer.Committed(ctx, OpClear, nil)
	}
	return res, nil
}

// reverse aplica el inverso de la transferencia y elimina su registro:
//   - destino: se resta lo acreditado, nunca por debajo de cero;
//   - origen: se restituye solo si el destino no fue el depósito y el local de origen no es exento;
//     si el origen fue el depósito se le devuelve la cantidad.
//
// Un producto o local que ya no existe se omite.
func (uc *ReversalUseCase) reverse(ctx context.Context, repos repository.Repositories, t *entity.Transfer) error {
	product, err := repos.Products.GetByID(ctx, t.ProductID)
	if err != nil {
		return err
	}
	var dest, source *entity.Locale
	if !t.Destination.IsDeposit() {
		if dest, err = repos.Locales.GetByID(ctx, t.Destination.LocaleID()); err != nil {
			return err
		}
	}
	if !t.Source.IsDeposit() && !t.Destination.IsDeposit() {
		if source, err = repos.Locales.GetByID(ctx, t.Source.LocaleID()); err != nil {
			return err
		}
	}
	var stats *entity.Stats
	if uc.cfg.RetractStatsOnReversal {
		if stats, err = repos.Stats.Get(ctx); err != nil {
			return err
		}
	}

	now := uc.cfg.Now()
	productChanged := false

	if t.Destination.IsDeposit() {
		if product != nil {
			product.MasterStock = max(0, product.MasterStock-t.Quantity)
			productChanged = true
		}
	} else if dest != nil && dest.HasEntry(t.ProductID) {
		dest.SetStock(t.ProductID, max(0, dest.Stock(t.ProductID)-t.Quantity))
		dest.UpdatedAt = now
		if err := repos.Locales.Update(ctx, dest); err != nil {
			return err
		}
	}

	switch {
	case t.Source.IsDeposit():
		if product != nil {
			next, ok := entity.AddStock(product.MasterStock, t.Quantity)
			if !ok {
				return exceedsMax(uc.cfg.DepositLabel)
			}
			product.MasterStock = next
			productChanged = true
		}
	case t.Destination.IsDeposit():
		// Con destino depósito solo se descuenta del depósito: el local de origen no se restituye.
	case source != nil && !uc.cfg.Policy.IsExempt(source):
		next, ok := entity.AddStock(source.Stock(t.ProductID), t.Quantity)
		if !ok {
			return exceedsMax(source.Name)
		}
		source.SetStock(t.ProductID, next)
		source.UpdatedAt = now
		if err := repos.Locales.Update(ctx, source); err != nil {
			return err
		}
	}

	if productChanged {
		product.UpdatedAt = now
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
	} else if product == nil && (t.Source.IsDeposit() || t.Destination.IsDeposit()) {
		uc.cfg.Logger.Warn().Str("product_id", t.ProductID).Msg("producto eliminado; se omite el ajuste del depósito")
	}

	if err := repos.Transfers.Delete(ctx, t.ID); err != nil {
		return err
	}

	if stats != nil {
		domaininv.RetractTransfer(stats, t.ProductName, t.DestinationName, t.Quantity)
		stats.UpdatedAt = now
		if err := repos.Stats.Save(ctx, stats); err != nil {
			return err
		}
	}
	return nil
}
