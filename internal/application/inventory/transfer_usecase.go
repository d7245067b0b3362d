package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	domaininv "github.com/Fulbito99/Deposito-Unsa/internal/domain/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

var errEditUnsupported = fmt.Errorf("%w: la edición de transferencias no está soportada, eliminar y volver a crear", domain.ErrNotSupported)

// TransferUseCase aplica transferencias de stock entre el depósito y los locales de forma atómica:
// lecturas y validación primero, luego descuento en origen, acreditación en destino,
// registro del historial y actualización del resumen, todo dentro de la misma transacción.
type TransferUseCase struct {
	txRunner  TxRunner
	transfers repository.TransferRepository
	cfg       Settings
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner TxRunner, transfers repository.TransferRepository, cfg Settings) *TransferUseCase {
	return &TransferUseCase{
		txRunner:  txRunner,
		transfers: transfers,
		cfg:       cfg.withDefaults(),
	}
}

// TransferInput entrada de una transferencia. EditingTransferID no vacío indica un intento de
// editar una transferencia ya confirmada, que siempre se rechaza.
type TransferInput struct {
	ProductID         string
	Source            entity.Holder
	Destination       entity.Holder
	Quantity          int
	EditingTransferID string
}

// Execute valida y aplica la transferencia. Devuelve la transferencia creada.
func (uc *TransferUseCase) Execute(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	if err := validateTransfer(in); err != nil {
		uc.cfg.Observer.Failed(ctx, OpTransfer, err)
		return nil, err
	}

	var created *entity.Transfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		t, err := uc.apply(ctx, repos, in)
		if err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		uc.cfg.Observer.Failed(ctx, OpTransfer, err)
		return nil, err
	}

	uc.cfg.Logger.Info().
		Str("transfer_id", created.ID).
		Str("product_id", created.ProductID).
		Str("source", created.Source.String()).
		Str("destination", created.Destination.String()).
		Int("quantity", created.Quantity).
		Msg("transferencia registrada")
	uc.cfg.Observer.Committed(ctx, OpTransfer, created)
	return created, nil
}

// Repeat vuelve a ejecutar los parámetros de una transferencia pasada como una transferencia nueva.
func (uc *TransferUseCase) Repeat(ctx context.Context, transferID string) (*entity.Transfer, error) {
	past, err := uc.transfers.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if past == nil {
		return nil, domain.NotFound("transferencia", transferID)
	}
	return uc.Execute(ctx, TransferInput{
		ProductID:   past.ProductID,
		Source:      past.Source,
		Destination: past.Destination,
		Quantity:    past.Quantity,
	})
}

// validateTransfer rechaza la petición antes de leer ningún saldo.
func validateTransfer(in TransferInput) error {
	if in.EditingTransferID != "" {
		return errEditUnsupported
	}
	if in.ProductID == "" {
		return domain.InvalidInput("producto requerido")
	}
	if in.Quantity <= 0 {
		return domain.InvalidInput("la cantidad debe ser mayor a cero")
	}
	if in.Quantity > entity.MaxStock {
		return domain.InvalidInput(fmt.Sprintf("la cantidad no puede superar %d", entity.MaxStock))
	}
	if in.Source.IsZero() || in.Destination.IsZero() {
		return domain.InvalidInput("origen y destino requeridos")
	}
	if in.Source == in.Destination {
		return domain.InvalidInput("origen y destino no pueden ser iguales")
	}
	return nil
}

func (uc *TransferUseCase) apply(ctx context.Context, repos repository.Repositories, in TransferInput) (*entity.Transfer, error) {
	// 1. Lecturas (todas antes de cualquier escritura)
	product, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", in.ProductID)
	}
	source, err := loadHolder(ctx, repos.Locales, in.Source)
	if err != nil {
		return nil, err
	}
	dest, err := loadHolder(ctx, repos.Locales, in.Destination)
	if err != nil {
		return nil, err
	}
	stats, err := repos.Stats.Get(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Validación de stock en origen
	sourceExempt := uc.cfg.Policy.IsExempt(source)
	if in.Source.IsDeposit() {
		if product.MasterStock < in.Quantity {
			return nil, &domain.InsufficientStockError{Holder: uc.cfg.DepositLabel, Available: product.MasterStock, Requested: in.Quantity}
		}
	} else if !sourceExempt {
		if avail := source.Stock(in.ProductID); avail < in.Quantity {
			return nil, &domain.InsufficientStockError{Holder: source.Name, Available: avail, Requested: in.Quantity}
		}
	}

	// Validación de tope en destino
	var destBalance int
	if in.Destination.IsDeposit() {
		next, ok := entity.AddStock(product.MasterStock, in.Quantity)
		if !ok {
			return nil, exceedsMax(uc.cfg.DepositLabel)
		}
		destBalance = next
	} else {
		next, ok := entity.AddStock(dest.Stock(in.ProductID), in.Quantity)
		if !ok {
			return nil, exceedsMax(dest.Name)
		}
		destBalance = next
	}

	// 3. Escrituras
	now := uc.cfg.Now()
	if in.Source.IsDeposit() {
		product.MasterStock -= in.Quantity
	} else if !sourceExempt {
		uc.deduct(source, in.ProductID, in.Quantity)
		source.UpdatedAt = now
		if err := repos.Locales.Update(ctx, source); err != nil {
			return nil, err
		}
	}

	if in.Destination.IsDeposit() {
		product.MasterStock = destBalance
	} else {
		dest.SetStock(in.ProductID, destBalance)
		dest.UpdatedAt = now
		if err := repos.Locales.Update(ctx, dest); err != nil {
			return nil, err
		}
	}

	if in.Source.IsDeposit() || in.Destination.IsDeposit() {
		product.UpdatedAt = now
		if err := repos.Products.Update(ctx, product); err != nil {
			return nil, err
		}
	}

	t := &entity.Transfer{
		ID:              uuid.New().String(),
		Date:            now.Format(entity.TransferDateLayout),
		Timestamp:       now,
		ProductID:       product.ID,
		ProductName:     product.Name,
		Quantity:        in.Quantity,
		Source:          in.Source,
		SourceName:      uc.cfg.holderName(in.Source, source),
		Destination:     in.Destination,
		DestinationName: uc.cfg.holderName(in.Destination, dest),
	}
	if err := repos.Transfers.Create(ctx, t); err != nil {
		return nil, err
	}

	domaininv.RecordTransfer(stats, t.ProductName, t.DestinationName, t.Quantity)
	stats.UpdatedAt = now
	if err := repos.Stats.Save(ctx, stats); err != nil {
		return nil, err
	}
	return t, nil
}

// deduct descuenta del inventario del local. La validación previa garantiza saldo suficiente;
// si aun así quedaría negativo se registra el error y se deja en cero.
func (uc *TransferUseCase) deduct(l *entity.Locale, productID string, qty int) {
	if !l.HasEntry(productID) {
		return
	}
	next := l.Stock(productID) - qty
	if next < 0 {
		uc.cfg.Logger.Error().
			Str("locale_id", l.ID).
			Str("product_id", productID).
			Int("stock", l.Stock(productID)).
			Int("quantity", qty).
			Msg("descuento en origen dejaría saldo negativo; se fija en cero")
		next = 0
	}
	l.SetStock(productID, next)
}

func exceedsMax(holder string) error {
	return domain.InvalidInput(fmt.Sprintf("el saldo de %s superaría el máximo de %d", holder, entity.MaxStock))
}

// loadHolder lee el local de un holder; devuelve nil para el depósito.
func loadHolder(ctx context.Context, locales repository.LocaleRepository, h entity.Holder) (*entity.Locale, error) {
	if h.IsDeposit() {
		return nil, nil
	}
	l, err := locales.GetByID(ctx, h.LocaleID())
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.NotFound("local", h.LocaleID())
	}
	return l, nil
}
