package dto

import (
	"time"

	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
)

// CreateTransferRequest body para POST /api/transfers. "deposit" identifica al depósito central.
type CreateTransferRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	SourceID      string `json:"source_locale_id" validate:"required"`
	DestinationID string `json:"destination_locale_id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"max=2147483647"`
}

// TransferHistoryQuery filtros de GET/DELETE /api/transfers.
// Date (un día) tiene prioridad sobre From/To. Fechas en formato YYYY-MM-DD.
type TransferHistoryQuery struct {
	Date          string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	DestinationID string `query:"destination_id"`
	Query         string `query:"q" validate:"max=200"`
	Limit         int    `query:"limit" validate:"min=0,max=500"`
	Offset        int    `query:"offset" validate:"min=0"`
	KeepStock     bool   `query:"keep_stock"`
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID                    string    `json:"id"`
	Date                  string    `json:"date"`
	Timestamp             time.Time `json:"timestamp"`
	ProductID             string    `json:"product_id"`
	ProductName           string    `json:"product_name"`
	Quantity              int       `json:"quantity"`
	SourceLocaleID        string    `json:"source_locale_id"`
	SourceLocaleName      string    `json:"source_locale_name"`
	DestinationLocaleID   string    `json:"destination_locale_id"`
	DestinationLocaleName string    `json:"destination_locale_name"`
}

// TransferListResponse página del historial.
type TransferListResponse struct {
	Items   []TransferResponse `json:"items"`
	Page    PageResponse       `json:"page"`
	HasMore bool               `json:"has_more"`
}

// ClearHistoryResponse resultado del borrado por lotes.
type ClearHistoryResponse struct {
	Matched int `json:"matched"`
	Removed int `json:"removed"`
	Chunks  int `json:"chunks"`
}

// NewTransferResponse adapta la entidad a la salida HTTP.
func NewTransferResponse(t *entity.Transfer) TransferResponse {
	return TransferResponse{
		ID:                    t.ID,
		Date:                  t.Date,
		Timestamp:             t.Timestamp,
		ProductID:             t.ProductID,
		ProductName:           t.ProductName,
		Quantity:              t.Quantity,
		SourceLocaleID:        t.Source.String(),
		SourceLocaleName:      t.SourceName,
		DestinationLocaleID:   t.Destination.String(),
		DestinationLocaleName: t.DestinationName,
	}
}
