package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/dto"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/inventory"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/entity"
	"github.com/Fulbito99/Deposito-Unsa/internal/domain/repository"
)

// TransferHandler endpoints del motor de transferencias y del historial.
type TransferHandler struct {
	transfers *inventory.TransferUseCase
	reversals *inventory.ReversalUseCase
	history   *inventory.HistoryUseCase
	loc       *time.Location
}

// NewTransferHandler construye el handler. loc define los límites de día de los filtros de fecha.
func NewTransferHandler(transfers *inventory.TransferUseCase, reversals *inventory.ReversalUseCase, history *inventory.HistoryUseCase, loc *time.Location) *TransferHandler {
	if loc == nil {
		loc = time.Local
	}
	return &TransferHandler{transfers: transfers, reversals: reversals, history: history, loc: loc}
}

// Create godoc
// @Summary      Registrar transferencia
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Producto, origen, destino y cantidad"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	source, _ := entity.ParseHolder(in.SourceID)
	destination, _ := entity.ParseHolder(in.DestinationID)

	t, err := h.transfers.Execute(c.Context(), inventory.TransferInput{
		ProductID:   in.ProductID,
		Source:      source,
		Destination: destination,
		Quantity:    in.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponse(t))
}

// Repeat godoc
// @Summary      Repetir transferencia
// @Description  Ejecuta de nuevo producto, origen, destino y cantidad de una transferencia existente.
// @Tags         transfers
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      201  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/repeat [post]
func (h *TransferHandler) Repeat(c *fiber.Ctx) error {
	t, err := h.transfers.Repeat(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransferResponse(t))
}

// Update rechaza siempre la edición de una transferencia confirmada.
// @Router       /api/transfers/{id} [put]
func (h *TransferHandler) Update(c *fiber.Ctx) error {
	_, err := h.transfers.Execute(c.Context(), inventory.TransferInput{EditingTransferID: c.Params("id")})
	return writeError(c, err)
}

// GetByID godoc
// @Summary      Obtener transferencia
// @Tags         transfers
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.history.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewTransferResponse(t))
}

// List godoc
// @Summary      Historial de transferencias
// @Tags         transfers
// @Produce      json
// @Param        date            query  string  false  "Día (YYYY-MM-DD)"
// @Param        from            query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        destination_id  query  string  false  "Local destino o deposit"
// @Param        q               query  string  false  "Nombre de producto"
// @Param        limit           query  int     false  "Límite"  default(30)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var q dto.TransferHistoryQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	filter, err := h.filter(q)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.history.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.TransferListResponse{
		Items:   make([]dto.TransferResponse, 0, len(page.Items)),
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
		HasMore: page.HasMore,
	}
	for _, t := range page.Items {
		out.Items = append(out.Items, dto.NewTransferResponse(t))
	}
	return c.JSON(out)
}

// Undo godoc
// @Summary      Deshacer transferencia
// @Tags         transfers
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [delete]
func (h *TransferHandler) Undo(c *fiber.Ctx) error {
	if err := h.reversals.Undo(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear godoc
// @Summary      Borrar historial
// @Description  Revierte y elimina las transferencias que cumplen el filtro. keep_stock=true solo borra registros.
// @Tags         transfers
// @Produce      json
// @Success      200  {object}  dto.ClearHistoryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers [delete]
func (h *TransferHandler) Clear(c *fiber.Ctx) error {
	var q dto.TransferHistoryQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	filter, err := h.filter(q)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.reversals.ClearHistory(c.Context(), inventory.ClearHistoryInput{Filter: filter, KeepStock: q.KeepStock})
	if err != nil {
		status, body := errorResponse(err)
		if res != nil {
			body.Details = map[string]any{"matched": res.Matched, "removed": res.Removed, "chunks": res.Chunks}
		}
		return c.Status(status).JSON(body)
	}
	return c.JSON(dto.ClearHistoryResponse{Matched: res.Matched, Removed: res.Removed, Chunks: res.Chunks})
}

// filter traduce la query a TransferFilter. date tiene prioridad sobre from/to.
func (h *TransferHandler) filter(q dto.TransferHistoryQuery) (repository.TransferFilter, error) {
	f := repository.TransferFilter{
		DestinationID: q.DestinationID,
		ProductName:   q.Query,
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
	if q.Date != "" {
		from, to, err := dayBounds(q.Date, h.loc)
		if err != nil {
			return f, err
		}
		f.From, f.To = &from, &to
		return f, nil
	}
	if q.From != "" {
		from, _, err := dayBounds(q.From, h.loc)
		if err != nil {
			return f, err
		}
		f.From = &from
	}
	if q.To != "" {
		_, to, err := dayBounds(q.To, h.loc)
		if err != nil {
			return f, err
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, domain.InvalidInput("from posterior a to")
	}
	return f, nil
}
