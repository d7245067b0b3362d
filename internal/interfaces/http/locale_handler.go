package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Fulbito99/Deposito-Unsa/internal/application/dto"
	"github.com/Fulbito99/Deposito-Unsa/internal/application/usecase"
)

// LocaleHandler maneja las peticiones HTTP de locales.
type LocaleHandler struct {
	uc *usecase.LocaleUseCase
}

// NewLocaleHandler construye el handler.
func NewLocaleHandler(uc *usecase.LocaleUseCase) *LocaleHandler {
	return &LocaleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear local
// @Tags         locales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocaleRequest  true  "Nombre y exención"
// @Success      201   {object}  dto.LocaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locales [post]
func (h *LocaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocaleRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener local
// @Tags         locales
// @Produce      json
// @Param        id   path  string  true  "ID del local"
// @Success      200  {object}  dto.LocaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locales/{id} [get]
func (h *LocaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar locales
// @Tags         locales
// @Produce      json
// @Success      200  {object}  dto.LocaleListResponse
// @Router       /api/locales [get]
func (h *LocaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar local o cambiar exención
// @Tags         locales
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del local"
// @Param        body  body  dto.UpdateLocaleRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.LocaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/locales/{id} [patch]
func (h *LocaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLocaleRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar local
// @Tags         locales
// @Param        id   path  string  true  "ID del local"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locales/{id} [delete]
func (h *LocaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
