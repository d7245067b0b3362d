package dto

import "time"

// CreateLocaleRequest entrada para crear un local.
type CreateLocaleRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=200"`
	Exempt bool   `json:"exempt"`
}

// UpdateLocaleRequest entrada para renombrar un local o cambiar su exención.
type UpdateLocaleRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Exempt *bool   `json:"exempt"`
}

// InventoryItemResponse stock de un producto en un local.
type InventoryItemResponse struct {
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
}

// LocaleResponse salida de un local. Exempt es el resultado de la política
// (flag propio o nombre configurado); ExemptFlag es solo el flag.
type LocaleResponse struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Exempt     bool                    `json:"exempt"`
	ExemptFlag bool                    `json:"exempt_flag"`
	Inventory  []InventoryItemResponse `json:"inventory"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// LocaleListResponse lista de locales.
type LocaleListResponse struct {
	Items []LocaleResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
