package dto

import "time"

// CreateProductRequest entrada para crear un producto. ExpirationDate en formato YYYY-MM-DD.
type CreateProductRequest struct {
	SKU            string   `json:"sku" validate:"required,min=1,max=100"`
	Name           string   `json:"name" validate:"required,min=1,max=200"`
	Category       string   `json:"category" validate:"max=100"`
	ExpirationDate string   `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	AdditionalSKUs []string `json:"additional_skus" validate:"omitempty,dive,max=100"`
	MasterStock    int      `json:"master_stock" validate:"min=0,max=2147483647"`
}

// UpdateProductRequest entrada para actualizar un producto (sin MasterStock: se maneja vía transferencias).
// ExpirationDate vacío elimina la fecha.
type UpdateProductRequest struct {
	SKU            *string   `json:"sku" validate:"omitempty,min=1,max=100"`
	Name           *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Category       *string   `json:"category" validate:"omitempty,max=100"`
	ExpirationDate *string   `json:"expiration_date" validate:"omitempty"`
	AdditionalSKUs *[]string `json:"additional_skus"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	ExpirationDate string    `json:"expiration_date,omitempty"`
	AdditionalSKUs []string  `json:"additional_skus"`
	MasterStock    int       `json:"master_stock"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
