package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialStock genera un
// asiento de tipo initial en el libro de inventario (nunca se asigna directo).
type CreateProductRequest struct {
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	InitialStock       int64           `json:"initial_stock"`
	MinStock           int64           `json:"min_stock"`
	MaxStock           int64           `json:"max_stock"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	Perishable         bool            `json:"perishable"`
	ExpiryDate         *time.Time      `json:"expiry_date,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock: el
// contador solo cambia vía movimientos).
type UpdateProductRequest struct {
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	MinStock           *int64           `json:"min_stock,omitempty"`
	MaxStock           *int64           `json:"max_stock,omitempty"`
	AllowNegativeStock *bool            `json:"allow_negative_stock,omitempty"`
	PurchasePrice      *decimal.Decimal `json:"purchase_price,omitempty"`
	SellingPrice       *decimal.Decimal `json:"selling_price,omitempty"`
	Perishable         *bool            `json:"perishable,omitempty"`
	ExpiryDate         *time.Time       `json:"expiry_date,omitempty"`
	Active             *bool            `json:"active,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                 string          `json:"id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Stock              int64           `json:"stock"`
	MinStock           int64           `json:"min_stock"`
	MaxStock           int64           `json:"max_stock"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	Perishable         bool            `json:"perishable"`
	ExpiryDate         *time.Time      `json:"expiry_date,omitempty"`
	Active             bool            `json:"active"`
	DeletedAt          *time.Time      `json:"deleted_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
