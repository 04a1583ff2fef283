package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseItemRequest línea de una orden de compra.
type PurchaseItemRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// CreatePurchaseRequest body para POST /api/purchases. La compra nace en
// pending; recibirla (y mover stock) es un paso explícito aparte.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id"`
	Items      []PurchaseItemRequest `json:"items"`
	Notes      string                `json:"notes,omitempty"`
}

// UpdatePurchaseRequest body para PUT /api/purchases/:id (solo pending).
// Reemplaza las líneas completas; no hay edición parcial.
type UpdatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id,omitempty"`
	Items      []PurchaseItemRequest `json:"items"`
	Notes      string                `json:"notes,omitempty"`
}

// PurchaseItemResponse línea de compra.
type PurchaseItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	InvoiceNumber string                 `json:"invoice_number"`
	SupplierID    string                 `json:"supplier_id"`
	Status        string                 `json:"status"`
	Date          time.Time              `json:"date"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Notes         string                 `json:"notes,omitempty"`
	ReceivedAt    *time.Time             `json:"received_at,omitempty"`
	Items         []PurchaseItemResponse `json:"items"`
	CreatedAt     time.Time              `json:"created_at"`
}
