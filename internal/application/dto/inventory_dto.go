package dto

import "time"

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Quantity es el delta con signo; type adjustment (por defecto), damage o initial.
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Type      string `json:"type,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// StockMovementResponse un asiento del libro de inventario.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Quantity      int64     `json:"quantity"`
	Type          string    `json:"type"`
	StockBefore   int64     `json:"stock_before"`
	StockAfter    int64     `json:"stock_after"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// LowStockProductDTO producto en o por debajo de su punto de reorden.
type LowStockProductDTO struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int64  `json:"current_stock"`
	MinStock     int64  `json:"min_stock"`
	MaxStock     int64  `json:"max_stock"`
	// SuggestedOrderQty lleva el stock al máximo configurado.
	SuggestedOrderQty int64 `json:"suggested_order_qty"`
}
