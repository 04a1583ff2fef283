package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del ticket. UnitPrice en cero usa el precio de venta
// vigente del producto; Discount es por línea, en valor absoluto.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
// TaxRuleCode es opcional: si viene, el impuesto se calcula con esa regla
// sobre el subtotal; si no, se usa TaxAmount tal cual lo envía el caller.
type CreateSaleRequest struct {
	CustomerID      string            `json:"customer_id,omitempty"`
	PaymentMethodID string            `json:"payment_method_id"`
	Items           []SaleItemRequest `json:"items"`
	TaxRuleCode     string            `json:"tax_rule_code,omitempty"`
	TaxAmount       decimal.Decimal   `json:"tax_amount"`
	DiscountAmount  decimal.Decimal   `json:"discount_amount"`
	CashReceived    decimal.Decimal   `json:"cash_received"`
	TableNumber     string            `json:"table_number,omitempty"`
	OrderType       string            `json:"order_type,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

// SaleItemResponse línea de venta con el snapshot congelado.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID              string             `json:"id"`
	InvoiceNumber   string             `json:"invoice_number"`
	Date            time.Time          `json:"date"`
	CustomerID      string             `json:"customer_id,omitempty"`
	PaymentMethodID string             `json:"payment_method_id"`
	ShiftID         string             `json:"shift_id,omitempty"`
	Status          string             `json:"status"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	TaxAmount       decimal.Decimal    `json:"tax_amount"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	Total           decimal.Decimal    `json:"total"`
	FeeAmount       decimal.Decimal    `json:"fee_amount"`
	CashReceived    decimal.Decimal    `json:"cash_received"`
	ChangeReturned  decimal.Decimal    `json:"change_returned"`
	TableNumber     string             `json:"table_number,omitempty"`
	OrderType       string             `json:"order_type,omitempty"`
	Items           []SaleItemResponse `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
}
