package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. completed, cancelled y refunded son terminales:
// no hay más mutación salvo la reversa explícita (anulación con asiento
// compensatorio).
const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"
)

// Tipos de orden (metadata de mesa/para llevar; no afecta los totales).
const (
	OrderTypeCounter  = "counter"
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
)

// Sale es la cabecera de una venta.
// Invariantes: Subtotal = Σ item.Subtotal; Total = Subtotal + TaxAmount − DiscountAmount;
// ChangeReturned = max(0, CashReceived − Total).
type Sale struct {
	ID              string
	InvoiceNumber   string // INV-YYYYMMDD-#### (único)
	Date            time.Time
	CustomerID      string // opcional, vacío = venta de mostrador
	PaymentMethodID string
	ShiftID         string // turno de caja abierto del cajero, si existe
	Status          string
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal
	FeeAmount       decimal.Decimal // comisión del medio de pago
	CashReceived    decimal.Decimal
	ChangeReturned  decimal.Decimal
	TableNumber     string
	OrderType       string
	Notes           string
	CreatedBy       string
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal indica si la venta ya no admite mutación de negocio.
func (s *Sale) IsTerminal() bool {
	switch s.Status {
	case SaleStatusCompleted, SaleStatusCancelled, SaleStatusRefunded:
		return true
	}
	return false
}

// SaleItem es una línea de venta. Congela nombre, SKU y precio unitario del
// producto al momento de la venta, para que las ventas históricas sean
// inmutables aunque el producto cambie después.
// Invariante: Subtotal = Quantity*UnitPrice − Discount.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string
	ProductSKU  string
	Quantity    int64
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal // descuento por línea, en valor absoluto
	Subtotal    decimal.Decimal
}
