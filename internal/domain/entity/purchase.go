package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una compra. received y cancelled son terminales; la transición
// pending → received es de una sola vía (la guarda de estado evita recibir
// dos veces y duplicar stock).
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

// Purchase es la cabecera de una orden de compra a proveedor.
// Invariante: TotalAmount = Σ item.TotalCost.
type Purchase struct {
	ID            string
	InvoiceNumber string // PO-YYYYMMDD-#### (único)
	SupplierID    string
	Status        string
	Date          time.Time
	TotalAmount   decimal.Decimal
	Notes         string
	CreatedBy     string
	ReceivedBy    string     // actor que ejecutó la recepción
	ReceivedAt    *time.Time // nil mientras esté pendiente
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTerminal indica si la compra ya no admite edición ni recepción.
func (p *Purchase) IsTerminal() bool {
	return p.Status == PurchaseStatusReceived || p.Status == PurchaseStatusCancelled
}

// PurchaseItem es una línea de compra.
// Invariante: TotalCost = Quantity*UnitCost.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitCost   decimal.Decimal
	TotalCost  decimal.Decimal
	ExpiryDate *time.Time // vencimiento del lote recibido (perecederos)
}
