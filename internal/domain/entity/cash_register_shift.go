package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un turno de caja. La máquina es open → closed, de una sola vía;
// un cajero tiene a lo sumo un turno abierto a la vez.
const (
	ShiftStatusOpen   = "open"
	ShiftStatusClosed = "closed"
)

// CashRegisterShift es un turno de caja: el período en que un cajero responde
// por el efectivo del cajón, desde la apertura hasta el cierre.
// Al cierre: ExpectedCash = OpeningBalance + ventas en efectivo − devoluciones;
// CashDifference = ActualCash − ExpectedCash.
type CashRegisterShift struct {
	ID             string
	UserID         string // cajero responsable
	ShiftNumber    string // SH-YYYYMMDD-### (único)
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal // = ActualCash al cierre
	ExpectedCash   decimal.Decimal
	ActualCash     decimal.Decimal // efectivo contado por el cajero
	CashDifference decimal.Decimal
	TotalSales     decimal.Decimal
	TotalCashSales decimal.Decimal
	TotalRefunds   decimal.Decimal
	// PaymentTotals agrega el total vendido por código de medio de pago
	// (JSON: {"cash": 250000, "card": 80000}).
	PaymentTotals    json.RawMessage
	TransactionCount int
	Status           string
	Notes            string
	OpenedAt         time.Time
	ClosedAt         *time.Time // nil mientras el turno esté abierto
}

// IsBalanced indica si el cierre cuadró dentro de la tolerancia dada.
func (s *CashRegisterShift) IsBalanced(tolerance decimal.Decimal) bool {
	return s.CashDifference.Abs().LessThan(tolerance)
}
