package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Código del medio de pago en efectivo. El cierre de turno suma solo las
// ventas de este código para el efectivo esperado en el cajón.
const PaymentMethodCashCode = "cash"

// PaymentMethod es un medio de pago configurable. La comisión puede ser un
// porcentaje, un valor fijo, ambos o ninguno; los dos componentes son aditivos
// e independientes.
type PaymentMethod struct {
	ID            string
	Code          string // cash, card, nequi, ...
	Name          string
	FeePercentage decimal.Decimal // porcentaje sobre el monto (2.5 = 2.5%)
	FeeAmount     decimal.Decimal // valor fijo por transacción
	Active        bool
	SortOrder     int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCash indica si el medio de pago mueve efectivo del cajón.
func (m *PaymentMethod) IsCash() bool {
	return m.Code == PaymentMethodCashCode
}
