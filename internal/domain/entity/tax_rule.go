package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRule define una regla de impuesto por porcentaje.
// Inclusive = true significa que el impuesto ya viene embebido en el precio
// cotizado; false significa que se suma encima.
type TaxRule struct {
	ID        string
	Code      string // ej: IVA19, IVA5, EXENTO
	Name      string
	Rate      decimal.Decimal // porcentaje (19 = 19%)
	Inclusive bool
	Active    bool
	DeletedAt *time.Time // tombstone: las ventas históricas lo siguen referenciando
	CreatedAt time.Time
	UpdatedAt time.Time
}
