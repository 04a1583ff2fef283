package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer es un cliente del punto de venta. TotalSpent y VisitCount son
// agregados derivados: se recalculan completos desde las ventas completadas
// (no incremental) para tolerar inconsistencias previas.
type Customer struct {
	ID         string
	Name       string
	Phone      string
	Email      string
	Address    string
	TotalSpent decimal.Decimal
	VisitCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
