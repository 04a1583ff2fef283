package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

// CustomerTotals agregados de un cliente derivados de sus ventas completadas.
type CustomerTotals struct {
	TotalSpent decimal.Decimal
	VisitCount int
}

// ShiftTotals agregados de ventas de un turno de caja para el cierre.
type ShiftTotals struct {
	TotalSales       decimal.Decimal
	TotalCashSales   decimal.Decimal
	TotalRefunds     decimal.Decimal
	TransactionCount int
	// ByPaymentCode total vendido por código de medio de pago.
	ByPaymentCode map[string]decimal.Decimal
}

// SaleRepository define el puerto de persistencia para ventas y sus líneas.
// Las líneas son inmutables después de crear la cabecera; no hay edición
// parcial de una venta completada.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la fila de la venta (SELECT FOR UPDATE) para
	// serializar la transición de estado; solo tiene sentido dentro de una
	// transacción.
	GetForUpdate(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	List(includeDeleted bool, limit int) ([]*entity.Sale, error)
	UpdateStatus(id, status string) error
	// SoftDelete marca tombstone; el registro y sus asientos de inventario
	// siguen consultables para auditoría.
	SoftDelete(id string) error
	// SumCompletedByCustomer recalcula desde cero los agregados del cliente
	// sobre sus ventas completadas (no tombstoned).
	SumCompletedByCustomer(customerID string) (CustomerTotals, error)
	// SumByShift agrega las ventas de un turno para el arqueo de caja.
	SumByShift(shiftID string) (ShiftTotals, error)
}
