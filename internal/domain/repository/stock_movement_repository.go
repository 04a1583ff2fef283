package repository

import (
	"time"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos de stock.
// Es append-only: no hay Update ni Delete; un asiento escrito es definitivo.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProduct devuelve el historial de un producto en un rango de fechas
	// (from/to en cero = sin límite), más reciente primero.
	ListByProduct(productID string, from, to time.Time, limit int) ([]*entity.StockMovement, error)
	// ListByRef devuelve los asientos originados por un documento (venta,
	// compra, ajuste, anulación).
	ListByRef(ref entity.MovementRef) ([]*entity.StockMovement, error)
}
