package cashregister

import (
	"context"

	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// TxRunner ejecuta el cierre de turno en una transacción: los agregados de
// ventas y la actualización del turno se leen y escriben juntos.
type TxRunner interface {
	RunShift(ctx context.Context, fn func(
		shiftRepo repository.ShiftRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
