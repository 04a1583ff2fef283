package purchasing

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// de compras e inventario atados a esa tx (para la recepción atómica).
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}

// InventoryUseCase contrato mínimo del motor de inventario para la recepción.
type InventoryUseCase interface {
	ApplyDeltaInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		input inventory.MovementInput,
		now time.Time,
	) (*entity.StockMovement, error)
}
