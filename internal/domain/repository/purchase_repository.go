package repository

import "github.com/tu-usuario/pos-pro/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateItem(item *entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	// GetForUpdate bloquea la fila de la compra (SELECT FOR UPDATE) para
	// serializar la transición de estado; solo tiene sentido dentro de una
	// transacción.
	GetForUpdate(id string) (*entity.Purchase, error)
	GetItems(purchaseID string) ([]*entity.PurchaseItem, error)
	List(limit int) ([]*entity.Purchase, error)
	Update(purchase *entity.Purchase) error
	// DeleteItems borra las líneas de una compra pendiente (para reemplazarlas
	// en una edición). Nunca se invoca sobre compras recibidas.
	DeleteItems(purchaseID string) error
	// Delete elimina una compra pendiente con sus líneas.
	Delete(id string) error
}
