package repository

import "github.com/tu-usuario/pos-pro/internal/domain/entity"

// ProductRepository define el puerto de persistencia para productos.
// UpdateStock solo debe invocarse desde el caso de uso de inventario, dentro
// de una transacción, después de GetForUpdate.
type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// List filtra tombstones por defecto; includeDeleted=true los incluye
	// (reportes históricos).
	List(includeDeleted bool) ([]*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar el read-modify-write del contador de stock.
	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(id string, stock int64) error
	SoftDelete(id string) error
	// ListBelowMinStock devuelve productos en o por debajo del punto de reorden.
	ListBelowMinStock() ([]*entity.Product, error)
}
