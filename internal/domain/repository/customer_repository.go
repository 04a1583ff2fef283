package repository

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	Update(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List(limit int) ([]*entity.Customer, error)
	// UpdateAggregates persiste los agregados recalculados (total gastado y
	// número de visitas).
	UpdateAggregates(id string, totalSpent decimal.Decimal, visitCount int) error
}
