package repository

import "github.com/tu-usuario/pos-pro/internal/domain/entity"

// PaymentMethodRepository define el puerto de persistencia para medios de pago.
type PaymentMethodRepository interface {
	Create(method *entity.PaymentMethod) error
	Update(method *entity.PaymentMethod) error
	GetByID(id string) (*entity.PaymentMethod, error)
	GetByCode(code string) (*entity.PaymentMethod, error)
	// ListActive devuelve los medios activos ordenados por SortOrder.
	ListActive() ([]*entity.PaymentMethod, error)
}
