package repository

import "github.com/tu-usuario/pos-pro/internal/domain/entity"

// TaxRuleRepository define el puerto de persistencia para reglas de impuesto.
type TaxRuleRepository interface {
	Create(rule *entity.TaxRule) error
	Update(rule *entity.TaxRule) error
	GetByID(id string) (*entity.TaxRule, error)
	GetByCode(code string) (*entity.TaxRule, error)
	// List filtra tombstones por defecto; includeDeleted=true para reportes
	// históricos que referencian reglas retiradas.
	List(includeDeleted bool) ([]*entity.TaxRule, error)
	SoftDelete(id string) error
}
