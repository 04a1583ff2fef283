package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// Stock es un contador entero que SOLO se modifica vía el caso de uso de
// inventario (delta + asiento en stock_movements en la misma transacción);
// ningún otro componente lo asigna directamente.
type Product struct {
	ID          string
	SKU         string // código único; opcional (vacío = sin SKU)
	Name        string
	Description string
	Stock       int64
	MinStock    int64 // punto de reorden para la lista de reposición
	MaxStock    int64
	// AllowNegativeStock permite vender sin existencias (se combina con la
	// configuración global POS_ALLOW_NEGATIVE_STOCK).
	AllowNegativeStock bool
	PurchasePrice      decimal.Decimal
	SellingPrice       decimal.Decimal
	Perishable         bool
	ExpiryDate         *time.Time
	Active             bool
	DeletedAt          *time.Time // tombstone: las lecturas por defecto lo filtran
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsDeleted indica si el producto fue eliminado lógicamente.
func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}
