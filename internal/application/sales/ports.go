package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repositorios
// de venta e inventario atados a esa tx (para CreateSale y la anulación).
// Si cualquier línea falla (ej: sin stock) se retorna el error y se hace
// rollback completo: no hay ventas parciales.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// InventoryUseCase es el contrato mínimo que ventas necesita del motor de
// inventario: aplicar un delta dentro de la transacción del caller.
type InventoryUseCase interface {
	ApplyDeltaInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		input inventory.MovementInput,
		now time.Time,
	) (*entity.StockMovement, error)
}

// ReceiptLine línea del tiquete.
type ReceiptLine struct {
	Name      string
	SKU       string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal
}

// ReceiptData datos ya resueltos para renderizar el tiquete de una venta.
type ReceiptData struct {
	StoreName     string
	InvoiceNumber string
	Date          time.Time
	CustomerName  string
	PaymentMethod string
	CashierName   string
	Items         []ReceiptLine
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	CashReceived  decimal.Decimal
	Change        decimal.Decimal
}

// ReceiptGenerator renderiza el tiquete (PDF) de una venta.
type ReceiptGenerator interface {
	Generate(data ReceiptData) ([]byte, error)
}
