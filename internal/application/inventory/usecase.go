package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// StockMovementUseCase es la ÚNICA vía sancionada para cambiar el stock de un
// producto: aplica un delta con signo al contador y escribe el asiento
// inmutable (con snapshot antes/después) en la misma transacción, con bloqueo
// de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Los flujos de venta y compra no tocan el contador directamente; componen
// ApplyDeltaInTx dentro de su propia transacción.
type StockMovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	// allowNegative permite stock negativo a nivel global (POS_ALLOW_NEGATIVE_STOCK);
	// se combina con el flag por producto.
	allowNegative bool
}

// NewStockMovementUseCase construye el caso de uso.
func NewStockMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	allowNegative bool,
) *StockMovementUseCase {
	return &StockMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		movementRepo:  movementRepo,
		allowNegative: allowNegative,
	}
}

// MovementInput entrada para aplicar un delta de stock.
// Quantity es el delta con signo. UserID es el actor (obligatorio, auditoría).
type MovementInput struct {
	ProductID string
	Quantity  int64
	Type      string
	Ref       entity.MovementRef
	UserID    string
	Notes     string
}

func validMovementType(t string) bool {
	switch t {
	case entity.MovementTypeIn, entity.MovementTypeOut, entity.MovementTypeAdjustment,
		entity.MovementTypeReturn, entity.MovementTypeDamage, entity.MovementTypeInitial:
		return true
	}
	return false
}

// ApplyDelta valida la entrada, abre la transacción y aplica el delta.
// Si el producto no permite negativos y stock_before+delta < 0, retorna
// ErrInsufficientStock sin escribir nada.
func (uc *StockMovementUseCase) ApplyDelta(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.UserID == "" || !validMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if input.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar que el producto exista (fuera de la tx, solo lectura)
	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}

	var mov *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		m, err := uc.ApplyDeltaInTx(movRepo, productRepo, input, time.Now())
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ApplyDeltaInTx aplica el delta usando los repositorios proporcionados
// (misma transacción del caller). Es el punto de composición para ventas y
// compras: bloquea la fila del producto, verifica el piso de stock, actualiza
// el contador y escribe el asiento con stock_before/stock_after.
func (uc *StockMovementUseCase) ApplyDeltaInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input MovementInput,
	now time.Time,
) (*entity.StockMovement, error) {
	// Bloquea la fila en products para serializar el read-modify-write
	product, err := productRepo.GetForUpdate(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	before := product.Stock
	after := before + input.Quantity
	if after < 0 && !uc.allowNegative && !product.AllowNegativeStock {
		return nil, domain.ErrInsufficientStock
	}

	if err := productRepo.UpdateStock(product.ID, after); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		Quantity:    input.Quantity,
		Type:        input.Type,
		StockBefore: before,
		StockAfter:  after,
		Ref:         input.Ref,
		Notes:       input.Notes,
		CreatedBy:   input.UserID,
		CreatedAt:   now,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// GetHistory devuelve el libro de movimientos de un producto en un rango de
// fechas (consulta fuera de transacción).
func (uc *StockMovementUseCase) GetHistory(ctx context.Context, productID string, from, to time.Time, limit int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.movementRepo.ListByProduct(productID, from, to, limit)
}

// GetByRef devuelve los asientos originados por un documento puntual.
func (uc *StockMovementUseCase) GetByRef(ctx context.Context, ref entity.MovementRef) ([]*entity.StockMovement, error) {
	return uc.movementRepo.ListByRef(ref)
}

// GetStock devuelve el stock actual del contador del producto.
func (uc *StockMovementUseCase) GetStock(ctx context.Context, productID string) (int64, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	return product.Stock, nil
}
