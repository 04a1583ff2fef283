package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/application/numbering"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// PurchaseUseCase maneja órdenes de compra: creación en borrador (pending),
// recepción explícita que suma stock, y edición/eliminación solo mientras
// siga pendiente. Recibir es de una sola vía: la guarda de estado rechaza la
// segunda recepción y evita duplicar inventario.
type PurchaseUseCase struct {
	txRunner     TxRunner
	inventoryUC  InventoryUseCase
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	numbers      *numbering.Generator
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner TxRunner,
	inventoryUC InventoryUseCase,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	numbers *numbering.Generator,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		inventoryUC:  inventoryUC,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		numbers:      numbers,
	}
}

// buildItems valida las líneas y calcula TotalCost por línea y el total de la
// cabecera (TotalAmount = Σ TotalCost).
func (uc *PurchaseUseCase) buildItems(purchaseID string, in []dto.PurchaseItemRequest) ([]*entity.PurchaseItem, decimal.Decimal, error) {
	if len(in) == 0 {
		return nil, decimal.Zero, domain.ErrInvalidInput
	}
	total := decimal.Zero
	items := make([]*entity.PurchaseItem, 0, len(in))
	for _, it := range in {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitCost.LessThan(decimal.Zero) {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if product == nil || product.IsDeleted() {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		totalCost := it.UnitCost.Mul(decimal.NewFromInt(it.Quantity))
		items = append(items, &entity.PurchaseItem{
			ID:         uuid.New().String(),
			PurchaseID: purchaseID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
			TotalCost:  totalCost,
			ExpiryDate: it.ExpiryDate,
		})
		total = total.Add(totalCost)
	}
	return items, total, nil
}

// CreatePurchase persiste la orden en pending con sus líneas. Ningún
// movimiento de stock ocurre aquí: recibir es un paso explícito aparte.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if userID == "" || in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	purchaseID := uuid.New().String()
	items, total, err := uc.buildItems(purchaseID, in.Items)
	if err != nil {
		return nil, err
	}
	number, err := uc.numbers.NextPurchaseNumber(now)
	if err != nil {
		return nil, err
	}

	purchase := &entity.Purchase{
		ID:            purchaseID,
		InvoiceNumber: number,
		SupplierID:    in.SupplierID,
		Status:        entity.PurchaseStatusPending,
		Date:          now,
		TotalAmount:   total,
		Notes:         in.Notes,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.txRunner.RunPurchase(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		for _, item := range items {
			if err := purchaseRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, items), nil
}

// Receive aplica la recepción: por cada línea un movimiento IN vía el motor de
// inventario y la transición pending → received, todo en una transacción.
// Solo procede si la compra sigue pending; reintentar retorna ErrInvalidState
// y el stock se suma exactamente una vez.
func (uc *PurchaseUseCase) Receive(ctx context.Context, userID, purchaseID string) error {
	if userID == "" || purchaseID == "" {
		return domain.ErrInvalidInput
	}
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}
	if purchase.Status != entity.PurchaseStatusPending {
		return domain.ErrInvalidState
	}

	now := time.Now()
	return uc.txRunner.RunPurchase(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		// Re-lectura con bloqueo de fila: dos recepciones concurrentes pasan
		// la guarda de afuera, pero solo una ve pending aquí adentro.
		purchase, err = purchaseRepo.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status != entity.PurchaseStatusPending {
			return domain.ErrInvalidState
		}
		items, err := purchaseRepo.GetItems(purchaseID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if _, err := uc.inventoryUC.ApplyDeltaInTx(movRepo, productRepo, inventory.MovementInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Type:      entity.MovementTypeIn,
				Ref:       entity.RefPurchase(purchaseID),
				UserID:    userID,
			}, now); err != nil {
				return err
			}
		}
		purchase.Status = entity.PurchaseStatusReceived
		purchase.ReceivedBy = userID
		purchase.ReceivedAt = &now
		purchase.UpdatedAt = now
		return purchaseRepo.Update(purchase)
	})
}

// UpdatePurchase reemplaza proveedor/notas/líneas de una compra pendiente.
// Una compra recibida no se edita: el stock ya se aplicó y una edición
// desincronizaría el libro.
func (uc *PurchaseUseCase) UpdatePurchase(ctx context.Context, userID, purchaseID string, in dto.UpdatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if userID == "" || purchaseID == "" {
		return nil, domain.ErrInvalidInput
	}
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	if purchase.Status != entity.PurchaseStatusPending {
		return nil, domain.ErrInvalidState
	}

	if in.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrInvalidInput
		}
		purchase.SupplierID = in.SupplierID
	}
	items, total, err := uc.buildItems(purchaseID, in.Items)
	if err != nil {
		return nil, err
	}
	purchase.TotalAmount = total
	purchase.Notes = in.Notes
	purchase.UpdatedAt = time.Now()

	err = uc.txRunner.RunPurchase(ctx, func(
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		if err := purchaseRepo.DeleteItems(purchaseID); err != nil {
			return err
		}
		for _, item := range items {
			if err := purchaseRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return purchaseRepo.Update(purchase)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, items), nil
}

// DeletePurchase elimina una compra pendiente. Rechazada una vez recibida.
func (uc *PurchaseUseCase) DeletePurchase(ctx context.Context, userID, purchaseID string) error {
	if userID == "" || purchaseID == "" {
		return domain.ErrInvalidInput
	}
	purchase, err := uc.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return err
	}
	if purchase == nil {
		return domain.ErrNotFound
	}
	if purchase.Status != entity.PurchaseStatusPending {
		return domain.ErrInvalidState
	}
	return uc.purchaseRepo.Delete(purchaseID)
}

// GetPurchase devuelve una compra con sus líneas.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.purchaseRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, items), nil
}

func toPurchaseResponse(p *entity.Purchase, items []*entity.PurchaseItem) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:            p.ID,
		InvoiceNumber: p.InvoiceNumber,
		SupplierID:    p.SupplierID,
		Status:        p.Status,
		Date:          p.Date,
		TotalAmount:   p.TotalAmount,
		Notes:         p.Notes,
		ReceivedAt:    p.ReceivedAt,
		CreatedAt:     p.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
			TotalCost:  it.TotalCost,
			ExpiryDate: it.ExpiryDate,
		})
	}
	return out
}
