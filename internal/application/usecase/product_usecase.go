package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock NUNCA se asigna
// directo: el inicial entra como asiento de tipo initial y de ahí en adelante
// solo cambia vía el motor de movimientos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	inventoryUC *inventory.StockMovementUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, inventoryUC *inventory.StockMovementUseCase) *ProductUseCase {
	return &ProductUseCase{repo: repo, inventoryUC: inventoryUC}
}

// Create crea un producto con stock en cero y, si viene InitialStock > 0,
// registra el asiento initial a nombre del actor.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if userID == "" || in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SellingPrice.LessThan(decimal.Zero) || in.PurchasePrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock < 0 || in.MinStock < 0 || in.MaxStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:                 uuid.New().String(),
		SKU:                in.SKU,
		Name:               in.Name,
		Description:        in.Description,
		Stock:              0,
		MinStock:           in.MinStock,
		MaxStock:           in.MaxStock,
		AllowNegativeStock: in.AllowNegativeStock,
		PurchasePrice:      in.PurchasePrice,
		SellingPrice:       in.SellingPrice,
		Perishable:         in.Perishable,
		ExpiryDate:         in.ExpiryDate,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	if in.InitialStock > 0 {
		mov, err := uc.inventoryUC.ApplyDelta(ctx, inventory.MovementInput{
			ProductID: product.ID,
			Quantity:  in.InitialStock,
			Type:      entity.MovementTypeInitial,
			Ref:       entity.RefNone(),
			UserID:    userID,
			Notes:     "stock inicial",
		})
		if err != nil {
			return nil, err
		}
		product.Stock = mov.StockAfter
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.IsDeleted() {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		if *in.MaxStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MaxStock = *in.MaxStock
	}
	if in.AllowNegativeStock != nil {
		product.AllowNegativeStock = *in.AllowNegativeStock
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.SellingPrice = *in.SellingPrice
	}
	if in.Perishable != nil {
		product.Perishable = *in.Perishable
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos (tombstones excluidos salvo includeDeleted).
func (uc *ProductUseCase) List(ctx context.Context, includeDeleted bool) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(includeDeleted)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete marca el tombstone. El historial de movimientos y las ventas que
// referencian el producto siguen consultables.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil || product.IsDeleted() {
		return domain.ErrNotFound
	}
	return uc.repo.SoftDelete(id)
}

// ListLowStock productos en o por debajo del punto de reorden, con la
// cantidad sugerida para llegar al máximo.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.LowStockProductDTO, error) {
	list, err := uc.repo.ListBelowMinStock()
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockProductDTO, 0, len(list))
	for _, p := range list {
		suggested := p.MaxStock - p.Stock
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, dto.LowStockProductDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			Name:              p.Name,
			CurrentStock:      p.Stock,
			MinStock:          p.MinStock,
			MaxStock:          p.MaxStock,
			SuggestedOrderQty: suggested,
		})
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:                 p.ID,
		SKU:                p.SKU,
		Name:               p.Name,
		Description:        p.Description,
		Stock:              p.Stock,
		MinStock:           p.MinStock,
		MaxStock:           p.MaxStock,
		AllowNegativeStock: p.AllowNegativeStock,
		PurchasePrice:      p.PurchasePrice,
		SellingPrice:       p.SellingPrice,
		Perishable:         p.Perishable,
		ExpiryDate:         p.ExpiryDate,
		Active:             p.Active,
		DeletedAt:          p.DeletedAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
