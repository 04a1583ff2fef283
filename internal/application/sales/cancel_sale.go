package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// CancelSaleUseCase anula ventas. Un borrador (pending) se elimina sin más;
// una venta completada NO se borra: la remediación es la reversa compensatoria
// — un movimiento +cantidad por línea, referenciando la venta — y después el
// tombstone. Así el libro conserva el OUT original y el asiento compensatorio
// en lugar de reescribir la historia.
type CancelSaleUseCase struct {
	txRunner    TxRunner
	inventoryUC InventoryUseCase
	saleRepo    repository.SaleRepository
}

// NewCancelSaleUseCase construye el caso de uso.
func NewCancelSaleUseCase(txRunner TxRunner, inventoryUC InventoryUseCase, saleRepo repository.SaleRepository) *CancelSaleUseCase {
	return &CancelSaleUseCase{txRunner: txRunner, inventoryUC: inventoryUC, saleRepo: saleRepo}
}

// CancelSale anula la venta. userID es el actor que ejecuta la anulación
// (queda en los asientos compensatorios para auditoría).
func (uc *CancelSaleUseCase) CancelSale(ctx context.Context, userID, saleID, reason string) error {
	if userID == "" || saleID == "" {
		return domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}

	switch sale.Status {
	case entity.SaleStatusPending:
		// Borrador: se retira sin movimientos (nunca descontó stock)
		return uc.txRunner.RunSale(ctx, func(
			_ repository.StockMovementRepository,
			_ repository.ProductRepository,
			saleRepo repository.SaleRepository,
			_ repository.CustomerRepository,
		) error {
			if err := uc.recheckStatus(saleRepo, saleID, entity.SaleStatusPending); err != nil {
				return err
			}
			if err := saleRepo.UpdateStatus(saleID, entity.SaleStatusCancelled); err != nil {
				return err
			}
			return saleRepo.SoftDelete(saleID)
		})

	case entity.SaleStatusCompleted:
		now := time.Now()
		return uc.txRunner.RunSale(ctx, func(
			movRepo repository.StockMovementRepository,
			productRepo repository.ProductRepository,
			saleRepo repository.SaleRepository,
			customerRepo repository.CustomerRepository,
		) error {
			if err := uc.recheckStatus(saleRepo, saleID, entity.SaleStatusCompleted); err != nil {
				return err
			}
			items, err := saleRepo.GetItems(saleID)
			if err != nil {
				return err
			}
			for _, item := range items {
				if _, err := uc.inventoryUC.ApplyDeltaInTx(movRepo, productRepo, inventory.MovementInput{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					Type:      entity.MovementTypeReturn,
					Ref:       entity.RefSaleCancellation(saleID),
					UserID:    userID,
					Notes:     reason,
				}, now); err != nil {
					return err
				}
			}
			if err := saleRepo.UpdateStatus(saleID, entity.SaleStatusRefunded); err != nil {
				return err
			}
			if err := saleRepo.SoftDelete(saleID); err != nil {
				return err
			}
			if sale.CustomerID != "" {
				totals, err := saleRepo.SumCompletedByCustomer(sale.CustomerID)
				if err != nil {
					return err
				}
				return customerRepo.UpdateAggregates(sale.CustomerID, totals.TotalSpent, totals.VisitCount)
			}
			return nil
		})

	default:
		// cancelled o refunded: ya es terminal, no hay nada que revertir
		return domain.ErrInvalidState
	}
}

// recheckStatus re-lee la venta con bloqueo de fila dentro de la transacción.
// Dos anulaciones concurrentes pasan la lectura de afuera; el lock serializa
// y solo la primera encuentra el estado esperado, la segunda recibe
// ErrInvalidState sin escribir asientos compensatorios de más.
func (uc *CancelSaleUseCase) recheckStatus(saleRepo repository.SaleRepository, saleID, want string) error {
	sale, err := saleRepo.GetForUpdate(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if sale.Status != want {
		return domain.ErrInvalidState
	}
	return nil
}
