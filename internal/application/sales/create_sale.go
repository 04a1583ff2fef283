package sales

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
	"github.com/tu-usuario/pos-pro/internal/domain/pricing"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// CreateSaleUseCase crea una venta y descuenta el inventario en una sola
// transacción: cabecera, líneas con snapshot, un movimiento OUT por línea y
// el recálculo de agregados del cliente. Cualquier fallo revierte todo.
type CreateSaleUseCase struct {
	txRunner     TxRunner
	inventoryUC  InventoryUseCase
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentMethodRepository
	taxRepo      repository.TaxRuleRepository
	shiftRepo    repository.ShiftRepository
	saleRepo     repository.SaleRepository // lecturas fuera de transacción
	numbers      *numbering.Generator
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner TxRunner,
	inventoryUC InventoryUseCase,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentMethodRepository,
	taxRepo repository.TaxRuleRepository,
	shiftRepo repository.ShiftRepository,
	saleRepo repository.SaleRepository,
	numbers *numbering.Generator,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:     txRunner,
		inventoryUC:  inventoryUC,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		taxRepo:      taxRepo,
		shiftRepo:    shiftRepo,
		saleRepo:     saleRepo,
		numbers:      numbers,
	}
}

// CreateSale procesa el ticket. userID es el cajero (actor explícito, no hay
// "usuario actual" ambiente). Pasos, todos dentro de una transacción:
// número de factura → cabecera completed → por cada línea snapshot + OUT vía
// inventario → totales → recálculo de agregados del cliente.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if userID == "" || len(in.Items) == 0 || in.PaymentMethodID == "" {
		return nil, domain.ErrInvalidInput
	}

	// Medio de pago (id desconocido = error de validación, no de negocio)
	method, err := uc.paymentRepo.GetByID(in.PaymentMethodID)
	if err != nil {
		return nil, err
	}
	if method == nil || !method.Active {
		return nil, domain.ErrInvalidInput
	}

	// Cliente opcional
	var customer *entity.Customer
	if in.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validar líneas y congelar snapshot de producto (fuera de la tx, solo lectura)
	now := time.Now()
	saleID := uuid.New().String()
	subtotal := decimal.Zero
	items := make([]*entity.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 || it.UnitPrice.LessThan(decimal.Zero) || it.Discount.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.IsDeleted() || !product.Active {
			return nil, domain.ErrInvalidInput
		}
		unitPrice := it.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.SellingPrice
		}
		lineSubtotal := unitPrice.Mul(decimal.NewFromInt(it.Quantity)).Sub(it.Discount)
		if lineSubtotal.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		items = append(items, &entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      saleID,
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   unitPrice,
			Discount:    it.Discount,
			Subtotal:    lineSubtotal,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}

	// Impuesto: por regla (si viene el código) o el monto que envía el caller
	taxAmount := in.TaxAmount
	if in.TaxRuleCode != "" {
		rule, err := uc.taxRepo.GetByCode(in.TaxRuleCode)
		if err != nil {
			return nil, err
		}
		if rule == nil {
			return nil, domain.ErrInvalidInput
		}
		taxAmount = pricing.CalculateTax(rule, subtotal)
	}
	if taxAmount.LessThan(decimal.Zero) || in.DiscountAmount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Totales según los invariantes de la cabecera
	total := subtotal.Add(taxAmount).Sub(in.DiscountAmount)
	fee := pricing.CalculateFee(method, total)
	change := decimal.Zero
	if in.CashReceived.GreaterThan(total) {
		change = in.CashReceived.Sub(total)
	}

	// Turno de caja abierto del cajero, si existe (para el arqueo)
	shiftID := ""
	if shift, err := uc.shiftRepo.GetOpenByUser(userID); err == nil && shift != nil {
		shiftID = shift.ID
	}

	invoiceNumber, err := uc.numbers.NextSaleNumber(now)
	if err != nil {
		return nil, err
	}

	orderType := in.OrderType
	if orderType == "" {
		orderType = entity.OrderTypeCounter
	}
	sale := &entity.Sale{
		ID:              saleID,
		InvoiceNumber:   invoiceNumber,
		Date:            now,
		CustomerID:      in.CustomerID,
		PaymentMethodID: method.ID,
		ShiftID:         shiftID,
		Status:          entity.SaleStatusCompleted,
		Subtotal:        subtotal,
		TaxAmount:       taxAmount,
		DiscountAmount:  in.DiscountAmount,
		Total:           total,
		FeeAmount:       fee,
		CashReceived:    in.CashReceived,
		ChangeReturned:  change,
		TableNumber:     in.TableNumber,
		OrderType:       orderType,
		Notes:           in.Notes,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Transacción: cabecera + líneas + OUT por línea + agregados del cliente.
	// Si inventario retorna ErrInsufficientStock en cualquier línea, rollback
	// de todo: ni stock ni venta quedan a medias.
	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		customerRepo repository.CustomerRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, item := range items {
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
			if _, err := uc.inventoryUC.ApplyDeltaInTx(movRepo, productRepo, inventory.MovementInput{
				ProductID: item.ProductID,
				Quantity:  -item.Quantity,
				Type:      entity.MovementTypeOut,
				Ref:       entity.RefSale(saleID),
				UserID:    userID,
			}, now); err != nil {
				return err
			}
		}
		if customer != nil {
			// Recálculo completo (no incremental) para tolerar inconsistencias previas
			totals, err := saleRepo.SumCompletedByCustomer(customer.ID)
			if err != nil {
				return err
			}
			return customerRepo.UpdateAggregates(customer.ID, totals.TotalSpent, totals.VisitCount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toSaleResponse(sale, items), nil
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:              sale.ID,
		InvoiceNumber:   sale.InvoiceNumber,
		Date:            sale.Date,
		CustomerID:      sale.CustomerID,
		PaymentMethodID: sale.PaymentMethodID,
		ShiftID:         sale.ShiftID,
		Status:          sale.Status,
		Subtotal:        sale.Subtotal,
		TaxAmount:       sale.TaxAmount,
		DiscountAmount:  sale.DiscountAmount,
		Total:           sale.Total,
		FeeAmount:       sale.FeeAmount,
		CashReceived:    sale.CashReceived,
		ChangeReturned:  sale.ChangeReturned,
		TableNumber:     sale.TableNumber,
		OrderType:       sale.OrderType,
		CreatedAt:       sale.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}

// GetSale devuelve una venta con sus líneas (lectura).
func (uc *CreateSaleUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}
