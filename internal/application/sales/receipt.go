package sales

import (
	"context"

	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// ReceiptUseCase arma los datos del tiquete de una venta y delega el render
// al generador PDF.
type ReceiptUseCase struct {
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentMethodRepository
	userRepo     repository.UserRepository
	generator    ReceiptGenerator
	storeName    string
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentMethodRepository,
	userRepo repository.UserRepository,
	generator ReceiptGenerator,
	storeName string,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		generator:    generator,
		storeName:    storeName,
	}
}

// GetReceiptPDF genera el tiquete PDF de una venta completada.
func (uc *ReceiptUseCase) GetReceiptPDF(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusCompleted {
		return nil, domain.ErrInvalidState
	}
	items, err := uc.saleRepo.GetItems(saleID)
	if err != nil {
		return nil, err
	}

	data := ReceiptData{
		StoreName:     uc.storeName,
		InvoiceNumber: sale.InvoiceNumber,
		Date:          sale.Date,
		Subtotal:      sale.Subtotal,
		TaxAmount:     sale.TaxAmount,
		Discount:      sale.DiscountAmount,
		Total:         sale.Total,
		CashReceived:  sale.CashReceived,
		Change:        sale.ChangeReturned,
	}
	for _, it := range items {
		data.Items = append(data.Items, ReceiptLine{
			Name:      it.ProductName,
			SKU:       it.ProductSKU,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			Subtotal:  it.Subtotal,
		})
	}
	if sale.CustomerID != "" {
		if customer, err := uc.customerRepo.GetByID(sale.CustomerID); err == nil && customer != nil {
			data.CustomerName = customer.Name
		}
	}
	if method, err := uc.paymentRepo.GetByID(sale.PaymentMethodID); err == nil && method != nil {
		data.PaymentMethod = method.Name
	}
	if cashier, err := uc.userRepo.GetByID(sale.CreatedBy); err == nil && cashier != nil {
		data.CashierName = cashier.Name
	}

	return uc.generator.Generate(data)
}
