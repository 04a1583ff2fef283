package sales_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/application/numbering"
	"github.com/tu-usuario/pos-pro/internal/application/sales"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para ventas. El runner emula el rollback con snapshot del
// estado compartido (stock, libro, ventas, agregados de clientes).
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	saleItems map[string][]*entity.SaleItem
	customers map[string]*entity.Customer
	methods   map[string]*entity.PaymentMethod
	taxRules  map[string]*entity.TaxRule
	shifts    map[string]*entity.CashRegisterShift
	seq       map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[string]*entity.Product),
		sales:     make(map[string]*entity.Sale),
		saleItems: make(map[string][]*entity.SaleItem),
		customers: make(map[string]*entity.Customer),
		methods:   make(map[string]*entity.PaymentMethod),
		taxRules:  make(map[string]*entity.TaxRule),
		shifts:    make(map[string]*entity.CashRegisterShift),
		seq:       make(map[string]int64),
	}
}

// --- ProductRepository ---

type storeProductRepo struct{ s *fakeStore }

func (r storeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r storeProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r storeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r storeProductRepo) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }
func (r storeProductRepo) List(bool) ([]*entity.Product, error)         { return nil, nil }
func (r storeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r storeProductRepo) UpdateStock(id string, stock int64) error {
	if p, ok := r.s.products[id]; ok {
		p.Stock = stock
	}
	return nil
}
func (r storeProductRepo) SoftDelete(string) error                       { return nil }
func (r storeProductRepo) ListBelowMinStock() ([]*entity.Product, error) { return nil, nil }

// --- StockMovementRepository ---

type storeMovementRepo struct{ s *fakeStore }

func (r storeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r storeMovementRepo) ListByProduct(productID string, from, to time.Time, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r storeMovementRepo) ListByRef(ref entity.MovementRef) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.Ref == ref {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- SaleRepository ---

type storeSaleRepo struct{ s *fakeStore }

func (r storeSaleRepo) Create(sale *entity.Sale) error { r.s.sales[sale.ID] = sale; return nil }
func (r storeSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.s.saleItems[item.SaleID] = append(r.s.saleItems[item.SaleID], item)
	return nil
}
func (r storeSaleRepo) GetByID(id string) (*entity.Sale, error) { return r.s.sales[id], nil }
func (r storeSaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	return r.s.sales[id], nil
}
func (r storeSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	return r.s.saleItems[saleID], nil
}
func (r storeSaleRepo) List(bool, int) ([]*entity.Sale, error) { return nil, nil }
func (r storeSaleRepo) UpdateStatus(id, status string) error {
	if s, ok := r.s.sales[id]; ok {
		s.Status = status
	}
	return nil
}
func (r storeSaleRepo) SoftDelete(id string) error {
	if s, ok := r.s.sales[id]; ok {
		now := time.Now()
		s.DeletedAt = &now
	}
	return nil
}
func (r storeSaleRepo) SumCompletedByCustomer(customerID string) (repository.CustomerTotals, error) {
	totals := repository.CustomerTotals{TotalSpent: decimal.Zero}
	for _, s := range r.s.sales {
		if s.CustomerID == customerID && s.Status == entity.SaleStatusCompleted && s.DeletedAt == nil {
			totals.TotalSpent = totals.TotalSpent.Add(s.Total)
			totals.VisitCount++
		}
	}
	return totals, nil
}
func (r storeSaleRepo) SumByShift(shiftID string) (repository.ShiftTotals, error) {
	totals := repository.ShiftTotals{
		TotalSales:     decimal.Zero,
		TotalCashSales: decimal.Zero,
		TotalRefunds:   decimal.Zero,
		ByPaymentCode:  make(map[string]decimal.Decimal),
	}
	for _, s := range r.s.sales {
		if s.ShiftID != shiftID || s.DeletedAt != nil || s.Status != entity.SaleStatusCompleted {
			continue
		}
		totals.TotalSales = totals.TotalSales.Add(s.Total)
		totals.TransactionCount++
	}
	return totals, nil
}

// --- CustomerRepository ---

type storeCustomerRepo struct{ s *fakeStore }

func (r storeCustomerRepo) Create(c *entity.Customer) error { r.s.customers[c.ID] = c; return nil }
func (r storeCustomerRepo) Update(c *entity.Customer) error { r.s.customers[c.ID] = c; return nil }
func (r storeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.s.customers[id], nil
}
func (r storeCustomerRepo) List(int) ([]*entity.Customer, error) { return nil, nil }
func (r storeCustomerRepo) UpdateAggregates(id string, totalSpent decimal.Decimal, visitCount int) error {
	if c, ok := r.s.customers[id]; ok {
		c.TotalSpent = totalSpent
		c.VisitCount = visitCount
	}
	return nil
}

// --- PaymentMethodRepository ---

type storePaymentRepo struct{ s *fakeStore }

func (r storePaymentRepo) Create(m *entity.PaymentMethod) error { r.s.methods[m.ID] = m; return nil }
func (r storePaymentRepo) Update(m *entity.PaymentMethod) error { r.s.methods[m.ID] = m; return nil }
func (r storePaymentRepo) GetByID(id string) (*entity.PaymentMethod, error) {
	return r.s.methods[id], nil
}
func (r storePaymentRepo) GetByCode(code string) (*entity.PaymentMethod, error) {
	for _, m := range r.s.methods {
		if m.Code == code {
			return m, nil
		}
	}
	return nil, nil
}
func (r storePaymentRepo) ListActive() ([]*entity.PaymentMethod, error) { return nil, nil }

// --- TaxRuleRepository ---

type storeTaxRepo struct{ s *fakeStore }

func (r storeTaxRepo) Create(t *entity.TaxRule) error { r.s.taxRules[t.ID] = t; return nil }
func (r storeTaxRepo) Update(t *entity.TaxRule) error { r.s.taxRules[t.ID] = t; return nil }
func (r storeTaxRepo) GetByID(id string) (*entity.TaxRule, error) {
	return r.s.taxRules[id], nil
}
func (r storeTaxRepo) GetByCode(code string) (*entity.TaxRule, error) {
	for _, t := range r.s.taxRules {
		if t.Code == code {
			return t, nil
		}
	}
	return nil, nil
}
func (r storeTaxRepo) List(bool) ([]*entity.TaxRule, error) { return nil, nil }
func (r storeTaxRepo) SoftDelete(string) error              { return nil }

// --- ShiftRepository ---

type storeShiftRepo struct{ s *fakeStore }

func (r storeShiftRepo) Create(sh *entity.CashRegisterShift) error { r.s.shifts[sh.ID] = sh; return nil }
func (r storeShiftRepo) GetByID(id string) (*entity.CashRegisterShift, error) {
	return r.s.shifts[id], nil
}
func (r storeShiftRepo) GetForUpdate(id string) (*entity.CashRegisterShift, error) {
	return r.s.shifts[id], nil
}
func (r storeShiftRepo) GetOpenByUser(userID string) (*entity.CashRegisterShift, error) {
	for _, sh := range r.s.shifts {
		if sh.UserID == userID && sh.Status == entity.ShiftStatusOpen {
			return sh, nil
		}
	}
	return nil, nil
}
func (r storeShiftRepo) Update(sh *entity.CashRegisterShift) error { r.s.shifts[sh.ID] = sh; return nil }
func (r storeShiftRepo) List(int) ([]*entity.CashRegisterShift, error) { return nil, nil }

// --- SequenceRepository ---

type storeSequenceRepo struct{ s *fakeStore }

func (r storeSequenceRepo) Next(prefix string, day time.Time) (int64, error) {
	key := prefix + "|" + day.Format("20060102")
	r.s.seq[key]++
	return r.s.seq[key], nil
}

// --- TxRunner con rollback por snapshot ---

type storeTxRunner struct{ s *fakeStore }

func (r storeTxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	stock := make(map[string]int64)
	for id, p := range r.s.products {
		stock[id] = p.Stock
	}
	movCount := len(r.s.movements)
	salesBefore := make(map[string]entity.Sale)
	for id, s := range r.s.sales {
		salesBefore[id] = *s
	}
	itemsBefore := make(map[string]int)
	for id, items := range r.s.saleItems {
		itemsBefore[id] = len(items)
	}
	aggBefore := make(map[string]entity.Customer)
	for id, c := range r.s.customers {
		aggBefore[id] = *c
	}

	if err := fn(storeMovementRepo{r.s}, storeProductRepo{r.s}, storeSaleRepo{r.s}, storeCustomerRepo{r.s}); err != nil {
		for id, q := range stock {
			r.s.products[id].Stock = q
		}
		r.s.movements = r.s.movements[:movCount]
		for id := range r.s.sales {
			if prev, ok := salesBefore[id]; ok {
				tmp := prev
				r.s.sales[id] = &tmp
			} else {
				delete(r.s.sales, id)
			}
		}
		for id := range r.s.saleItems {
			if n, ok := itemsBefore[id]; ok {
				r.s.saleItems[id] = r.s.saleItems[id][:n]
			} else {
				delete(r.s.saleItems, id)
			}
		}
		for id, prev := range aggBefore {
			tmp := prev
			r.s.customers[id] = &tmp
		}
		return err
	}
	return nil
}

// buildSaleUseCases arma los casos de uso de venta con el store compartido y
// el motor de inventario real (fakes solo en los puertos de persistencia).
func buildSaleUseCases(s *fakeStore) (*sales.CreateSaleUseCase, *sales.CancelSaleUseCase, *inventory.StockMovementUseCase) {
	invUC := inventory.NewStockMovementUseCase(nil, storeProductRepo{s}, storeMovementRepo{s}, false)
	numbers := numbering.NewGenerator(storeSequenceRepo{s})
	createUC := sales.NewCreateSaleUseCase(
		storeTxRunner{s}, invUC,
		storeProductRepo{s}, storeCustomerRepo{s}, storePaymentRepo{s},
		storeTaxRepo{s}, storeShiftRepo{s}, storeSaleRepo{s}, numbers,
	)
	cancelUC := sales.NewCancelSaleUseCase(storeTxRunner{s}, invUC, storeSaleRepo{s})
	return createUC, cancelUC, invUC
}
