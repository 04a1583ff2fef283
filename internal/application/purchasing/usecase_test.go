package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/inventory"
	"github.com/tu-usuario/pos-pro/internal/application/numbering"
	"github.com/tu-usuario/pos-pro/internal/application/purchasing"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El runner emula el rollback con snapshot del estado.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	purchases map[string]*entity.Purchase
	items     map[string][]*entity.PurchaseItem
	suppliers map[string]*entity.Supplier
	seq       map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[string]*entity.Product),
		purchases: make(map[string]*entity.Purchase),
		items:     make(map[string][]*entity.PurchaseItem),
		suppliers: make(map[string]*entity.Supplier),
		seq:       make(map[string]int64),
	}
}

type fakeProductRepo struct{ s *fakeStore }

func (r fakeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r fakeProductRepo) Update(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r fakeProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (r fakeProductRepo) List(bool) ([]*entity.Product, error)     { return nil, nil }
func (r fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r fakeProductRepo) UpdateStock(id string, stock int64) error {
	if p, ok := r.s.products[id]; ok {
		p.Stock = stock
	}
	return nil
}
func (r fakeProductRepo) SoftDelete(string) error                       { return nil }
func (r fakeProductRepo) ListBelowMinStock() ([]*entity.Product, error) { return nil, nil }

type fakeMovementRepo struct{ s *fakeStore }

func (r fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r fakeMovementRepo) ListByProduct(string, time.Time, time.Time, int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r fakeMovementRepo) ListByRef(ref entity.MovementRef) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.Ref == ref {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakePurchaseRepo struct{ s *fakeStore }

func (r fakePurchaseRepo) Create(p *entity.Purchase) error { r.s.purchases[p.ID] = p; return nil }
func (r fakePurchaseRepo) CreateItem(it *entity.PurchaseItem) error {
	r.s.items[it.PurchaseID] = append(r.s.items[it.PurchaseID], it)
	return nil
}
func (r fakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	return r.s.purchases[id], nil
}
func (r fakePurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	return r.s.purchases[id], nil
}
func (r fakePurchaseRepo) GetItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	return r.s.items[purchaseID], nil
}
func (r fakePurchaseRepo) List(int) ([]*entity.Purchase, error) { return nil, nil }
func (r fakePurchaseRepo) Update(p *entity.Purchase) error      { r.s.purchases[p.ID] = p; return nil }
func (r fakePurchaseRepo) DeleteItems(purchaseID string) error {
	delete(r.s.items, purchaseID)
	return nil
}
func (r fakePurchaseRepo) Delete(id string) error {
	delete(r.s.purchases, id)
	delete(r.s.items, id)
	return nil
}

type fakeSupplierRepo struct{ s *fakeStore }

func (r fakeSupplierRepo) Create(sp *entity.Supplier) error { r.s.suppliers[sp.ID] = sp; return nil }
func (r fakeSupplierRepo) Update(sp *entity.Supplier) error { r.s.suppliers[sp.ID] = sp; return nil }
func (r fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.s.suppliers[id], nil
}
func (r fakeSupplierRepo) List() ([]*entity.Supplier, error) { return nil, nil }

type fakeSequenceRepo struct{ s *fakeStore }

func (r fakeSequenceRepo) Next(prefix string, day time.Time) (int64, error) {
	key := prefix + "|" + day.Format("20060102")
	r.s.seq[key]++
	return r.s.seq[key], nil
}

type fakeTxRunner struct{ s *fakeStore }

func (r fakeTxRunner) RunPurchase(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	stock := make(map[string]int64)
	for id, p := range r.s.products {
		stock[id] = p.Stock
	}
	movCount := len(r.s.movements)
	purchasesBefore := make(map[string]entity.Purchase)
	for id, p := range r.s.purchases {
		purchasesBefore[id] = *p
	}
	itemsBefore := make(map[string][]*entity.PurchaseItem)
	for id, items := range r.s.items {
		itemsBefore[id] = append([]*entity.PurchaseItem(nil), items...)
	}

	if err := fn(fakeMovementRepo{r.s}, fakeProductRepo{r.s}, fakePurchaseRepo{r.s}); err != nil {
		for id, q := range stock {
			r.s.products[id].Stock = q
		}
		r.s.movements = r.s.movements[:movCount]
		r.s.purchases = make(map[string]*entity.Purchase)
		for id, p := range purchasesBefore {
			tmp := p
			r.s.purchases[id] = &tmp
		}
		r.s.items = itemsBefore
		return err
	}
	return nil
}

func seedStore() *fakeStore {
	s := newFakeStore()
	s.products["p-arroz"] = &entity.Product{
		ID: "p-arroz", SKU: "ARR-500", Name: "Arroz 500g", Stock: 5, Active: true,
	}
	s.products["p-azucar"] = &entity.Product{
		ID: "p-azucar", SKU: "AZU-1K", Name: "Azúcar 1kg", Stock: 0, Active: true,
	}
	s.suppliers["sup-andina"] = &entity.Supplier{ID: "sup-andina", Name: "Distribuidora Andina"}
	return s
}

func buildUseCase(s *fakeStore) *purchasing.PurchaseUseCase {
	invUC := inventory.NewStockMovementUseCase(nil, fakeProductRepo{s}, fakeMovementRepo{s}, false)
	numbers := numbering.NewGenerator(fakeSequenceRepo{s})
	return purchasing.NewPurchaseUseCase(
		fakeTxRunner{s}, invUC,
		fakePurchaseRepo{s}, fakeProductRepo{s}, fakeSupplierRepo{s}, numbers,
	)
}

func ordenBasica() dto.CreatePurchaseRequest {
	return dto.CreatePurchaseRequest{
		SupplierID: "sup-andina",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p-arroz", Quantity: 20, UnitCost: decimal.NewFromInt(2500)},
			{ProductID: "p-azucar", Quantity: 10, UnitCost: decimal.NewFromInt(4000)},
		},
	}
}

func TestCreatePurchase_NaceEnPendingSinMoverStock(t *testing.T) {
	s := seedStore()
	uc := buildUseCase(s)

	resp, err := uc.CreatePurchase(context.Background(), "u-bodega", ordenBasica())
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, entity.PurchaseStatusPending, resp.Status)
	// TotalAmount = 20×2500 + 10×4000 = 90000
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(90000)), "total %s", resp.TotalAmount)
	assert.Equal(t, "PO-"+time.Now().Format("20060102")+"-0001", resp.InvoiceNumber)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].TotalCost.Equal(decimal.NewFromInt(50000)))

	// Crear no toca inventario
	assert.Equal(t, int64(5), s.products["p-arroz"].Stock)
	assert.Equal(t, int64(0), s.products["p-azucar"].Stock)
	assert.Empty(t, s.movements)
}

func TestReceive_SumaStockUnaSolaVez(t *testing.T) {
	s := seedStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.CreatePurchase(ctx, "u-bodega", ordenBasica())
	require.NoError(t, err)

	err = uc.Receive(ctx, "u-bodega", resp.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(25), s.products["p-arroz"].Stock)
	assert.Equal(t, int64(10), s.products["p-azucar"].Stock)

	compra := s.purchases[resp.ID]
	assert.Equal(t, entity.PurchaseStatusReceived, compra.Status)
	assert.Equal(t, "u-bodega", compra.ReceivedBy)
	require.NotNil(t, compra.ReceivedAt)

	// Un asiento IN por línea, referenciando la compra
	movs, err := fakeMovementRepo{s}.ListByRef(entity.RefPurchase(resp.ID))
	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, entity.MovementTypeIn, m.Type)
		assert.Equal(t, m.StockBefore+m.Quantity, m.StockAfter)
	}

	// Segunda recepción: guarda de estado, el stock no se duplica
	err = uc.Receive(ctx, "u-bodega", resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(25), s.products["p-arroz"].Stock)
	assert.Len(t, s.movements, 2)
}

// recibidaEnMedioTxRunner emula otra recepción que confirma entre la lectura
// inicial y la transacción: marca la compra como recibida y aplica su stock
// antes de delegar en el runner real.
type recibidaEnMedioTxRunner struct {
	inner      fakeTxRunner
	purchaseID string
}

func (r recibidaEnMedioTxRunner) RunPurchase(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	if p, ok := r.inner.s.purchases[r.purchaseID]; ok && p.Status == entity.PurchaseStatusPending {
		now := time.Now()
		p.Status = entity.PurchaseStatusReceived
		p.ReceivedBy = "u-otro"
		p.ReceivedAt = &now
		for _, it := range r.inner.s.items[r.purchaseID] {
			r.inner.s.products[it.ProductID].Stock += it.Quantity
		}
	}
	return r.inner.RunPurchase(ctx, fn)
}

func TestReceive_OtraRecepcionGanaLaCarrera(t *testing.T) {
	s := seedStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.CreatePurchase(ctx, "u-bodega", ordenBasica())
	require.NoError(t, err)

	// El segundo caso de uso comparte el store pero su transacción llega
	// cuando la compra ya quedó recibida por el otro.
	invUC := inventory.NewStockMovementUseCase(nil, fakeProductRepo{s}, fakeMovementRepo{s}, false)
	numbers := numbering.NewGenerator(fakeSequenceRepo{s})
	perdedor := purchasing.NewPurchaseUseCase(
		recibidaEnMedioTxRunner{inner: fakeTxRunner{s}, purchaseID: resp.ID}, invUC,
		fakePurchaseRepo{s}, fakeProductRepo{s}, fakeSupplierRepo{s}, numbers,
	)

	err = perdedor.Receive(ctx, "u-bodega", resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// El stock queda como lo dejó la recepción ganadora, sin duplicarse
	assert.Equal(t, int64(25), s.products["p-arroz"].Stock)
	assert.Equal(t, int64(10), s.products["p-azucar"].Stock)
	assert.Empty(t, s.movements)
	assert.Equal(t, "u-otro", s.purchases[resp.ID].ReceivedBy)
}

func TestUpdatePurchase_SoloPendiente(t *testing.T) {
	s := seedStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.CreatePurchase(ctx, "u-bodega", ordenBasica())
	require.NoError(t, err)

	// Edición en pending reemplaza las líneas completas
	upd, err := uc.UpdatePurchase(ctx, "u-bodega", resp.ID, dto.UpdatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p-arroz", Quantity: 5, UnitCost: decimal.NewFromInt(2600)},
		},
		Notes: "se ajustó la cantidad",
	})
	require.NoError(t, err)
	assert.True(t, upd.TotalAmount.Equal(decimal.NewFromInt(13000)), "total %s", upd.TotalAmount)
	require.Len(t, s.items[resp.ID], 1)

	// Después de recibir, la edición se rechaza
	require.NoError(t, uc.Receive(ctx, "u-bodega", resp.ID))
	_, err = uc.UpdatePurchase(ctx, "u-bodega", resp.ID, dto.UpdatePurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p-arroz", Quantity: 1, UnitCost: decimal.NewFromInt(2500)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeletePurchase_SoloPendiente(t *testing.T) {
	s := seedStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.CreatePurchase(ctx, "u-bodega", ordenBasica())
	require.NoError(t, err)

	require.NoError(t, uc.DeletePurchase(ctx, "u-bodega", resp.ID))
	assert.Empty(t, s.purchases)
	assert.Empty(t, s.items)

	// Una compra recibida no se elimina
	resp2, err := uc.CreatePurchase(ctx, "u-bodega", ordenBasica())
	require.NoError(t, err)
	require.NoError(t, uc.Receive(ctx, "u-bodega", resp2.ID))
	err = uc.DeletePurchase(ctx, "u-bodega", resp2.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreatePurchase_EntradasInvalidas(t *testing.T) {
	s := seedStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	casos := []struct {
		nombre string
		mutar  func(*dto.CreatePurchaseRequest)
	}{
		{"sin proveedor", func(in *dto.CreatePurchaseRequest) { in.SupplierID = "" }},
		{"proveedor desconocido", func(in *dto.CreatePurchaseRequest) { in.SupplierID = "no-existe" }},
		{"sin lineas", func(in *dto.CreatePurchaseRequest) { in.Items = nil }},
		{"cantidad cero", func(in *dto.CreatePurchaseRequest) { in.Items[0].Quantity = 0 }},
		{"costo negativo", func(in *dto.CreatePurchaseRequest) {
			in.Items[0].UnitCost = decimal.NewFromInt(-1)
		}},
		{"producto desconocido", func(in *dto.CreatePurchaseRequest) { in.Items[0].ProductID = "no-existe" }},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			in := ordenBasica()
			c.mutar(&in)
			_, err := uc.CreatePurchase(ctx, "u-bodega", in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, s.purchases)
}

func TestReceive_CompraInexistente(t *testing.T) {
	s := seedStore()
	uc := buildUseCase(s)

	err := uc.Receive(context.Background(), "u-bodega", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
