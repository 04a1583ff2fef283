package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/sales"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

func TestCancelSale_CompletadaRestauraStockConAsientoCompensatorio(t *testing.T) {
	s := seedStore()
	createUC, cancelUC, _ := buildSaleUseCases(s)
	ctx := context.Background()

	in := dto.CreateSaleRequest{
		PaymentMethodID: "pm-cash",
		Items:           []dto.SaleItemRequest{{ProductID: "p-pan", Quantity: 3, UnitPrice: decimal.NewFromInt(7000)}},
	}
	resp, err := createUC.CreateSale(ctx, "u-cajero", in)
	require.NoError(t, err)
	require.Equal(t, int64(7), s.products["p-pan"].Stock)

	err = cancelUC.CancelSale(ctx, "u-admin", resp.ID, "cliente se arrepintió")
	require.NoError(t, err)

	// Stock restaurado y la venta queda refunded con tombstone
	assert.Equal(t, int64(10), s.products["p-pan"].Stock)
	sale := s.sales[resp.ID]
	assert.Equal(t, entity.SaleStatusRefunded, sale.Status)
	assert.NotNil(t, sale.DeletedAt)

	// El libro conserva el OUT original y el asiento compensatorio: la
	// anulación no reescribe la historia
	salidas, err := storeMovementRepo{s}.ListByRef(entity.RefSale(resp.ID))
	require.NoError(t, err)
	require.Len(t, salidas, 1)
	assert.Equal(t, int64(-3), salidas[0].Quantity)

	reversas, err := storeMovementRepo{s}.ListByRef(entity.RefSaleCancellation(resp.ID))
	require.NoError(t, err)
	require.Len(t, reversas, 1)
	assert.Equal(t, int64(3), reversas[0].Quantity)
	assert.Equal(t, entity.MovementTypeReturn, reversas[0].Type)
	assert.Equal(t, "u-admin", reversas[0].CreatedBy)
	assert.Equal(t, "cliente se arrepintió", reversas[0].Notes)
}

func TestCancelSale_RecalculaAgregadosDelCliente(t *testing.T) {
	s := seedStore()
	createUC, cancelUC, _ := buildSaleUseCases(s)
	ctx := context.Background()

	in := ticketBasico()
	in.CustomerID = "c-maria"
	resp, err := createUC.CreateSale(ctx, "u-cajero", in)
	require.NoError(t, err)
	require.Equal(t, 1, s.customers["c-maria"].VisitCount)

	err = cancelUC.CancelSale(ctx, "u-admin", resp.ID, "")
	require.NoError(t, err)

	// La venta anulada sale del agregado (recálculo completo, no incremental)
	cliente := s.customers["c-maria"]
	assert.True(t, cliente.TotalSpent.IsZero(), "total gastado %s", cliente.TotalSpent)
	assert.Equal(t, 0, cliente.VisitCount)
}

func TestCancelSale_DobleAnulacionEsEstadoInvalido(t *testing.T) {
	s := seedStore()
	createUC, cancelUC, _ := buildSaleUseCases(s)
	ctx := context.Background()

	resp, err := createUC.CreateSale(ctx, "u-cajero", ticketBasico())
	require.NoError(t, err)
	require.NoError(t, cancelUC.CancelSale(ctx, "u-admin", resp.ID, ""))

	// Segunda anulación: refunded es terminal, y el stock no se toca otra vez
	err = cancelUC.CancelSale(ctx, "u-admin", resp.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(50), s.products["p-agua"].Stock)
	assert.Equal(t, int64(10), s.products["p-pan"].Stock)
}

// anuladaEnMedioTxRunner emula otra anulación que confirma entre la lectura
// inicial y la transacción: restaura el stock y deja la venta refunded antes
// de delegar en el runner real.
type anuladaEnMedioTxRunner struct {
	inner  storeTxRunner
	saleID string
}

func (r anuladaEnMedioTxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	if v, ok := r.inner.s.sales[r.saleID]; ok && v.Status == entity.SaleStatusCompleted {
		for _, it := range r.inner.s.saleItems[r.saleID] {
			r.inner.s.products[it.ProductID].Stock += it.Quantity
		}
		now := time.Now()
		v.Status = entity.SaleStatusRefunded
		v.DeletedAt = &now
	}
	return r.inner.RunSale(ctx, fn)
}

func TestCancelSale_OtraAnulacionGanaLaCarrera(t *testing.T) {
	s := seedStore()
	createUC, _, invUC := buildSaleUseCases(s)
	ctx := context.Background()

	resp, err := createUC.CreateSale(ctx, "u-cajero", ticketBasico())
	require.NoError(t, err)
	movimientosAntes := len(s.movements)

	perdedor := sales.NewCancelSaleUseCase(
		anuladaEnMedioTxRunner{inner: storeTxRunner{s}, saleID: resp.ID},
		invUC, storeSaleRepo{s},
	)

	err = perdedor.CancelSale(ctx, "u-admin", resp.ID, "segundo intento")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// El stock queda como lo dejó la anulación ganadora, sin restaurarse
	// una segunda vez, y sin asiento compensatorio duplicado
	assert.Equal(t, int64(50), s.products["p-agua"].Stock)
	assert.Equal(t, int64(10), s.products["p-pan"].Stock)
	assert.Len(t, s.movements, movimientosAntes)
	assert.Equal(t, entity.SaleStatusRefunded, s.sales[resp.ID].Status)
}

func TestCancelSale_BorradorSeRetiraSinMovimientos(t *testing.T) {
	s := seedStore()
	_, cancelUC, _ := buildSaleUseCases(s)

	s.sales["v-borrador"] = &entity.Sale{
		ID: "v-borrador", Status: entity.SaleStatusPending,
	}
	err := cancelUC.CancelSale(context.Background(), "u-admin", "v-borrador", "")
	require.NoError(t, err)

	sale := s.sales["v-borrador"]
	assert.Equal(t, entity.SaleStatusCancelled, sale.Status)
	assert.NotNil(t, sale.DeletedAt)
	assert.Empty(t, s.movements, "un borrador nunca descontó stock")
}

func TestCancelSale_VentaInexistente(t *testing.T) {
	s := seedStore()
	_, cancelUC, _ := buildSaleUseCases(s)

	err := cancelUC.CancelSale(context.Background(), "u-admin", "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
