package cashregister_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-pro/internal/application/cashregister"
	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/numbering"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. Los agregados del turno se siembran directamente en el
// fake de ventas; el runner solo encadena las dos escrituras.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	shifts map[string]*entity.CashRegisterShift
	// totalsByShift agregados precalculados que SumByShift devolvería
	totalsByShift map[string]repository.ShiftTotals
	seq           map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shifts:        make(map[string]*entity.CashRegisterShift),
		totalsByShift: make(map[string]repository.ShiftTotals),
		seq:           make(map[string]int64),
	}
}

type fakeShiftRepo struct{ s *fakeStore }

func (r fakeShiftRepo) Create(sh *entity.CashRegisterShift) error { r.s.shifts[sh.ID] = sh; return nil }
func (r fakeShiftRepo) GetByID(id string) (*entity.CashRegisterShift, error) {
	return r.s.shifts[id], nil
}
func (r fakeShiftRepo) GetForUpdate(id string) (*entity.CashRegisterShift, error) {
	return r.s.shifts[id], nil
}
func (r fakeShiftRepo) GetOpenByUser(userID string) (*entity.CashRegisterShift, error) {
	for _, sh := range r.s.shifts {
		if sh.UserID == userID && sh.Status == entity.ShiftStatusOpen {
			return sh, nil
		}
	}
	return nil, nil
}
func (r fakeShiftRepo) Update(sh *entity.CashRegisterShift) error { r.s.shifts[sh.ID] = sh; return nil }
func (r fakeShiftRepo) List(int) ([]*entity.CashRegisterShift, error) { return nil, nil }

type fakeSaleRepo struct{ s *fakeStore }

func (r fakeSaleRepo) Create(*entity.Sale) error                 { return nil }
func (r fakeSaleRepo) CreateItem(*entity.SaleItem) error         { return nil }
func (r fakeSaleRepo) GetByID(string) (*entity.Sale, error)      { return nil, nil }
func (r fakeSaleRepo) GetForUpdate(string) (*entity.Sale, error) { return nil, nil }
func (r fakeSaleRepo) GetItems(string) ([]*entity.SaleItem, error) { return nil, nil }
func (r fakeSaleRepo) List(bool, int) ([]*entity.Sale, error)    { return nil, nil }
func (r fakeSaleRepo) UpdateStatus(string, string) error          { return nil }
func (r fakeSaleRepo) SoftDelete(string) error                    { return nil }
func (r fakeSaleRepo) SumCompletedByCustomer(string) (repository.CustomerTotals, error) {
	return repository.CustomerTotals{TotalSpent: decimal.Zero}, nil
}
func (r fakeSaleRepo) SumByShift(shiftID string) (repository.ShiftTotals, error) {
	if totals, ok := r.s.totalsByShift[shiftID]; ok {
		return totals, nil
	}
	return repository.ShiftTotals{
		TotalSales:     decimal.Zero,
		TotalCashSales: decimal.Zero,
		TotalRefunds:   decimal.Zero,
	}, nil
}

type fakeSequenceRepo struct{ s *fakeStore }

func (r fakeSequenceRepo) Next(prefix string, day time.Time) (int64, error) {
	key := prefix + "|" + day.Format("20060102")
	r.s.seq[key]++
	return r.s.seq[key], nil
}

type fakeTxRunner struct{ s *fakeStore }

func (r fakeTxRunner) RunShift(ctx context.Context, fn func(
	shiftRepo repository.ShiftRepository,
	saleRepo repository.SaleRepository,
) error) error {
	before := make(map[string]entity.CashRegisterShift)
	for id, sh := range r.s.shifts {
		before[id] = *sh
	}
	if err := fn(fakeShiftRepo{r.s}, fakeSaleRepo{r.s}); err != nil {
		r.s.shifts = make(map[string]*entity.CashRegisterShift)
		for id, sh := range before {
			tmp := sh
			r.s.shifts[id] = &tmp
		}
		return err
	}
	return nil
}

func buildUseCase(s *fakeStore) *cashregister.ShiftUseCase {
	numbers := numbering.NewGenerator(fakeSequenceRepo{s})
	return cashregister.NewShiftUseCase(fakeTxRunner{s}, fakeShiftRepo{s}, numbers, decimal.NewFromFloat(0.01))
}

func TestOpenShift_CreaTurnoConConsecutivo(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)

	resp, err := uc.OpenShift(context.Background(), "u-cajero", dto.OpenShiftRequest{
		OpeningBalance: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ShiftStatusOpen, resp.Status)
	assert.Equal(t, "SH-"+time.Now().Format("20060102")+"-001", resp.ShiftNumber)
	assert.True(t, resp.OpeningBalance.Equal(decimal.NewFromInt(100000)))
	assert.False(t, resp.Balanced, "un turno abierto no está cuadrado todavía")
}

func TestOpenShift_SegundoTurnoAbiertoEsConflicto(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	_, err := uc.OpenShift(ctx, "u-cajero", dto.OpenShiftRequest{OpeningBalance: decimal.NewFromInt(50000)})
	require.NoError(t, err)

	_, err = uc.OpenShift(ctx, "u-cajero", dto.OpenShiftRequest{OpeningBalance: decimal.NewFromInt(50000)})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, s.shifts, 1)

	// Otro cajero sí puede abrir el suyo
	_, err = uc.OpenShift(ctx, "u-otro", dto.OpenShiftRequest{OpeningBalance: decimal.Zero})
	assert.NoError(t, err)
}

func TestOpenShift_BaseNegativaInvalida(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)

	_, err := uc.OpenShift(context.Background(), "u-cajero", dto.OpenShiftRequest{
		OpeningBalance: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCloseShift_ArqueoCuadrado(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.OpenShift(ctx, "u-cajero", dto.OpenShiftRequest{OpeningBalance: decimal.NewFromInt(100000)})
	require.NoError(t, err)

	s.totalsByShift[resp.ID] = repository.ShiftTotals{
		TotalSales:       decimal.NewFromInt(400000),
		TotalCashSales:   decimal.NewFromInt(250000),
		TotalRefunds:     decimal.Zero,
		TransactionCount: 12,
		ByPaymentCode: map[string]decimal.Decimal{
			"cash": decimal.NewFromInt(250000),
			"card": decimal.NewFromInt(150000),
		},
	}

	// Esperado = 100000 + 250000 − 0 = 350000; contado igual → cuadrado
	closed, err := uc.CloseShift(ctx, "u-cajero", resp.ID, dto.CloseShiftRequest{
		ActualCash: decimal.NewFromInt(350000),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ShiftStatusClosed, closed.Status)
	assert.True(t, closed.ExpectedCash.Equal(decimal.NewFromInt(350000)), "esperado %s", closed.ExpectedCash)
	assert.True(t, closed.CashDifference.IsZero(), "diferencia %s", closed.CashDifference)
	assert.True(t, closed.Balanced)
	assert.Equal(t, 12, closed.TransactionCount)
	require.NotNil(t, closed.ClosedAt)

	// El desglose por medio de pago queda persistido como JSON
	var desglose map[string]decimal.Decimal
	require.NoError(t, json.Unmarshal(closed.PaymentTotals, &desglose))
	assert.True(t, desglose["card"].Equal(decimal.NewFromInt(150000)))
}

func TestCloseShift_FaltanteEnCaja(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.OpenShift(ctx, "u-cajero", dto.OpenShiftRequest{OpeningBalance: decimal.NewFromInt(100000)})
	require.NoError(t, err)
	s.totalsByShift[resp.ID] = repository.ShiftTotals{
		TotalSales:     decimal.NewFromInt(250000),
		TotalCashSales: decimal.NewFromInt(250000),
		TotalRefunds:   decimal.Zero,
	}

	closed, err := uc.CloseShift(ctx, "u-cajero", resp.ID, dto.CloseShiftRequest{
		ActualCash: decimal.NewFromInt(345000),
	})
	require.NoError(t, err)

	// Faltan 5000: diferencia negativa, turno no cuadrado
	assert.True(t, closed.CashDifference.Equal(decimal.NewFromInt(-5000)), "diferencia %s", closed.CashDifference)
	assert.False(t, closed.Balanced)
}

func TestCloseShift_DobleCierreEsEstadoInvalido(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.OpenShift(ctx, "u-cajero", dto.OpenShiftRequest{OpeningBalance: decimal.Zero})
	require.NoError(t, err)
	_, err = uc.CloseShift(ctx, "u-cajero", resp.ID, dto.CloseShiftRequest{ActualCash: decimal.Zero})
	require.NoError(t, err)

	_, err = uc.CloseShift(ctx, "u-cajero", resp.ID, dto.CloseShiftRequest{ActualCash: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// cerradoEnMedioTxRunner emula otro cierre que confirma entre la lectura
// inicial y la transacción: deja el turno cerrado antes de delegar en el
// runner real.
type cerradoEnMedioTxRunner struct {
	inner   fakeTxRunner
	shiftID string
}

func (r cerradoEnMedioTxRunner) RunShift(ctx context.Context, fn func(
	shiftRepo repository.ShiftRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if sh, ok := r.inner.s.shifts[r.shiftID]; ok && sh.Status == entity.ShiftStatusOpen {
		cierre := time.Date(2026, 8, 30, 21, 0, 0, 0, time.UTC)
		sh.Status = entity.ShiftStatusClosed
		sh.ActualCash = decimal.NewFromInt(350000)
		sh.ClosingBalance = decimal.NewFromInt(350000)
		sh.ClosedAt = &cierre
		sh.Notes = "cierre del primer arqueo"
	}
	return r.inner.RunShift(ctx, fn)
}

func TestCloseShift_OtroCierreGanaLaCarrera(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.OpenShift(ctx, "u-cajero", dto.OpenShiftRequest{OpeningBalance: decimal.NewFromInt(100000)})
	require.NoError(t, err)

	numbers := numbering.NewGenerator(fakeSequenceRepo{s})
	perdedor := cashregister.NewShiftUseCase(
		cerradoEnMedioTxRunner{inner: fakeTxRunner{s}, shiftID: resp.ID},
		fakeShiftRepo{s}, numbers, decimal.NewFromFloat(0.01),
	)

	_, err = perdedor.CloseShift(ctx, "u-cajero", resp.ID, dto.CloseShiftRequest{
		ActualCash: decimal.NewFromInt(999999),
		Notes:      "este arqueo no debe quedar",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// El cierre ganador no se re-estampa
	cerrado := s.shifts[resp.ID]
	assert.Equal(t, entity.ShiftStatusClosed, cerrado.Status)
	assert.True(t, cerrado.ActualCash.Equal(decimal.NewFromInt(350000)), "contado %s", cerrado.ActualCash)
	require.NotNil(t, cerrado.ClosedAt)
	assert.Equal(t, time.Date(2026, 8, 30, 21, 0, 0, 0, time.UTC), *cerrado.ClosedAt)
	assert.Equal(t, "cierre del primer arqueo", cerrado.Notes)
}

func TestCloseShift_SoloElDuenoCierra(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	resp, err := uc.OpenShift(ctx, "u-cajero", dto.OpenShiftRequest{OpeningBalance: decimal.Zero})
	require.NoError(t, err)

	_, err = uc.CloseShift(ctx, "u-otro", resp.ID, dto.CloseShiftRequest{ActualCash: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, entity.ShiftStatusOpen, s.shifts[resp.ID].Status)
}

func TestGetOpenShift(t *testing.T) {
	s := newFakeStore()
	uc := buildUseCase(s)
	ctx := context.Background()

	_, err := uc.GetOpenShift(ctx, "u-cajero")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := uc.OpenShift(ctx, "u-cajero", dto.OpenShiftRequest{OpeningBalance: decimal.Zero})
	require.NoError(t, err)

	open, err := uc.GetOpenShift(ctx, "u-cajero")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, open.ID)
}
