package cashregister

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/application/dto"
	"github.com/tu-usuario/pos-pro/internal/application/numbering"
	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// ShiftUseCase maneja turnos de caja: apertura, cierre con arqueo y consulta
// del turno abierto. La máquina de estados es open → closed, de una sola vía,
// y un cajero tiene a lo sumo un turno abierto.
type ShiftUseCase struct {
	txRunner  TxRunner
	shiftRepo repository.ShiftRepository
	numbers   *numbering.Generator
	// tolerance define cuándo un cierre se considera cuadrado:
	// |diferencia| < tolerance (POS_CASH_DIFFERENCE_TOLERANCE, default 0.01).
	tolerance decimal.Decimal
}

// NewShiftUseCase construye el caso de uso.
func NewShiftUseCase(txRunner TxRunner, shiftRepo repository.ShiftRepository, numbers *numbering.Generator, tolerance decimal.Decimal) *ShiftUseCase {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = decimal.NewFromFloat(0.01)
	}
	return &ShiftUseCase{txRunner: txRunner, shiftRepo: shiftRepo, numbers: numbers, tolerance: tolerance}
}

// OpenShift abre un turno para el cajero. Si ya tiene uno abierto retorna
// ErrConflict sin crear nada.
func (uc *ShiftUseCase) OpenShift(ctx context.Context, userID string, in dto.OpenShiftRequest) (*dto.ShiftResponse, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.OpeningBalance.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	open, err := uc.shiftRepo.GetOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrConflict
	}

	now := time.Now()
	number, err := uc.numbers.NextShiftNumber(now)
	if err != nil {
		return nil, err
	}
	shift := &entity.CashRegisterShift{
		ID:             uuid.New().String(),
		UserID:         userID,
		ShiftNumber:    number,
		OpeningBalance: in.OpeningBalance,
		Status:         entity.ShiftStatusOpen,
		Notes:          in.Notes,
		OpenedAt:       now,
	}
	if err := uc.shiftRepo.Create(shift); err != nil {
		return nil, err
	}
	return uc.toResponse(shift), nil
}

// CloseShift cierra el turno con el efectivo contado:
// expected_cash = opening_balance + ventas en efectivo − devoluciones;
// cash_difference = actual_cash − expected_cash. Agregados y cierre se
// persisten en una sola transacción.
func (uc *ShiftUseCase) CloseShift(ctx context.Context, userID, shiftID string, in dto.CloseShiftRequest) (*dto.ShiftResponse, error) {
	if userID == "" || shiftID == "" {
		return nil, domain.ErrInvalidInput
	}
	shift, err := uc.shiftRepo.GetByID(shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	if shift.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if shift.Status != entity.ShiftStatusOpen {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	err = uc.txRunner.RunShift(ctx, func(
		shiftRepo repository.ShiftRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Re-lectura con bloqueo de fila: dos cierres concurrentes pasan la
		// guarda de afuera, pero solo uno ve open aquí adentro.
		shift, err = shiftRepo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.Status != entity.ShiftStatusOpen {
			return domain.ErrInvalidState
		}

		totals, err := saleRepo.SumByShift(shiftID)
		if err != nil {
			return err
		}
		expected := shift.OpeningBalance.Add(totals.TotalCashSales).Sub(totals.TotalRefunds)

		shift.ExpectedCash = expected
		shift.ActualCash = in.ActualCash
		shift.ClosingBalance = in.ActualCash
		shift.CashDifference = in.ActualCash.Sub(expected)
		shift.TotalSales = totals.TotalSales
		shift.TotalCashSales = totals.TotalCashSales
		shift.TotalRefunds = totals.TotalRefunds
		shift.TransactionCount = totals.TransactionCount
		if len(totals.ByPaymentCode) > 0 {
			raw, err := json.Marshal(totals.ByPaymentCode)
			if err != nil {
				return err
			}
			shift.PaymentTotals = raw
		}
		shift.Status = entity.ShiftStatusClosed
		shift.ClosedAt = &now
		if in.Notes != "" {
			shift.Notes = in.Notes
		}
		return shiftRepo.Update(shift)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(shift), nil
}

// GetOpenShift devuelve el turno abierto del cajero, o ErrNotFound.
func (uc *ShiftUseCase) GetOpenShift(ctx context.Context, userID string) (*dto.ShiftResponse, error) {
	shift, err := uc.shiftRepo.GetOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(shift), nil
}

func (uc *ShiftUseCase) toResponse(s *entity.CashRegisterShift) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		ShiftNumber:      s.ShiftNumber,
		Status:           s.Status,
		OpeningBalance:   s.OpeningBalance,
		ClosingBalance:   s.ClosingBalance,
		ExpectedCash:     s.ExpectedCash,
		ActualCash:       s.ActualCash,
		CashDifference:   s.CashDifference,
		Balanced:         s.Status == entity.ShiftStatusClosed && s.IsBalanced(uc.tolerance),
		TotalSales:       s.TotalSales,
		TotalCashSales:   s.TotalCashSales,
		TotalRefunds:     s.TotalRefunds,
		PaymentTotals:    s.PaymentTotals,
		TransactionCount: s.TransactionCount,
		Notes:            s.Notes,
		OpenedAt:         s.OpenedAt,
		ClosedAt:         s.ClosedAt,
	}
}
