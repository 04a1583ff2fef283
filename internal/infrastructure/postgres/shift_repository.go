package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

var _ repository.ShiftRepository = (*ShiftRepo)(nil)

const shiftColumns = `id, user_id, shift_number, opening_balance, closing_balance, expected_cash,
	actual_cash, cash_difference, total_sales, total_cash_sales, total_refunds, payment_totals,
	transaction_count, status, notes, opened_at, closed_at`

// ShiftRepo implementación del puerto ShiftRepository sobre PostgreSQL (usable con pool o tx).
type ShiftRepo struct {
	q Querier
}

// NewShiftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShiftRepository(q Querier) *ShiftRepo {
	return &ShiftRepo{q: q}
}

// Create persiste el turno recién abierto. El índice único parcial sobre
// (user_id) WHERE status = 'open' respalda la regla de un turno abierto por
// cajero también bajo concurrencia.
func (r *ShiftRepo) Create(shift *entity.CashRegisterShift) error {
	query := `
		INSERT INTO cash_register_shifts (` + shiftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		shift.ID, shift.UserID, shift.ShiftNumber, shift.OpeningBalance, shift.ClosingBalance,
		shift.ExpectedCash, shift.ActualCash, shift.CashDifference, shift.TotalSales,
		shift.TotalCashSales, shift.TotalRefunds, shift.PaymentTotals, shift.TransactionCount,
		shift.Status, shift.Notes, shift.OpenedAt, shift.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

func scanShift(row pgx.Row) (*entity.CashRegisterShift, error) {
	var s entity.CashRegisterShift
	err := row.Scan(
		&s.ID, &s.UserID, &s.ShiftNumber, &s.OpeningBalance, &s.ClosingBalance,
		&s.ExpectedCash, &s.ActualCash, &s.CashDifference, &s.TotalSales,
		&s.TotalCashSales, &s.TotalRefunds, &s.PaymentTotals, &s.TransactionCount,
		&s.Status, &s.Notes, &s.OpenedAt, &s.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene un turno por ID.
func (r *ShiftRepo) GetByID(id string) (*entity.CashRegisterShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM cash_register_shifts WHERE id = $1`
	s, err := scanShift(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}
	return s, nil
}

// GetForUpdate bloquea la fila del turno (SELECT FOR UPDATE) dentro de la
// transacción actual, para serializar el cierre.
func (r *ShiftRepo) GetForUpdate(id string) (*entity.CashRegisterShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM cash_register_shifts WHERE id = $1 FOR UPDATE`
	s, err := scanShift(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shift for update: %w", err)
	}
	return s, nil
}

// GetOpenByUser devuelve el turno abierto del cajero, o nil si no hay.
func (r *ShiftRepo) GetOpenByUser(userID string) (*entity.CashRegisterShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM cash_register_shifts
		WHERE user_id = $1 AND status = $2`
	s, err := scanShift(r.q.QueryRow(context.Background(), query, userID, entity.ShiftStatusOpen))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open shift: %w", err)
	}
	return s, nil
}

// Update persiste los campos de cierre.
func (r *ShiftRepo) Update(shift *entity.CashRegisterShift) error {
	query := `
		UPDATE cash_register_shifts SET closing_balance = $2, expected_cash = $3, actual_cash = $4,
			cash_difference = $5, total_sales = $6, total_cash_sales = $7, total_refunds = $8,
			payment_totals = $9, transaction_count = $10, status = $11, notes = $12, closed_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		shift.ID, shift.ClosingBalance, shift.ExpectedCash, shift.ActualCash,
		shift.CashDifference, shift.TotalSales, shift.TotalCashSales, shift.TotalRefunds,
		shift.PaymentTotals, shift.TransactionCount, shift.Status, shift.Notes, shift.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	return nil
}

// List lista turnos, más recientes primero.
func (r *ShiftRepo) List(limit int) ([]*entity.CashRegisterShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM cash_register_shifts ORDER BY opened_at DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashRegisterShift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
