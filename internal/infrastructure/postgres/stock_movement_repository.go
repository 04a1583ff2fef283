package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: solo INSERT y SELECT.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un asiento del libro.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, quantity, type, stock_before, stock_after,
			reference_type, reference_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	refType := (*string)(nil)
	refID := (*string)(nil)
	if movement.Ref.Type != entity.RefTypeNone {
		s := string(movement.Ref.Type)
		refType = &s
		refID = &movement.Ref.ID
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Quantity, movement.Type,
		movement.StockBefore, movement.StockAfter, refType, refID,
		movement.Notes, movement.CreatedBy, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func scanMovementRows(rows interface {
	Scan(dest ...any) error
}) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var refType, refID *string
	if err := rows.Scan(&m.ID, &m.ProductID, &m.Quantity, &m.Type, &m.StockBefore,
		&m.StockAfter, &refType, &refID, &m.Notes, &m.CreatedBy, &m.CreatedAt); err != nil {
		return nil, err
	}
	if refType != nil {
		m.Ref.Type = entity.RefType(*refType)
	}
	if refID != nil {
		m.Ref.ID = *refID
	}
	return &m, nil
}

const movementColumns = `id, product_id, quantity, type, stock_before, stock_after,
	reference_type, reference_id, notes, created_by, created_at`

// ListByProduct historial de un producto en un rango de fechas (cero = sin
// límite), más reciente primero.
func (r *StockMovementRepo) ListByProduct(productID string, from, to time.Time, limit int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if !from.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, from)
		pos++
	}
	if !to.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, to)
		pos++
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, limit)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovementRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByRef asientos originados por un documento (venta, compra, ajuste, anulación).
func (r *StockMovementRepo) ListByRef(ref entity.MovementRef) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE reference_type = $1 AND reference_id = $2 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, string(ref.Type), ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list movements by ref: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovementRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
