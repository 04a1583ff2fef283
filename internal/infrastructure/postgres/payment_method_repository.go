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

var _ repository.PaymentMethodRepository = (*PaymentMethodRepo)(nil)

const paymentMethodColumns = `id, code, name, fee_percentage, fee_amount, active, sort_order, created_at, updated_at`

// PaymentMethodRepo implementación del puerto PaymentMethodRepository sobre PostgreSQL.
type PaymentMethodRepo struct {
	q Querier
}

// NewPaymentMethodRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentMethodRepository(q Querier) *PaymentMethodRepo {
	return &PaymentMethodRepo{q: q}
}

// Create persiste un medio de pago. El código es único.
func (r *PaymentMethodRepo) Create(method *entity.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (` + paymentMethodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		method.ID, method.Code, method.Name, method.FeePercentage, method.FeeAmount,
		method.Active, method.SortOrder, method.CreatedAt, method.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert payment method: %w", err)
	}
	return nil
}

// Update actualiza un medio de pago.
func (r *PaymentMethodRepo) Update(method *entity.PaymentMethod) error {
	query := `
		UPDATE payment_methods SET name = $2, fee_percentage = $3, fee_amount = $4,
			active = $5, sort_order = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		method.ID, method.Name, method.FeePercentage, method.FeeAmount,
		method.Active, method.SortOrder, method.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment method: %w", err)
	}
	return nil
}

func scanPaymentMethod(row pgx.Row) (*entity.PaymentMethod, error) {
	var m entity.PaymentMethod
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.FeePercentage, &m.FeeAmount,
		&m.Active, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID obtiene un medio de pago.
func (r *PaymentMethodRepo) GetByID(id string) (*entity.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE id = $1`
	m, err := scanPaymentMethod(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}
	return m, nil
}

// GetByCode obtiene un medio de pago por código.
func (r *PaymentMethodRepo) GetByCode(code string) (*entity.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE code = $1`
	m, err := scanPaymentMethod(r.q.QueryRow(context.Background(), query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment method by code: %w", err)
	}
	return m, nil
}

// ListActive devuelve los medios activos en su orden de pantalla.
func (r *PaymentMethodRepo) ListActive() ([]*entity.PaymentMethod, error) {
	query := `SELECT ` + paymentMethodColumns + ` FROM payment_methods WHERE active = true ORDER BY sort_order`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()
	var list []*entity.PaymentMethod
	for rows.Next() {
		m, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
