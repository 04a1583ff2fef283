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

var _ repository.TaxRuleRepository = (*TaxRuleRepo)(nil)

const taxRuleColumns = `id, code, name, rate, inclusive, active, deleted_at, created_at, updated_at`

// TaxRuleRepo implementación del puerto TaxRuleRepository sobre PostgreSQL.
type TaxRuleRepo struct {
	q Querier
}

// NewTaxRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaxRuleRepository(q Querier) *TaxRuleRepo {
	return &TaxRuleRepo{q: q}
}

// Create persiste una regla de impuesto. El código es único entre reglas vivas.
func (r *TaxRuleRepo) Create(rule *entity.TaxRule) error {
	query := `
		INSERT INTO tax_rules (` + taxRuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.Code, rule.Name, rule.Rate, rule.Inclusive,
		rule.Active, rule.DeletedAt, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tax rule: %w", err)
	}
	return nil
}

// Update actualiza una regla existente.
func (r *TaxRuleRepo) Update(rule *entity.TaxRule) error {
	query := `
		UPDATE tax_rules SET name = $2, rate = $3, inclusive = $4, active = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.Name, rule.Rate, rule.Inclusive, rule.Active, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tax rule: %w", err)
	}
	return nil
}

func scanTaxRule(row pgx.Row) (*entity.TaxRule, error) {
	var t entity.TaxRule
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.Rate, &t.Inclusive,
		&t.Active, &t.DeletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID obtiene una regla (incluye tombstones; el caller decide).
func (r *TaxRuleRepo) GetByID(id string) (*entity.TaxRule, error) {
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules WHERE id = $1`
	t, err := scanTaxRule(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax rule: %w", err)
	}
	return t, nil
}

// GetByCode obtiene una regla viva por código.
func (r *TaxRuleRepo) GetByCode(code string) (*entity.TaxRule, error) {
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules WHERE code = $1 AND deleted_at IS NULL`
	t, err := scanTaxRule(r.q.QueryRow(context.Background(), query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax rule by code: %w", err)
	}
	return t, nil
}

// List lista reglas, tombstones excluidos salvo includeDeleted.
func (r *TaxRuleRepo) List(includeDeleted bool) ([]*entity.TaxRule, error) {
	query := `SELECT ` + taxRuleColumns + ` FROM tax_rules`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list tax rules: %w", err)
	}
	defer rows.Close()
	var list []*entity.TaxRule
	for rows.Next() {
		t, err := scanTaxRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tax rule: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// SoftDelete marca el tombstone; las ventas históricas siguen referenciando la regla.
func (r *TaxRuleRepo) SoftDelete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE tax_rules SET deleted_at = now(), active = false, updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete tax rule: %w", err)
	}
	return nil
}
