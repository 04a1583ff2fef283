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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, invoice_number, supplier_id, status, date, total_amount, notes,
	created_by, received_by, received_at, created_at, updated_at`

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera de la orden de compra.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	receivedBy := nullableString(purchase.ReceivedBy)
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.InvoiceNumber, purchase.SupplierID, purchase.Status,
		purchase.Date, purchase.TotalAmount, purchase.Notes, purchase.CreatedBy,
		receivedBy, purchase.ReceivedAt, purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de compra.
func (r *PurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_cost, total_cost, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.PurchaseID, item.ProductID, item.Quantity,
		item.UnitCost, item.TotalCost, item.ExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var receivedBy *string
	err := row.Scan(
		&p.ID, &p.InvoiceNumber, &p.SupplierID, &p.Status, &p.Date, &p.TotalAmount,
		&p.Notes, &p.CreatedBy, &receivedBy, &p.ReceivedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if receivedBy != nil {
		p.ReceivedBy = *receivedBy
	}
	return &p, nil
}

// GetByID obtiene una compra por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// GetForUpdate bloquea la fila de la compra (SELECT FOR UPDATE) dentro de la
// transacción actual, para serializar la transición pending → received.
func (r *PurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 FOR UPDATE`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase for update: %w", err)
	}
	return p, nil
}

// GetItems devuelve las líneas de una compra.
func (r *PurchaseRepo) GetItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_cost, total_cost, expiry_date
		FROM purchase_items WHERE purchase_id = $1`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity,
			&it.UnitCost, &it.TotalCost, &it.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista compras, más recientes primero.
func (r *PurchaseRepo) List(limit int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases ORDER BY date DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update persiste la cabecera (estado, recepción, totales, notas).
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `
		UPDATE purchases SET supplier_id = $2, status = $3, total_amount = $4, notes = $5,
			received_by = $6, received_at = $7, updated_at = $8
		WHERE id = $1`
	receivedBy := nullableString(purchase.ReceivedBy)
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.SupplierID, purchase.Status, purchase.TotalAmount,
		purchase.Notes, receivedBy, purchase.ReceivedAt, purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

// DeleteItems borra las líneas de una compra pendiente (para reemplazarlas).
func (r *PurchaseRepo) DeleteItems(purchaseID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM purchase_items WHERE purchase_id = $1`, purchaseID)
	if err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return nil
}

// Delete elimina una compra pendiente con sus líneas.
func (r *PurchaseRepo) Delete(id string) error {
	if err := r.DeleteItems(id); err != nil {
		return err
	}
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}
