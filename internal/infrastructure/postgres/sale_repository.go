package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/domain"
	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, invoice_number, date, customer_id, payment_method_id, shift_id, status,
	subtotal, tax_amount, discount_amount, total, fee_amount, cash_received, change_returned,
	table_number, order_type, notes, created_by, deleted_at, created_at, updated_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	customerID := nullableString(sale.CustomerID)
	shiftID := nullableString(sale.ShiftID)
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.InvoiceNumber, sale.Date, customerID, sale.PaymentMethodID, shiftID,
		sale.Status, sale.Subtotal, sale.TaxAmount, sale.DiscountAmount, sale.Total,
		sale.FeeAmount, sale.CashReceived, sale.ChangeReturned, sale.TableNumber,
		sale.OrderType, sale.Notes, sale.CreatedBy, sale.DeletedAt, sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea con su snapshot congelado.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, product_name, product_sku, quantity, unit_price, discount, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.ProductName, item.ProductSKU,
		item.Quantity, item.UnitPrice, item.Discount, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var customerID, shiftID *string
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &s.Date, &customerID, &s.PaymentMethodID, &shiftID,
		&s.Status, &s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.Total, &s.FeeAmount,
		&s.CashReceived, &s.ChangeReturned, &s.TableNumber, &s.OrderType, &s.Notes,
		&s.CreatedBy, &s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		s.CustomerID = *customerID
	}
	if shiftID != nil {
		s.ShiftID = *shiftID
	}
	return &s, nil
}

// GetByID obtiene una venta por ID (incluye tombstones; el libro de auditoría
// debe poder resolver la venta de un asiento viejo).
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// GetForUpdate bloquea la fila de la venta (SELECT FOR UPDATE) dentro de la
// transacción actual, para serializar la anulación.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	s, err := scanSale(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale for update: %w", err)
	}
	return s, nil
}

// GetItems devuelve las líneas de una venta.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, product_name, product_sku, quantity, unit_price, discount, subtotal
		FROM sale_items WHERE sale_id = $1`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName, &it.ProductSKU,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista ventas, más recientes primero.
func (r *SaleRepo) List(includeDeleted bool, limit int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY date DESC LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

// SoftDelete marca el tombstone; la venta y sus asientos siguen consultables.
func (r *SaleRepo) SoftDelete(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("soft delete sale: %w", err)
	}
	return nil
}

// SumCompletedByCustomer recalcula desde cero el total gastado y las visitas
// del cliente sobre sus ventas completadas vivas.
func (r *SaleRepo) SumCompletedByCustomer(customerID string) (repository.CustomerTotals, error) {
	query := `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM sales
		WHERE customer_id = $1 AND status = $2 AND deleted_at IS NULL`
	var totals repository.CustomerTotals
	err := r.q.QueryRow(context.Background(), query, customerID, entity.SaleStatusCompleted).
		Scan(&totals.TotalSpent, &totals.VisitCount)
	if err != nil {
		return repository.CustomerTotals{}, fmt.Errorf("sum sales by customer: %w", err)
	}
	return totals, nil
}

// SumByShift agrega las ventas completadas de un turno para el arqueo:
// total general, total en efectivo, devoluciones y desglose por medio de pago.
func (r *SaleRepo) SumByShift(shiftID string) (repository.ShiftTotals, error) {
	totals := repository.ShiftTotals{
		TotalSales:     decimal.Zero,
		TotalCashSales: decimal.Zero,
		TotalRefunds:   decimal.Zero,
		ByPaymentCode:  make(map[string]decimal.Decimal),
	}

	query := `
		SELECT COALESCE(SUM(s.total), 0), COUNT(*)
		FROM sales s
		WHERE s.shift_id = $1 AND s.status = $2 AND s.deleted_at IS NULL`
	err := r.q.QueryRow(context.Background(), query, shiftID, entity.SaleStatusCompleted).
		Scan(&totals.TotalSales, &totals.TransactionCount)
	if err != nil {
		return repository.ShiftTotals{}, fmt.Errorf("sum sales by shift: %w", err)
	}

	// Desglose por código de medio de pago (el efectivo sale de aquí)
	breakdown := `
		SELECT pm.code, COALESCE(SUM(s.total), 0)
		FROM sales s
		JOIN payment_methods pm ON pm.id = s.payment_method_id
		WHERE s.shift_id = $1 AND s.status = $2 AND s.deleted_at IS NULL
		GROUP BY pm.code`
	rows, err := r.q.Query(context.Background(), breakdown, shiftID, entity.SaleStatusCompleted)
	if err != nil {
		return repository.ShiftTotals{}, fmt.Errorf("shift payment breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var amount decimal.Decimal
		if err := rows.Scan(&code, &amount); err != nil {
			return repository.ShiftTotals{}, fmt.Errorf("scan payment breakdown: %w", err)
		}
		totals.ByPaymentCode[code] = amount
		if code == entity.PaymentMethodCashCode {
			totals.TotalCashSales = amount
		}
	}
	if err := rows.Err(); err != nil {
		return repository.ShiftTotals{}, err
	}

	// Devoluciones en efectivo del turno (ventas refunded que movieron el cajón)
	refunds := `
		SELECT COALESCE(SUM(s.total), 0)
		FROM sales s
		JOIN payment_methods pm ON pm.id = s.payment_method_id
		WHERE s.shift_id = $1 AND s.status = $2 AND pm.code = $3`
	err = r.q.QueryRow(context.Background(), refunds, shiftID, entity.SaleStatusRefunded, entity.PaymentMethodCashCode).
		Scan(&totals.TotalRefunds)
	if err != nil {
		return repository.ShiftTotals{}, fmt.Errorf("sum shift refunds: %w", err)
	}

	return totals, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
