package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturaQuerier registra el SQL armado sin tocar la base; Query corta la
// ejecución con un error para quedarnos solo con la consulta.
type capturaQuerier struct {
	sql  string
	args []any
}

var errCaptura = errors.New("consulta capturada")

func (c *capturaQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.sql, c.args = sql, args
	return pgconn.CommandTag{}, errCaptura
}

func (c *capturaQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.sql, c.args = sql, args
	return nil, errCaptura
}

func (c *capturaQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	c.sql, c.args = sql, args
	return nil
}

func TestListByProduct_LimiteCeroTraeTodoElHistorial(t *testing.T) {
	q := &capturaQuerier{}
	repo := NewStockMovementRepository(q)

	_, err := repo.ListByProduct("p-1", time.Time{}, time.Time{}, 0)
	require.ErrorIs(t, err, errCaptura)

	assert.NotContains(t, q.sql, "LIMIT")
	assert.Contains(t, q.sql, "ORDER BY created_at DESC")
	assert.Equal(t, []any{"p-1"}, q.args)
}

func TestListByProduct_LimiteYRangoDeFechas(t *testing.T) {
	q := &capturaQuerier{}
	repo := NewStockMovementRepository(q)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	_, err := repo.ListByProduct("p-1", from, to, 50)
	require.ErrorIs(t, err, errCaptura)

	assert.Contains(t, q.sql, "created_at >= $2")
	assert.Contains(t, q.sql, "created_at <= $3")
	assert.Contains(t, q.sql, "LIMIT $4")
	require.Len(t, q.args, 4)
	assert.Equal(t, 50, q.args[3])
}
