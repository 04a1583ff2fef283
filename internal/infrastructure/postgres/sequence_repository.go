package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador atómico por prefijo y día para números de documento.
// El upsert-increment en un solo statement garantiza que dos peticiones
// concurrentes del mismo día jamás reciban el mismo consecutivo.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo del prefijo para el día dado.
func (r *SequenceRepo) Next(prefix string, day time.Time) (int64, error) {
	query := `
		INSERT INTO document_sequences (prefix, day, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, day) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`
	var value int64
	err := r.q.QueryRow(context.Background(), query, prefix, day.Format("2006-01-02")).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", prefix, err)
	}
	return value, nil
}
