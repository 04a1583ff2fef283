package numbering_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-pro/internal/application/numbering"
)

// fakeSequenceRepo contador en memoria por (prefijo, día), como el upsert
// atómico de la tabla document_sequences.
type fakeSequenceRepo struct {
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[string]int64)}
}

func (f *fakeSequenceRepo) Next(prefix string, day time.Time) (int64, error) {
	key := prefix + "|" + day.Format("20060102")
	f.counters[key]++
	return f.counters[key], nil
}

func TestGenerator_FormatoYAncho(t *testing.T) {
	gen := numbering.NewGenerator(newFakeSequenceRepo())
	day := time.Date(2025, 8, 4, 10, 30, 0, 0, time.UTC)

	inv, err := gen.NextSaleNumber(day)
	require.NoError(t, err)
	assert.Equal(t, "INV-20250804-0001", inv, "ventas llevan consecutivo de 4 dígitos")

	po, err := gen.NextPurchaseNumber(day)
	require.NoError(t, err)
	assert.Equal(t, "PO-20250804-0001", po)

	sh, err := gen.NextShiftNumber(day)
	require.NoError(t, err)
	assert.Equal(t, "SH-20250804-001", sh, "turnos llevan consecutivo de 3 dígitos")
}

func TestGenerator_ConsecutivoIncrementa(t *testing.T) {
	gen := numbering.NewGenerator(newFakeSequenceRepo())
	day := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 7; i++ {
		num, err := gen.NextSaleNumber(day)
		require.NoError(t, err)
		if i == 7 {
			assert.Equal(t, "INV-20250804-0007", num)
		}
	}
}

// El consecutivo reinicia por día: cada fecha tiene su propio contador.
func TestGenerator_ReiniciaPorDia(t *testing.T) {
	gen := numbering.NewGenerator(newFakeSequenceRepo())
	lunes := time.Date(2025, 8, 4, 23, 59, 0, 0, time.UTC)
	martes := time.Date(2025, 8, 5, 0, 1, 0, 0, time.UTC)

	n1, err := gen.NextSaleNumber(lunes)
	require.NoError(t, err)
	n2, err := gen.NextSaleNumber(martes)
	require.NoError(t, err)

	assert.Equal(t, "INV-20250804-0001", n1)
	assert.Equal(t, "INV-20250805-0001", n2, "el día nuevo arranca en 1")
}

// Prefijos distintos no comparten contador aunque sea el mismo día.
func TestGenerator_PrefijosIndependientes(t *testing.T) {
	gen := numbering.NewGenerator(newFakeSequenceRepo())
	day := time.Date(2025, 8, 4, 12, 0, 0, 0, time.UTC)

	_, err := gen.NextSaleNumber(day)
	require.NoError(t, err)
	po, err := gen.NextPurchaseNumber(day)
	require.NoError(t, err)

	assert.Equal(t, "PO-20250804-0001", po, "PO no hereda el consecutivo de INV")
}
