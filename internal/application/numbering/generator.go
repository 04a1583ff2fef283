package numbering

import (
	"fmt"
	"time"

	"github.com/tu-usuario/pos-pro/internal/domain/repository"
)

// Prefijos y anchos de los números de documento.
const (
	PrefixSale     = "INV" // INV-20250804-0007
	PrefixPurchase = "PO"  // PO-20250804-0001
	PrefixShift    = "SH"  // SH-20250804-001

	widthSale     = 4
	widthPurchase = 4
	widthShift    = 3
)

// Generator produce números de documento legibles, con alcance diario:
// <PREFIJO>-<YYYYMMDD>-<consecutivo>. El consecutivo sale de un contador
// atómico por (prefijo, día) en el storage — no del "último registro de hoy"
// — así dos transacciones concurrentes nunca calculan el mismo número.
type Generator struct {
	seqRepo repository.SequenceRepository
}

// NewGenerator construye el generador.
func NewGenerator(seqRepo repository.SequenceRepository) *Generator {
	return &Generator{seqRepo: seqRepo}
}

func (g *Generator) next(prefix string, day time.Time, width int) (string, error) {
	seq, err := g.seqRepo.Next(prefix, day)
	if err != nil {
		return "", fmt.Errorf("siguiente consecutivo %s: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%s-%0*d", prefix, day.Format("20060102"), width, seq), nil
}

// NextSaleNumber número de factura de venta del día.
func (g *Generator) NextSaleNumber(day time.Time) (string, error) {
	return g.next(PrefixSale, day, widthSale)
}

// NextPurchaseNumber número de orden de compra del día.
func (g *Generator) NextPurchaseNumber(day time.Time) (string, error) {
	return g.next(PrefixPurchase, day, widthPurchase)
}

// NextShiftNumber número de turno de caja del día.
func (g *Generator) NextShiftNumber(day time.Time) (string, error) {
	return g.next(PrefixShift, day, widthShift)
}
