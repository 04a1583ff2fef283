package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/pricing"
)

func regla(rate float64, inclusive, active bool) *entity.TaxRule {
	return &entity.TaxRule{
		Code:      "IVA",
		Rate:      decimal.NewFromFloat(rate),
		Inclusive: inclusive,
		Active:    active,
	}
}

// Vector de referencia: tasa 10% exclusiva sobre 100 → impuesto 10.00 y
// monto con impuesto 110.00.
func TestCalculateTax_Exclusivo(t *testing.T) {
	r := regla(10, false, true)
	amount := decimal.NewFromInt(100)

	tax := pricing.CalculateTax(r, amount)
	conImpuesto := pricing.CalculateAmountWithTax(r, amount)

	assert.True(t, tax.Equal(decimal.NewFromInt(10)), "impuesto esperado 10.00, obtuvo %s", tax)
	assert.True(t, conImpuesto.Equal(decimal.NewFromInt(110)), "monto con impuesto esperado 110.00, obtuvo %s", conImpuesto)
}

// Tasa 10% inclusiva sobre 110 → el impuesto embebido es 10.00 y el monto
// con impuesto es el mismo 110 (ya lo incluye).
func TestCalculateTax_Inclusivo(t *testing.T) {
	r := regla(10, true, true)
	amount := decimal.NewFromInt(110)

	tax := pricing.CalculateTax(r, amount)
	conImpuesto := pricing.CalculateAmountWithTax(r, amount)

	assert.True(t, tax.Equal(decimal.NewFromInt(10)), "impuesto embebido esperado 10.00, obtuvo %s", tax)
	assert.True(t, conImpuesto.Equal(amount), "inclusivo no modifica el monto")
}

// Regla inactiva o tasa cero no genera impuesto.
func TestCalculateTax_InactivaOTasaCero(t *testing.T) {
	amount := decimal.NewFromInt(100)

	assert.True(t, pricing.CalculateTax(regla(19, false, false), amount).IsZero(), "regla inactiva → 0")
	assert.True(t, pricing.CalculateTax(regla(0, false, true), amount).IsZero(), "tasa 0 → 0")
	assert.True(t, pricing.CalculateTax(nil, amount).IsZero(), "sin regla → 0")
}

// Redondeo half-up a 2 decimales: 19% sobre 333 = 63.27.
func TestCalculateTax_RedondeoHalfUp(t *testing.T) {
	r := regla(19, false, true)
	tax := pricing.CalculateTax(r, decimal.NewFromInt(333))
	assert.Equal(t, "63.27", tax.StringFixed(2))

	// Caso .005 exacto: 0.5% sobre 101 = 0.505 → 0.51
	r2 := regla(0.5, false, true)
	tax2 := pricing.CalculateTax(r2, decimal.NewFromInt(101))
	assert.Equal(t, "0.51", tax2.StringFixed(2))
}

// IVA colombiano 19% inclusivo: de 119000 el impuesto embebido es 19000.00.
func TestCalculateTax_InclusivoIVA19(t *testing.T) {
	r := regla(19, true, true)
	tax := pricing.CalculateTax(r, decimal.NewFromInt(119000))
	assert.Equal(t, "19000.00", tax.StringFixed(2))
}
