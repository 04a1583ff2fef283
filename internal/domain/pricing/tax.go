package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

var cien = decimal.NewFromInt(100)

// round2 redondea a 2 decimales con half-up. La misma política se aplica en
// impuestos y comisiones; si se mezclan políticas los totales no cuadran
// contra la suma de sus componentes.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CalculateTax calcula el impuesto de un monto según la regla (servicio de dominio).
// Regla inactiva o tasa <= 0 → 0.
// Inclusive: el impuesto ya viene embebido → monto − monto/(1+tasa/100).
// Exclusive: se suma encima → monto × tasa/100.
func CalculateTax(rule *entity.TaxRule, amount decimal.Decimal) decimal.Decimal {
	if rule == nil || !rule.Active || rule.Rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(1).Add(rule.Rate.Div(cien))
	if rule.Inclusive {
		return round2(amount.Sub(amount.Div(factor)))
	}
	return round2(amount.Mul(rule.Rate).Div(cien))
}

// CalculateAmountWithTax devuelve el monto final con impuesto.
// Inclusive: el monto base ya lo incluye, se devuelve igual.
// Exclusive: base × (1+tasa/100).
func CalculateAmountWithTax(rule *entity.TaxRule, baseAmount decimal.Decimal) decimal.Decimal {
	if rule == nil || !rule.Active || rule.Rate.LessThanOrEqual(decimal.Zero) || rule.Inclusive {
		return baseAmount
	}
	factor := decimal.NewFromInt(1).Add(rule.Rate.Div(cien))
	return round2(baseAmount.Mul(factor))
}
