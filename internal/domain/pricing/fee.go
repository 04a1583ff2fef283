package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
)

// CalculateFee calcula la comisión de un medio de pago sobre un monto.
// Los dos componentes son aditivos e independientes:
// fee = monto × fee_percentage/100 (si > 0) + fee_amount (si > 0).
func CalculateFee(method *entity.PaymentMethod, amount decimal.Decimal) decimal.Decimal {
	if method == nil {
		return decimal.Zero
	}
	fee := decimal.Zero
	if method.FeePercentage.GreaterThan(decimal.Zero) {
		fee = fee.Add(amount.Mul(method.FeePercentage).Div(cien))
	}
	if method.FeeAmount.GreaterThan(decimal.Zero) {
		fee = fee.Add(method.FeeAmount)
	}
	return round2(fee)
}
