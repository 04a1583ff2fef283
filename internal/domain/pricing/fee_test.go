package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/pos-pro/internal/domain/entity"
	"github.com/tu-usuario/pos-pro/internal/domain/pricing"
)

func metodo(pct, fijo float64) *entity.PaymentMethod {
	return &entity.PaymentMethod{
		Code:          "card",
		FeePercentage: decimal.NewFromFloat(pct),
		FeeAmount:     decimal.NewFromFloat(fijo),
		Active:        true,
	}
}

func TestCalculateFee(t *testing.T) {
	cases := []struct {
		name     string
		method   *entity.PaymentMethod
		amount   int64
		expected string
	}{
		{"solo porcentaje: 2.5% de 100000", metodo(2.5, 0), 100000, "2500.00"},
		{"solo fijo: 6500 sin importar el monto", metodo(0, 6500), 37, "6500.00"},
		{"porcentaje y fijo son aditivos", metodo(2.5, 6500), 100000, "9000.00"},
		{"sin comisión", metodo(0, 0), 100000, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fee := pricing.CalculateFee(tc.method, decimal.NewFromInt(tc.amount))
			assert.Equal(t, tc.expected, fee.StringFixed(2))
		})
	}
}

func TestCalculateFee_SinMetodo(t *testing.T) {
	assert.True(t, pricing.CalculateFee(nil, decimal.NewFromInt(1000)).IsZero())
}
