package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OpenShiftRequest body para POST /api/shifts/open.
type OpenShiftRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Notes          string          `json:"notes,omitempty"`
}

// CloseShiftRequest body para POST /api/shifts/:id/close.
// ActualCash es el efectivo contado físicamente en el cajón.
type CloseShiftRequest struct {
	ActualCash decimal.Decimal `json:"actual_cash"`
	Notes      string          `json:"notes,omitempty"`
}

// ShiftResponse salida de un turno de caja.
type ShiftResponse struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	ShiftNumber      string          `json:"shift_number"`
	Status           string          `json:"status"`
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	ExpectedCash     decimal.Decimal `json:"expected_cash"`
	ActualCash       decimal.Decimal `json:"actual_cash"`
	CashDifference   decimal.Decimal `json:"cash_difference"`
	Balanced         bool            `json:"balanced"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCashSales   decimal.Decimal `json:"total_cash_sales"`
	TotalRefunds     decimal.Decimal `json:"total_refunds"`
	PaymentTotals    json.RawMessage `json:"payment_totals,omitempty"`
	TransactionCount int             `json:"transaction_count"`
	Notes            string          `json:"notes,omitempty"`
	OpenedAt         time.Time       `json:"opened_at"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
}
