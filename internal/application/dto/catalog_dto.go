package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// CustomerResponse salida de un cliente con sus agregados.
type CustomerResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone,omitempty"`
	Email      string          `json:"email,omitempty"`
	Address    string          `json:"address,omitempty"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	VisitCount int             `json:"visit_count"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TaxRuleRequest entrada para crear/actualizar una regla de impuesto.
type TaxRuleRequest struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Inclusive bool            `json:"inclusive"`
	Active    bool            `json:"active"`
}

// TaxRuleResponse salida de una regla de impuesto.
type TaxRuleResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	Inclusive bool            `json:"inclusive"`
	Active    bool            `json:"active"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

// PaymentMethodRequest entrada para crear/actualizar un medio de pago.
type PaymentMethodRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	FeeAmount     decimal.Decimal `json:"fee_amount"`
	Active        bool            `json:"active"`
	SortOrder     int             `json:"sort_order"`
}

// PaymentMethodResponse salida de un medio de pago.
type PaymentMethodResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	FeeAmount     decimal.Decimal `json:"fee_amount"`
	Active        bool            `json:"active"`
	SortOrder     int             `json:"sort_order"`
}
