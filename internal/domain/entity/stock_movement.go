package entity

import "time"

// Tipos de movimiento de inventario (value object conceptual).
const (
	MovementTypeIn         = "in"         // entrada (recepción de compra)
	MovementTypeOut        = "out"        // salida (venta)
	MovementTypeAdjustment = "adjustment" // ajuste manual
	MovementTypeReturn     = "return"     // reversa de venta (asiento compensatorio)
	MovementTypeDamage     = "damage"     // baja por daño o pérdida
	MovementTypeInitial    = "initial"    // carga inicial de inventario
)

// RefType identifica el documento de negocio que originó un movimiento.
type RefType string

const (
	RefTypeNone             RefType = ""
	RefTypeSale             RefType = "sale"
	RefTypePurchase         RefType = "purchase"
	RefTypeManualAdjustment RefType = "manual_adjustment"
	RefTypeSaleCancellation RefType = "sale_cancellation"
)

// MovementRef es la referencia tipada al origen del movimiento. Se construye
// solo con los constructores de abajo; los consumidores hacen switch sobre
// Type de forma exhaustiva en lugar de comparar strings sueltos.
type MovementRef struct {
	Type RefType
	ID   string
}

// RefNone movimiento sin documento de origen (ej: carga inicial).
func RefNone() MovementRef { return MovementRef{} }

// RefSale referencia a la venta que descontó stock.
func RefSale(saleID string) MovementRef {
	return MovementRef{Type: RefTypeSale, ID: saleID}
}

// RefPurchase referencia a la compra recibida que sumó stock.
func RefPurchase(purchaseID string) MovementRef {
	return MovementRef{Type: RefTypePurchase, ID: purchaseID}
}

// RefManualAdjustment referencia a un ajuste manual.
func RefManualAdjustment(adjustmentID string) MovementRef {
	return MovementRef{Type: RefTypeManualAdjustment, ID: adjustmentID}
}

// RefSaleCancellation referencia a la anulación que repuso stock de una venta.
func RefSaleCancellation(saleID string) MovementRef {
	return MovementRef{Type: RefTypeSaleCancellation, ID: saleID}
}

// StockMovement es un asiento inmutable del libro de inventario: registra el
// delta aplicado y el snapshot antes/después del contador. Nunca se actualiza
// ni se borra una vez escrito; es la pista de auditoría.
// Invariante: StockAfter == StockBefore + Quantity.
type StockMovement struct {
	ID          string
	ProductID   string
	Quantity    int64 // delta con signo: positivo entra, negativo sale
	Type        string
	StockBefore int64
	StockAfter  int64
	Ref         MovementRef
	Notes       string
	CreatedBy   string // UserID del actor, para auditoría
	CreatedAt   time.Time
}
