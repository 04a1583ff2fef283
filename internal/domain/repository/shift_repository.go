package repository

import "github.com/tu-usuario/pos-pro/internal/domain/entity"

// ShiftRepository define el puerto de persistencia para turnos de caja.
type ShiftRepository interface {
	Create(shift *entity.CashRegisterShift) error
	GetByID(id string) (*entity.CashRegisterShift, error)
	// GetForUpdate bloquea la fila del turno (SELECT FOR UPDATE) para
	// serializar el cierre; solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.CashRegisterShift, error)
	// GetOpenByUser devuelve el turno abierto del cajero, o nil si no hay.
	GetOpenByUser(userID string) (*entity.CashRegisterShift, error)
	// Update persiste los campos de cierre (status, totales, diferencia, closed_at).
	Update(shift *entity.CashRegisterShift) error
	List(limit int) ([]*entity.CashRegisterShift, error)
}
