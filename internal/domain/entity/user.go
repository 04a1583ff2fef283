package entity

import "time"

// Roles de la aplicación. El middleware RBAC decide con el rol del JWT sin
// consultar la DB.
const (
	RoleAdmin     = "admin"
	RoleCajero    = "cajero"    // puede vender y manejar su turno de caja
	RoleBodeguero = "bodeguero" // puede recibir compras y ajustar inventario
)

// User es un usuario del sistema (actor para auditoría).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
