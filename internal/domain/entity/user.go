package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleOperario   = "operario"
)

// User representa un usuario del sistema: el "actor" que firma asientos del
// libro de inventario y transiciones de órdenes de trabajo.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, supervisor, operario
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
