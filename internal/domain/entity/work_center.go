package entity

import "time"

// Estados de un centro de trabajo.
// active lo fija la máquina de estados al ocupar el centro; idle al
// liberarlo; maintenance solo se alcanza con el toggle manual y nunca con
// una orden ocupando el centro.
const (
	WorkCenterIdle        = "idle"
	WorkCenterActive      = "active"
	WorkCenterMaintenance = "maintenance"
)

// WorkCenter representa una estación física del taller. Los campos de
// ocupación (CurrentWorkOrder, AssignedOperator) los muta exclusivamente la
// máquina de estados de órdenes de trabajo.
type WorkCenter struct {
	ID               string
	Code             string // código único
	Name             string
	Location         string
	CostPerHour      float64
	Capacity         int
	Status           string
	CurrentWorkOrder *string // ID de la orden started que lo ocupa
	AssignedOperator *string
	Utilization      float64
	QRCode           string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Occupied indica si el centro tiene una orden asignada.
func (w *WorkCenter) Occupied() bool {
	return w.CurrentWorkOrder != nil && *w.CurrentWorkOrder != ""
}
