package entity

import "time"

// Estados de una orden de manufactura (agregado de sus órdenes de trabajo).
const (
	ManufacturingPlanned    = "planned"
	ManufacturingInProgress = "in_progress"
	ManufacturingDone       = "done"
	ManufacturingCancelled  = "cancelled"
)

// ManufacturingOrder agrupa las órdenes de trabajo de la producción de un
// producto. Su progreso es el porcentaje de órdenes de trabajo completadas.
type ManufacturingOrder struct {
	ID          string
	OrderNumber string // MO-<año>-NNN
	ProductID   string
	Quantity    int
	Status      string
	Progress    int // 0-100, derivado de las work orders
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
