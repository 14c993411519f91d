package repository

import "github.com/jhoicas/taller-api/internal/domain/entity"

// WorkOrderFilter filtros de listado de órdenes de trabajo.
type WorkOrderFilter struct {
	Status       string
	WorkCenterID string
	Priority     string
	AssignedTo   string
	Limit        int
	Offset       int
}

// WorkOrderRepository define el puerto de persistencia para WorkOrder.
// GetByID y List cargan la orden con su time tracking e incidencias.
// NextSequence entrega el consecutivo por año calendario para numerar
// WO-<año>-NNN; debe invocarse dentro de la transacción de creación.
type WorkOrderRepository interface {
	Create(order *entity.WorkOrder) error
	GetByID(id string) (*entity.WorkOrder, error)
	GetForUpdate(id string) (*entity.WorkOrder, error)
	Update(order *entity.WorkOrder) error
	List(filter WorkOrderFilter) ([]*entity.WorkOrder, error)
	ListByManufacturingOrder(manufacturingOrderID string) ([]*entity.WorkOrder, error)
	FindActiveByWorkCenter(workCenterID string) (*entity.WorkOrder, error)
	AppendTimeTracking(tt *entity.TimeTracking) error
	AppendIssue(issue *entity.Issue) error
	NextSequence(year int) (int, error)
}
