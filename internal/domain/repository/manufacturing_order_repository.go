package repository

import "github.com/jhoicas/taller-api/internal/domain/entity"

// ManufacturingOrderRepository define el puerto de persistencia para
// ManufacturingOrder. NextSequence numera MO-<año>-NNN por año calendario.
type ManufacturingOrderRepository interface {
	Create(mo *entity.ManufacturingOrder) error
	GetByID(id string) (*entity.ManufacturingOrder, error)
	Update(mo *entity.ManufacturingOrder) error
	List(status string, limit, offset int) ([]*entity.ManufacturingOrder, error)
	NextSequence(year int) (int, error)
}
