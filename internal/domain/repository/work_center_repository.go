package repository

import "github.com/jhoicas/taller-api/internal/domain/entity"

// WorkCenterRepository define el puerto de persistencia para WorkCenter.
// GetForUpdate bloquea la fila del centro: es la sección crítica
// por-centro de la transición -> started (evita doble ocupación).
type WorkCenterRepository interface {
	Create(wc *entity.WorkCenter) error
	GetByID(id string) (*entity.WorkCenter, error)
	GetByCode(code string) (*entity.WorkCenter, error)
	GetByQRCode(qrCode string) (*entity.WorkCenter, error)
	GetForUpdate(id string) (*entity.WorkCenter, error)
	Update(wc *entity.WorkCenter) error
	List() ([]*entity.WorkCenter, error)
}
