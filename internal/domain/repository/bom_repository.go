package repository

import "github.com/jhoicas/taller-api/internal/domain/entity"

// BOMRepository define el puerto de persistencia para BillOfMaterial.
type BOMRepository interface {
	Create(bom *entity.BillOfMaterial) error
	GetByID(id string) (*entity.BillOfMaterial, error)
	GetByProduct(productID string) (*entity.BillOfMaterial, error)
	Update(bom *entity.BillOfMaterial) error
	List(limit, offset int) ([]*entity.BillOfMaterial, error)
	Delete(id string) error
}
