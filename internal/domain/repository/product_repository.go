package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate bloquea la fila del producto: es la sección crítica
// por-producto del motor de asientos. UpdateStock solo debe invocarse dentro
// de la misma transacción que persiste el asiento correspondiente.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, quantity decimal.Decimal) error
	List(onlyActive bool, limit, offset int) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
