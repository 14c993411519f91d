package repository

import (
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// LedgerFilter filtros de consulta del libro de inventario.
type LedgerFilter struct {
	ProductID string
	Kind      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// LedgerEntryRepository define el puerto de persistencia del libro de
// inventario. Solo inserta y consulta: los asientos son inmutables por
// diseño del dominio, no existe Update ni Delete.
type LedgerEntryRepository interface {
	Create(entry *entity.LedgerEntry) error
	List(filter LedgerFilter) ([]*entity.LedgerEntry, error)
	ListByProduct(productID string) ([]*entity.LedgerEntry, error)
}
