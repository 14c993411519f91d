package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMComponent es una línea de la lista de materiales: producto componente y
// cantidad requerida por unidad del producto final.
type BOMComponent struct {
	ProductID string
	Quantity  decimal.Decimal
}

// BillOfMaterial define la receta de materiales de un producto terminado.
type BillOfMaterial struct {
	ID         string
	ProductID  string // producto terminado
	Name       string
	Version    string
	Components []BOMComponent
	IsActive   bool
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
