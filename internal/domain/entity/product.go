package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypeFinished    = "finished"
	ProductTypeRawMaterial = "raw_material"
	ProductTypeComponent   = "component"
)

// Product representa un producto o SKU del maestro de materiales.
// StockQuantity es una caché materializada del libro de inventario: solo la
// muta el motor de asientos (ledger) dentro de la misma transacción que
// persiste el asiento. El resto de atributos se mantienen por el CRUD de
// datos maestros.
type Product struct {
	ID            string
	Code          string // código único
	Name          string
	Description   string
	Unit          string // pieces, kg, m, l...
	Type          string // finished, raw_material, component
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	StockQuantity decimal.Decimal // balance actual, derivado del ledger
	MinStockLevel decimal.Decimal
	IsActive      bool
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
