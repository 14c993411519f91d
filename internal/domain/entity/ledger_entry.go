package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento del libro de inventario.
const (
	LedgerKindInbound     = "in"         // entrada: suma al balance
	LedgerKindOutbound    = "out"        // salida: resta del balance
	LedgerKindSetAbsolute = "adjustment" // fija el balance a un valor absoluto
)

// Tipos de referencia de un asiento (qué proceso lo originó).
const (
	ReferenceManufacturingOrder = "manufacturing_order"
	ReferenceWorkOrder          = "work_order"
	ReferenceAdjustment         = "adjustment"
	ReferenceInitial            = "initial"
)

// LedgerEntry es un asiento inmutable del libro de inventario: registra un
// cambio de stock y el balance resultante. Nunca se actualiza ni se borra;
// una corrección es siempre un asiento nuevo que compensa al anterior.
type LedgerEntry struct {
	ID               string
	ProductID        string
	Kind             string          // in, out, adjustment
	Delta            decimal.Decimal // cambio con signo aplicado al balance
	ResultingBalance decimal.Decimal // snapshot del balance tras aplicar Delta
	Reference        string          // número de MO/WO u otro vínculo libre
	ReferenceType    string
	Notes            string
	CreatedBy        string
	CreatedAt        time.Time
}
