package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppendEntryRequest entrada para registrar un asiento en el libro de
// inventario. Quantity es magnitud para type in/out y balance objetivo
// absoluto para type adjustment (el caso de uso lo convierte a la variante
// etiquetada correspondiente).
type AppendEntryRequest struct {
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"` // in | out | adjustment
	Quantity      decimal.Decimal `json:"quantity"`
	Reference     string          `json:"reference,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// LedgerEntryResponse asiento del libro en respuestas.
type LedgerEntryResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Kind             string          `json:"kind"`
	Delta            decimal.Decimal `json:"delta"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	Reference        string          `json:"reference,omitempty"`
	ReferenceType    string          `json:"reference_type,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ListLedgerRequest filtros de consulta del libro (query params).
type ListLedgerRequest struct {
	ProductID string `query:"product_id"`
	Type      string `query:"type"`
	StartDate string `query:"start_date"` // RFC 3339 o YYYY-MM-DD
	EndDate   string `query:"end_date"`
	PageRequest
}

// CurrentStockResponse proyección balance + umbral por producto.
type CurrentStockResponse struct {
	ProductID     string          `json:"product_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	BelowMinimum  bool            `json:"below_minimum"`
}
