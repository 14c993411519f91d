package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto del maestro.
// El stock inicial no se fija aquí: se registra con un asiento "in" o
// "adjustment" de referencia initial en el libro de inventario.
type CreateProductRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Unit          string          `json:"unit,omitempty"` // default pieces
	Type          string          `json:"type,omitempty"` // finished|raw_material|component
	CostPrice     decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice  decimal.Decimal `json:"selling_price,omitempty"`
	MinStockLevel decimal.Decimal `json:"min_stock_level,omitempty"`
}

// UpdateProductRequest campos opcionales a actualizar. StockQuantity no es
// actualizable por aquí bajo ninguna circunstancia.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	Type          *string          `json:"type,omitempty"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	MinStockLevel *decimal.Decimal `json:"min_stock_level,omitempty"`
	IsActive      *bool            `json:"is_active,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Unit          string          `json:"unit"`
	Type          string          `json:"type"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
