package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateManufacturingOrderRequest entrada para crear una orden de manufactura
// y generar sus órdenes de trabajo secuenciadas, una por centro indicado.
type CreateManufacturingOrderRequest struct {
	ProductID     string   `json:"product_id"`
	Quantity      int      `json:"quantity"`
	WorkCenterIDs []string `json:"work_center_ids"`
}

// ManufacturingOrderResponse orden de manufactura en respuestas.
type ManufacturingOrderResponse struct {
	ID          string     `json:"id"`
	OrderNumber string     `json:"order_number"`
	ProductID   string     `json:"product_id"`
	Quantity    int        `json:"quantity"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BOMComponentDTO línea de lista de materiales.
type BOMComponentDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateBOMRequest entrada para crear una lista de materiales.
type CreateBOMRequest struct {
	ProductID  string            `json:"product_id"`
	Name       string            `json:"name"`
	Version    string            `json:"version,omitempty"`
	Components []BOMComponentDTO `json:"components"`
}

// UpdateBOMRequest campos opcionales a actualizar de una BOM.
type UpdateBOMRequest struct {
	Name       *string           `json:"name,omitempty"`
	Version    *string           `json:"version,omitempty"`
	Components []BOMComponentDTO `json:"components,omitempty"`
	IsActive   *bool             `json:"is_active,omitempty"`
}

// BOMResponse lista de materiales en respuestas.
type BOMResponse struct {
	ID         string            `json:"id"`
	ProductID  string            `json:"product_id"`
	Name       string            `json:"name"`
	Version    string            `json:"version"`
	Components []BOMComponentDTO `json:"components"`
	IsActive   bool              `json:"is_active"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
