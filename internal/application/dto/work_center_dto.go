package dto

import "time"

// CreateWorkCenterRequest entrada para crear un centro de trabajo.
type CreateWorkCenterRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Location    string  `json:"location,omitempty"`
	CostPerHour float64 `json:"cost_per_hour,omitempty"`
	Capacity    int     `json:"capacity,omitempty"`
}

// ToggleStatusRequest entrada del toggle manual de estado de un centro.
// Solo se admite idle <-> maintenance con el centro desocupado; la ocupación
// la gobierna en exclusiva la máquina de estados de órdenes.
type ToggleStatusRequest struct {
	Status string `json:"status"`
}

// WorkCenterResponse centro de trabajo en respuestas (y en el payload del
// evento shopfloor_update).
type WorkCenterResponse struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Location         string    `json:"location,omitempty"`
	CostPerHour      float64   `json:"cost_per_hour"`
	Capacity         int       `json:"capacity"`
	Status           string    `json:"status"`
	CurrentWorkOrder *string   `json:"current_work_order,omitempty"`
	AssignedOperator *string   `json:"assigned_operator,omitempty"`
	Utilization      float64   `json:"utilization"`
	QRCode           string    `json:"qr_code"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ShopFloorItemResponse vista en vivo del taller: centro + orden en curso.
// DisplayStatus es el estado derivado: el de la orden que ocupa el centro, o
// el estado almacenado si está libre.
type ShopFloorItemResponse struct {
	WorkCenter    WorkCenterResponse `json:"work_center"`
	CurrentOrder  *WorkOrderResponse `json:"current_order,omitempty"`
	DisplayStatus string             `json:"display_status"`
}
