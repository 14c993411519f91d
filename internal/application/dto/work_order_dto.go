package dto

import "time"

// CreateWorkOrderRequest entrada para crear una orden de trabajo (nace planned).
type CreateWorkOrderRequest struct {
	WorkCenterID         string     `json:"work_center_id"`
	ManufacturingOrderID string     `json:"manufacturing_order_id,omitempty"`
	Operation            string     `json:"operation"`
	Sequence             int        `json:"sequence,omitempty"`
	Priority             string     `json:"priority,omitempty"` // low|medium|high|urgent, default medium
	EstimatedDuration    int        `json:"estimated_duration,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	AssignedTo           string     `json:"assigned_to,omitempty"`
}

// TransitionRequest entrada para cambiar el estado de una orden.
type TransitionRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}

// AssignRequest entrada para asignar un operario sin cambiar el estado.
type AssignRequest struct {
	OperatorID string `json:"operator_id"`
}

// ReportIssueRequest entrada para reportar una incidencia (pasa la orden a delayed).
type ReportIssueRequest struct {
	Description string `json:"description"`
}

// TimeTrackingResponse registro de auditoría de una transición.
type TimeTrackingResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Operator   string    `json:"operator"`
	Comment    string    `json:"comment,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// IssueResponse incidencia reportada sobre una orden.
type IssueResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	ReportedBy  string    `json:"reported_by"`
	ReportedAt  time.Time `json:"reported_at"`
	Resolved    bool      `json:"resolved"`
}

// WorkOrderResponse orden de trabajo completa en respuestas (y en el payload
// del evento workorder_updated).
type WorkOrderResponse struct {
	ID                   string                 `json:"id"`
	WorkOrderNumber      string                 `json:"work_order_number"`
	ManufacturingOrderID string                 `json:"manufacturing_order_id,omitempty"`
	WorkCenterID         string                 `json:"work_center_id"`
	Operation            string                 `json:"operation"`
	Sequence             int                    `json:"sequence"`
	Status               string                 `json:"status"`
	Priority             string                 `json:"priority"`
	EstimatedDuration    int                    `json:"estimated_duration"`
	ActualDuration       int                    `json:"actual_duration"`
	StartDate            *time.Time             `json:"start_date,omitempty"`
	EndDate              *time.Time             `json:"end_date,omitempty"`
	ActualStartTime      *time.Time             `json:"actual_start_time,omitempty"`
	ActualEndTime        *time.Time             `json:"actual_end_time,omitempty"`
	AssignedTo           string                 `json:"assigned_to,omitempty"`
	Progress             int                    `json:"progress"`
	QRCode               string                 `json:"qr_code,omitempty"`
	Issues               []IssueResponse        `json:"issues"`
	TimeTracking         []TimeTrackingResponse `json:"time_tracking"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// ListWorkOrdersRequest filtros de listado (query params).
type ListWorkOrdersRequest struct {
	Status       string `query:"status"`
	WorkCenterID string `query:"work_center"`
	Priority     string `query:"priority"`
	PageRequest
}
