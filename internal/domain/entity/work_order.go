package entity

import "time"

// Estados del ciclo de vida de una orden de trabajo.
// completed y cancelled son terminales. delayed solo se alcanza reportando
// una incidencia; la única salida definida de delayed es cancelled.
const (
	WorkOrderPlanned   = "planned"
	WorkOrderStarted   = "started"
	WorkOrderPaused    = "paused"
	WorkOrderCompleted = "completed"
	WorkOrderCancelled = "cancelled"
	WorkOrderDelayed   = "delayed"
)

// Prioridades de una orden de trabajo.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// TimeTracking es un registro de auditoría append-only de cada transición de
// estado de la orden.
type TimeTracking struct {
	ID          string
	WorkOrderID string
	FromStatus  string
	ToStatus    string
	Operator    string
	Comment     string
	Timestamp   time.Time
}

// Issue es una incidencia reportada sobre una orden de trabajo.
type Issue struct {
	ID          string
	WorkOrderID string
	Description string
	ReportedBy  string
	ReportedAt  time.Time
	Resolved    bool
}

// WorkOrder representa una operación de manufactura ejecutada en un centro de
// trabajo. El status solo cambia vía la máquina de estados; los campos de
// ejecución (actualStartTime, actualEndTime, progress) los fija la propia
// transición.
type WorkOrder struct {
	ID                   string
	WorkOrderNumber      string // WO-<año>-NNN, secuencia por año calendario
	ManufacturingOrderID string // opcional
	WorkCenterID         string
	Operation            string
	Sequence             int
	Status               string
	Priority             string
	EstimatedDuration    int // minutos
	ActualDuration       int // minutos, calculado al completar
	StartDate            *time.Time
	EndDate              *time.Time
	ActualStartTime      *time.Time
	ActualEndTime        *time.Time
	AssignedTo           string // operario
	Progress             int    // 0-100
	QRCode               string
	Issues               []Issue
	TimeTracking         []TimeTracking
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsTerminal indica si la orden está en un estado terminal.
func (w *WorkOrder) IsTerminal() bool {
	return w.Status == WorkOrderCompleted || w.Status == WorkOrderCancelled
}
