package workorder

import "github.com/jhoicas/taller-api/internal/domain/entity"

// Tabla de transiciones permitidas de la máquina de estados.
// delayed no aparece como destino: solo se alcanza reportando una incidencia
// (ReportIssue); su única salida definida es cancelled.
var allowedTransitions = map[string]map[string]bool{
	entity.WorkOrderPlanned: {
		entity.WorkOrderStarted:   true,
		entity.WorkOrderCancelled: true,
	},
	entity.WorkOrderStarted: {
		entity.WorkOrderPaused:    true,
		entity.WorkOrderCompleted: true,
		entity.WorkOrderCancelled: true,
	},
	entity.WorkOrderPaused: {
		entity.WorkOrderStarted:   true,
		entity.WorkOrderCompleted: true,
		entity.WorkOrderCancelled: true,
	},
	entity.WorkOrderDelayed: {
		entity.WorkOrderCancelled: true,
	},
	entity.WorkOrderCompleted: {},
	entity.WorkOrderCancelled: {},
}

// CanTransition indica si la arista from -> to existe en la tabla.
func CanTransition(from, to string) bool {
	targets, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// ValidStatus indica si s es un estado conocido de orden de trabajo.
func ValidStatus(s string) bool {
	switch s {
	case entity.WorkOrderPlanned, entity.WorkOrderStarted, entity.WorkOrderPaused,
		entity.WorkOrderCompleted, entity.WorkOrderCancelled, entity.WorkOrderDelayed:
		return true
	}
	return false
}
