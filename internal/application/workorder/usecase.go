package workorder

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/events"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// UseCase implementa la máquina de estados de órdenes de trabajo: crea
// órdenes numeradas por año, ejecuta transiciones sincronizadas con la
// ocupación del centro de trabajo, reporta incidencias y asigna operarios.
type UseCase struct {
	txRunner    TxRunner
	orderRepo   repository.WorkOrderRepository
	centerRepo  repository.WorkCenterRepository
	broadcaster events.Broadcaster
	progress    ProgressRecalculator // opcional
}

// NewUseCase construye el caso de uso. orderRepo y centerRepo se usan solo
// para consultas fuera de transacción. progress puede ser nil.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.WorkOrderRepository,
	centerRepo repository.WorkCenterRepository,
	broadcaster events.Broadcaster,
	progress ProgressRecalculator,
) *UseCase {
	if broadcaster == nil {
		broadcaster = events.Nop{}
	}
	return &UseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		centerRepo:  centerRepo,
		broadcaster: broadcaster,
		progress:    progress,
	}
}

// Create crea una orden en estado planned con número WO-<año>-NNN tomado de
// la secuencia por año calendario, dentro de una transacción.
func (uc *UseCase) Create(ctx context.Context, actor string, in dto.CreateWorkOrderRequest) (*dto.WorkOrderResponse, error) {
	if in.WorkCenterID == "" || in.Operation == "" {
		return nil, domain.ErrInvalidInput
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	switch priority {
	case entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh, entity.PriorityUrgent:
	default:
		return nil, domain.ErrInvalidInput
	}
	center, err := uc.centerRepo.GetByID(in.WorkCenterID)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	sequence := in.Sequence
	if sequence <= 0 {
		sequence = 1
	}
	var created *entity.WorkOrder
	err = uc.txRunner.Run(ctx, func(
		orderRepo repository.WorkOrderRepository,
		_ repository.WorkCenterRepository,
	) error {
		seq, err := orderRepo.NextSequence(now.Year())
		if err != nil {
			return err
		}
		number := fmt.Sprintf("WO-%d-%03d", now.Year(), seq)
		order := &entity.WorkOrder{
			ID:                   uuid.New().String(),
			WorkOrderNumber:      number,
			ManufacturingOrderID: in.ManufacturingOrderID,
			WorkCenterID:         in.WorkCenterID,
			Operation:            in.Operation,
			Sequence:             sequence,
			Status:               entity.WorkOrderPlanned,
			Priority:             priority,
			EstimatedDuration:    in.EstimatedDuration,
			StartDate:            in.StartDate,
			EndDate:              in.EndDate,
			AssignedTo:           in.AssignedTo,
			QRCode:               fmt.Sprintf("WO_%s_%d", number, now.Unix()),
			CreatedBy:            actor,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToWorkOrderResponse(created)
	uc.broadcaster.Publish(events.WorkOrderUpdated, resp)
	return resp, nil
}

// Transition ejecuta una arista de la máquina de estados. El destino delayed
// no es transicionable directamente: solo se alcanza con ReportIssue.
// Toda transición exitosa agrega un registro de time tracking y publica
// workorder_updated; las que tocan ocupación publican además shopfloor_update.
func (uc *UseCase) Transition(ctx context.Context, id, target, comment, actor string) (*dto.WorkOrderResponse, error) {
	if id == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if !ValidStatus(target) || target == entity.WorkOrderDelayed {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.WorkOrder
	var center *entity.WorkCenter

	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.WorkOrderRepository,
		centerRepo repository.WorkCenterRepository,
	) error {
		order, err := orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !CanTransition(order.Status, target) {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		from := order.Status

		switch target {
		case entity.WorkOrderStarted:
			// Sección crítica por centro: la fila queda bloqueada, dos
			// arranques concurrentes sobre el mismo centro se serializan aquí.
			wc, err := centerRepo.GetForUpdate(order.WorkCenterID)
			if err != nil {
				return err
			}
			if wc == nil {
				return domain.ErrNotFound
			}
			if wc.Occupied() && *wc.CurrentWorkOrder != order.ID {
				return domain.ErrWorkCenterBusy
			}
			if from == entity.WorkOrderPlanned {
				order.ActualStartTime = &now
				order.AssignedTo = actor
			}
			// Reanudar desde paused no reasigna operario
			order.Status = entity.WorkOrderStarted
			operator := order.AssignedTo
			wc.Status = entity.WorkCenterActive
			wc.CurrentWorkOrder = &order.ID
			wc.AssignedOperator = &operator
			wc.UpdatedAt = now
			if err := centerRepo.Update(wc); err != nil {
				return err
			}
			center = wc

		case entity.WorkOrderPaused:
			order.Status = entity.WorkOrderPaused

		case entity.WorkOrderCompleted:
			order.Status = entity.WorkOrderCompleted
			order.ActualEndTime = &now
			order.Progress = 100
			if order.ActualStartTime != nil {
				order.ActualDuration = int(math.Round(now.Sub(*order.ActualStartTime).Minutes()))
			}
			wc, err := centerRepo.GetForUpdate(order.WorkCenterID)
			if err != nil {
				return err
			}
			if wc != nil && wc.Occupied() && *wc.CurrentWorkOrder == order.ID {
				wc.Status = entity.WorkCenterIdle
				wc.CurrentWorkOrder = nil
				wc.AssignedOperator = nil
				wc.UpdatedAt = now
				if err := centerRepo.Update(wc); err != nil {
					return err
				}
				center = wc
			}

		case entity.WorkOrderCancelled:
			// La cancelación no libera el centro; el centro queda para
			// intervención manual (ver DESIGN.md)
			order.Status = entity.WorkOrderCancelled
		}

		order.UpdatedAt = now
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		tt := &entity.TimeTracking{
			ID:          uuid.New().String(),
			WorkOrderID: order.ID,
			FromStatus:  from,
			ToStatus:    target,
			Operator:    actor,
			Comment:     comment,
			Timestamp:   now,
		}
		if err := orderRepo.AppendTimeTracking(tt); err != nil {
			return err
		}
		order.TimeTracking = append(order.TimeTracking, *tt)
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToWorkOrderResponse(updated)
	uc.broadcaster.Publish(events.WorkOrderUpdated, resp)
	if center != nil {
		uc.broadcaster.Publish(events.ShopFloorUpdate, ToWorkCenterResponse(center))
	}
	if target == entity.WorkOrderCompleted && updated.ManufacturingOrderID != "" && uc.progress != nil {
		// Efecto posterior: nunca falla ni revierte la transición ya commiteada
		if err := uc.progress.Recalc(ctx, updated.ManufacturingOrderID); err != nil {
			log.Warn().Err(err).
				Str("manufacturing_order_id", updated.ManufacturingOrderID).
				Msg("recalcular progreso de orden de manufactura")
		}
	}
	return resp, nil
}

// ReportIssue reporta una incidencia sobre la orden: agrega el registro con
// resolved=false y pasa la orden a delayed. No toca la ocupación del centro.
func (uc *UseCase) ReportIssue(ctx context.Context, id, description, actor string) (*dto.WorkOrderResponse, error) {
	if id == "" || description == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.WorkOrderRepository,
		_ repository.WorkCenterRepository,
	) error {
		order, err := orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.IsTerminal() {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		from := order.Status
		issue := &entity.Issue{
			ID:          uuid.New().String(),
			WorkOrderID: order.ID,
			Description: description,
			ReportedBy:  actor,
			ReportedAt:  now,
			Resolved:    false,
		}
		if err := orderRepo.AppendIssue(issue); err != nil {
			return err
		}
		order.Issues = append(order.Issues, *issue)

		if from != entity.WorkOrderDelayed {
			order.Status = entity.WorkOrderDelayed
			order.UpdatedAt = now
			if err := orderRepo.Update(order); err != nil {
				return err
			}
			tt := &entity.TimeTracking{
				ID:          uuid.New().String(),
				WorkOrderID: order.ID,
				FromStatus:  from,
				ToStatus:    entity.WorkOrderDelayed,
				Operator:    actor,
				Comment:     description,
				Timestamp:   now,
			}
			if err := orderRepo.AppendTimeTracking(tt); err != nil {
				return err
			}
			order.TimeTracking = append(order.TimeTracking, *tt)
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := ToWorkOrderResponse(updated)
	uc.broadcaster.Publish(events.WorkOrderUpdated, resp)
	return resp, nil
}

// Assign fija el operario asignado sin cambiar el estado. Se admite en
// cualquier momento del ciclo de vida. Corre dentro de una transacción con la
// fila bloqueada: Update reescribe la cabecera completa, y una lectura sin
// lock podría pisar una transición concurrente con datos viejos.
func (uc *UseCase) Assign(ctx context.Context, id, operatorID string) (*dto.WorkOrderResponse, error) {
	if id == "" || operatorID == "" {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.WorkOrder
	err := uc.txRunner.Run(ctx, func(
		orderRepo repository.WorkOrderRepository,
		_ repository.WorkCenterRepository,
	) error {
		order, err := orderRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		order.AssignedTo = operatorID
		order.UpdatedAt = time.Now()
		if err := orderRepo.Update(order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToWorkOrderResponse(updated)
	uc.broadcaster.Publish(events.WorkOrderUpdated, resp)
	return resp, nil
}

// GetByID obtiene una orden con su time tracking e incidencias.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.WorkOrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return ToWorkOrderResponse(order), nil
}

// List lista órdenes con filtros de estado, centro y prioridad.
func (uc *UseCase) List(ctx context.Context, filter repository.WorkOrderFilter) ([]dto.WorkOrderResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	orders, err := uc.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, *ToWorkOrderResponse(o))
	}
	return out, nil
}

// GetByQR resuelve el código QR de un centro de trabajo a su orden activa
// (planned, started, paused o delayed). Es la ruta de escaneo en planta.
func (uc *UseCase) GetByQR(ctx context.Context, qrCode string) (*dto.WorkOrderResponse, error) {
	if qrCode == "" {
		return nil, domain.ErrInvalidInput
	}
	center, err := uc.centerRepo.GetByQRCode(qrCode)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, domain.ErrNotFound
	}
	order, err := uc.orderRepo.FindActiveByWorkCenter(center.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return ToWorkOrderResponse(order), nil
}

// ToWorkOrderResponse mapea la entidad a su DTO (también payload del evento
// workorder_updated).
func ToWorkOrderResponse(o *entity.WorkOrder) *dto.WorkOrderResponse {
	if o == nil {
		return nil
	}
	issues := make([]dto.IssueResponse, 0, len(o.Issues))
	for _, i := range o.Issues {
		issues = append(issues, dto.IssueResponse{
			ID:          i.ID,
			Description: i.Description,
			ReportedBy:  i.ReportedBy,
			ReportedAt:  i.ReportedAt,
			Resolved:    i.Resolved,
		})
	}
	tracking := make([]dto.TimeTrackingResponse, 0, len(o.TimeTracking))
	for _, t := range o.TimeTracking {
		tracking = append(tracking, dto.TimeTrackingResponse{
			FromStatus: t.FromStatus,
			ToStatus:   t.ToStatus,
			Operator:   t.Operator,
			Comment:    t.Comment,
			Timestamp:  t.Timestamp,
		})
	}
	return &dto.WorkOrderResponse{
		ID:                   o.ID,
		WorkOrderNumber:      o.WorkOrderNumber,
		ManufacturingOrderID: o.ManufacturingOrderID,
		WorkCenterID:         o.WorkCenterID,
		Operation:            o.Operation,
		Sequence:             o.Sequence,
		Status:               o.Status,
		Priority:             o.Priority,
		EstimatedDuration:    o.EstimatedDuration,
		ActualDuration:       o.ActualDuration,
		StartDate:            o.StartDate,
		EndDate:              o.EndDate,
		ActualStartTime:      o.ActualStartTime,
		ActualEndTime:        o.ActualEndTime,
		AssignedTo:           o.AssignedTo,
		Progress:             o.Progress,
		QRCode:               o.QRCode,
		Issues:               issues,
		TimeTracking:         tracking,
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

// ToWorkCenterResponse mapea la entidad a su DTO (también payload del evento
// shopfloor_update).
func ToWorkCenterResponse(w *entity.WorkCenter) *dto.WorkCenterResponse {
	if w == nil {
		return nil
	}
	return &dto.WorkCenterResponse{
		ID:               w.ID,
		Code:             w.Code,
		Name:             w.Name,
		Location:         w.Location,
		CostPerHour:      w.CostPerHour,
		Capacity:         w.Capacity,
		Status:           w.Status,
		CurrentWorkOrder: w.CurrentWorkOrder,
		AssignedOperator: w.AssignedOperator,
		Utilization:      w.Utilization,
		QRCode:           w.QRCode,
		IsActive:         w.IsActive,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}
