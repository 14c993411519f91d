package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/events"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// ManufacturingUseCase orquesta órdenes de manufactura: creación numerada
// por año, generación de órdenes de trabajo secuenciadas (una por centro) y
// rollup de progreso a partir de sus work orders completadas.
type ManufacturingUseCase struct {
	moRepo      repository.ManufacturingOrderRepository
	orderRepo   repository.WorkOrderRepository
	productRepo repository.ProductRepository
	centerRepo  repository.WorkCenterRepository
	broadcaster events.Broadcaster
}

// NewManufacturingUseCase construye el caso de uso.
func NewManufacturingUseCase(
	moRepo repository.ManufacturingOrderRepository,
	orderRepo repository.WorkOrderRepository,
	productRepo repository.ProductRepository,
	centerRepo repository.WorkCenterRepository,
	broadcaster events.Broadcaster,
) *ManufacturingUseCase {
	if broadcaster == nil {
		broadcaster = events.Nop{}
	}
	return &ManufacturingUseCase{
		moRepo:      moRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		centerRepo:  centerRepo,
		broadcaster: broadcaster,
	}
}

// Create crea la orden de manufactura MO-<año>-NNN y genera una orden de
// trabajo planned por cada centro indicado, con secuencia 1..N
// ("<producto> - Paso N").
func (uc *ManufacturingUseCase) Create(ctx context.Context, actor string, in dto.CreateManufacturingOrderRequest) (*dto.ManufacturingOrderResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 || len(in.WorkCenterIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	for _, wcID := range in.WorkCenterIDs {
		wc, err := uc.centerRepo.GetByID(wcID)
		if err != nil {
			return nil, err
		}
		if wc == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	seq, err := uc.moRepo.NextSequence(now.Year())
	if err != nil {
		return nil, err
	}
	mo := &entity.ManufacturingOrder{
		ID:          uuid.New().String(),
		OrderNumber: fmt.Sprintf("MO-%d-%03d", now.Year(), seq),
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Status:      entity.ManufacturingPlanned,
		Progress:    0,
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.moRepo.Create(mo); err != nil {
		return nil, err
	}

	for i, wcID := range in.WorkCenterIDs {
		woSeq, err := uc.orderRepo.NextSequence(now.Year())
		if err != nil {
			return nil, err
		}
		number := fmt.Sprintf("WO-%d-%03d", now.Year(), woSeq)
		order := &entity.WorkOrder{
			ID:                   uuid.New().String(),
			WorkOrderNumber:      number,
			ManufacturingOrderID: mo.ID,
			WorkCenterID:         wcID,
			Operation:            fmt.Sprintf("%s - Paso %d", product.Name, i+1),
			Sequence:             i + 1,
			Status:               entity.WorkOrderPlanned,
			Priority:             entity.PriorityMedium,
			QRCode:               fmt.Sprintf("WO_%s_%d", number, now.Unix()),
			CreatedBy:            actor,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := uc.orderRepo.Create(order); err != nil {
			return nil, err
		}
	}

	resp := toManufacturingOrderResponse(mo)
	uc.broadcaster.Publish(events.ManufacturingOrderCreated, resp)
	return resp, nil
}

// Recalc recalcula el progreso de la orden: porcentaje de work orders
// completadas. 100% la pasa a done con endDate; el primer avance la pasa a
// in_progress con startDate. Publica manufacturing_order_updated.
func (uc *ManufacturingUseCase) Recalc(ctx context.Context, manufacturingOrderID string) error {
	mo, err := uc.moRepo.GetByID(manufacturingOrderID)
	if err != nil {
		return err
	}
	if mo == nil {
		return domain.ErrNotFound
	}
	orders, err := uc.orderRepo.ListByManufacturingOrder(manufacturingOrderID)
	if err != nil {
		return err
	}

	completed := 0
	for _, o := range orders {
		if o.Status == entity.WorkOrderCompleted {
			completed++
		}
	}
	progress := 0
	if len(orders) > 0 {
		progress = int(math.Round(float64(completed) / float64(len(orders)) * 100))
	}

	now := time.Now()
	mo.Progress = progress
	switch {
	case progress == 100:
		mo.Status = entity.ManufacturingDone
		mo.EndDate = &now
	case progress > 0 && mo.Status == entity.ManufacturingPlanned:
		mo.Status = entity.ManufacturingInProgress
		mo.StartDate = &now
	}
	mo.UpdatedAt = now
	if err := uc.moRepo.Update(mo); err != nil {
		return err
	}
	uc.broadcaster.Publish(events.ManufacturingOrderUpdated, toManufacturingOrderResponse(mo))
	return nil
}

// UpdateStatus cambia el estado de la orden de manufactura (cancelación o
// corrección manual). done y cancelled son terminales.
func (uc *ManufacturingUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.ManufacturingOrderResponse, error) {
	switch status {
	case entity.ManufacturingPlanned, entity.ManufacturingInProgress,
		entity.ManufacturingDone, entity.ManufacturingCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}
	mo, err := uc.moRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, domain.ErrNotFound
	}
	if mo.Status == entity.ManufacturingDone || mo.Status == entity.ManufacturingCancelled {
		return nil, domain.ErrConflict
	}
	mo.Status = status
	mo.UpdatedAt = time.Now()
	if err := uc.moRepo.Update(mo); err != nil {
		return nil, err
	}
	resp := toManufacturingOrderResponse(mo)
	uc.broadcaster.Publish(events.ManufacturingOrderUpdated, resp)
	return resp, nil
}

// GetByID obtiene una orden de manufactura por ID.
func (uc *ManufacturingUseCase) GetByID(ctx context.Context, id string) (*dto.ManufacturingOrderResponse, error) {
	mo, err := uc.moRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mo == nil {
		return nil, domain.ErrNotFound
	}
	return toManufacturingOrderResponse(mo), nil
}

// List lista órdenes de manufactura con filtro de estado.
func (uc *ManufacturingUseCase) List(ctx context.Context, status string, limit, offset int) ([]dto.ManufacturingOrderResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	list, err := uc.moRepo.List(status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ManufacturingOrderResponse, 0, len(list))
	for _, mo := range list {
		out = append(out, *toManufacturingOrderResponse(mo))
	}
	return out, nil
}

func toManufacturingOrderResponse(mo *entity.ManufacturingOrder) *dto.ManufacturingOrderResponse {
	if mo == nil {
		return nil
	}
	return &dto.ManufacturingOrderResponse{
		ID:          mo.ID,
		OrderNumber: mo.OrderNumber,
		ProductID:   mo.ProductID,
		Quantity:    mo.Quantity,
		Status:      mo.Status,
		Progress:    mo.Progress,
		StartDate:   mo.StartDate,
		EndDate:     mo.EndDate,
		CreatedAt:   mo.CreatedAt,
		UpdatedAt:   mo.UpdatedAt,
	}
}
