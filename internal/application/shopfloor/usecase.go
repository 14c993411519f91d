package shopfloor

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/events"
	"github.com/jhoicas/taller-api/internal/application/workorder"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// UseCase expone la vista en vivo del taller: centros de trabajo con su
// ocupación actual, y el toggle manual de estado con regla de reconciliación
// explícita (la ocupación en sí solo la muta la máquina de estados de
// órdenes de trabajo).
type UseCase struct {
	centerRepo  repository.WorkCenterRepository
	orderRepo   repository.WorkOrderRepository
	broadcaster events.Broadcaster
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	centerRepo repository.WorkCenterRepository,
	orderRepo repository.WorkOrderRepository,
	broadcaster events.Broadcaster,
) *UseCase {
	if broadcaster == nil {
		broadcaster = events.Nop{}
	}
	return &UseCase{centerRepo: centerRepo, orderRepo: orderRepo, broadcaster: broadcaster}
}

// View devuelve la proyección del taller: cada centro con la orden que lo
// ocupa (si hay) y el estado derivado: el de la orden en curso, o el estado
// almacenado si el centro está libre. Es una lectura pura, sin locks.
func (uc *UseCase) View(ctx context.Context) ([]dto.ShopFloorItemResponse, error) {
	centers, err := uc.centerRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShopFloorItemResponse, 0, len(centers))
	for _, wc := range centers {
		item := dto.ShopFloorItemResponse{
			WorkCenter:    *workorder.ToWorkCenterResponse(wc),
			DisplayStatus: wc.Status,
		}
		if wc.Occupied() {
			order, err := uc.orderRepo.GetByID(*wc.CurrentWorkOrder)
			if err != nil {
				return nil, err
			}
			if order != nil {
				item.CurrentOrder = workorder.ToWorkOrderResponse(order)
				item.DisplayStatus = order.Status
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// CurrentAssignment devuelve la asignación actual del centro: orden y
// operario, o vacío si está libre.
func (uc *UseCase) CurrentAssignment(ctx context.Context, workCenterID string) (workOrderID, operatorID string, err error) {
	if workCenterID == "" {
		return "", "", domain.ErrInvalidInput
	}
	wc, err := uc.centerRepo.GetByID(workCenterID)
	if err != nil {
		return "", "", err
	}
	if wc == nil {
		return "", "", domain.ErrNotFound
	}
	if !wc.Occupied() {
		return "", "", nil
	}
	workOrderID = *wc.CurrentWorkOrder
	if wc.AssignedOperator != nil {
		operatorID = *wc.AssignedOperator
	}
	return workOrderID, operatorID, nil
}

// ToggleStatus es el override manual de estado de un centro. Regla de
// reconciliación: solo idle <-> maintenance y solo con el centro desocupado;
// active es exclusivo de la máquina de estados y un centro ocupado no se
// puede tocar a mano. Así el toggle no puede desincronizar la ocupación.
func (uc *UseCase) ToggleStatus(ctx context.Context, workCenterID, status string) (*dto.WorkCenterResponse, error) {
	if workCenterID == "" {
		return nil, domain.ErrInvalidInput
	}
	if status != entity.WorkCenterIdle && status != entity.WorkCenterMaintenance {
		return nil, domain.ErrInvalidInput
	}
	wc, err := uc.centerRepo.GetByID(workCenterID)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		return nil, domain.ErrNotFound
	}
	if wc.Occupied() {
		return nil, domain.ErrConflict
	}
	wc.Status = status
	wc.UpdatedAt = time.Now()
	if err := uc.centerRepo.Update(wc); err != nil {
		return nil, err
	}
	resp := workorder.ToWorkCenterResponse(wc)
	uc.broadcaster.Publish(events.ShopFloorUpdate, resp)
	return resp, nil
}
