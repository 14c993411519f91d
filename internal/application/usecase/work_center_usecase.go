package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/events"
	"github.com/jhoicas/taller-api/internal/application/workorder"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// WorkCenterUseCase casos de uso de datos maestros de centros de trabajo.
// La ocupación no se toca aquí: la gobierna la máquina de estados.
type WorkCenterUseCase struct {
	repo        repository.WorkCenterRepository
	broadcaster events.Broadcaster
}

// NewWorkCenterUseCase construye el caso de uso.
func NewWorkCenterUseCase(repo repository.WorkCenterRepository, broadcaster events.Broadcaster) *WorkCenterUseCase {
	if broadcaster == nil {
		broadcaster = events.Nop{}
	}
	return &WorkCenterUseCase{repo: repo, broadcaster: broadcaster}
}

// Create crea un centro de trabajo en idle con su código QR textual
// (WC_<code>_<unix>, el mismo esquema del sistema de escaneo en planta).
func (uc *WorkCenterUseCase) Create(in dto.CreateWorkCenterRequest) (*dto.WorkCenterResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	capacity := in.Capacity
	if capacity <= 0 {
		capacity = 1
	}
	now := time.Now()
	wc := &entity.WorkCenter{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Location:    in.Location,
		CostPerHour: in.CostPerHour,
		Capacity:    capacity,
		Status:      entity.WorkCenterIdle,
		QRCode:      fmt.Sprintf("WC_%s_%d", in.Code, now.Unix()),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(wc); err != nil {
		return nil, err
	}
	resp := workorder.ToWorkCenterResponse(wc)
	uc.broadcaster.Publish(events.WorkCenterCreated, resp)
	return resp, nil
}

// GetByID obtiene un centro por ID.
func (uc *WorkCenterUseCase) GetByID(id string) (*dto.WorkCenterResponse, error) {
	wc, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wc == nil {
		return nil, domain.ErrNotFound
	}
	return workorder.ToWorkCenterResponse(wc), nil
}

// List lista todos los centros de trabajo.
func (uc *WorkCenterUseCase) List() ([]dto.WorkCenterResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkCenterResponse, 0, len(list))
	for _, wc := range list {
		out = append(out, *workorder.ToWorkCenterResponse(wc))
	}
	return out, nil
}
