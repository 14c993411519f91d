package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/events"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// BOMUseCase casos de uso CRUD para listas de materiales.
type BOMUseCase struct {
	repo        repository.BOMRepository
	productRepo repository.ProductRepository
	broadcaster events.Broadcaster
}

// NewBOMUseCase construye el caso de uso.
func NewBOMUseCase(repo repository.BOMRepository, productRepo repository.ProductRepository, broadcaster events.Broadcaster) *BOMUseCase {
	if broadcaster == nil {
		broadcaster = events.Nop{}
	}
	return &BOMUseCase{repo: repo, productRepo: productRepo, broadcaster: broadcaster}
}

// Create crea una lista de materiales para un producto terminado.
func (uc *BOMUseCase) Create(actor string, in dto.CreateBOMRequest) (*dto.BOMResponse, error) {
	if in.ProductID == "" || in.Name == "" || len(in.Components) == 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	components, err := uc.validateComponents(in.Components)
	if err != nil {
		return nil, err
	}
	version := in.Version
	if version == "" {
		version = "1.0"
	}
	now := time.Now()
	bom := &entity.BillOfMaterial{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		Name:       in.Name,
		Version:    version,
		Components: components,
		IsActive:   true,
		CreatedBy:  actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(bom); err != nil {
		return nil, err
	}
	resp := toBOMResponse(bom)
	uc.broadcaster.Publish(events.BOMCreated, resp)
	return resp, nil
}

// Update actualiza nombre, versión, componentes o estado de la BOM.
func (uc *BOMUseCase) Update(id string, in dto.UpdateBOMRequest) (*dto.BOMResponse, error) {
	bom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		bom.Name = *in.Name
	}
	if in.Version != nil {
		bom.Version = *in.Version
	}
	if len(in.Components) > 0 {
		components, err := uc.validateComponents(in.Components)
		if err != nil {
			return nil, err
		}
		bom.Components = components
	}
	if in.IsActive != nil {
		bom.IsActive = *in.IsActive
	}
	bom.UpdatedAt = time.Now()
	if err := uc.repo.Update(bom); err != nil {
		return nil, err
	}
	resp := toBOMResponse(bom)
	uc.broadcaster.Publish(events.BOMUpdated, resp)
	return resp, nil
}

// GetByID obtiene una BOM por ID.
func (uc *BOMUseCase) GetByID(id string) (*dto.BOMResponse, error) {
	bom, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, domain.ErrNotFound
	}
	return toBOMResponse(bom), nil
}

// List lista BOMs con paginación.
func (uc *BOMUseCase) List(limit, offset int) ([]dto.BOMResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BOMResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBOMResponse(b))
	}
	return out, nil
}

// Delete elimina una BOM por ID.
func (uc *BOMUseCase) Delete(id string) error {
	bom, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if bom == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	uc.broadcaster.Publish(events.BOMDeleted, map[string]string{"id": id, "product_id": bom.ProductID})
	return nil
}

// validateComponents verifica que cada componente exista y tenga cantidad
// positiva.
func (uc *BOMUseCase) validateComponents(in []dto.BOMComponentDTO) ([]entity.BOMComponent, error) {
	components := make([]entity.BOMComponent, 0, len(in))
	for _, c := range in {
		if c.ProductID == "" || !c.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(c.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		components = append(components, entity.BOMComponent{ProductID: c.ProductID, Quantity: c.Quantity})
	}
	return components, nil
}

func toBOMResponse(b *entity.BillOfMaterial) *dto.BOMResponse {
	if b == nil {
		return nil
	}
	components := make([]dto.BOMComponentDTO, 0, len(b.Components))
	for _, c := range b.Components {
		components = append(components, dto.BOMComponentDTO{ProductID: c.ProductID, Quantity: c.Quantity})
	}
	return &dto.BOMResponse{
		ID:         b.ID,
		ProductID:  b.ProductID,
		Name:       b.Name,
		Version:    b.Version,
		Components: components,
		IsActive:   b.IsActive,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
