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

// ProductUseCase casos de uso CRUD para el maestro de productos.
// StockQuantity no se toca aquí: solo lo muta el motor de asientos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	broadcaster events.Broadcaster
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, broadcaster events.Broadcaster) *ProductUseCase {
	if broadcaster == nil {
		broadcaster = events.Nop{}
	}
	return &ProductUseCase{repo: repo, broadcaster: broadcaster}
}

// Create crea un nuevo producto con stock 0. El stock inicial se registra
// después con un asiento de referencia initial.
func (uc *ProductUseCase) Create(actor string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	unit := in.Unit
	if unit == "" {
		unit = "pieces"
	}
	ptype := in.Type
	if ptype == "" {
		ptype = entity.ProductTypeFinished
	}
	switch ptype {
	case entity.ProductTypeFinished, entity.ProductTypeRawMaterial, entity.ProductTypeComponent:
	default:
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		Unit:          unit,
		Type:          ptype,
		CostPrice:     in.CostPrice,
		SellingPrice:  in.SellingPrice,
		StockQuantity: decimal.Zero,
		MinStockLevel: in.MinStockLevel,
		IsActive:      true,
		CreatedBy:     actor,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	uc.broadcaster.Publish(events.ProductCreated, resp)
	return resp, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza atributos del maestro. No permite modificar el stock
// (se maneja vía asientos del libro).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Type != nil {
		switch *in.Type {
		case entity.ProductTypeFinished, entity.ProductTypeRawMaterial, entity.ProductTypeComponent:
		default:
			return nil, domain.ErrInvalidInput
		}
		product.Type = *in.Type
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		product.SellingPrice = *in.SellingPrice
	}
	if in.MinStockLevel != nil {
		product.MinStockLevel = *in.MinStockLevel
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	uc.broadcaster.Publish(events.ProductUpdated, resp)
	return resp, nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(onlyActive bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ListLowStock lista productos activos con balance por debajo del mínimo.
func (uc *ProductUseCase) ListLowStock() ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Delete elimina un producto por ID. Los asientos del libro que lo
// referencian se conservan.
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	uc.broadcaster.Publish(events.ProductDeleted, map[string]string{"id": id, "code": product.Code})
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Unit:          p.Unit,
		Type:          p.Type,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
