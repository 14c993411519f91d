package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/events"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	domledger "github.com/jhoicas/taller-api/internal/domain/ledger"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// AppendEntryUseCase registra asientos inmutables en el libro de inventario
// de forma transaccional, con bloqueo de fila por producto (SELECT FOR
// UPDATE) y actualización de la caché de balance en la misma transacción.
type AppendEntryUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	entryRepo   repository.LedgerEntryRepository
	broadcaster events.Broadcaster
}

// NewAppendEntryUseCase construye el caso de uso. productRepo y entryRepo se
// usan solo para consultas fuera de transacción.
func NewAppendEntryUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	entryRepo repository.LedgerEntryRepository,
	broadcaster events.Broadcaster,
) *AppendEntryUseCase {
	if broadcaster == nil {
		broadcaster = events.Nop{}
	}
	return &AppendEntryUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		entryRepo:   entryRepo,
		broadcaster: broadcaster,
	}
}

// AppendEntryInput entrada para registrar un asiento. Movement es la
// variante etiquetada: Inbound/Outbound llevan magnitud, SetAbsolute lleva
// el balance objetivo.
type AppendEntryInput struct {
	ProductID     string
	Movement      domledger.Movement
	Reference     string
	ReferenceType string
	Notes         string
	Actor         string
}

// StockUpdatedPayload es el payload del evento stock_updated.
type StockUpdatedPayload struct {
	ProductID  string                   `json:"product_id"`
	NewBalance string                   `json:"new_balance"`
	Entry      *dto.LedgerEntryResponse `json:"entry"`
}

// Append valida y registra el asiento: lee el balance actual con la fila
// bloqueada, calcula el balance candidato, persiste el asiento con su
// snapshot y actualiza products.stock_quantity, todo en una transacción.
// En fallo no queda ningún efecto. El evento se publica después del commit y
// su fallo jamás afecta la operación.
func (uc *AppendEntryUseCase) Append(ctx context.Context, input AppendEntryInput) (*dto.LedgerEntryResponse, error) {
	if input.ProductID == "" || input.Actor == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := input.Movement.Validate(); err != nil {
		return nil, err
	}
	switch input.ReferenceType {
	case "", entity.ReferenceManufacturingOrder, entity.ReferenceWorkOrder,
		entity.ReferenceAdjustment, entity.ReferenceInitial:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var created *entity.LedgerEntry

	// Sección crítica por producto: la fila queda bloqueada hasta el commit,
	// dos salidas concurrentes sobre el mismo producto se serializan aquí.
	err := uc.txRunner.Run(ctx, func(
		entryRepo repository.LedgerEntryRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		delta, newBalance, err := input.Movement.Apply(product.StockQuantity)
		if err != nil {
			return err
		}

		entry := &entity.LedgerEntry{
			ID:               uuid.New().String(),
			ProductID:        product.ID,
			Kind:             input.Movement.Kind(),
			Delta:            delta,
			ResultingBalance: newBalance,
			Reference:        input.Reference,
			ReferenceType:    input.ReferenceType,
			Notes:            input.Notes,
			CreatedBy:        input.Actor,
			CreatedAt:        now,
		}
		if err := entryRepo.Create(entry); err != nil {
			return err
		}
		if err := productRepo.UpdateStock(product.ID, newBalance); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toLedgerEntryResponse(created)
	uc.broadcaster.Publish(events.StockUpdated, StockUpdatedPayload{
		ProductID:  created.ProductID,
		NewBalance: created.ResultingBalance.String(),
		Entry:      resp,
	})
	return resp, nil
}

// AppendFromRequest adapta el request HTTP al caso de uso: convierte el tipo
// textual + cantidad en la variante etiquetada correspondiente.
func (uc *AppendEntryUseCase) AppendFromRequest(ctx context.Context, actor string, in dto.AppendEntryRequest) (*dto.LedgerEntryResponse, error) {
	movement, err := domledger.FromKind(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	return uc.Append(ctx, AppendEntryInput{
		ProductID:     in.ProductID,
		Movement:      movement,
		Reference:     in.Reference,
		ReferenceType: in.ReferenceType,
		Notes:         in.Notes,
		Actor:         actor,
	})
}

// List consulta asientos con filtros de producto, tipo y rango de fechas.
func (uc *AppendEntryUseCase) List(ctx context.Context, filter repository.LedgerFilter) ([]dto.LedgerEntryResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	entries, err := uc.entryRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, *toLedgerEntryResponse(e))
	}
	return out, nil
}

// ProductMovement lista todos los asientos de un producto en orden de
// creación descendente (el kardex del producto).
func (uc *AppendEntryUseCase) ProductMovement(ctx context.Context, productID string) ([]dto.LedgerEntryResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	entries, err := uc.entryRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, *toLedgerEntryResponse(e))
	}
	return out, nil
}

// CurrentStock devuelve la proyección balance + umbral de los productos
// activos, marcando los que están por debajo del mínimo. La paginación la
// decide el caller; un catálogo grande se recorre por páginas.
func (uc *AppendEntryUseCase) CurrentStock(ctx context.Context, limit, offset int) ([]dto.CurrentStockResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	products, err := uc.productRepo.List(true, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CurrentStockResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.CurrentStockResponse{
			ProductID:     p.ID,
			Code:          p.Code,
			Name:          p.Name,
			Unit:          p.Unit,
			StockQuantity: p.StockQuantity,
			MinStockLevel: p.MinStockLevel,
			BelowMinimum:  p.StockQuantity.LessThan(p.MinStockLevel),
		})
	}
	return out, nil
}

func toLedgerEntryResponse(e *entity.LedgerEntry) *dto.LedgerEntryResponse {
	if e == nil {
		return nil
	}
	return &dto.LedgerEntryResponse{
		ID:               e.ID,
		ProductID:        e.ProductID,
		Kind:             e.Kind,
		Delta:            e.Delta,
		ResultingBalance: e.ResultingBalance,
		Reference:        e.Reference,
		ReferenceType:    e.ReferenceType,
		Notes:            e.Notes,
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
	}
}
