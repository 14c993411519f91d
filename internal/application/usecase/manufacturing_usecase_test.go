package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/usecase"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeMORepo struct {
	mos map[string]*entity.ManufacturingOrder
	seq int
}

func (r *fakeMORepo) Create(mo *entity.ManufacturingOrder) error { r.mos[mo.ID] = mo; return nil }
func (r *fakeMORepo) GetByID(id string) (*entity.ManufacturingOrder, error) {
	mo, ok := r.mos[id]
	if !ok {
		return nil, nil
	}
	cp := *mo
	return &cp, nil
}
func (r *fakeMORepo) Update(mo *entity.ManufacturingOrder) error { r.mos[mo.ID] = mo; return nil }
func (r *fakeMORepo) List(status string, limit, offset int) ([]*entity.ManufacturingOrder, error) {
	var out []*entity.ManufacturingOrder
	for _, mo := range r.mos {
		if status == "" || mo.Status == status {
			out = append(out, mo)
		}
	}
	return out, nil
}
func (r *fakeMORepo) NextSequence(int) (int, error) { r.seq++; return r.seq, nil }

type fakeWORepo struct {
	orders map[string]*entity.WorkOrder
	seq    int
}

func (r *fakeWORepo) Create(o *entity.WorkOrder) error { r.orders[o.ID] = o; return nil }
func (r *fakeWORepo) GetByID(id string) (*entity.WorkOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return o, nil
}
func (r *fakeWORepo) GetForUpdate(id string) (*entity.WorkOrder, error) { return r.GetByID(id) }
func (r *fakeWORepo) Update(o *entity.WorkOrder) error                  { r.orders[o.ID] = o; return nil }
func (r *fakeWORepo) List(repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	return nil, nil
}
func (r *fakeWORepo) ListByManufacturingOrder(moID string) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, o := range r.orders {
		if o.ManufacturingOrderID == moID {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *fakeWORepo) FindActiveByWorkCenter(string) (*entity.WorkOrder, error) { return nil, nil }
func (r *fakeWORepo) AppendTimeTracking(*entity.TimeTracking) error            { return nil }
func (r *fakeWORepo) AppendIssue(*entity.Issue) error                          { return nil }
func (r *fakeWORepo) NextSequence(int) (int, error)                            { r.seq++; return r.seq, nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}
func (r *fakeProductRepo) GetByCode(string) (*entity.Product, error)      { return nil, nil }
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }
func (r *fakeProductRepo) Update(p *entity.Product) error                 { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) UpdateStock(string, decimal.Decimal) error      { return nil }
func (r *fakeProductRepo) List(bool, int, int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) ListLowStock() ([]*entity.Product, error)       { return nil, nil }
func (r *fakeProductRepo) Delete(id string) error                         { delete(r.products, id); return nil }

type fakeCenterRepo struct {
	centers map[string]*entity.WorkCenter
}

func (r *fakeCenterRepo) Create(wc *entity.WorkCenter) error { r.centers[wc.ID] = wc; return nil }
func (r *fakeCenterRepo) GetByID(id string) (*entity.WorkCenter, error) {
	wc, ok := r.centers[id]
	if !ok {
		return nil, nil
	}
	return wc, nil
}
func (r *fakeCenterRepo) GetByCode(string) (*entity.WorkCenter, error)      { return nil, nil }
func (r *fakeCenterRepo) GetByQRCode(string) (*entity.WorkCenter, error)    { return nil, nil }
func (r *fakeCenterRepo) GetForUpdate(id string) (*entity.WorkCenter, error) { return r.GetByID(id) }
func (r *fakeCenterRepo) Update(wc *entity.WorkCenter) error                { r.centers[wc.ID] = wc; return nil }
func (r *fakeCenterRepo) List() ([]*entity.WorkCenter, error)               { return nil, nil }

func setupManufacturing(t *testing.T) (*usecase.ManufacturingUseCase, *fakeMORepo, *fakeWORepo) {
	t.Helper()
	moRepo := &fakeMORepo{mos: map[string]*entity.ManufacturingOrder{}}
	woRepo := &fakeWORepo{orders: map[string]*entity.WorkOrder{}}
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", Code: "SIL-01", Name: "Silla industrial", IsActive: true},
	}}
	centerRepo := &fakeCenterRepo{centers: map[string]*entity.WorkCenter{
		"wc-1": {ID: "wc-1", Code: "CORTE-01", Status: entity.WorkCenterIdle},
		"wc-2": {ID: "wc-2", Code: "SOLD-01", Status: entity.WorkCenterIdle},
		"wc-3": {ID: "wc-3", Code: "PINT-01", Status: entity.WorkCenterIdle},
	}}
	uc := usecase.NewManufacturingUseCase(moRepo, woRepo, productRepo, centerRepo, nil)
	return uc, moRepo, woRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Una MO genera una orden de trabajo planned por centro, con secuencias 1..N
// y operaciones "<producto> - Paso N".
func TestCreate_GeneraOrdenesDeTrabajoSecuenciadas(t *testing.T) {
	uc, _, woRepo := setupManufacturing(t)

	mo, err := uc.Create(context.Background(), "sup-1", dto.CreateManufacturingOrderRequest{
		ProductID:     "prod-1",
		Quantity:      50,
		WorkCenterIDs: []string{"wc-1", "wc-2", "wc-3"},
	})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("MO-%d-001", year), mo.OrderNumber)
	assert.Equal(t, "planned", mo.Status)
	assert.Equal(t, 0, mo.Progress)

	orders, err := woRepo.ListByManufacturingOrder(mo.ID)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	bySequence := map[int]*entity.WorkOrder{}
	for _, o := range orders {
		bySequence[o.Sequence] = o
		assert.Equal(t, entity.WorkOrderPlanned, o.Status)
		assert.Equal(t, mo.ID, o.ManufacturingOrderID)
		assert.NotEmpty(t, o.QRCode)
	}
	assert.Equal(t, "Silla industrial - Paso 1", bySequence[1].Operation)
	assert.Equal(t, "wc-1", bySequence[1].WorkCenterID)
	assert.Equal(t, "Silla industrial - Paso 3", bySequence[3].Operation)
	assert.Equal(t, "wc-3", bySequence[3].WorkCenterID)
}

func TestCreate_ValidaProductoYCentros(t *testing.T) {
	uc, _, _ := setupManufacturing(t)

	_, err := uc.Create(context.Background(), "sup-1", dto.CreateManufacturingOrderRequest{
		ProductID: "no-existe", Quantity: 1, WorkCenterIDs: []string{"wc-1"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(context.Background(), "sup-1", dto.CreateManufacturingOrderRequest{
		ProductID: "prod-1", Quantity: 1, WorkCenterIDs: []string{"wc-inexistente"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Create(context.Background(), "sup-1", dto.CreateManufacturingOrderRequest{
		ProductID: "prod-1", Quantity: 0, WorkCenterIDs: []string{"wc-1"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recalc (rollup de progreso)
// ──────────────────────────────────────────────────────────────────────────────

func TestRecalc_RollupDeProgreso(t *testing.T) {
	uc, moRepo, woRepo := setupManufacturing(t)

	mo, err := uc.Create(context.Background(), "sup-1", dto.CreateManufacturingOrderRequest{
		ProductID: "prod-1", Quantity: 10, WorkCenterIDs: []string{"wc-1", "wc-2"},
	})
	require.NoError(t, err)

	orders, _ := woRepo.ListByManufacturingOrder(mo.ID)
	require.Len(t, orders, 2)

	// Sin completadas: sigue planned con 0%
	require.NoError(t, uc.Recalc(context.Background(), mo.ID))
	got, _ := moRepo.GetByID(mo.ID)
	assert.Equal(t, 0, got.Progress)
	assert.Equal(t, entity.ManufacturingPlanned, got.Status)
	assert.Nil(t, got.StartDate)

	// Primera completada: 50%, pasa a in_progress con startDate
	orders[0].Status = entity.WorkOrderCompleted
	require.NoError(t, uc.Recalc(context.Background(), mo.ID))
	got, _ = moRepo.GetByID(mo.ID)
	assert.Equal(t, 50, got.Progress)
	assert.Equal(t, entity.ManufacturingInProgress, got.Status)
	assert.NotNil(t, got.StartDate)
	assert.Nil(t, got.EndDate)

	// Todas completadas: 100%, pasa a done con endDate
	orders[1].Status = entity.WorkOrderCompleted
	require.NoError(t, uc.Recalc(context.Background(), mo.ID))
	got, _ = moRepo.GetByID(mo.ID)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, entity.ManufacturingDone, got.Status)
	assert.NotNil(t, got.EndDate)
}

func TestRecalc_OrdenInexistente(t *testing.T) {
	uc, _, _ := setupManufacturing(t)
	assert.ErrorIs(t, uc.Recalc(context.Background(), "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_TerminalEsConflicto(t *testing.T) {
	uc, _, _ := setupManufacturing(t)

	mo, err := uc.Create(context.Background(), "sup-1", dto.CreateManufacturingOrderRequest{
		ProductID: "prod-1", Quantity: 1, WorkCenterIDs: []string{"wc-1"},
	})
	require.NoError(t, err)

	updated, err := uc.UpdateStatus(context.Background(), mo.ID, entity.ManufacturingCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.ManufacturingCancelled, updated.Status)

	_, err = uc.UpdateStatus(context.Background(), mo.ID, entity.ManufacturingInProgress)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.UpdateStatus(context.Background(), mo.ID, "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
