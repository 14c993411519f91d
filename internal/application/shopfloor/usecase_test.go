package shopfloor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/shopfloor"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

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
func (r *fakeCenterRepo) GetByCode(string) (*entity.WorkCenter, error)       { return nil, nil }
func (r *fakeCenterRepo) GetByQRCode(string) (*entity.WorkCenter, error)     { return nil, nil }
func (r *fakeCenterRepo) GetForUpdate(id string) (*entity.WorkCenter, error) { return r.GetByID(id) }
func (r *fakeCenterRepo) Update(wc *entity.WorkCenter) error                 { r.centers[wc.ID] = wc; return nil }
func (r *fakeCenterRepo) List() ([]*entity.WorkCenter, error) {
	var out []*entity.WorkCenter
	for _, wc := range r.centers {
		out = append(out, wc)
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[string]*entity.WorkOrder
}

func (r *fakeOrderRepo) Create(o *entity.WorkOrder) error { r.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return o, nil
}
func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) { return r.GetByID(id) }
func (r *fakeOrderRepo) Update(o *entity.WorkOrder) error                  { r.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) List(repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	return nil, nil
}
func (r *fakeOrderRepo) ListByManufacturingOrder(string) ([]*entity.WorkOrder, error) {
	return nil, nil
}
func (r *fakeOrderRepo) FindActiveByWorkCenter(string) (*entity.WorkOrder, error) { return nil, nil }
func (r *fakeOrderRepo) AppendTimeTracking(*entity.TimeTracking) error            { return nil }
func (r *fakeOrderRepo) AppendIssue(*entity.Issue) error                          { return nil }
func (r *fakeOrderRepo) NextSequence(int) (int, error)                            { return 1, nil }

func setup(t *testing.T) (*shopfloor.UseCase, *fakeCenterRepo, *fakeOrderRepo) {
	t.Helper()
	centers := &fakeCenterRepo{centers: map[string]*entity.WorkCenter{
		"wc-1": {ID: "wc-1", Code: "CORTE-01", Status: entity.WorkCenterIdle},
	}}
	orders := &fakeOrderRepo{orders: map[string]*entity.WorkOrder{}}
	return shopfloor.NewUseCase(centers, orders, nil), centers, orders
}

func occupy(centers *fakeCenterRepo, orders *fakeOrderRepo, orderID string) {
	op := "op-1"
	orders.orders[orderID] = &entity.WorkOrder{
		ID:           orderID,
		WorkCenterID: "wc-1",
		Status:       entity.WorkOrderStarted,
		Operation:    "Corte de lámina",
	}
	wc := centers.centers["wc-1"]
	wc.Status = entity.WorkCenterActive
	wc.CurrentWorkOrder = &orderID
	wc.AssignedOperator = &op
}

// ──────────────────────────────────────────────────────────────────────────────
// View
// ──────────────────────────────────────────────────────────────────────────────

func TestView_CentroLibreUsaSuEstadoAlmacenado(t *testing.T) {
	uc, _, _ := setup(t)
	view, err := uc.View(context.Background())
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, entity.WorkCenterIdle, view[0].DisplayStatus)
	assert.Nil(t, view[0].CurrentOrder)
}

func TestView_CentroOcupadoDerivaEstadoDeLaOrden(t *testing.T) {
	uc, centers, orders := setup(t)
	occupy(centers, orders, "wo-1")

	view, err := uc.View(context.Background())
	require.NoError(t, err)
	require.Len(t, view, 1)
	require.NotNil(t, view[0].CurrentOrder)
	assert.Equal(t, "wo-1", view[0].CurrentOrder.ID)
	assert.Equal(t, entity.WorkOrderStarted, view[0].DisplayStatus)
}

// ──────────────────────────────────────────────────────────────────────────────
// ToggleStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestToggleStatus_SoloIdleYMaintenance(t *testing.T) {
	uc, _, _ := setup(t)

	wc, err := uc.ToggleStatus(context.Background(), "wc-1", entity.WorkCenterMaintenance)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkCenterMaintenance, wc.Status)

	wc, err = uc.ToggleStatus(context.Background(), "wc-1", entity.WorkCenterIdle)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkCenterIdle, wc.Status)

	// active es exclusivo de la máquina de estados
	_, err = uc.ToggleStatus(context.Background(), "wc-1", entity.WorkCenterActive)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestToggleStatus_RechazadoConElCentroOcupado(t *testing.T) {
	uc, centers, orders := setup(t)
	occupy(centers, orders, "wo-1")

	_, err := uc.ToggleStatus(context.Background(), "wc-1", entity.WorkCenterMaintenance)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.WorkCenterActive, centers.centers["wc-1"].Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// CurrentAssignment
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentAssignment(t *testing.T) {
	uc, centers, orders := setup(t)

	orderID, operator, err := uc.CurrentAssignment(context.Background(), "wc-1")
	require.NoError(t, err)
	assert.Empty(t, orderID)
	assert.Empty(t, operator)

	occupy(centers, orders, "wo-1")
	orderID, operator, err = uc.CurrentAssignment(context.Background(), "wc-1")
	require.NoError(t, err)
	assert.Equal(t, "wo-1", orderID)
	assert.Equal(t, "op-1", operator)

	_, _, err = uc.CurrentAssignment(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
