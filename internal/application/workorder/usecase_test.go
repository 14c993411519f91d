package workorder_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/workorder"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// floor simula la base del taller: órdenes y centros, con un mutex que cumple
// el papel del lock de fila del centro (las transacciones se serializan).
type floor struct {
	mu       sync.Mutex
	orders   map[string]*entity.WorkOrder
	centers  map[string]*entity.WorkCenter
	tracking []*entity.TimeTracking
	issues   []*entity.Issue
	seq      int
}

func newFloor() *floor {
	return &floor{
		orders:  map[string]*entity.WorkOrder{},
		centers: map[string]*entity.WorkCenter{},
	}
}

type fakeOrderRepo struct{ f *floor }

func (r *fakeOrderRepo) Create(o *entity.WorkOrder) error { r.f.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	o, ok := r.f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}
func (r *fakeOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) { return r.GetByID(id) }
func (r *fakeOrderRepo) Update(o *entity.WorkOrder) error                  { r.f.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) List(repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, o := range r.f.orders {
		out = append(out, o)
	}
	return out, nil
}
func (r *fakeOrderRepo) ListByManufacturingOrder(moID string) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for _, o := range r.f.orders {
		if o.ManufacturingOrderID == moID {
			out = append(out, o)
		}
	}
	return out, nil
}
func (r *fakeOrderRepo) FindActiveByWorkCenter(wcID string) (*entity.WorkOrder, error) {
	for _, o := range r.f.orders {
		if o.WorkCenterID == wcID && (o.Status == entity.WorkOrderStarted || o.Status == entity.WorkOrderPaused) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeOrderRepo) AppendTimeTracking(tt *entity.TimeTracking) error {
	r.f.tracking = append(r.f.tracking, tt)
	return nil
}
func (r *fakeOrderRepo) AppendIssue(issue *entity.Issue) error {
	r.f.issues = append(r.f.issues, issue)
	return nil
}
func (r *fakeOrderRepo) NextSequence(int) (int, error) { r.f.seq++; return r.f.seq, nil }

type fakeCenterRepo struct{ f *floor }

func (r *fakeCenterRepo) Create(wc *entity.WorkCenter) error { r.f.centers[wc.ID] = wc; return nil }
func (r *fakeCenterRepo) GetByID(id string) (*entity.WorkCenter, error) {
	wc, ok := r.f.centers[id]
	if !ok {
		return nil, nil
	}
	cp := *wc
	return &cp, nil
}
func (r *fakeCenterRepo) GetByCode(string) (*entity.WorkCenter, error) { return nil, nil }
func (r *fakeCenterRepo) GetByQRCode(qr string) (*entity.WorkCenter, error) {
	for _, wc := range r.f.centers {
		if wc.QRCode == qr {
			cp := *wc
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeCenterRepo) GetForUpdate(id string) (*entity.WorkCenter, error) { return r.GetByID(id) }
func (r *fakeCenterRepo) Update(wc *entity.WorkCenter) error                 { r.f.centers[wc.ID] = wc; return nil }
func (r *fakeCenterRepo) List() ([]*entity.WorkCenter, error) {
	var out []*entity.WorkCenter
	for _, wc := range r.f.centers {
		out = append(out, wc)
	}
	return out, nil
}

type fakeTxRunner struct{ f *floor }

func (t *fakeTxRunner) Run(_ context.Context, fn func(
	orderRepo repository.WorkOrderRepository,
	centerRepo repository.WorkCenterRepository,
) error) error {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()
	return fn(&fakeOrderRepo{t.f}, &fakeCenterRepo{t.f})
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(event string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func setup(t *testing.T) (*workorder.UseCase, *floor, *recorder) {
	t.Helper()
	f := newFloor()
	f.centers["wc-1"] = &entity.WorkCenter{
		ID:     "wc-1",
		Code:   "CORTE-01",
		Name:   "Mesa de corte",
		Status: entity.WorkCenterIdle,
		QRCode: "WC_CORTE-01_1700000000",
	}
	rec := &recorder{}
	uc := workorder.NewUseCase(&fakeTxRunner{f}, &fakeOrderRepo{f}, &fakeCenterRepo{f}, rec, nil)
	return uc, f, rec
}

func createOrder(t *testing.T, uc *workorder.UseCase) string {
	t.Helper()
	order, err := uc.Create(context.Background(), "supervisor-1", dto.CreateWorkOrderRequest{
		WorkCenterID: "wc-1",
		Operation:    "Corte de lámina",
	})
	require.NoError(t, err)
	require.Equal(t, "planned", order.Status)
	return order.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCanTransition_TablaCompleta(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{"planned", "started", true},
		{"planned", "cancelled", true},
		{"planned", "paused", false},
		{"planned", "completed", false},
		{"started", "paused", true},
		{"started", "completed", true},
		{"started", "cancelled", true},
		{"started", "planned", false},
		{"paused", "started", true},
		{"paused", "completed", true},
		{"paused", "cancelled", true},
		{"delayed", "cancelled", true},
		{"delayed", "started", false},
		{"delayed", "completed", false},
		{"completed", "started", false},
		{"completed", "cancelled", false},
		{"cancelled", "started", false},
		{"cancelled", "planned", false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.ok, workorder.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

// El destino delayed no es transicionable: solo se alcanza con ReportIssue.
func TestTransition_DelayedNoEsDestinoDirecto(t *testing.T) {
	uc, _, _ := setup(t)
	id := createOrder(t, uc)
	_, err := uc.Transition(context.Background(), id, "delayed", "", "op-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransition_AristaInvalidaDevuelveConflicto(t *testing.T) {
	uc, _, _ := setup(t)
	id := createOrder(t, uc)
	_, err := uc.Transition(context.Background(), id, "completed", "", "op-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida con ocupación
// ──────────────────────────────────────────────────────────────────────────────

// planned -> started ocupa el centro; completed lo libera con progreso 100.
func TestTransition_CicloCompletoSincronizaOcupacion(t *testing.T) {
	uc, f, rec := setup(t)
	id := createOrder(t, uc)

	order, err := uc.Transition(context.Background(), id, "started", "turno mañana", "op-1")
	require.NoError(t, err)
	assert.Equal(t, "started", order.Status)
	assert.Equal(t, "op-1", order.AssignedTo)
	assert.NotNil(t, order.ActualStartTime)

	wc := f.centers["wc-1"]
	assert.Equal(t, entity.WorkCenterActive, wc.Status)
	require.NotNil(t, wc.CurrentWorkOrder)
	assert.Equal(t, id, *wc.CurrentWorkOrder)
	require.NotNil(t, wc.AssignedOperator)
	assert.Equal(t, "op-1", *wc.AssignedOperator)

	order, err = uc.Transition(context.Background(), id, "completed", "", "op-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", order.Status)
	assert.Equal(t, 100, order.Progress)
	assert.NotNil(t, order.ActualEndTime)

	wc = f.centers["wc-1"]
	assert.Equal(t, entity.WorkCenterIdle, wc.Status)
	assert.Nil(t, wc.CurrentWorkOrder)
	assert.Nil(t, wc.AssignedOperator)

	// Cada transición publica workorder_updated y shopfloor_update (ambas
	// tocaron ocupación), más el evento de creación.
	assert.Equal(t, 3, rec.count("workorder_updated"))
	assert.Equal(t, 2, rec.count("shopfloor_update"))

	// Auditoría append-only de las dos transiciones
	require.Len(t, f.tracking, 2)
	assert.Equal(t, "planned", f.tracking[0].FromStatus)
	assert.Equal(t, "started", f.tracking[0].ToStatus)
	assert.Equal(t, "turno mañana", f.tracking[0].Comment)
	assert.Equal(t, "started", f.tracking[1].FromStatus)
	assert.Equal(t, "completed", f.tracking[1].ToStatus)
}

// Dos órdenes sobre el mismo centro: la segunda no puede arrancar mientras la
// primera lo ocupa.
func TestTransition_GuardiaDeDobleOcupacion(t *testing.T) {
	uc, _, _ := setup(t)
	first := createOrder(t, uc)
	second := createOrder(t, uc)

	_, err := uc.Transition(context.Background(), first, "started", "", "op-1")
	require.NoError(t, err)

	_, err = uc.Transition(context.Background(), second, "started", "", "op-2")
	assert.ErrorIs(t, err, domain.ErrWorkCenterBusy)

	// Liberado el centro, la segunda ya puede arrancar
	_, err = uc.Transition(context.Background(), first, "completed", "", "op-1")
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), second, "started", "", "op-2")
	assert.NoError(t, err)
}

// Reanudar desde paused con el centro ocupado por la misma orden es válido y
// no reasigna operario.
func TestTransition_ReanudarNoReasignaOperario(t *testing.T) {
	uc, f, _ := setup(t)
	id := createOrder(t, uc)

	_, err := uc.Transition(context.Background(), id, "started", "", "op-1")
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), id, "paused", "pausa almuerzo", "op-1")
	require.NoError(t, err)

	order, err := uc.Transition(context.Background(), id, "started", "", "op-2")
	require.NoError(t, err)
	assert.Equal(t, "op-1", order.AssignedTo)
	require.NotNil(t, f.centers["wc-1"].AssignedOperator)
	assert.Equal(t, "op-1", *f.centers["wc-1"].AssignedOperator)
}

// La cancelación no libera el centro; queda para intervención manual.
func TestTransition_CancelarNoLiberaElCentro(t *testing.T) {
	uc, f, _ := setup(t)
	id := createOrder(t, uc)

	_, err := uc.Transition(context.Background(), id, "started", "", "op-1")
	require.NoError(t, err)
	_, err = uc.Transition(context.Background(), id, "cancelled", "material agotado", "op-1")
	require.NoError(t, err)

	wc := f.centers["wc-1"]
	assert.Equal(t, entity.WorkCenterActive, wc.Status)
	require.NotNil(t, wc.CurrentWorkOrder)
	assert.Equal(t, id, *wc.CurrentWorkOrder)
}

// ──────────────────────────────────────────────────────────────────────────────
// Incidencias
// ──────────────────────────────────────────────────────────────────────────────

func TestReportIssue_PasaADelayedSinTocarOcupacion(t *testing.T) {
	uc, f, _ := setup(t)
	id := createOrder(t, uc)
	_, err := uc.Transition(context.Background(), id, "started", "", "op-1")
	require.NoError(t, err)

	order, err := uc.ReportIssue(context.Background(), id, "falta material", "op-1")
	require.NoError(t, err)
	assert.Equal(t, "delayed", order.Status)
	require.Len(t, order.Issues, 1)
	assert.False(t, order.Issues[0].Resolved)
	assert.Equal(t, "falta material", order.Issues[0].Description)

	// La ocupación no se toca: el centro sigue con la orden
	wc := f.centers["wc-1"]
	require.NotNil(t, wc.CurrentWorkOrder)
	assert.Equal(t, id, *wc.CurrentWorkOrder)

	// Única salida de delayed: cancelled
	_, err = uc.Transition(context.Background(), id, "started", "", "op-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = uc.Transition(context.Background(), id, "cancelled", "", "op-1")
	assert.NoError(t, err)
}

// Una segunda incidencia sobre una orden ya delayed agrega el registro sin
// duplicar la transición.
func TestReportIssue_SegundaIncidenciaNoDuplicaTransicion(t *testing.T) {
	uc, f, _ := setup(t)
	id := createOrder(t, uc)
	_, err := uc.Transition(context.Background(), id, "started", "", "op-1")
	require.NoError(t, err)

	_, err = uc.ReportIssue(context.Background(), id, "falta material", "op-1")
	require.NoError(t, err)
	trackingLen := len(f.tracking)

	order, err := uc.ReportIssue(context.Background(), id, "máquina averiada", "op-2")
	require.NoError(t, err)
	assert.Equal(t, "delayed", order.Status)
	assert.Len(t, f.issues, 2)
	assert.Len(t, f.tracking, trackingLen)
}

func TestReportIssue_RechazadaEnEstadoTerminal(t *testing.T) {
	uc, _, _ := setup(t)
	id := createOrder(t, uc)
	_, err := uc.Transition(context.Background(), id, "cancelled", "", "op-1")
	require.NoError(t, err)

	_, err = uc.ReportIssue(context.Background(), id, "tarde", "op-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Asignación y QR
// ──────────────────────────────────────────────────────────────────────────────

// Una asignación concurrente con una transición jamás revierte el estado ya
// commiteado: ambas corren en transacción con la fila de la orden bloqueada,
// así que la reescritura de cabecera de Assign siempre parte de datos frescos.
func TestAssign_ConcurrenteConTransicionNoPisaElEstado(t *testing.T) {
	uc, f, _ := setup(t)

	for i := 0; i < 25; i++ {
		id := createOrder(t, uc)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := uc.Transition(context.Background(), id, "started", "", "op-1")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := uc.Assign(context.Background(), id, "op-9")
			assert.NoError(t, err)
		}()
		wg.Wait()

		order := f.orders[id]
		require.Equal(t, entity.WorkOrderStarted, order.Status)
		require.NotNil(t, order.ActualStartTime)
		wc := f.centers["wc-1"]
		require.NotNil(t, wc.CurrentWorkOrder)
		require.Equal(t, id, *wc.CurrentWorkOrder)

		// Liberar el centro para la siguiente iteración
		_, err := uc.Transition(context.Background(), id, "completed", "", "op-1")
		require.NoError(t, err)
	}
}

func TestAssign_NoMutaElEstado(t *testing.T) {
	uc, _, _ := setup(t)
	id := createOrder(t, uc)

	order, err := uc.Assign(context.Background(), id, "op-9")
	require.NoError(t, err)
	assert.Equal(t, "op-9", order.AssignedTo)
	assert.Equal(t, "planned", order.Status)
}

func TestGetByQR_ResuelveCentroAOrdenActiva(t *testing.T) {
	uc, _, _ := setup(t)
	id := createOrder(t, uc)

	// Sin orden activa en el centro: 404
	_, err := uc.GetByQR(context.Background(), "WC_CORTE-01_1700000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.Transition(context.Background(), id, "started", "", "op-1")
	require.NoError(t, err)

	order, err := uc.GetByQR(context.Background(), "WC_CORTE-01_1700000000")
	require.NoError(t, err)
	assert.Equal(t, id, order.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NumeracionSecuencialPorAnio(t *testing.T) {
	uc, _, _ := setup(t)
	year := time.Now().Year()

	first, err := uc.Create(context.Background(), "sup-1", dto.CreateWorkOrderRequest{
		WorkCenterID: "wc-1", Operation: "Corte",
	})
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), "sup-1", dto.CreateWorkOrderRequest{
		WorkCenterID: "wc-1", Operation: "Soldadura",
	})
	require.NoError(t, err)

	assert.Equal(t, formatWO(year, 1), first.WorkOrderNumber)
	assert.Equal(t, formatWO(year, 2), second.WorkOrderNumber)
	assert.Contains(t, first.QRCode, "WO_"+first.WorkOrderNumber)
}

func formatWO(year, n int) string {
	return fmt.Sprintf("WO-%d-%03d", year, n)
}
