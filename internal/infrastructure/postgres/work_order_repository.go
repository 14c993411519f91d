package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

const workOrderColumns = `id, work_order_number, manufacturing_order_id, work_center_id, operation,
		sequence, status, priority, estimated_duration, actual_duration, start_date, end_date,
		actual_start_time, actual_end_time, assigned_to, progress, qr_code, created_by, created_at, updated_at`

// WorkOrderRepo implementación de WorkOrderRepository sobre PostgreSQL
// (usable con pool o tx). Las lecturas por ID cargan la orden con su time
// tracking e incidencias; los listados devuelven solo la cabecera.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador de órdenes. Pasar pool o tx (Querier).
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create persiste una nueva orden de trabajo.
func (r *WorkOrderRepo) Create(order *entity.WorkOrder) error {
	query := `
		INSERT INTO work_orders (` + workOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.WorkOrderNumber, order.ManufacturingOrderID, order.WorkCenterID,
		order.Operation, order.Sequence, order.Status, order.Priority,
		order.EstimatedDuration, order.ActualDuration, order.StartDate, order.EndDate,
		order.ActualStartTime, order.ActualEndTime, order.AssignedTo, order.Progress,
		order.QRCode, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID con time tracking e incidencias.
func (r *WorkOrderRepo) GetByID(id string) (*entity.WorkOrder, error) {
	return r.getWhere(`id = $1`, "", id)
}

// GetForUpdate obtiene una orden bloqueando su fila (SELECT FOR UPDATE).
func (r *WorkOrderRepo) GetForUpdate(id string) (*entity.WorkOrder, error) {
	return r.getWhere(`id = $1`, ` FOR UPDATE`, id)
}

// Update actualiza la cabecera de una orden. El time tracking y las
// incidencias se agregan con AppendTimeTracking y AppendIssue (append-only).
func (r *WorkOrderRepo) Update(order *entity.WorkOrder) error {
	query := `
		UPDATE work_orders SET status = $2, priority = $3, estimated_duration = $4,
			actual_duration = $5, start_date = $6, end_date = $7, actual_start_time = $8,
			actual_end_time = $9, assigned_to = $10, progress = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.Priority, order.EstimatedDuration,
		order.ActualDuration, order.StartDate, order.EndDate, order.ActualStartTime,
		order.ActualEndTime, order.AssignedTo, order.Progress, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	return nil
}

// List lista órdenes con filtros opcionales, ordenadas por prioridad y fecha.
func (r *WorkOrderRepo) List(filter repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE 1=1`
	args := []any{}
	n := 0
	next := func() string {
		n++
		return "$" + strconv.Itoa(n)
	}
	if filter.Status != "" {
		query += ` AND status = ` + next()
		args = append(args, filter.Status)
	}
	if filter.WorkCenterID != "" {
		query += ` AND work_center_id = ` + next()
		args = append(args, filter.WorkCenterID)
	}
	if filter.Priority != "" {
		query += ` AND priority = ` + next()
		args = append(args, filter.Priority)
	}
	if filter.AssignedTo != "" {
		query += ` AND assigned_to = ` + next()
		args = append(args, filter.AssignedTo)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` ORDER BY created_at DESC LIMIT ` + next()
	args = append(args, limit)
	query += ` OFFSET ` + next()
	args = append(args, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ListByManufacturingOrder lista las órdenes de una orden de manufactura en
// orden de secuencia.
func (r *WorkOrderRepo) ListByManufacturingOrder(manufacturingOrderID string) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + `
		FROM work_orders WHERE manufacturing_order_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(context.Background(), query, manufacturingOrderID)
	if err != nil {
		return nil, fmt.Errorf("list work orders by mo: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// FindActiveByWorkCenter devuelve la orden en ejecución (started o paused)
// en un centro, o nil si no hay.
func (r *WorkOrderRepo) FindActiveByWorkCenter(workCenterID string) (*entity.WorkOrder, error) {
	return r.getWhere(
		`work_center_id = $1 AND status IN ('started', 'paused') ORDER BY updated_at DESC LIMIT 1`,
		"", workCenterID,
	)
}

// AppendTimeTracking agrega un registro de auditoría de transición
// (append-only).
func (r *WorkOrderRepo) AppendTimeTracking(tt *entity.TimeTracking) error {
	query := `
		INSERT INTO work_order_time_tracking (id, work_order_id, from_status, to_status, operator, comment, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		tt.ID, tt.WorkOrderID, tt.FromStatus, tt.ToStatus, tt.Operator, tt.Comment, tt.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert time tracking: %w", err)
	}
	return nil
}

// AppendIssue agrega una incidencia (append-only).
func (r *WorkOrderRepo) AppendIssue(issue *entity.Issue) error {
	query := `
		INSERT INTO work_order_issues (id, work_order_id, description, reported_by, reported_at, resolved)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		issue.ID, issue.WorkOrderID, issue.Description, issue.ReportedBy, issue.ReportedAt, issue.Resolved,
	)
	if err != nil {
		return fmt.Errorf("insert issue: %w", err)
	}
	return nil
}

// NextSequence entrega el siguiente consecutivo del año para numerar
// WO-<año>-NNN. Upsert atómico sobre el contador por año.
func (r *WorkOrderRepo) NextSequence(year int) (int, error) {
	var seq int
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO work_order_counters (year, value) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET value = work_order_counters.value + 1
		RETURNING value`, year,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next work order sequence: %w", err)
	}
	return seq, nil
}

func (r *WorkOrderRepo) getWhere(where, suffix string, arg any) (*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE ` + where + suffix
	order, err := scanWorkOrder(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	if err := r.loadChildren(order); err != nil {
		return nil, err
	}
	return order, nil
}

// loadChildren carga time tracking e incidencias de la orden, en orden
// cronológico.
func (r *WorkOrderRepo) loadChildren(order *entity.WorkOrder) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, work_order_id, from_status, to_status, operator, comment, ts
		FROM work_order_time_tracking WHERE work_order_id = $1 ORDER BY ts`, order.ID)
	if err != nil {
		return fmt.Errorf("list time tracking: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tt entity.TimeTracking
		if err := rows.Scan(&tt.ID, &tt.WorkOrderID, &tt.FromStatus, &tt.ToStatus, &tt.Operator, &tt.Comment, &tt.Timestamp); err != nil {
			return fmt.Errorf("scan time tracking: %w", err)
		}
		order.TimeTracking = append(order.TimeTracking, tt)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	issueRows, err := r.q.Query(context.Background(), `
		SELECT id, work_order_id, description, reported_by, reported_at, resolved
		FROM work_order_issues WHERE work_order_id = $1 ORDER BY reported_at`, order.ID)
	if err != nil {
		return fmt.Errorf("list issues: %w", err)
	}
	defer issueRows.Close()
	for issueRows.Next() {
		var is entity.Issue
		if err := issueRows.Scan(&is.ID, &is.WorkOrderID, &is.Description, &is.ReportedBy, &is.ReportedAt, &is.Resolved); err != nil {
			return fmt.Errorf("scan issue: %w", err)
		}
		order.Issues = append(order.Issues, is)
	}
	return issueRows.Err()
}

func (r *WorkOrderRepo) scanMany(rows pgx.Rows) ([]*entity.WorkOrder, error) {
	var out []*entity.WorkOrder
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func scanWorkOrder(row pgx.Row) (*entity.WorkOrder, error) {
	var o entity.WorkOrder
	err := row.Scan(
		&o.ID, &o.WorkOrderNumber, &o.ManufacturingOrderID, &o.WorkCenterID, &o.Operation,
		&o.Sequence, &o.Status, &o.Priority, &o.EstimatedDuration, &o.ActualDuration,
		&o.StartDate, &o.EndDate, &o.ActualStartTime, &o.ActualEndTime, &o.AssignedTo,
		&o.Progress, &o.QRCode, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
