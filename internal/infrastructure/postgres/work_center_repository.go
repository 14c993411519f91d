package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.WorkCenterRepository = (*WorkCenterRepo)(nil)

const workCenterColumns = `id, code, name, location, cost_per_hour, capacity, status,
		current_work_order, assigned_operator, utilization, qr_code, is_active, created_at, updated_at`

// WorkCenterRepo implementación de WorkCenterRepository sobre PostgreSQL (usable con pool o tx).
type WorkCenterRepo struct {
	q Querier
}

// NewWorkCenterRepository construye el adaptador de centros. Pasar pool o tx (Querier).
func NewWorkCenterRepository(q Querier) *WorkCenterRepo {
	return &WorkCenterRepo{q: q}
}

// Create persiste un nuevo centro de trabajo.
func (r *WorkCenterRepo) Create(wc *entity.WorkCenter) error {
	query := `
		INSERT INTO work_centers (` + workCenterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		wc.ID, wc.Code, wc.Name, wc.Location, wc.CostPerHour, wc.Capacity, wc.Status,
		wc.CurrentWorkOrder, wc.AssignedOperator, wc.Utilization, wc.QRCode, wc.IsActive,
		wc.CreatedAt, wc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert work center: %w", err)
	}
	return nil
}

// GetByID obtiene un centro por ID.
func (r *WorkCenterRepo) GetByID(id string) (*entity.WorkCenter, error) {
	return r.getWhere(`id = $1`, "", id)
}

// GetByCode obtiene un centro por código.
func (r *WorkCenterRepo) GetByCode(code string) (*entity.WorkCenter, error) {
	return r.getWhere(`code = $1`, "", code)
}

// GetByQRCode obtiene un centro por su código QR textual.
func (r *WorkCenterRepo) GetByQRCode(qrCode string) (*entity.WorkCenter, error) {
	return r.getWhere(`qr_code = $1`, "", qrCode)
}

// GetForUpdate obtiene un centro bloqueando su fila (SELECT FOR UPDATE).
// Es la sección crítica por-centro de la transición -> started: dos órdenes
// compitiendo por el mismo centro se serializan aquí.
func (r *WorkCenterRepo) GetForUpdate(id string) (*entity.WorkCenter, error) {
	return r.getWhere(`id = $1`, ` FOR UPDATE`, id)
}

// Update actualiza un centro, incluidos los campos de ocupación.
func (r *WorkCenterRepo) Update(wc *entity.WorkCenter) error {
	query := `
		UPDATE work_centers SET name = $2, location = $3, cost_per_hour = $4, capacity = $5,
			status = $6, current_work_order = $7, assigned_operator = $8, utilization = $9,
			is_active = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		wc.ID, wc.Name, wc.Location, wc.CostPerHour, wc.Capacity, wc.Status,
		wc.CurrentWorkOrder, wc.AssignedOperator, wc.Utilization, wc.IsActive, wc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update work center: %w", err)
	}
	return nil
}

// List lista todos los centros ordenados por código.
func (r *WorkCenterRepo) List() ([]*entity.WorkCenter, error) {
	query := `SELECT ` + workCenterColumns + ` FROM work_centers ORDER BY code`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list work centers: %w", err)
	}
	defer rows.Close()

	var out []*entity.WorkCenter
	for rows.Next() {
		wc, err := scanWorkCenter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wc)
	}
	return out, rows.Err()
}

func (r *WorkCenterRepo) getWhere(where, suffix string, arg any) (*entity.WorkCenter, error) {
	query := `SELECT ` + workCenterColumns + ` FROM work_centers WHERE ` + where + suffix
	wc, err := scanWorkCenter(r.q.QueryRow(context.Background(), query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work center: %w", err)
	}
	return wc, nil
}

func scanWorkCenter(row pgx.Row) (*entity.WorkCenter, error) {
	var wc entity.WorkCenter
	err := row.Scan(
		&wc.ID, &wc.Code, &wc.Name, &wc.Location, &wc.CostPerHour, &wc.Capacity,
		&wc.Status, &wc.CurrentWorkOrder, &wc.AssignedOperator, &wc.Utilization,
		&wc.QRCode, &wc.IsActive, &wc.CreatedAt, &wc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &wc, nil
}
