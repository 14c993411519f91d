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

var _ repository.ManufacturingOrderRepository = (*ManufacturingOrderRepo)(nil)

const manufacturingOrderColumns = `id, order_number, product_id, quantity, status, progress,
		start_date, end_date, created_by, created_at, updated_at`

// ManufacturingOrderRepo implementación de ManufacturingOrderRepository sobre
// PostgreSQL (usable con pool o tx).
type ManufacturingOrderRepo struct {
	q Querier
}

// NewManufacturingOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewManufacturingOrderRepository(q Querier) *ManufacturingOrderRepo {
	return &ManufacturingOrderRepo{q: q}
}

// Create persiste una nueva orden de manufactura.
func (r *ManufacturingOrderRepo) Create(mo *entity.ManufacturingOrder) error {
	query := `
		INSERT INTO manufacturing_orders (` + manufacturingOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		mo.ID, mo.OrderNumber, mo.ProductID, mo.Quantity, mo.Status, mo.Progress,
		mo.StartDate, mo.EndDate, mo.CreatedBy, mo.CreatedAt, mo.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert manufacturing order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de manufactura por ID.
func (r *ManufacturingOrderRepo) GetByID(id string) (*entity.ManufacturingOrder, error) {
	query := `SELECT ` + manufacturingOrderColumns + ` FROM manufacturing_orders WHERE id = $1`
	var mo entity.ManufacturingOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&mo.ID, &mo.OrderNumber, &mo.ProductID, &mo.Quantity, &mo.Status, &mo.Progress,
		&mo.StartDate, &mo.EndDate, &mo.CreatedBy, &mo.CreatedAt, &mo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturing order: %w", err)
	}
	return &mo, nil
}

// Update actualiza una orden de manufactura.
func (r *ManufacturingOrderRepo) Update(mo *entity.ManufacturingOrder) error {
	query := `
		UPDATE manufacturing_orders SET status = $2, progress = $3, start_date = $4,
			end_date = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		mo.ID, mo.Status, mo.Progress, mo.StartDate, mo.EndDate, mo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update manufacturing order: %w", err)
	}
	return nil
}

// List lista órdenes de manufactura con filtro opcional de estado.
func (r *ManufacturingOrderRepo) List(status string, limit, offset int) ([]*entity.ManufacturingOrder, error) {
	query := `SELECT ` + manufacturingOrderColumns + ` FROM manufacturing_orders`
	args := []any{}
	n := 0
	if status != "" {
		n++
		query += ` WHERE status = $` + strconv.Itoa(n)
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list manufacturing orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.ManufacturingOrder
	for rows.Next() {
		var mo entity.ManufacturingOrder
		if err := rows.Scan(
			&mo.ID, &mo.OrderNumber, &mo.ProductID, &mo.Quantity, &mo.Status, &mo.Progress,
			&mo.StartDate, &mo.EndDate, &mo.CreatedBy, &mo.CreatedAt, &mo.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan manufacturing order: %w", err)
		}
		out = append(out, &mo)
	}
	return out, rows.Err()
}

// NextSequence entrega el siguiente consecutivo del año para numerar
// MO-<año>-NNN. Upsert atómico sobre el contador por año.
func (r *ManufacturingOrderRepo) NextSequence(year int) (int, error) {
	var seq int
	err := r.q.QueryRow(context.Background(), `
		INSERT INTO manufacturing_order_counters (year, value) VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET value = manufacturing_order_counters.value + 1
		RETURNING value`, year,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next manufacturing order sequence: %w", err)
	}
	return seq, nil
}
