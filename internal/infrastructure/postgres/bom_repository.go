package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)

const bomColumns = `id, product_id, name, version, is_active, created_by, created_at, updated_at`

// BOMRepo implementación de BOMRepository sobre PostgreSQL (usable con pool o tx).
// Las líneas de componentes viven en bom_components y se reemplazan en bloque
// al actualizar.
type BOMRepo struct {
	q Querier
}

// NewBOMRepository construye el adaptador de BOMs. Pasar pool o tx (Querier).
func NewBOMRepository(q Querier) *BOMRepo {
	return &BOMRepo{q: q}
}

// Create persiste una lista de materiales con sus componentes.
func (r *BOMRepo) Create(bom *entity.BillOfMaterial) error {
	query := `
		INSERT INTO boms (` + bomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		bom.ID, bom.ProductID, bom.Name, bom.Version, bom.IsActive,
		bom.CreatedBy, bom.CreatedAt, bom.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bom: %w", err)
	}
	return r.insertComponents(bom.ID, bom.Components)
}

// GetByID obtiene una BOM por ID con sus componentes.
func (r *BOMRepo) GetByID(id string) (*entity.BillOfMaterial, error) {
	return r.getWhere(`id = $1`, id)
}

// GetByProduct obtiene la BOM activa de un producto, o nil si no tiene.
func (r *BOMRepo) GetByProduct(productID string) (*entity.BillOfMaterial, error) {
	return r.getWhere(`product_id = $1 AND is_active = true ORDER BY updated_at DESC LIMIT 1`, productID)
}

// Update actualiza la cabecera y reemplaza los componentes en bloque.
func (r *BOMRepo) Update(bom *entity.BillOfMaterial) error {
	query := `
		UPDATE boms SET name = $2, version = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		bom.ID, bom.Name, bom.Version, bom.IsActive, bom.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bom: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM bom_components WHERE bom_id = $1`, bom.ID); err != nil {
		return fmt.Errorf("delete bom components: %w", err)
	}
	return r.insertComponents(bom.ID, bom.Components)
}

// List lista BOMs con paginación, cada una con sus componentes.
func (r *BOMRepo) List(limit, offset int) ([]*entity.BillOfMaterial, error) {
	query := `SELECT ` + bomColumns + ` FROM boms ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list boms: %w", err)
	}
	defer rows.Close()

	var out []*entity.BillOfMaterial
	for rows.Next() {
		var b entity.BillOfMaterial
		if err := rows.Scan(
			&b.ID, &b.ProductID, &b.Name, &b.Version, &b.IsActive,
			&b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, b := range out {
		if err := r.loadComponents(b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Delete elimina una BOM y sus componentes.
func (r *BOMRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM bom_components WHERE bom_id = $1`, id); err != nil {
		return fmt.Errorf("delete bom components: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM boms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete bom: %w", err)
	}
	return nil
}

func (r *BOMRepo) getWhere(where string, arg any) (*entity.BillOfMaterial, error) {
	query := `SELECT ` + bomColumns + ` FROM boms WHERE ` + where
	var b entity.BillOfMaterial
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&b.ID, &b.ProductID, &b.Name, &b.Version, &b.IsActive,
		&b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}
	if err := r.loadComponents(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BOMRepo) insertComponents(bomID string, components []entity.BOMComponent) error {
	for _, c := range components {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO bom_components (bom_id, product_id, quantity) VALUES ($1, $2, $3)`,
			bomID, c.ProductID, c.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert bom component: %w", err)
		}
	}
	return nil
}

func (r *BOMRepo) loadComponents(b *entity.BillOfMaterial) error {
	rows, err := r.q.Query(context.Background(),
		`SELECT product_id, quantity FROM bom_components WHERE bom_id = $1`, b.ID)
	if err != nil {
		return fmt.Errorf("list bom components: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c entity.BOMComponent
		if err := rows.Scan(&c.ProductID, &c.Quantity); err != nil {
			return fmt.Errorf("scan bom component: %w", err)
		}
		b.Components = append(b.Components, c)
	}
	return rows.Err()
}
