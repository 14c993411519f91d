package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

const ledgerColumns = `id, product_id, kind, delta, resulting_balance, reference,
		reference_type, notes, created_by, created_at`

// LedgerEntryRepo implementación del libro de inventario sobre PostgreSQL.
// Solo inserta y consulta: los asientos son inmutables, no hay UPDATE ni
// DELETE sobre ledger_entries.
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

// Create inserta un asiento. Debe invocarse en la misma transacción que
// actualiza la caché de balance del producto.
func (r *LedgerEntryRepo) Create(entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.Kind, entry.Delta, entry.ResultingBalance,
		entry.Reference, entry.ReferenceType, entry.Notes, entry.CreatedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// List consulta el libro con filtros opcionales, ordenado por fecha
// descendente.
func (r *LedgerEntryRepo) List(filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE 1=1`
	args := []any{}
	n := 0
	next := func() string {
		n++
		return "$" + strconv.Itoa(n)
	}
	if filter.ProductID != "" {
		query += ` AND product_id = ` + next()
		args = append(args, filter.ProductID)
	}
	if filter.Kind != "" {
		query += ` AND kind = ` + next()
		args = append(args, filter.Kind)
	}
	if filter.From != nil {
		query += ` AND created_at >= ` + next()
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += ` AND created_at <= ` + next()
		args = append(args, *filter.To)
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
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

// ListByProduct devuelve el historial completo de un producto en orden
// cronológico ascendente (el orden de replay).
func (r *LedgerEntryRepo) ListByProduct(productID string) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries WHERE product_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by product: %w", err)
	}
	defer rows.Close()
	return scanLedgerEntries(rows)
}

func scanLedgerEntries(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.Kind, &e.Delta, &e.ResultingBalance,
			&e.Reference, &e.ReferenceType, &e.Notes, &e.CreatedBy, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
