package ledger

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que asiento y caché de balance se
// escriban como una sola unidad atómica, con la fila del producto bloqueada
// (SELECT FOR UPDATE) durante el read-validate-write.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		entryRepo repository.LedgerEntryRepository,
		productRepo repository.ProductRepository,
	) error) error
}
