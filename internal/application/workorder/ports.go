package workorder

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. La transición -> started bloquea la fila del
// centro de trabajo dentro de esta transacción para impedir la doble
// ocupación.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.WorkOrderRepository,
		centerRepo repository.WorkCenterRepository,
	) error) error
}

// ProgressRecalculator recalcula el progreso de la orden de manufactura
// cuando una de sus órdenes de trabajo se completa. Es un efecto secundario
// posterior a la transición: su fallo se registra y se descarta.
type ProgressRecalculator interface {
	Recalc(ctx context.Context, manufacturingOrderID string) error
}
