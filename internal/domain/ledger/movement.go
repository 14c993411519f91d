package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// Movement es la variante etiquetada de un movimiento de stock. El mismo
// número significa cosas distintas según el tipo: magnitud para
// Inbound/Outbound, balance objetivo absoluto para SetAbsolute. La variante
// hace ambas intenciones inequívocas en el punto de llamada en lugar de un
// campo numérico ambiguo.
type Movement struct {
	kind   string
	amount decimal.Decimal
}

// Inbound construye una entrada de stock por la magnitud dada.
func Inbound(amount decimal.Decimal) Movement {
	return Movement{kind: entity.LedgerKindInbound, amount: amount}
}

// Outbound construye una salida de stock por la magnitud dada.
func Outbound(amount decimal.Decimal) Movement {
	return Movement{kind: entity.LedgerKindOutbound, amount: amount}
}

// SetAbsolute construye un ajuste que fija el balance al valor objetivo.
func SetAbsolute(target decimal.Decimal) Movement {
	return Movement{kind: entity.LedgerKindSetAbsolute, amount: target}
}

// FromKind construye la variante desde el tipo textual del API
// (in/out/adjustment). Retorna ErrInvalidInput si el tipo es desconocido.
func FromKind(kind string, amount decimal.Decimal) (Movement, error) {
	switch kind {
	case entity.LedgerKindInbound:
		return Inbound(amount), nil
	case entity.LedgerKindOutbound:
		return Outbound(amount), nil
	case entity.LedgerKindSetAbsolute:
		return SetAbsolute(amount), nil
	default:
		return Movement{}, domain.ErrInvalidInput
	}
}

// Kind devuelve el tipo de asiento (in, out, adjustment).
func (m Movement) Kind() string { return m.kind }

// Validate verifica las reglas de entrada: magnitud positiva para
// Inbound/Outbound, objetivo no negativo para SetAbsolute.
func (m Movement) Validate() error {
	switch m.kind {
	case entity.LedgerKindInbound, entity.LedgerKindOutbound:
		if !m.amount.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.LedgerKindSetAbsolute:
		if m.amount.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// Apply calcula el delta con signo y el balance resultante al aplicar el
// movimiento sobre el balance actual. Retorna ErrInsufficientStock si una
// salida dejaría el balance negativo. No muta nada: el caller persiste el
// asiento y la caché de balance en la misma transacción.
func (m Movement) Apply(balance decimal.Decimal) (delta, newBalance decimal.Decimal, err error) {
	switch m.kind {
	case entity.LedgerKindInbound:
		return m.amount, balance.Add(m.amount), nil
	case entity.LedgerKindOutbound:
		newBalance = balance.Sub(m.amount)
		if newBalance.LessThan(decimal.Zero) {
			return decimal.Zero, decimal.Zero, domain.ErrInsufficientStock
		}
		return m.amount.Neg(), newBalance, nil
	case entity.LedgerKindSetAbsolute:
		// amount es el balance objetivo; el delta almacenado es objetivo - actual
		return m.amount.Sub(balance), m.amount, nil
	default:
		return decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
}

// Replay reconstruye el balance reproduciendo los asientos desde cero en
// orden de creación. La caché Product.StockQuantity debe coincidir siempre
// con este valor: es la verificación de consistencia del libro.
func Replay(entries []*entity.LedgerEntry) decimal.Decimal {
	balance := decimal.Zero
	for _, e := range entries {
		balance = balance.Add(e.Delta)
	}
	return balance
}
