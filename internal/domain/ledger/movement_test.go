package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/ledger"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_EntradaYSalidaExigenMagnitudPositiva(t *testing.T) {
	assert.NoError(t, ledger.Inbound(dec("1")).Validate())
	assert.ErrorIs(t, ledger.Inbound(decimal.Zero).Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.Inbound(dec("-5")).Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.Outbound(decimal.Zero).Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, ledger.Outbound(dec("-1")).Validate(), domain.ErrInvalidInput)
}

func TestValidate_AjusteAdmiteCeroPeroNoNegativo(t *testing.T) {
	assert.NoError(t, ledger.SetAbsolute(decimal.Zero).Validate())
	assert.NoError(t, ledger.SetAbsolute(dec("100")).Validate())
	assert.ErrorIs(t, ledger.SetAbsolute(dec("-1")).Validate(), domain.ErrInvalidInput)
}

func TestFromKind_TipoDesconocido(t *testing.T) {
	_, err := ledger.FromKind("transfer", dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_EntradaSumaAlBalance(t *testing.T) {
	delta, balance, err := ledger.Inbound(dec("50")).Apply(dec("100"))
	require.NoError(t, err)
	assert.True(t, delta.Equal(dec("50")))
	assert.True(t, balance.Equal(dec("150")))
}

func TestApply_SalidaRestaYRechazaBalanceNegativo(t *testing.T) {
	delta, balance, err := ledger.Outbound(dec("200")).Apply(dec("5000"))
	require.NoError(t, err)
	assert.True(t, delta.Equal(dec("-200")))
	assert.True(t, balance.Equal(dec("4800")))

	_, _, err = ledger.Outbound(dec("6000")).Apply(dec("5000"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestApply_SalidaExactaDejaBalanceCero(t *testing.T) {
	_, balance, err := ledger.Outbound(dec("5000")).Apply(dec("5000"))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

// El delta de un ajuste absoluto es objetivo - balance actual, no el objetivo.
func TestApply_AjusteAbsolutoGuardaDeltaRelativo(t *testing.T) {
	delta, balance, err := ledger.SetAbsolute(dec("80")).Apply(dec("100"))
	require.NoError(t, err)
	assert.True(t, delta.Equal(dec("-20")))
	assert.True(t, balance.Equal(dec("80")))

	delta, balance, err = ledger.SetAbsolute(dec("100")).Apply(dec("80"))
	require.NoError(t, err)
	assert.True(t, delta.Equal(dec("20")))
	assert.True(t, balance.Equal(dec("100")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Replay
// ──────────────────────────────────────────────────────────────────────────────

// El balance cacheado debe ser reproducible sumando los deltas desde cero.
func TestReplay_ReconstruyeElBalanceDesdeCero(t *testing.T) {
	movements := []ledger.Movement{
		ledger.Inbound(dec("5000")),
		ledger.Outbound(dec("200")),
		ledger.SetAbsolute(dec("4500")),
		ledger.Inbound(dec("12.5")),
	}
	balance := decimal.Zero
	var entries []*entity.LedgerEntry
	for _, m := range movements {
		delta, newBalance, err := m.Apply(balance)
		require.NoError(t, err)
		entries = append(entries, &entity.LedgerEntry{
			Kind:             m.Kind(),
			Delta:            delta,
			ResultingBalance: newBalance,
		})
		balance = newBalance
	}

	assert.True(t, ledger.Replay(entries).Equal(balance))
	assert.True(t, entries[len(entries)-1].ResultingBalance.Equal(dec("4512.5")))
}
