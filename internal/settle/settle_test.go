package settle

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitbook-dev/splitbook/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// newDebt sets up payer owing payee the given amount, mirrored on both
// participants' balance maps the way an applied expense leaves them.
func newDebt(t *testing.T, amount string) (payer, payee *model.Participant, sheet *model.BalanceSheet) {
	t.Helper()
	payer = model.NewParticipant("par_bob", "Bob")
	payee = model.NewParticipant("par_alice", "Alice")
	sheet = model.NewBalanceSheet()

	sheet.Add(payer.ID, payee.ID, dec(amount))
	payer.AdjustBalance(payee.ID, dec(amount).Neg())
	payee.AdjustBalance(payer.ID, dec(amount))
	return payer, payee, sheet
}

func TestDirectSettlement_Full(t *testing.T) {
	payer, payee, sheet := newDebt(t, "100")

	err := DirectSettlement{}.Settle(payer, payee, dec("100"), sheet)
	require.NoError(t, err)

	assert.False(t, sheet.Has(payer.ID, payee.ID), "settled entry must be removed")
	assert.True(t, payer.BalanceWith(payee.ID).IsZero())
	assert.True(t, payee.BalanceWith(payer.ID).IsZero())
}

func TestDirectSettlement_Partial(t *testing.T) {
	payer, payee, sheet := newDebt(t, "100")

	err := DirectSettlement{}.Settle(payer, payee, dec("40"), sheet)
	require.NoError(t, err)

	assert.True(t, sheet.Outstanding(payer.ID, payee.ID).Equal(dec("60")))
	assert.True(t, payer.BalanceWith(payee.ID).Equal(dec("-60")))
	assert.True(t, payee.BalanceWith(payer.ID).Equal(dec("60")))
}

func TestDirectSettlement_Conservation(t *testing.T) {
	payer, payee, sheet := newDebt(t, "100")

	err := DirectSettlement{}.Settle(payer, payee, dec("40"), sheet)
	require.NoError(t, err)

	total := payer.NetBalance().Add(payee.NetBalance())
	assert.True(t, total.IsZero(), "net balances must sum to zero, got %s", total)
}

func TestDirectSettlement_NoOutstandingBalance(t *testing.T) {
	payer := model.NewParticipant("par_bob", "Bob")
	payee := model.NewParticipant("par_alice", "Alice")
	sheet := model.NewBalanceSheet()

	err := DirectSettlement{}.Settle(payer, payee, dec("10"), sheet)
	assert.ErrorIs(t, err, ErrNoOutstandingBalance)
}

func TestDirectSettlement_WrongDirection(t *testing.T) {
	payer, payee, sheet := newDebt(t, "100")

	// The debt runs payer -> payee; the reverse pair has no entry.
	err := DirectSettlement{}.Settle(payee, payer, dec("10"), sheet)
	assert.ErrorIs(t, err, ErrNoOutstandingBalance)
}

func TestDirectSettlement_ExceedsBalance(t *testing.T) {
	payer, payee, sheet := newDebt(t, "100")

	err := DirectSettlement{}.Settle(payer, payee, dec("150"), sheet)
	assert.ErrorIs(t, err, ErrSettlementExceedsBalance)

	// Nothing was touched.
	assert.True(t, sheet.Outstanding(payer.ID, payee.ID).Equal(dec("100")))
	assert.True(t, payee.BalanceWith(payer.ID).Equal(dec("100")))
}

func TestMinTransfersSettlement_NotImplemented(t *testing.T) {
	payer, payee, sheet := newDebt(t, "100")

	err := MinTransfersSettlement{}.Settle(payer, payee, dec("100"), sheet)
	assert.ErrorIs(t, err, ErrNotImplemented)

	// The stub must not touch anything.
	assert.True(t, sheet.Outstanding(payer.ID, payee.ID).Equal(dec("100")))
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	for _, algo := range []model.SettlementAlgo{model.SettleDirect, model.SettleMinTransfers} {
		p, err := r.Lookup(algo)
		require.NoError(t, err, "algo %s", algo)
		assert.Equal(t, algo, p.Algo())
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	_, err := DefaultRegistry().Lookup("bilateral-netting")
	assert.ErrorIs(t, err, ErrUnknownSettlementPolicy)
}

func TestRegistry_RegisterDuplicatePanics(t *testing.T) {
	r := DefaultRegistry()
	assert.Panics(t, func() { r.Register(DirectSettlement{}) })
}
