package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/vectigal/internal/models"
)

func TestMemoryDB_MissingRowsReadAsZero(t *testing.T) {
	db := NewMemoryDB()
	account := strings.Repeat("ab", 22)

	entry, err := db.ClaimEntry(account)
	require.NoError(t, err)
	assert.Equal(t, account, entry.Recipient)
	assert.Zero(t, entry.Amount)

	discount, err := db.Discount(account)
	require.NoError(t, err)
	assert.Zero(t, discount)

	allowed, err := db.Permission(account, account)
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = db.LedgerState()
	assert.Error(t, err, "state must be seeded before use")
}

func TestMemoryDB_EnsureLedgerStateSeedsOnce(t *testing.T) {
	db := NewMemoryDB()

	state, err := db.EnsureLedgerState(100, 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), state.SendFee)
	assert.Equal(t, uint64(200), state.DelegationFee)

	state.SendFee = 999
	require.NoError(t, db.SaveLedgerState(state))

	// A second ensure keeps the stored row.
	state, err = db.EnsureLedgerState(100, 200)
	require.NoError(t, err)
	assert.Equal(t, uint64(999), state.SendFee)
}

func TestMemoryDB_SaveClaimEntryAndState(t *testing.T) {
	db := NewMemoryDB()
	account := strings.Repeat("ef", 22)

	_, err := db.EnsureLedgerState(100, 200)
	require.NoError(t, err)

	state, err := db.LedgerState()
	require.NoError(t, err)
	state.OperatorAccrual = 10

	entry := &models.ClaimEntry{Recipient: account, Amount: 90, LastDeposit: 7}
	require.NoError(t, db.SaveClaimEntryAndState(entry, state))

	got, err := db.ClaimEntry(account)
	require.NoError(t, err)
	assert.Equal(t, uint64(90), got.Amount)

	state, err = db.LedgerState()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), state.OperatorAccrual)
}

func TestMemoryDB_SaveReturnsCopies(t *testing.T) {
	db := NewMemoryDB()
	account := strings.Repeat("cd", 22)

	require.NoError(t, db.SaveClaimEntry(&models.ClaimEntry{Recipient: account, Amount: 500}))

	entry, err := db.ClaimEntry(account)
	require.NoError(t, err)
	entry.Amount = 0

	again, err := db.ClaimEntry(account)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), again.Amount, "mutating a read must not touch the store")
}

func TestMemoryDB_PayoutRecords(t *testing.T) {
	db := NewMemoryDB()
	a := strings.Repeat("aa", 22)
	b := strings.Repeat("bb", 22)

	require.NoError(t, db.AddPayoutRecord(&models.PayoutRecord{Account: a, Amount: 10, Kind: models.PayoutKindClaim}))
	require.NoError(t, db.AddPayoutRecord(&models.PayoutRecord{Account: b, Amount: 20, Kind: models.PayoutKindWithdrawal}))
	require.NoError(t, db.AddPayoutRecord(&models.PayoutRecord{Account: a, Amount: 30, Kind: models.PayoutKindDistribution}))

	records, err := db.PayoutRecords(a)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(10), records[0].Amount)
	assert.Equal(t, uint64(30), records[1].Amount)
	assert.NotZero(t, records[0].ID)
}
