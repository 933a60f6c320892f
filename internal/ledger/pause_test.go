package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-coin/vectigal/internal/ledger"
	"github.com/core-coin/vectigal/internal/repository"
	"github.com/core-coin/vectigal/pkg/logger"
)

type recordingAlerts struct {
	messages []string
}

func (a *recordingAlerts) Alert(message string) {
	a.messages = append(a.messages, message)
}

func TestPause_AlertsOperator(t *testing.T) {
	log, err := logger.NewLogger(true)
	require.NoError(t, err)
	repo := repository.NewMemoryDB()
	_, err = repo.EnsureLedgerState(defaultSendFee, defaultDelegationFee)
	require.NoError(t, err)

	alerts := &recordingAlerts{}
	lg := ledger.NewLedger(repo, &fakeToken{}, alerts, log, clockwork.NewFakeClock(), operatorAddr, custodyAddr)
	ctx := context.Background()

	require.NoError(t, lg.Pause(ctx, operatorAddr))
	require.NoError(t, lg.Unpause(ctx, operatorAddr))
	require.NoError(t, lg.Pause(ctx, operatorAddr))
	require.NoError(t, lg.EmergencyUnpause(ctx, operatorAddr))

	require.Len(t, alerts.messages, 4)
	assert.NotEqual(t, alerts.messages[1], alerts.messages[3],
		"the emergency path must carry its own signal")
}

func TestPause_SweepsAccrual(t *testing.T) {
	lg, token, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, lg.Send(ctx, payerAddr, payerAddr, recipientAddr))
	require.NoError(t, lg.Pause(ctx, operatorAddr))

	paused, err := lg.Paused()
	require.NoError(t, err)
	assert.True(t, paused)

	require.Len(t, token.pushes, 1)
	assert.Equal(t, transferCall{to: operatorAddr, amount: 10000}, token.pushes[0])

	accrual, err := lg.OperatorAccrual()
	require.NoError(t, err)
	assert.Zero(t, accrual)
}

func TestPause_SweepFailureStillPauses(t *testing.T) {
	lg, token, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, lg.Send(ctx, payerAddr, payerAddr, recipientAddr))

	token.pushErr = errors.New("node unreachable")
	require.NoError(t, lg.Pause(ctx, operatorAddr), "a failed sweep must not block the pause")

	paused, err := lg.Paused()
	require.NoError(t, err)
	assert.True(t, paused)

	accrual, err := lg.OperatorAccrual()
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), accrual, "failed sweep leaves the accrual booked")
}

func TestPause_SweptAccrualIsPaidOutOnce(t *testing.T) {
	// Fail every state write after the sweep commit. The swept amount
	// must already be zeroed by then, so it can never be paid again.
	repo := &failingRepo{Repository: newSeededMemoryDB(t), failStateSaveOn: 2}
	lg, token := newLedgerWithRepo(t, repo)
	ctx := context.Background()

	require.NoError(t, lg.Send(ctx, payerAddr, payerAddr, recipientAddr))
	require.NoError(t, lg.Pause(ctx, operatorAddr))
	require.Len(t, token.pushes, 1)
	assert.Equal(t, transferCall{to: operatorAddr, amount: 10000}, token.pushes[0])

	_, err := lg.WithdrawOperatorShare(ctx, operatorAddr)
	assert.ErrorIs(t, err, ledger.ErrNoClaimableAmount)
	assert.Len(t, token.pushes, 1)
}

func TestPause_Preconditions(t *testing.T) {
	lg, _, _ := newTestLedger(t)
	ctx := context.Background()

	assert.ErrorIs(t, lg.Pause(ctx, payerAddr), ledger.ErrOnlyOwner)

	require.NoError(t, lg.Pause(ctx, operatorAddr))
	assert.ErrorIs(t, lg.Pause(ctx, operatorAddr), ledger.ErrContractIsPaused)
}

func TestUnpause(t *testing.T) {
	lg, _, _ := newTestLedger(t)
	ctx := context.Background()

	assert.ErrorIs(t, lg.Unpause(ctx, operatorAddr), ledger.ErrContractNotPaused)
	assert.ErrorIs(t, lg.EmergencyUnpause(ctx, operatorAddr), ledger.ErrContractNotPaused)

	require.NoError(t, lg.Pause(ctx, operatorAddr))
	assert.ErrorIs(t, lg.Unpause(ctx, payerAddr), ledger.ErrOnlyOwner)
	require.NoError(t, lg.Unpause(ctx, operatorAddr))

	paused, err := lg.Paused()
	require.NoError(t, err)
	assert.False(t, paused)

	require.NoError(t, lg.Pause(ctx, operatorAddr))
	require.NoError(t, lg.EmergencyUnpause(ctx, operatorAddr))

	paused, err = lg.Paused()
	require.NoError(t, err)
	assert.False(t, paused)
}

func TestPause_BlocksFeeCharging(t *testing.T) {
	lg, _, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, lg.Send(ctx, payerAddr, payerAddr, recipientAddr))
	require.NoError(t, lg.Pause(ctx, operatorAddr))

	assert.ErrorIs(t, lg.Send(ctx, payerAddr, payerAddr, recipientAddr), ledger.ErrContractIsPaused)
	assert.ErrorIs(t, lg.RegisterDelegation(ctx, payerAddr, payerAddr), ledger.ErrContractIsPaused)
	_, err := lg.Claim(ctx, recipientAddr)
	assert.ErrorIs(t, err, ledger.ErrContractIsPaused)
	assert.ErrorIs(t, lg.SetSendFee(ctx, operatorAddr, 1), ledger.ErrContractIsPaused)
	assert.ErrorIs(t, lg.SetDiscount(ctx, operatorAddr, payerAddr, 10), ledger.ErrContractIsPaused)
	assert.ErrorIs(t, lg.GrantPayerPermission(ctx, payerAddr, delegateAddr), ledger.ErrContractIsPaused)

	// Revoking a grant must never be blockable.
	require.NoError(t, lg.RevokePayerPermission(ctx, payerAddr, delegateAddr))
}

func TestDistribute_BypassesExpiry(t *testing.T) {
	lg, token, clock := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, lg.Send(ctx, payerAddr, payerAddr, recipientAddr))
	clock.Advance(90 * 24 * time.Hour)
	require.NoError(t, lg.Pause(ctx, operatorAddr))

	// Anyone can trigger the payout, even for a long-expired balance.
	amount, err := lg.Distribute(ctx, delegateAddr, recipientAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(90000), amount)
	assert.Equal(t, transferCall{to: recipientAddr, amount: 90000}, token.pushes[len(token.pushes)-1])

	_, err = lg.Distribute(ctx, delegateAddr, recipientAddr)
	assert.ErrorIs(t, err, ledger.ErrNoClaimableAmount)
}

func TestDistribute_RequiresPause(t *testing.T) {
	lg, _, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, lg.Send(ctx, payerAddr, payerAddr, recipientAddr))

	_, err := lg.Distribute(ctx, delegateAddr, recipientAddr)
	assert.ErrorIs(t, err, ledger.ErrContractNotPaused)
}

func TestDistribute_RestoresEntryOnFailure(t *testing.T) {
	lg, token, _ := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, lg.Send(ctx, payerAddr, payerAddr, recipientAddr))
	_, err := lg.WithdrawOperatorShare(ctx, operatorAddr)
	require.NoError(t, err)
	require.NoError(t, lg.Pause(ctx, operatorAddr))
	before, err := lg.ClaimInfo(recipientAddr)
	require.NoError(t, err)

	token.pushErr = errors.New("node unreachable")
	_, err = lg.Distribute(ctx, delegateAddr, recipientAddr)
	require.Error(t, err)

	after, err := lg.ClaimInfo(recipientAddr)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	token.pushErr = nil
	amount, err := lg.Distribute(ctx, delegateAddr, recipientAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(90000), amount)
}
