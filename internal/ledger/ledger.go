package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/core-coin/vectigal/internal/models"
	"github.com/core-coin/vectigal/pkg/logger"
)

// Ledger is the fee accounting and claim-lifecycle engine. It charges
// message and delegation fees through the token service, books the
// recipient/operator revenue split, and runs the claim, reclaim and
// pause lifecycles. All booked state lives in the repository; the
// Ledger itself holds no balances.
type Ledger struct {
	logger *logger.Logger
	clock  clockwork.Clock

	repo   models.Repository
	token  models.TokenService
	alerts models.AlertService

	// operator is the privileged account receiving the owner share.
	operator string
	// custody is the on-chain account holding collected fees.
	custody string

	// mu is the exclusive-execution guard. Token transfers call out to
	// the contract, which can re-enter through the API before the
	// running operation commits; an acquire while held must fail
	// instead of block.
	mu sync.Mutex
}

// NewLedger creates a new Ledger instance.
func NewLedger(
	repo models.Repository,
	token models.TokenService,
	alerts models.AlertService,
	logger *logger.Logger,
	clock clockwork.Clock,
	operator string,
	custody string,
) models.LedgerI {
	return &Ledger{
		repo:     repo,
		token:    token,
		alerts:   alerts,
		logger:   logger,
		clock:    clock,
		operator: operator,
		custody:  custody,
	}
}

// acquire takes the exclusive-execution guard or fails immediately.
func (l *Ledger) acquire() error {
	if !l.mu.TryLock() {
		return ErrReentrancyGuard
	}
	return nil
}

func (l *Ledger) requireOperator(caller string) error {
	if caller != l.operator {
		return ErrOnlyOwner
	}
	return nil
}

// checkPayer validates a delegated charge. A caller identical to the
// payer always spends its own funds.
func (l *Ledger) checkPayer(caller, payer string) error {
	if caller == payer {
		return nil
	}
	allowed, err := l.repo.Permission(caller, payer)
	if err != nil {
		return fmt.Errorf("failed to check payer permission: %s", err)
	}
	if !allowed {
		return ErrUnpermittedPayer
	}
	return nil
}

// chargeableFee is the fee the payer actually owes after its discount.
func (l *Ledger) chargeableFee(payer string, baseFee uint64) (uint64, error) {
	discount, err := l.repo.Discount(payer)
	if err != nil {
		return 0, fmt.Errorf("failed to get discount: %s", err)
	}
	return effectiveFee(baseFee, discount)
}

func expiresAt(entry *models.ClaimEntry) int64 {
	return entry.LastDeposit + int64(ClaimPeriod/time.Second)
}

// record books an audit row for funds leaving the ledger. A failure
// here must not undo an already-confirmed transfer, so it only logs.
func (l *Ledger) record(account string, amount uint64, kind string) {
	err := l.repo.AddPayoutRecord(&models.PayoutRecord{
		Account:   account,
		Amount:    amount,
		Kind:      kind,
		Timestamp: l.clock.Now().Unix(),
	})
	if err != nil {
		l.logger.Error("Failed to add payout record ", "account ", account, "kind ", kind, "error ", err)
	}
}

func (l *Ledger) alert(message string) {
	if l.alerts != nil {
		l.alerts.Alert(message)
	}
}

// Send charges the full-share message fee to the payer: the effective
// fee is pulled into custody and split 90/10 between the recipient's
// claim entry and the operator accrual. A fully discounted payer is
// charged nothing and no transfer is attempted.
func (l *Ledger) Send(ctx context.Context, caller, payer, recipient string) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	state, err := l.repo.LedgerState()
	if err != nil {
		return fmt.Errorf("failed to get ledger state: %s", err)
	}
	if state.Paused {
		return ErrContractIsPaused
	}
	if err := l.checkPayer(caller, payer); err != nil {
		return err
	}

	fee, err := l.chargeableFee(payer, state.SendFee)
	if err != nil {
		return err
	}
	if fee == 0 {
		l.logger.Debug("Send fee fully discounted, skipping charge ", "payer ", payer)
		return nil
	}

	recipientPart, ownerPart, err := splitFee(fee)
	if err != nil {
		return err
	}

	// Validate both accruals before pulling funds so an overflow can
	// never strand a collected fee.
	entry, err := l.repo.ClaimEntry(recipient)
	if err != nil {
		return fmt.Errorf("failed to get claim entry: %s", err)
	}
	newAmount, err := addChecked(entry.Amount, recipientPart)
	if err != nil {
		return err
	}
	newAccrual, err := addChecked(state.OperatorAccrual, ownerPart)
	if err != nil {
		return err
	}

	if err := l.token.Pull(ctx, payer, l.custody, fee); err != nil {
		return fmt.Errorf("failed to collect send fee: %w", err)
	}

	entry.Amount = newAmount
	entry.LastDeposit = l.clock.Now().Unix()
	state.OperatorAccrual = newAccrual
	if err := l.repo.SaveClaimEntryAndState(entry, state); err != nil {
		return fmt.Errorf("failed to book fee split: %s", err)
	}

	l.logger.Info("Message fee collected ", "payer ", payer, "recipient ", recipient, "fee ", fee)
	return nil
}

// RegisterDelegation charges the flat delegation fee: only the operator
// percentage of the payer's effective fee is pulled, all of it credited
// to the operator accrual. No claim entry is touched.
func (l *Ledger) RegisterDelegation(ctx context.Context, caller, payer string) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	state, err := l.repo.LedgerState()
	if err != nil {
		return fmt.Errorf("failed to get ledger state: %s", err)
	}
	if state.Paused {
		return ErrContractIsPaused
	}
	if err := l.checkPayer(caller, payer); err != nil {
		return err
	}

	fee, err := l.chargeableFee(payer, state.DelegationFee)
	if err != nil {
		return err
	}
	charge, err := flatShare(fee)
	if err != nil {
		return err
	}
	if charge == 0 {
		l.logger.Debug("Delegation fee fully discounted, skipping charge ", "payer ", payer)
		return nil
	}

	newAccrual, err := addChecked(state.OperatorAccrual, charge)
	if err != nil {
		return err
	}

	if err := l.token.Pull(ctx, payer, l.custody, charge); err != nil {
		return fmt.Errorf("failed to collect delegation fee: %w", err)
	}

	state.OperatorAccrual = newAccrual
	if err := l.repo.SaveLedgerState(state); err != nil {
		return fmt.Errorf("failed to save ledger state: %s", err)
	}

	l.logger.Info("Delegation fee collected ", "caller ", caller, "payer ", payer, "charge ", charge)
	return nil
}

// Claim pays out the caller's claim entry. The entry is zeroed before
// the outbound transfer and restored if the transfer fails, so a
// re-entrant second claim can never observe the old balance.
func (l *Ledger) Claim(ctx context.Context, caller string) (uint64, error) {
	if err := l.acquire(); err != nil {
		return 0, err
	}
	defer l.mu.Unlock()

	state, err := l.repo.LedgerState()
	if err != nil {
		return 0, fmt.Errorf("failed to get ledger state: %s", err)
	}
	if state.Paused {
		return 0, ErrContractIsPaused
	}

	entry, err := l.repo.ClaimEntry(caller)
	if err != nil {
		return 0, fmt.Errorf("failed to get claim entry: %s", err)
	}
	if entry.Amount == 0 {
		return 0, ErrNoClaimableAmount
	}
	// An expired balance looks empty to the claimant. Only the
	// operator's reclaim path can move it.
	if l.clock.Now().Unix() > expiresAt(entry) {
		return 0, ErrNoClaimableAmount
	}

	amount, lastDeposit := entry.Amount, entry.LastDeposit
	entry.Amount, entry.LastDeposit = 0, 0
	if err := l.repo.SaveClaimEntry(entry); err != nil {
		return 0, fmt.Errorf("failed to save claim entry: %s", err)
	}

	if err := l.token.Push(ctx, caller, amount); err != nil {
		entry.Amount, entry.LastDeposit = amount, lastDeposit
		if rerr := l.repo.SaveClaimEntry(entry); rerr != nil {
			l.logger.Error("Failed to restore claim entry after transfer failure ", "recipient ", caller, "error ", rerr)
		}
		return 0, fmt.Errorf("failed to pay out claim: %w", err)
	}

	l.record(caller, amount, models.PayoutKindClaim)
	l.logger.Info("Claim paid out ", "recipient ", caller, "amount ", amount)
	return amount, nil
}

// ReclaimExpired moves a recipient's expired balance into the operator
// accrual. Funds are already in custody, so this is a pure internal
// reassignment with no token transfer.
func (l *Ledger) ReclaimExpired(ctx context.Context, caller, recipient string) (uint64, error) {
	if err := l.acquire(); err != nil {
		return 0, err
	}
	defer l.mu.Unlock()

	if err := l.requireOperator(caller); err != nil {
		return 0, err
	}

	entry, err := l.repo.ClaimEntry(recipient)
	if err != nil {
		return 0, fmt.Errorf("failed to get claim entry: %s", err)
	}
	if entry.Amount == 0 {
		return 0, ErrNoClaimableAmount
	}
	if l.clock.Now().Unix() <= expiresAt(entry) {
		return 0, ErrClaimPeriodNotExpired
	}

	state, err := l.repo.LedgerState()
	if err != nil {
		return 0, fmt.Errorf("failed to get ledger state: %s", err)
	}
	newAccrual, err := addChecked(state.OperatorAccrual, entry.Amount)
	if err != nil {
		return 0, err
	}

	amount := entry.Amount
	entry.Amount, entry.LastDeposit = 0, 0
	state.OperatorAccrual = newAccrual
	if err := l.repo.SaveClaimEntryAndState(entry, state); err != nil {
		return 0, fmt.Errorf("failed to reassign expired balance: %s", err)
	}

	l.record(recipient, amount, models.PayoutKindExpiryReclaim)
	l.alert(fmt.Sprintf("Expired balance of %d reclaimed from %s", amount, recipient))
	l.logger.Info("Expired balance reclaimed ", "recipient ", recipient, "amount ", amount)
	return amount, nil
}

// WithdrawOperatorShare pays the whole operator accrual out to the
// operator account. The accrual is zeroed before the transfer and
// restored if it fails.
func (l *Ledger) WithdrawOperatorShare(ctx context.Context, caller string) (uint64, error) {
	if err := l.acquire(); err != nil {
		return 0, err
	}
	defer l.mu.Unlock()

	if err := l.requireOperator(caller); err != nil {
		return 0, err
	}

	state, err := l.repo.LedgerState()
	if err != nil {
		return 0, fmt.Errorf("failed to get ledger state: %s", err)
	}
	if state.OperatorAccrual == 0 {
		return 0, ErrNoClaimableAmount
	}

	amount := state.OperatorAccrual
	state.OperatorAccrual = 0
	if err := l.repo.SaveLedgerState(state); err != nil {
		return 0, fmt.Errorf("failed to save ledger state: %s", err)
	}

	if err := l.token.Push(ctx, l.operator, amount); err != nil {
		state.OperatorAccrual = amount
		if rerr := l.repo.SaveLedgerState(state); rerr != nil {
			l.logger.Error("Failed to restore operator accrual after transfer failure ", "error ", rerr)
		}
		return 0, fmt.Errorf("failed to pay out operator share: %w", err)
	}

	l.record(l.operator, amount, models.PayoutKindWithdrawal)
	l.alert(fmt.Sprintf("Operator share of %d withdrawn", amount))
	l.logger.Info("Operator share withdrawn ", "amount ", amount)
	return amount, nil
}

// GrantPayerPermission lets the delegate originate charges debited from
// the caller's funds. Idempotent.
func (l *Ledger) GrantPayerPermission(ctx context.Context, caller, delegate string) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	state, err := l.repo.LedgerState()
	if err != nil {
		return fmt.Errorf("failed to get ledger state: %s", err)
	}
	if state.Paused {
		return ErrContractIsPaused
	}

	if err := l.repo.SetPermission(delegate, caller, true); err != nil {
		return fmt.Errorf("failed to set permission: %s", err)
	}
	l.logger.Info("Payer permission granted ", "payer ", caller, "delegate ", delegate)
	return nil
}

// RevokePayerPermission removes the caller's grant. It is idempotent
// and deliberately not gated on the pause flag: revocation must never
// be blockable.
func (l *Ledger) RevokePayerPermission(ctx context.Context, caller, delegate string) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	if err := l.repo.SetPermission(delegate, caller, false); err != nil {
		return fmt.Errorf("failed to set permission: %s", err)
	}
	l.logger.Info("Payer permission revoked ", "payer ", caller, "delegate ", delegate)
	return nil
}

// SetSendFee updates the base per-message fee. Operator-only, rejected
// while paused.
func (l *Ledger) SetSendFee(ctx context.Context, caller string, fee uint64) error {
	return l.updateState(caller, func(state *models.LedgerState) error {
		state.SendFee = fee
		return nil
	})
}

// SetDelegationFee updates the base delegation fee. Operator-only,
// rejected while paused.
func (l *Ledger) SetDelegationFee(ctx context.Context, caller string, fee uint64) error {
	return l.updateState(caller, func(state *models.LedgerState) error {
		state.DelegationFee = fee
		return nil
	})
}

// updateState runs an operator-only, not-paused mutation of the fee
// configuration.
func (l *Ledger) updateState(caller string, mutate func(*models.LedgerState) error) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	if err := l.requireOperator(caller); err != nil {
		return err
	}
	state, err := l.repo.LedgerState()
	if err != nil {
		return fmt.Errorf("failed to get ledger state: %s", err)
	}
	if state.Paused {
		return ErrContractIsPaused
	}
	if err := mutate(state); err != nil {
		return err
	}
	if err := l.repo.SaveLedgerState(state); err != nil {
		return fmt.Errorf("failed to save ledger state: %s", err)
	}
	return nil
}

// SetDiscount sets the account's fee discount. Percentage is validated
// here, at write time, so reads never see an out-of-range value.
func (l *Ledger) SetDiscount(ctx context.Context, caller, account string, percentage uint64) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	if err := l.requireOperator(caller); err != nil {
		return err
	}
	state, err := l.repo.LedgerState()
	if err != nil {
		return fmt.Errorf("failed to get ledger state: %s", err)
	}
	if state.Paused {
		return ErrContractIsPaused
	}
	if percentage > 100 {
		return ErrInvalidDiscount
	}

	if err := l.repo.SetDiscount(account, uint8(percentage)); err != nil {
		return fmt.Errorf("failed to set discount: %s", err)
	}
	l.logger.Info("Discount set ", "account ", account, "percentage ", percentage)
	return nil
}

// RemoveDiscount clears the account's discount, restoring the full fee.
func (l *Ledger) RemoveDiscount(ctx context.Context, caller, account string) error {
	if err := l.acquire(); err != nil {
		return err
	}
	defer l.mu.Unlock()

	if err := l.requireOperator(caller); err != nil {
		return err
	}
	state, err := l.repo.LedgerState()
	if err != nil {
		return fmt.Errorf("failed to get ledger state: %s", err)
	}
	if state.Paused {
		return ErrContractIsPaused
	}

	if err := l.repo.RemoveDiscount(account); err != nil {
		return fmt.Errorf("failed to remove discount: %s", err)
	}
	l.logger.Info("Discount removed ", "account ", account)
	return nil
}

// Read surface. Views take no guard; they never mutate state.

func (l *Ledger) SendFee() (uint64, error) {
	state, err := l.repo.LedgerState()
	if err != nil {
		return 0, fmt.Errorf("failed to get ledger state: %s", err)
	}
	return state.SendFee, nil
}

func (l *Ledger) DelegationFee() (uint64, error) {
	state, err := l.repo.LedgerState()
	if err != nil {
		return 0, fmt.Errorf("failed to get ledger state: %s", err)
	}
	return state.DelegationFee, nil
}

func (l *Ledger) ClaimInfo(recipient string) (*models.ClaimInfo, error) {
	entry, err := l.repo.ClaimEntry(recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim entry: %s", err)
	}
	if entry.Amount == 0 {
		return &models.ClaimInfo{}, nil
	}
	exp := expiresAt(entry)
	return &models.ClaimInfo{
		Amount:    entry.Amount,
		ExpiresAt: exp,
		Expired:   l.clock.Now().Unix() > exp,
	}, nil
}

func (l *Ledger) OperatorAccrual() (uint64, error) {
	state, err := l.repo.LedgerState()
	if err != nil {
		return 0, fmt.Errorf("failed to get ledger state: %s", err)
	}
	return state.OperatorAccrual, nil
}

func (l *Ledger) Discount(account string) (uint8, error) {
	return l.repo.Discount(account)
}

func (l *Ledger) Paused() (bool, error) {
	state, err := l.repo.LedgerState()
	if err != nil {
		return false, fmt.Errorf("failed to get ledger state: %s", err)
	}
	return state.Paused, nil
}

func (l *Ledger) HasPayerPermission(delegate, payer string) (bool, error) {
	return l.repo.Permission(delegate, payer)
}

func (l *Ledger) PayoutRecords(account string) ([]*models.PayoutRecord, error) {
	return l.repo.PayoutRecords(account)
}
