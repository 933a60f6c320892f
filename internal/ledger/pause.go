package ledger

import (
	"context"
	"fmt"

	"github.com/core-coin/vectigal/internal/models"
)

// Pause halts all fee-charging operations. If the operator accrual is
// non-zero it is swept out to the operator immediately, but only
// best-effort: a failed sweep leaves the accrual booked and the pause
// still succeeds.
func (l *Ledger) Pause(ctx context.Context, caller string) error {
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

	// The pause flag and the zeroed accrual commit as one write, so a
	// swept amount can never still read as withdrawable afterwards.
	amount := state.OperatorAccrual
	state.Paused = true
	state.OperatorAccrual = 0
	if err := l.repo.SaveLedgerState(state); err != nil {
		return fmt.Errorf("failed to save ledger state: %s", err)
	}
	l.logger.Warn("Ledger paused")

	if amount > 0 {
		if err := l.token.Push(ctx, l.operator, amount); err != nil {
			// Restore the accrual so the operator can withdraw after
			// an emergency unpause.
			state.OperatorAccrual = amount
			if rerr := l.repo.SaveLedgerState(state); rerr != nil {
				l.logger.Error("Failed to restore operator accrual after sweep failure ", "amount ", amount, "error ", rerr)
			}
			l.logger.Error("Pause-time sweep failed, accrual left booked ", "amount ", amount, "error ", err)
			l.alert(fmt.Sprintf("Ledger paused; sweep of %d FAILED, accrual left booked", amount))
			return nil
		}
		l.record(l.operator, amount, models.PayoutKindPauseSweep)
		l.alert(fmt.Sprintf("Ledger paused; operator accrual of %d swept out", amount))
		l.logger.Info("Operator accrual swept on pause ", "amount ", amount)
		return nil
	}

	l.alert("Ledger paused")
	return nil
}

// Unpause resumes normal operation. No funds move.
func (l *Ledger) Unpause(ctx context.Context, caller string) error {
	if err := l.unpause(caller); err != nil {
		return err
	}
	l.alert("Ledger unpaused")
	l.logger.Warn("Ledger unpaused")
	return nil
}

// EmergencyUnpause is the always-succeeding escape hatch: the same flag
// flip as Unpause, distinguished only by its own signal. Kept separate
// so the operator has a path that can never grow a distribution attempt
// in front of it.
func (l *Ledger) EmergencyUnpause(ctx context.Context, caller string) error {
	if err := l.unpause(caller); err != nil {
		return err
	}
	l.alert("Ledger unpaused via emergency path")
	l.logger.Warn("Ledger unpaused via emergency path")
	return nil
}

func (l *Ledger) unpause(caller string) error {
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
	if !state.Paused {
		return ErrContractNotPaused
	}

	state.Paused = false
	if err := l.repo.SaveLedgerState(state); err != nil {
		return fmt.Errorf("failed to save ledger state: %s", err)
	}
	return nil
}

// Distribute pays a recipient's balance out while the ledger is paused.
// Callable by anyone and not gated on the claim window: during an
// emergency drain funds must reach their owner even past expiry. On
// transfer failure the entry's amount and timestamp are restored.
func (l *Ledger) Distribute(ctx context.Context, caller, recipient string) (uint64, error) {
	if err := l.acquire(); err != nil {
		return 0, err
	}
	defer l.mu.Unlock()

	state, err := l.repo.LedgerState()
	if err != nil {
		return 0, fmt.Errorf("failed to get ledger state: %s", err)
	}
	if !state.Paused {
		return 0, ErrContractNotPaused
	}

	entry, err := l.repo.ClaimEntry(recipient)
	if err != nil {
		return 0, fmt.Errorf("failed to get claim entry: %s", err)
	}
	if entry.Amount == 0 {
		return 0, ErrNoClaimableAmount
	}

	amount, lastDeposit := entry.Amount, entry.LastDeposit
	entry.Amount, entry.LastDeposit = 0, 0
	if err := l.repo.SaveClaimEntry(entry); err != nil {
		return 0, fmt.Errorf("failed to save claim entry: %s", err)
	}

	if err := l.token.Push(ctx, recipient, amount); err != nil {
		entry.Amount, entry.LastDeposit = amount, lastDeposit
		if rerr := l.repo.SaveClaimEntry(entry); rerr != nil {
			l.logger.Error("Failed to restore claim entry after transfer failure ", "recipient ", recipient, "error ", rerr)
		}
		return 0, fmt.Errorf("failed to distribute balance: %w", err)
	}

	l.record(recipient, amount, models.PayoutKindDistribution)
	l.logger.Info("Balance distributed while paused ", "recipient ", recipient, "amount ", amount, "caller ", caller)
	return amount, nil
}
