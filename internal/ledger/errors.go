package ledger

import "errors"

// Precondition failures. None of these are retryable as-is; the caller
// has to correct the request and resubmit. Every one of them aborts the
// operation before any state is committed.
var (
	// ErrNoClaimableAmount is returned for an empty balance and for a
	// balance whose claim window has passed. The two cases are
	// deliberately indistinguishable to the claimant; only the operator
	// can recover expired funds.
	ErrNoClaimableAmount = errors.New("no claimable amount")

	// ErrClaimPeriodNotExpired is returned when the operator tries to
	// reclaim a balance that is still inside its claim window.
	ErrClaimPeriodNotExpired = errors.New("claim period not expired")

	// ErrUnpermittedPayer is returned when a delegated charge has no
	// prior grant from the payer.
	ErrUnpermittedPayer = errors.New("payer has not permitted the caller")

	// ErrInvalidDiscount is returned for a discount outside [0,100].
	ErrInvalidDiscount = errors.New("discount percentage out of range")

	// ErrMathOverflow is returned when a fee computation or balance
	// accrual would overflow the 64-bit accumulator.
	ErrMathOverflow = errors.New("math overflow")

	// ErrContractIsPaused rejects operations that require the ledger
	// to be active.
	ErrContractIsPaused = errors.New("ledger is paused")

	// ErrContractNotPaused rejects operations that require the ledger
	// to be paused.
	ErrContractNotPaused = errors.New("ledger is not paused")

	// ErrReentrancyGuard is returned when an operation is attempted
	// while another one still holds the exclusive-execution guard.
	ErrReentrancyGuard = errors.New("reentrant call rejected")

	// ErrOnlyOwner is returned when a non-operator invokes an
	// operator-only operation.
	ErrOnlyOwner = errors.New("caller is not the operator")
)
