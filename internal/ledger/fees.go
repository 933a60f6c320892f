package ledger

import (
	"math"
	"time"
)

const (
	// OwnerSharePercent is the operator's cut of every collected fee.
	OwnerSharePercent = 10

	// ClaimPeriod is the rolling window after the most recent deposit
	// during which a recipient may claim their balance.
	ClaimPeriod = 60 * 24 * time.Hour
)

// effectiveFee applies an account discount to a base fee. Integer math,
// rounding down, so a 100% discount computes to exactly zero.
func effectiveFee(baseFee uint64, discount uint8) (uint64, error) {
	if discount > 100 {
		return 0, ErrInvalidDiscount
	}
	factor := uint64(100 - discount)
	if factor != 0 && baseFee > math.MaxUint64/factor {
		return 0, ErrMathOverflow
	}
	return baseFee * factor / 100, nil
}

// splitFee partitions a collected fee between recipient and operator.
// The recipient part is derived by subtraction, so the two parts sum to
// total for every input regardless of rounding.
func splitFee(total uint64) (recipientPart, ownerPart uint64, err error) {
	if total > math.MaxUint64/OwnerSharePercent {
		return 0, 0, ErrMathOverflow
	}
	ownerPart = total * OwnerSharePercent / 100
	return total - ownerPart, ownerPart, nil
}

// flatShare is the flat-mode charge: the operator's percentage of the
// effective fee, credited entirely to the operator.
func flatShare(effective uint64) (uint64, error) {
	if effective > math.MaxUint64/OwnerSharePercent {
		return 0, ErrMathOverflow
	}
	return effective * OwnerSharePercent / 100, nil
}

func addChecked(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrMathOverflow
	}
	return a + b, nil
}
