package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFee_Exactness(t *testing.T) {
	// recipientPart is derived by subtraction, so the two parts must
	// sum to the total for every input regardless of rounding.
	totals := []uint64{0, 1, 9, 10, 11, 99, 100, 101, 12345, 100000, 999999999, math.MaxUint64 / OwnerSharePercent}
	for _, total := range totals {
		recipientPart, ownerPart, err := splitFee(total)
		require.NoError(t, err, "total %d", total)
		assert.Equal(t, total, recipientPart+ownerPart, "parts must sum to total %d", total)
		assert.Equal(t, total*OwnerSharePercent/100, ownerPart, "owner part of %d", total)
	}
}

func TestSplitFee_Scenario(t *testing.T) {
	recipientPart, ownerPart, err := splitFee(100000)
	require.NoError(t, err)
	assert.Equal(t, uint64(90000), recipientPart)
	assert.Equal(t, uint64(10000), ownerPart)
}

func TestSplitFee_Overflow(t *testing.T) {
	_, _, err := splitFee(math.MaxUint64/OwnerSharePercent + 1)
	assert.ErrorIs(t, err, ErrMathOverflow)
}

func TestEffectiveFee_Monotonic(t *testing.T) {
	const baseFee = 100000

	prev := uint64(math.MaxUint64)
	for discount := uint8(0); discount <= 100; discount++ {
		fee, err := effectiveFee(baseFee, discount)
		require.NoError(t, err, "discount %d", discount)
		assert.LessOrEqual(t, fee, prev, "fee must not increase with discount %d", discount)
		prev = fee
	}

	full, err := effectiveFee(baseFee, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(baseFee), full)

	waived, err := effectiveFee(baseFee, 100)
	require.NoError(t, err)
	assert.Zero(t, waived)
}

func TestEffectiveFee_RoundsDown(t *testing.T) {
	fee, err := effectiveFee(99, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(49), fee)
}

func TestEffectiveFee_InvalidDiscount(t *testing.T) {
	_, err := effectiveFee(100, 101)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestEffectiveFee_Overflow(t *testing.T) {
	_, err := effectiveFee(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrMathOverflow)

	// A 100% discount never multiplies, so it cannot overflow.
	fee, err := effectiveFee(math.MaxUint64, 100)
	require.NoError(t, err)
	assert.Zero(t, fee)
}

func TestFlatShare(t *testing.T) {
	// Discounted delegation fee of 50000 charges 10% of it.
	charge, err := flatShare(50000)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), charge)

	_, err = flatShare(math.MaxUint64/OwnerSharePercent + 1)
	assert.ErrorIs(t, err, ErrMathOverflow)
}

func TestAddChecked(t *testing.T) {
	sum, err := addChecked(math.MaxUint64-1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), sum)

	_, err = addChecked(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrMathOverflow)
}
