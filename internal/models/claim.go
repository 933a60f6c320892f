package models

// ClaimEntry is the accruing claimable balance of a single recipient.
// An entry is created implicitly on the first deposit and is only ever
// zeroed afterwards, never deleted.
type ClaimEntry struct {
	// Recipient is the account address the balance belongs to.
	Recipient string `json:"recipient" gorm:"column:recipient;primaryKey"`
	// Amount is the claimable balance in the smallest token unit.
	Amount uint64 `json:"amount" gorm:"column:amount;not null;default:0"`
	// LastDeposit is the Unix timestamp of the most recent deposit.
	// It anchors the claim window: the balance is claimable until
	// LastDeposit + the claim period. Meaningless while Amount == 0.
	LastDeposit int64 `json:"last_deposit" gorm:"column:last_deposit;not null;default:0"`
}

// Discount is a per-account fee discount in percent.
type Discount struct {
	// Account is the payer address the discount applies to.
	Account string `json:"account" gorm:"column:account;primaryKey"`
	// Percentage is in [0,100]. 0 means full fee, 100 waives the fee.
	Percentage uint8 `json:"percentage" gorm:"column:percentage;not null"`
}

// Permission records that a delegate may originate charges debited from
// a payer's funds.
type Permission struct {
	// Delegate is the address allowed to act on the payer's behalf.
	Delegate string `json:"delegate" gorm:"column:delegate;primaryKey"`
	// Payer is the address whose funds are debited.
	Payer string `json:"payer" gorm:"column:payer;primaryKey"`
	// Allowed is the grant flag. Revocation clears it rather than
	// deleting the row, so revokes stay idempotent.
	Allowed bool `json:"allowed" gorm:"column:allowed;not null;default:false"`
}
