package models

// Payout record kinds. Every movement of booked funds out of the ledger,
// including the internal expiry reassignment, leaves one of these.
const (
	PayoutKindClaim         = "claim"
	PayoutKindWithdrawal    = "withdrawal"
	PayoutKindPauseSweep    = "pause_sweep"
	PayoutKindDistribution  = "distribution"
	PayoutKindExpiryReclaim = "expiry_reclaim"
)

// PayoutRecord is the audit trail of balances leaving the ledger.
type PayoutRecord struct {
	// ID is the unique identifier for the record.
	ID int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	// Account is the address whose balance moved.
	Account string `json:"account" gorm:"column:account;index"`
	// Amount is the moved amount in the smallest token unit.
	Amount uint64 `json:"amount" gorm:"column:amount;not null"`
	// Kind is one of the PayoutKind constants.
	Kind string `json:"kind" gorm:"column:kind;not null"`
	// Timestamp is the Unix time the movement was booked.
	Timestamp int64 `json:"timestamp" gorm:"column:timestamp;index"`
}
