package models

// LedgerState is the single-row table holding the mutable ledger
// configuration and the operator-wide accrual.
type LedgerState struct {
	// ID is always 1; the table holds exactly one row.
	ID uint8 `json:"id" gorm:"column:id;primaryKey"`
	// SendFee is the base per-message fee in the smallest token unit.
	SendFee uint64 `json:"send_fee" gorm:"column:send_fee;not null;default:0"`
	// DelegationFee is the base fee for a delegation registration.
	DelegationFee uint64 `json:"delegation_fee" gorm:"column:delegation_fee;not null;default:0"`
	// OperatorAccrual is the operator's undistributed revenue share.
	OperatorAccrual uint64 `json:"operator_accrual" gorm:"column:operator_accrual;not null;default:0"`
	// Paused halts all fee-charging operations while set.
	Paused bool `json:"paused" gorm:"column:paused;not null;default:false"`
}
