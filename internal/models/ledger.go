package models

import "context"

// ClaimInfo is the public view of a recipient's claimable balance.
type ClaimInfo struct {
	Amount    uint64 `json:"amount"`
	ExpiresAt int64  `json:"expires_at"`
	Expired   bool   `json:"expired"`
}

// LedgerI is the fee ledger surface served over the API.
type LedgerI interface {
	// Send charges the full-share message fee to the payer and books a
	// 90/10 split between the recipient's claim entry and the operator.
	Send(ctx context.Context, caller, payer, recipient string) error
	// RegisterDelegation charges the flat delegation fee (operator-only
	// credit, no recipient split) to the payer.
	RegisterDelegation(ctx context.Context, caller, payer string) error

	Claim(ctx context.Context, caller string) (uint64, error)
	ReclaimExpired(ctx context.Context, caller, recipient string) (uint64, error)
	WithdrawOperatorShare(ctx context.Context, caller string) (uint64, error)
	Distribute(ctx context.Context, caller, recipient string) (uint64, error)

	GrantPayerPermission(ctx context.Context, caller, delegate string) error
	RevokePayerPermission(ctx context.Context, caller, delegate string) error

	Pause(ctx context.Context, caller string) error
	Unpause(ctx context.Context, caller string) error
	EmergencyUnpause(ctx context.Context, caller string) error

	SetSendFee(ctx context.Context, caller string, fee uint64) error
	SetDelegationFee(ctx context.Context, caller string, fee uint64) error
	SetDiscount(ctx context.Context, caller, account string, percentage uint64) error
	RemoveDiscount(ctx context.Context, caller, account string) error

	SendFee() (uint64, error)
	DelegationFee() (uint64, error)
	ClaimInfo(recipient string) (*ClaimInfo, error)
	OperatorAccrual() (uint64, error)
	Discount(account string) (uint8, error)
	Paused() (bool, error)
	HasPayerPermission(delegate, payer string) (bool, error)
	PayoutRecords(account string) ([]*PayoutRecord, error)
}
