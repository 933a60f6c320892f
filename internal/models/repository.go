package models

type Repository interface {
	ClaimEntry(recipient string) (*ClaimEntry, error)
	SaveClaimEntry(entry *ClaimEntry) error
	// SaveClaimEntryAndState persists a claim entry and the ledger
	// state as a single atomic write. Either both land or neither does.
	SaveClaimEntryAndState(entry *ClaimEntry, state *LedgerState) error

	LedgerState() (*LedgerState, error)
	SaveLedgerState(state *LedgerState) error
	// EnsureLedgerState creates the single state row with the given
	// default fees if it does not exist yet.
	EnsureLedgerState(sendFee, delegationFee uint64) (*LedgerState, error)

	Discount(account string) (uint8, error)
	SetDiscount(account string, percentage uint8) error
	RemoveDiscount(account string) error

	Permission(delegate, payer string) (bool, error)
	SetPermission(delegate, payer string, allowed bool) error

	AddPayoutRecord(record *PayoutRecord) error
	PayoutRecords(account string) ([]*PayoutRecord, error)

	Close() error
}
