package repository

import (
	"fmt"
	"sync"

	"github.com/core-coin/vectigal/internal/models"
)

// MemoryDB is an in-memory Repository used by the test suite and by
// development mode. It mirrors the Postgres semantics: missing claim
// entries read as zero entries, missing discounts as 0, missing
// permissions as false.
type MemoryDB struct {
	mu sync.RWMutex

	entries     map[string]models.ClaimEntry
	discounts   map[string]uint8
	permissions map[string]bool
	state       *models.LedgerState
	records     []models.PayoutRecord
	nextID      int64
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		entries:     make(map[string]models.ClaimEntry),
		discounts:   make(map[string]uint8),
		permissions: make(map[string]bool),
		nextID:      1,
	}
}

func permissionKey(delegate, payer string) string {
	return delegate + "/" + payer
}

func (db *MemoryDB) Close() error { return nil }

func (db *MemoryDB) ClaimEntry(recipient string) (*models.ClaimEntry, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if entry, ok := db.entries[recipient]; ok {
		copied := entry
		return &copied, nil
	}
	return &models.ClaimEntry{Recipient: recipient}, nil
}

func (db *MemoryDB) SaveClaimEntry(entry *models.ClaimEntry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.entries[entry.Recipient] = *entry
	return nil
}

func (db *MemoryDB) SaveClaimEntryAndState(entry *models.ClaimEntry, state *models.LedgerState) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.entries[entry.Recipient] = *entry
	copied := *state
	db.state = &copied
	return nil
}

func (db *MemoryDB) LedgerState() (*models.LedgerState, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.state == nil {
		return nil, fmt.Errorf("ledger state not initialized")
	}
	copied := *db.state
	return &copied, nil
}

func (db *MemoryDB) SaveLedgerState(state *models.LedgerState) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	copied := *state
	db.state = &copied
	return nil
}

func (db *MemoryDB) EnsureLedgerState(sendFee, delegationFee uint64) (*models.LedgerState, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.state == nil {
		db.state = &models.LedgerState{ID: ledgerStateID, SendFee: sendFee, DelegationFee: delegationFee}
	}
	copied := *db.state
	return &copied, nil
}

func (db *MemoryDB) Discount(account string) (uint8, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.discounts[account], nil
}

func (db *MemoryDB) SetDiscount(account string, percentage uint8) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.discounts[account] = percentage
	return nil
}

func (db *MemoryDB) RemoveDiscount(account string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.discounts, account)
	return nil
}

func (db *MemoryDB) Permission(delegate, payer string) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.permissions[permissionKey(delegate, payer)], nil
}

func (db *MemoryDB) SetPermission(delegate, payer string, allowed bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.permissions[permissionKey(delegate, payer)] = allowed
	return nil
}

func (db *MemoryDB) AddPayoutRecord(record *models.PayoutRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	copied := *record
	copied.ID = db.nextID
	db.nextID++
	db.records = append(db.records, copied)
	return nil
}

func (db *MemoryDB) PayoutRecords(account string) ([]*models.PayoutRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var records []*models.PayoutRecord
	for i := range db.records {
		if db.records[i].Account == account {
			copied := db.records[i]
			records = append(records, &copied)
		}
	}
	return records, nil
}
