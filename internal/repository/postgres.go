package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/core-coin/vectigal/internal/models"
	"github.com/core-coin/vectigal/pkg/logger"
)

// ledgerStateID is the primary key of the single ledger_states row.
const ledgerStateID = 1

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %s", err)
	}

	if err := db.AutoMigrate(
		&models.ClaimEntry{},
		&models.Discount{},
		&models.Permission{},
		&models.LedgerState{},
		&models.PayoutRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %s", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %s", err)
	}
	return sqlDB.Close()
}

// ClaimEntry returns the recipient's entry, or a fresh zero entry if the
// recipient has never received a deposit.
func (db *PostgresDB) ClaimEntry(recipient string) (*models.ClaimEntry, error) {
	var entry models.ClaimEntry
	if err := db.Conn.Where("recipient = ?", recipient).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.ClaimEntry{Recipient: recipient}, nil
		}
		return nil, fmt.Errorf("failed to get claim entry: %s", err)
	}

	return &entry, nil
}

func (db *PostgresDB) SaveClaimEntry(entry *models.ClaimEntry) error {
	if err := db.Conn.Save(entry).Error; err != nil {
		return fmt.Errorf("failed to save claim entry: %s", err)
	}

	return nil
}

// SaveClaimEntryAndState commits a claim entry and the ledger state in
// one transaction so a booked fee split can never land half-written.
func (db *PostgresDB) SaveClaimEntryAndState(entry *models.ClaimEntry, state *models.LedgerState) error {
	state.ID = ledgerStateID
	err := db.Conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entry).Error; err != nil {
			return err
		}
		return tx.Save(state).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save claim entry and ledger state: %s", err)
	}

	return nil
}

func (db *PostgresDB) LedgerState() (*models.LedgerState, error) {
	var state models.LedgerState
	if err := db.Conn.Where("id = ?", ledgerStateID).First(&state).Error; err != nil {
		return nil, fmt.Errorf("failed to get ledger state: %s", err)
	}

	return &state, nil
}

func (db *PostgresDB) SaveLedgerState(state *models.LedgerState) error {
	state.ID = ledgerStateID
	if err := db.Conn.Save(state).Error; err != nil {
		return fmt.Errorf("failed to save ledger state: %s", err)
	}

	return nil
}

func (db *PostgresDB) EnsureLedgerState(sendFee, delegationFee uint64) (*models.LedgerState, error) {
	var state models.LedgerState
	err := db.Conn.Where("id = ?", ledgerStateID).First(&state).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get ledger state: %s", err)
	}

	state = models.LedgerState{ID: ledgerStateID, SendFee: sendFee, DelegationFee: delegationFee}
	if err := db.Conn.Create(&state).Error; err != nil {
		return nil, fmt.Errorf("failed to create ledger state: %s", err)
	}
	db.logger.Info("Ledger state seeded ", "sendFee ", sendFee, "delegationFee ", delegationFee)
	return &state, nil
}

// Discount returns the account's discount percentage. A missing row is
// a zero discount.
func (db *PostgresDB) Discount(account string) (uint8, error) {
	var discount models.Discount
	if err := db.Conn.Where("account = ?", account).First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get discount: %s", err)
	}

	return discount.Percentage, nil
}

func (db *PostgresDB) SetDiscount(account string, percentage uint8) error {
	discount := models.Discount{Account: account, Percentage: percentage}
	if err := db.Conn.Save(&discount).Error; err != nil {
		return fmt.Errorf("failed to set discount: %s", err)
	}

	return nil
}

func (db *PostgresDB) RemoveDiscount(account string) error {
	if err := db.Conn.Where("account = ?", account).Delete(&models.Discount{}).Error; err != nil {
		return fmt.Errorf("failed to remove discount: %s", err)
	}

	return nil
}

// Permission returns whether the delegate may charge the payer's funds.
// A missing row is no permission.
func (db *PostgresDB) Permission(delegate, payer string) (bool, error) {
	var permission models.Permission
	if err := db.Conn.Where("delegate = ? AND payer = ?", delegate, payer).First(&permission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get permission: %s", err)
	}

	return permission.Allowed, nil
}

func (db *PostgresDB) SetPermission(delegate, payer string, allowed bool) error {
	permission := models.Permission{Delegate: delegate, Payer: payer, Allowed: allowed}
	if err := db.Conn.Save(&permission).Error; err != nil {
		return fmt.Errorf("failed to set permission: %s", err)
	}

	return nil
}

func (db *PostgresDB) AddPayoutRecord(record *models.PayoutRecord) error {
	if err := db.Conn.Create(record).Error; err != nil {
		return fmt.Errorf("failed to add payout record: %s", err)
	}

	return nil
}

func (db *PostgresDB) PayoutRecords(account string) ([]*models.PayoutRecord, error) {
	var records []*models.PayoutRecord
	if err := db.Conn.Where("account = ?", account).Order("timestamp").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get payout records: %s", err)
	}

	return records, nil
}
