package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/core-coin/go-core/v2/common"
	"github.com/joho/godotenv"
)

type Config struct {
	Development bool
	// API configuration
	APIPort int
	// Postgres configuration
	PostgresUser     string
	PostgresPassword string
	PostgresHost     string
	PostgresPort     int
	PostgresDB       string
	// Blockchain configuration
	BlockchainServiceURL string
	TokenContractAddress string
	NetworkID            *big.Int
	// CustodyAddress is the on-chain account holding collected fees.
	CustodyAddress string
	// CustodyPrivateKey signs outbound token transfers.
	CustodyPrivateKey string
	// OperatorAddress is the privileged ledger operator.
	OperatorAddress string

	// Fee defaults, used only to seed the ledger state on first run.
	DefaultSendFee       uint64
	DefaultDelegationFee uint64

	// Operator alerting configuration
	TelegramBotToken       string
	TelegramOperatorChatID string
	SMTPHost               string
	SMTPPort               int
	SMTPUser               string
	SMTPPassword           string
	SMTPSender             string
	OperatorEmail          string
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:          getEnvAsBool("DEVELOPMENT", false),
		PostgresUser:         getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword:     getEnv("POSTGRES_PASSWORD", "password"),
		PostgresHost:         getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:         getEnvAsInt("POSTGRES_PORT", 5432),
		PostgresDB:           getEnv("POSTGRES_DB", "vectigal"),
		BlockchainServiceURL: getEnv("BLOCKCHAIN_SERVICE_URL", "http://localhost:8545"),
		TokenContractAddress: getEnv("TOKEN_CONTRACT_ADDRESS", ""),
		NetworkID:            getEnvAsBigInt("NETWORK_ID", big.NewInt(1)), // Default to Mainnet ID
		CustodyAddress:       getEnv("CUSTODY_ADDRESS", ""),
		CustodyPrivateKey:    getEnv("CUSTODY_PRIVATE_KEY", ""),
		OperatorAddress:      getEnv("OPERATOR_ADDRESS", ""),

		DefaultSendFee:       getEnvAsUint64("DEFAULT_SEND_FEE", 100000),
		DefaultDelegationFee: getEnvAsUint64("DEFAULT_DELEGATION_FEE", 100000),

		TelegramBotToken:       getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramOperatorChatID: getEnv("TELEGRAM_OPERATOR_CHAT_ID", ""),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:               getEnv("SMTP_USER", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		SMTPSender:             getEnv("SMTP_SENDER", ""),
		OperatorEmail:          getEnv("OPERATOR_EMAIL", ""),

		APIPort: getEnvAsInt("API_PORT", 6542),
	}

	// Set default network ID before validation (required for address validation)
	common.DefaultNetworkID = common.NetworkID(cfg.NetworkID.Int64())

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.TokenContractAddress == "" {
		return fmt.Errorf("TOKEN_CONTRACT_ADDRESS is required")
	}
	if _, err := common.HexToAddress(c.TokenContractAddress); err != nil {
		return fmt.Errorf("invalid TOKEN_CONTRACT_ADDRESS format: %w", err)
	}

	if c.CustodyAddress == "" {
		return fmt.Errorf("CUSTODY_ADDRESS is required")
	}
	if _, err := common.HexToAddress(c.CustodyAddress); err != nil {
		return fmt.Errorf("invalid CUSTODY_ADDRESS format: %w", err)
	}

	if c.OperatorAddress == "" {
		return fmt.Errorf("OPERATOR_ADDRESS is required")
	}
	if _, err := common.HexToAddress(c.OperatorAddress); err != nil {
		return fmt.Errorf("invalid OPERATOR_ADDRESS format: %w", err)
	}

	if c.CustodyPrivateKey == "" {
		return fmt.Errorf("CUSTODY_PRIVATE_KEY is required")
	}

	if c.BlockchainServiceURL == "" {
		return fmt.Errorf("BLOCKCHAIN_SERVICE_URL is required")
	}

	if c.PostgresDB == "" {
		return fmt.Errorf("POSTGRES_DB is required")
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsUint64(name string, defaultValue uint64) uint64 {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseUint(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvAsBigInt(name string, defaultValue *big.Int) *big.Int {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, ok := new(big.Int).SetString(valueStr, 10); ok {
			return value
		}
	}
	return defaultValue
}
