package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v2"

	"github.com/core-coin/vectigal/internal/blockchain"
	"github.com/core-coin/vectigal/internal/config"
	"github.com/core-coin/vectigal/internal/http_api"
	"github.com/core-coin/vectigal/internal/ledger"
	"github.com/core-coin/vectigal/internal/notifier"
	"github.com/core-coin/vectigal/internal/repository"
	"github.com/core-coin/vectigal/pkg/logger"
	"github.com/core-coin/vectigal/pkg/validation"
)

func main() {
	app := &cli.App{
		Name:  "vectigal",
		Usage: "Vectigal is a fee-metered messaging ledger for the Core blockchain",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "blockchain-service-url", Aliases: []string{"b"}, Usage: "Blockchain service URL"},
			&cli.StringFlag{Name: "token-contract-address", Aliases: []string{"c"}, Usage: "CTN token contract address"},
			&cli.StringFlag{Name: "operator-address", Aliases: []string{"o"}, Usage: "Ledger operator address"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("blockchain-service-url") {
		cfg.BlockchainServiceURL = c.String("blockchain-service-url")
	}
	if c.IsSet("token-contract-address") {
		cfg.TokenContractAddress = c.String("token-contract-address")
	}
	if c.IsSet("operator-address") {
		cfg.OperatorAddress = c.String("operator-address")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}
	defer log.Sync()

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Seed the fee configuration on first run
	if _, err := db.EnsureLedgerState(cfg.DefaultSendFee, cfg.DefaultDelegationFee); err != nil {
		return fmt.Errorf("failed to ensure ledger state: %v", err)
	}

	// Initialize token service
	gocore := blockchain.NewGocore(cfg.BlockchainServiceURL, log, cfg)
	if err := gocore.Run(); err != nil {
		return fmt.Errorf("failed to start blockchain service: %v", err)
	}
	defer gocore.Close()

	// Initialize operator alerting; channels are optional
	var telNotif *notifier.TelegramNotifier
	if cfg.TelegramBotToken != "" && cfg.TelegramOperatorChatID != "" {
		telNotif, err = notifier.NewTelegramNotifier(log, cfg.TelegramBotToken, cfg.TelegramOperatorChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notifier: %v", err)
		}
	}
	var emailNotif *notifier.EmailNotifier
	if cfg.SMTPHost != "" && cfg.OperatorEmail != "" {
		emailNotif = notifier.NewEmailNotifier(log, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender, cfg.OperatorEmail)
	}
	alerts := notifier.NewNotifier(log, telNotif, emailNotif)

	// Create the ledger engine
	ledgerApp := ledger.NewLedger(
		db,
		gocore,
		alerts,
		log,
		clockwork.NewRealClock(),
		validation.NormalizeAddress(cfg.OperatorAddress),
		validation.NormalizeAddress(cfg.CustodyAddress),
	)

	apiServer := http_api.NewHTTPServer(ledgerApp, gocore, cfg.APIPort, log)

	// Shut down on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		if err := apiServer.Shutdown(); err != nil {
			log.Error("Failed to shut down API server ", "error ", err)
		}
	}()

	// Start the API server; blocks until shutdown
	apiServer.Start()

	return nil
}
