package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/core-coin/go-core/v2/accounts/abi"
	"github.com/core-coin/go-core/v2/accounts/abi/bind"
	"github.com/core-coin/go-core/v2/common"
	"github.com/core-coin/go-core/v2/core/types"
	"github.com/core-coin/go-core/v2/crypto"
	"github.com/core-coin/go-core/v2/xcbclient"

	"github.com/core-coin/vectigal/internal/config"
	"github.com/core-coin/vectigal/pkg/logger"
)

const (
	// ReceiptTimeout bounds how long a transfer is allowed to take
	// before it counts as failed. ~12 blocks at 7s block time.
	ReceiptTimeout = 90 * time.Second
)

// Gocore moves CTN through the token contract on behalf of the ledger.
// Transfers are submitted from the custody key and only reported as
// successful once the receipt confirms them.
type Gocore struct {
	logger *logger.Logger
	config *config.Config
	apiURL string
	client *xcbclient.Client

	mu   sync.Mutex
	opts *bind.TransactOpts

	ctnContract *bind.BoundContract
}

// NewGocore creates a new Gocore instance.
func NewGocore(apiURL string, logger *logger.Logger, config *config.Config) *Gocore {
	return &Gocore{apiURL: apiURL, logger: logger, config: config}
}

func (g *Gocore) Run() error {
	err := g.ConnectToRPC()
	if err != nil {
		return fmt.Errorf("failed to connect to the core RPC server: %w", err)
	}
	err = g.BuildBindings()
	if err != nil {
		return fmt.Errorf("failed to build bindings: %w", err)
	}
	err = g.BuildTransactor()
	if err != nil {
		return fmt.Errorf("failed to build transactor: %w", err)
	}
	return nil
}

func (g *Gocore) ConnectToRPC() error {
	client, err := xcbclient.Dial(g.apiURL)
	if err != nil {
		return fmt.Errorf("failed to connect to the core RPC server: %w", err)
	}
	g.client = client
	return nil
}

func (g *Gocore) BuildBindings() error {
	ctnAddress, err := common.HexToAddress(g.config.TokenContractAddress)
	if err != nil {
		return fmt.Errorf("failed to parse Core Token contract address: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(CTNABI))
	if err != nil {
		return fmt.Errorf("failed to parse Core Token ABI: %w", err)
	}

	contract := bind.NewBoundContract(ctnAddress, parsedABI, g.client, g.client, g.client)
	g.ctnContract = contract

	return nil
}

func (g *Gocore) BuildTransactor() error {
	key, err := crypto.UnmarshalPrivateKeyHex(g.config.CustodyPrivateKey)
	if err != nil {
		return fmt.Errorf("failed to parse custody private key: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithNetworkID(key, g.config.NetworkID)
	if err != nil {
		return fmt.Errorf("failed to build keyed transactor: %w", err)
	}
	g.opts = opts
	return nil
}

func (g *Gocore) Close() error {
	if g.client != nil {
		g.client.Close()
	}
	return nil
}

// Pull collects amount from the payer into the custody account via
// transferFrom. The payer must have approved the custody account as a
// spender on the token contract beforehand.
func (g *Gocore) Pull(ctx context.Context, from, to string, amount uint64) error {
	fromAddr, err := common.HexToAddress(from)
	if err != nil {
		return fmt.Errorf("failed to parse payer address: %w", err)
	}
	toAddr, err := common.HexToAddress(to)
	if err != nil {
		return fmt.Errorf("failed to parse custody address: %w", err)
	}

	return g.transact(ctx, "transferFrom", fromAddr, toAddr, new(big.Int).SetUint64(amount))
}

// Push pays amount out of the custody account via transfer.
func (g *Gocore) Push(ctx context.Context, to string, amount uint64) error {
	toAddr, err := common.HexToAddress(to)
	if err != nil {
		return fmt.Errorf("failed to parse recipient address: %w", err)
	}

	return g.transact(ctx, "transfer", toAddr, new(big.Int).SetUint64(amount))
}

// transact submits a contract transaction and waits for its receipt.
// A reverted or unmined transaction is a failed transfer. Submissions
// are serialized so the transactor nonce stays consistent.
func (g *Gocore) transact(ctx context.Context, method string, params ...interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	tx, err := g.ctnContract.Transact(g.opts, method, params...)
	if err != nil {
		return fmt.Errorf("failed to send %s transaction: %w", method, err)
	}
	g.logger.Debug("Token transaction submitted ", "method ", method, "tx ", tx.Hash().String())

	ctx, cancel := context.WithTimeout(ctx, ReceiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, g.client, tx)
	if err != nil {
		return fmt.Errorf("failed to wait for %s receipt: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%s transaction reverted: %s", method, tx.Hash().String())
	}

	return nil
}

// CustodyBalance returns the custody account's CTN balance.
func (g *Gocore) CustodyBalance() (*big.Int, error) {
	custodyAddr, err := common.HexToAddress(g.config.CustodyAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to parse custody address: %w", err)
	}

	results := []interface{}{}
	err = g.ctnContract.Call(nil, &results, "balanceOf", custodyAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	balance := results[0].(*big.Int)
	return balance, nil
}
