package models

import "context"

// TokenService moves CTN between accounts on behalf of the ledger.
// Both calls block until the transfer is confirmed or fails; a non-nil
// error means no funds moved and the ledger must not book anything.
type TokenService interface {
	// Pull collects amount from the payer into the custody account.
	Pull(ctx context.Context, from, to string, amount uint64) error
	// Push pays amount out of the custody account.
	Push(ctx context.Context, to string, amount uint64) error
}
