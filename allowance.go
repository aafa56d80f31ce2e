package recipienthandler

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EnsureAllowance guarantees spender may pull at least amount of token from
// owner, issuing an approval transaction only when the current allowance is
// insufficient and waiting for its inclusion. Idempotent: with a sufficient
// allowance already in place it performs no transaction at all.
//
// Skipped entirely by the orchestrator when the payment bundles one-shot
// permit data or pays in the native asset.
func EnsureAllowance(ctx context.Context, token Token, owner, spender common.Address, amount *big.Int) error {
	if token == nil {
		return fmt.Errorf("recipienthandler: ensure allowance requires a token binding")
	}
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: allowance amount must be non-negative", ErrInvalidOrderInput)
	}

	current, err := token.Allowance(ctx, owner, spender)
	if err != nil {
		return fmt.Errorf("querying allowance: %w", err)
	}
	if current.Cmp(amount) >= 0 {
		return nil
	}

	if _, err := token.Approve(ctx, spender, amount); err != nil {
		return fmt.Errorf("approving allowance: %w", err)
	}
	return nil
}
