package recipienthandler

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Settlement is the RecipientHandler contract surface consumed by the core.
// Transaction methods submit and wait for inclusion, returning the receipt;
// callers control timeouts through ctx. Authoritative rejections surface as
// *RevertError. The go-ethereum-backed implementation is contract.Handler.
type Settlement interface {
	// PayWithEIP712 settles a signed order against a signed quote, with
	// optional one-shot permit data.
	PayWithEIP712(ctx context.Context, order Order, orderSig []byte, quote PriceQuote, quoteSig []byte, permit PermitData) (*Receipt, error)

	// Claim withdraws amount of token to the caller (seller role).
	Claim(ctx context.Context, token common.Address, amount *big.Int) (*Receipt, error)

	// RevokeQuote marks a quote invalid ahead of its expiry. Requires the
	// seller's signature over the quote.
	RevokeQuote(ctx context.Context, quote PriceQuote, quoteSig []byte) (*Receipt, error)

	// UnrevokeQuote makes a revoked quote eligible again.
	UnrevokeQuote(ctx context.Context, quote PriceQuote, quoteSig []byte) (*Receipt, error)

	// SetServiceActive toggles a service listing (seller role).
	SetServiceActive(ctx context.Context, serviceID *big.Int) (*Receipt, error)

	// CreateService registers a service for a seller (operator role).
	CreateService(ctx context.Context, serviceID *big.Int, seller common.Address) (*Receipt, error)

	// NextNonce returns the next unused order nonce for account. Read-only
	// and never cached client-side: each orchestration attempt re-queries so
	// the contract state stays the single source of truth.
	NextNonce(ctx context.Context, account common.Address) (*big.Int, error)

	// Nonces returns the raw nonce counter recorded for account.
	Nonces(ctx context.Context, account common.Address) (*big.Int, error)

	// CommissionRate returns the contract's commission rate.
	CommissionRate(ctx context.Context) (*big.Int, error)

	// RevokedQuote reports whether the seller has revoked the quote.
	// Revocation is orthogonal to expiry.
	RevokedQuote(ctx context.Context, quoteID [32]byte) (bool, error)
}

// Token is the fungible-asset surface consumed by the allowance manager.
// The go-ethereum-backed implementation is contract.ERC20.
type Token interface {
	// Allowance returns the amount spender may pull from owner.
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)

	// Approve grants spender an allowance of amount and waits for inclusion.
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (*Receipt, error)
}

// TokenBinder resolves a Token binding for a payment-token address, letting
// the orchestrator run the allowance pre-step for whichever ERC-20 an order
// pays with.
type TokenBinder func(token common.Address) (Token, error)
