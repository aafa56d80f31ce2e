// Package recipienthandler implements the client side of the RecipientHandler
// signed-order payment protocol.
//
// A seller issues a PriceQuote and signs it; a buyer builds an Order referencing
// that quote, signs it, and submits both signatures to the RecipientHandler
// settlement contract for atomic execution. Both messages are signed with
// EIP-712 typed data bound to the contract's signing domain, so a signature is
// only valid for one contract on one chain.
//
// The package is organized around a few pieces:
//   - Order and PriceQuote value types with fixed EIP-712 schemas (typeddata.go)
//   - Session, the wallet/signer lifecycle (session.go)
//   - Payment, the state machine sequencing nonce -> build -> sign -> submit (payment.go)
//   - Settlement and Token, the contract surfaces consumed by the core (settlement.go)
//
// Concrete bindings over go-ethereum live in the contract subpackage; a
// private-key signer lives in signers/evm.
package recipienthandler

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NativeToken is the sentinel payment-token address for native-asset payments.
// Orders paying in the native asset skip the allowance pre-step entirely.
var NativeToken = common.Address{}

// Order is a buyer-signed intent to pay for a service at a quoted price.
//
// Orders are ephemeral value objects: build one, sign it, submit it, discard
// it. Mutating any field after signing invalidates the signature, since the
// signature covers the exact encoded field values.
type Order struct {
	// Buyer is the paying account and the expected signer of the order.
	Buyer common.Address

	// PayTo is the funds recipient. The protocol pins this to the settlement
	// contract's own address; the contract routes funds internally. BuildOrder
	// sets it and clients must never override it.
	PayTo common.Address

	// PaymentToken is the ERC-20 contract paying for the order, or NativeToken.
	PaymentToken common.Address

	// TotalAmount is the gross amount the buyer pays, in the token's atomic units.
	TotalAmount *big.Int

	// Nonce is the buyer's replay-prevention counter. Strictly increasing per
	// account, enforced by the contract.
	Nonce *big.Int

	// QuoteID correlates the order to exactly one seller-issued PriceQuote.
	QuoteID [32]byte

	// ServiceID identifies the service being purchased (uint128 on-chain).
	ServiceID *big.Int

	// Deadline is the Unix timestamp after which the order is no longer
	// settleable. The boundary is inclusive: an order with Deadline equal to
	// the current time is already expired.
	Deadline uint64
}

// PriceQuote is a seller-signed commitment to sell a service at a price.
type PriceQuote struct {
	// QuoteID is an opaque 32-byte identifier, unique per quote. See NewQuoteID.
	QuoteID [32]byte

	// PaymentToken is the token the seller accepts.
	PaymentToken common.Address

	// Seller is the quote issuer and the expected signer of the quote.
	Seller common.Address

	// Price is the amount the buyer must pay. A matching Order carries the
	// same value as TotalAmount.
	Price *big.Int

	// Cost is the seller's cost basis, used by the contract to compute
	// commission. The client passes it through without validating it.
	Cost *big.Int

	// ServiceID identifies the service being sold (uint128 on-chain).
	ServiceID *big.Int

	// Expiry is the Unix timestamp after which the quote is invalid
	// (inclusive boundary, like Order.Deadline). Revocation is a separate
	// validity bit tracked by the contract; see Settlement.RevokedQuote.
	Expiry uint64
}

// PermitData bundles optional one-shot permit signatures submitted alongside a
// payment. When either field is non-empty the orchestrator skips the
// discretionary allowance pre-step and lets the contract consume the permit.
type PermitData struct {
	// Permit2612 is an ABI-encoded EIP-2612 permit, or empty.
	Permit2612 []byte

	// Permit2 is ABI-encoded Permit2 transfer data, or empty.
	Permit2 []byte
}

// Empty reports whether no permit data was supplied.
func (p PermitData) Empty() bool {
	return len(p.Permit2612) == 0 && len(p.Permit2) == 0
}

// Receipt is the confirmation of an included transaction.
type Receipt struct {
	// TxHash identifies the included transaction.
	TxHash common.Hash

	// BlockNumber is the block the transaction was included in.
	BlockNumber uint64

	// GasUsed is the gas consumed by the transaction.
	GasUsed uint64

	// Status is 1 for success, 0 for revert.
	Status uint64
}
