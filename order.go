package recipienthandler

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// OrderParams are the business inputs to BuildOrder. PayTo is absent on
// purpose: it is always pinned to the settlement contract address.
type OrderParams struct {
	// Buyer is the paying account.
	Buyer common.Address

	// PaymentToken is the token to pay with, or NativeToken.
	PaymentToken common.Address

	// TotalAmount is the gross amount to pay.
	TotalAmount *big.Int

	// QuoteID references the seller quote being accepted.
	QuoteID [32]byte

	// ServiceID identifies the service being purchased.
	ServiceID *big.Int
}

// BuildOrder assembles an Order from business inputs plus a freshly fetched
// nonce. PayTo is pinned to the settlement contract address and the deadline
// is now + window. Pure construction; the only failure mode is input shape.
func BuildOrder(params OrderParams, contract common.Address, nonce *big.Int, now time.Time, window time.Duration) (Order, error) {
	switch {
	case params.Buyer == (common.Address{}):
		return Order{}, fmt.Errorf("%w: missing buyer", ErrInvalidOrderInput)
	case contract == (common.Address{}):
		return Order{}, fmt.Errorf("%w: missing settlement contract address", ErrInvalidOrderInput)
	case params.TotalAmount == nil || params.TotalAmount.Sign() <= 0:
		return Order{}, fmt.Errorf("%w: total amount must be positive", ErrInvalidOrderInput)
	case nonce == nil || nonce.Sign() < 0:
		return Order{}, fmt.Errorf("%w: missing nonce", ErrInvalidOrderInput)
	case params.QuoteID == [32]byte{}:
		return Order{}, fmt.Errorf("%w: missing quote ID", ErrInvalidOrderInput)
	case params.ServiceID == nil:
		return Order{}, fmt.Errorf("%w: missing service ID", ErrInvalidOrderInput)
	case window <= 0:
		return Order{}, fmt.Errorf("%w: deadline window must be positive", ErrInvalidOrderInput)
	}

	return Order{
		Buyer:        params.Buyer,
		PayTo:        contract,
		PaymentToken: params.PaymentToken,
		TotalAmount:  new(big.Int).Set(params.TotalAmount),
		Nonce:        new(big.Int).Set(nonce),
		QuoteID:      params.QuoteID,
		ServiceID:    new(big.Int).Set(params.ServiceID),
		Deadline:     uint64(now.Add(window).Unix()),
	}, nil
}

// QuoteParams are the business inputs to BuildQuote.
type QuoteParams struct {
	// Seller is the quote issuer.
	Seller common.Address

	// PaymentToken is the token the seller accepts, or NativeToken.
	PaymentToken common.Address

	// Price is the amount the buyer must pay.
	Price *big.Int

	// Cost is the seller's cost basis, passed through to the contract's
	// commission computation.
	Cost *big.Int

	// ServiceID identifies the service being sold.
	ServiceID *big.Int
}

// BuildQuote assembles a PriceQuote with a fresh QuoteID and an expiry of
// now + ttl.
func BuildQuote(params QuoteParams, now time.Time, ttl time.Duration) (PriceQuote, error) {
	switch {
	case params.Seller == (common.Address{}):
		return PriceQuote{}, fmt.Errorf("%w: missing seller", ErrInvalidOrderInput)
	case params.Price == nil || params.Price.Sign() <= 0:
		return PriceQuote{}, fmt.Errorf("%w: price must be positive", ErrInvalidOrderInput)
	case params.Cost == nil || params.Cost.Sign() < 0:
		return PriceQuote{}, fmt.Errorf("%w: missing cost", ErrInvalidOrderInput)
	case params.ServiceID == nil:
		return PriceQuote{}, fmt.Errorf("%w: missing service ID", ErrInvalidOrderInput)
	case ttl <= 0:
		return PriceQuote{}, fmt.Errorf("%w: quote TTL must be positive", ErrInvalidOrderInput)
	}

	return PriceQuote{
		QuoteID:      NewQuoteID(),
		PaymentToken: params.PaymentToken,
		Seller:       params.Seller,
		Price:        new(big.Int).Set(params.Price),
		Cost:         new(big.Int).Set(params.Cost),
		ServiceID:    new(big.Int).Set(params.ServiceID),
		Expiry:       uint64(now.Add(ttl).Unix()),
	}, nil
}

// NewQuoteID generates an opaque 32-byte quote identifier from a fresh UUID.
func NewQuoteID() [32]byte {
	id := uuid.New()
	return crypto.Keccak256Hash(id[:])
}

// MatchQuote verifies that order and quote agree on the fields the contract
// cross-checks: quote ID, service ID, payment token, and price. Run before
// requesting a signature so a doomed transaction never reaches the signing
// prompt.
func MatchQuote(order Order, quote PriceQuote) error {
	if order.QuoteID != quote.QuoteID {
		return fmt.Errorf("%w: order references quote %x, got quote %x", ErrQuoteMismatch, order.QuoteID, quote.QuoteID)
	}
	if order.PaymentToken != quote.PaymentToken {
		return fmt.Errorf("%w: payment token %s != %s", ErrQuoteMismatch, order.PaymentToken, quote.PaymentToken)
	}
	if order.ServiceID == nil || quote.ServiceID == nil || order.ServiceID.Cmp(quote.ServiceID) != 0 {
		return fmt.Errorf("%w: service ID disagrees", ErrQuoteMismatch)
	}
	if order.TotalAmount == nil || quote.Price == nil || order.TotalAmount.Cmp(quote.Price) != 0 {
		return fmt.Errorf("%w: total amount %v != price %v", ErrQuoteMismatch, order.TotalAmount, quote.Price)
	}
	return nil
}

// Expired reports whether the order's deadline has passed. The boundary is
// inclusive: Deadline == now is expired.
func (o Order) Expired(now time.Time) bool {
	return uint64(now.Unix()) >= o.Deadline
}

// Expired reports whether the quote's expiry has passed (inclusive boundary).
func (q PriceQuote) Expired(now time.Time) bool {
	return uint64(now.Unix()) >= q.Expiry
}
