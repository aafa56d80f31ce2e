// Package validation provides standalone pre-submission checks for orders and
// quotes. The orchestrator performs its own shape checks while building; these
// helpers let callers validate artifacts received from a counter-party before
// spending a signing prompt or a transaction on them.
package validation

import (
	"fmt"
	"math/big"
	"regexp"
	"time"

	recipienthandler "github.com/IYA1738/recipienthandler-go"
)

// evmAddressRegex matches Ethereum-style addresses (0x followed by 40 hex chars)
var evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ValidateAddress validates a hex-encoded EVM address.
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !evmAddressRegex.MatchString(address) {
		return fmt.Errorf("invalid EVM address format: %s (expected 0x followed by 40 hex characters)", address)
	}
	return nil
}

// ValidateAmount validates that an amount is present and positive.
func ValidateAmount(amount *big.Int) error {
	if amount == nil {
		return fmt.Errorf("amount cannot be nil")
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("amount must be positive, got %v", amount)
	}
	return nil
}

// ValidateOrder checks an order's shape and that its deadline has not passed
// as of now. The deadline boundary is inclusive: Deadline == now is expired.
func ValidateOrder(order recipienthandler.Order, now time.Time) error {
	if order.Buyer == (recipienthandler.Order{}).Buyer {
		return fmt.Errorf("order buyer cannot be zero")
	}
	if order.PayTo == (recipienthandler.Order{}).PayTo {
		return fmt.Errorf("order payTo cannot be zero; it must be the settlement contract address")
	}
	if err := ValidateAmount(order.TotalAmount); err != nil {
		return fmt.Errorf("order total amount: %w", err)
	}
	if order.Nonce == nil || order.Nonce.Sign() < 0 {
		return fmt.Errorf("order nonce cannot be nil or negative")
	}
	if order.QuoteID == [32]byte{} {
		return fmt.Errorf("order quote ID cannot be zero")
	}
	if order.ServiceID == nil {
		return fmt.Errorf("order service ID cannot be nil")
	}
	if order.Expired(now) {
		return fmt.Errorf("order deadline %d has passed", order.Deadline)
	}
	return nil
}

// ValidateQuote checks a quote's shape and that its expiry has not passed as
// of now (inclusive boundary). Revocation is tracked on the settlement side
// and is not checked here; query Settlement.RevokedQuote for it.
func ValidateQuote(quote recipienthandler.PriceQuote, now time.Time) error {
	if quote.Seller == (recipienthandler.PriceQuote{}).Seller {
		return fmt.Errorf("quote seller cannot be zero")
	}
	if quote.QuoteID == [32]byte{} {
		return fmt.Errorf("quote ID cannot be zero")
	}
	if err := ValidateAmount(quote.Price); err != nil {
		return fmt.Errorf("quote price: %w", err)
	}
	if quote.Cost == nil || quote.Cost.Sign() < 0 {
		return fmt.Errorf("quote cost cannot be nil or negative")
	}
	if quote.ServiceID == nil {
		return fmt.Errorf("quote service ID cannot be nil")
	}
	if quote.Expired(now) {
		return fmt.Errorf("quote expiry %d has passed", quote.Expiry)
	}
	return nil
}
