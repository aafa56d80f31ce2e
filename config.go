package recipienthandler

import (
	"fmt"
	"time"
)

// Config holds protocol timing configuration.
type Config struct {
	// DeadlineWindow is added to the current time to produce Order.Deadline.
	// The contract enforces its own maximum acceptance window which is not
	// queryable on-chain; this value must not exceed it. The default matches
	// the window the reference deployment was built against.
	DeadlineWindow time.Duration

	// QuoteTTL is added to the current time to produce PriceQuote.Expiry when
	// the seller does not supply an explicit expiry.
	QuoteTTL time.Duration
}

// DefaultConfig provides the standard protocol timing values.
var DefaultConfig = Config{
	DeadlineWindow: time.Hour,
	QuoteTTL:       15 * time.Minute,
}

// WithDeadlineWindow returns a copy of the config with an updated deadline window.
func (c Config) WithDeadlineWindow(d time.Duration) Config {
	c.DeadlineWindow = d
	return c
}

// WithQuoteTTL returns a copy of the config with an updated quote TTL.
func (c Config) WithQuoteTTL(d time.Duration) Config {
	c.QuoteTTL = d
	return c
}

// Validate ensures the timing values are usable.
func (c Config) Validate() error {
	if c.DeadlineWindow <= 0 {
		return fmt.Errorf("deadline window must be positive, got %v", c.DeadlineWindow)
	}
	if c.QuoteTTL <= 0 {
		return fmt.Errorf("quote TTL must be positive, got %v", c.QuoteTTL)
	}
	return nil
}
