package recipienthandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// State is a payment orchestration state.
type State int

const (
	// StateIdle is the initial state; nothing fetched yet.
	StateIdle State = iota

	// StateNonceFetched means the buyer's next nonce has been read.
	StateNonceFetched

	// StateOrderBuilt means the order has been assembled and cross-checked
	// against the quote.
	StateOrderBuilt

	// StateOrderSigned means the buyer's signature has been collected.
	StateOrderSigned

	// StateSubmitted means the settlement call is in flight.
	StateSubmitted

	// StateConfirmed means the settlement transaction was included; the
	// receipt is available.
	StateConfirmed

	// StateFailed is terminal; Err returns the retained reason.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNonceFetched:
		return "nonce-fetched"
	case StateOrderBuilt:
		return "order-built"
	case StateOrderSigned:
		return "order-signed"
	case StateSubmitted:
		return "submitted"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Intent pins the order parameters the buyer expects before accepting a
// quote. When set, Build fails with ErrQuoteMismatch if the quote disagrees,
// so a doomed transaction never reaches the signing prompt.
type Intent struct {
	// PaymentToken is the token the buyer expects to pay with.
	PaymentToken common.Address

	// Amount is the price the buyer expects to pay.
	Amount *big.Int

	// ServiceID is the service the buyer expects to purchase.
	ServiceID *big.Int
}

// check verifies the quote agrees with the pinned intent.
func (i *Intent) check(quote PriceQuote) error {
	if i.PaymentToken != quote.PaymentToken {
		return fmt.Errorf("%w: expected payment token %s, quote offers %s", ErrQuoteMismatch, i.PaymentToken, quote.PaymentToken)
	}
	if i.Amount == nil || quote.Price == nil || i.Amount.Cmp(quote.Price) != 0 {
		return fmt.Errorf("%w: expected price %v, quote asks %v", ErrQuoteMismatch, i.Amount, quote.Price)
	}
	if i.ServiceID == nil || quote.ServiceID == nil || i.ServiceID.Cmp(quote.ServiceID) != 0 {
		return fmt.Errorf("%w: expected service %v, quote is for %v", ErrQuoteMismatch, i.ServiceID, quote.ServiceID)
	}
	return nil
}

// Payment sequences one settlement attempt: fetch nonce -> build order ->
// sign order -> submit -> confirmed. Steps run strictly sequentially; each
// step's input depends on the previous step's exact output (the signature is
// only valid for the exact nonce the order was built with).
//
// Recoverable failures (ErrSigningRejected, ErrSubmissionRejected, transient
// network errors before submission) leave the machine in the state it was in
// before the failed step, so Execute resumes from exactly that step without
// repeating completed ones. If enough time has passed that the fetched nonce
// may be stale, call Reset to re-enter from the nonce fetch.
//
// On-chain reverts are never retried: a stale nonce or expired quote needs
// caller-driven re-entry with fresh inputs, not resubmission of an
// already-invalid signature.
//
// A Payment is not safe for concurrent use. Two concurrent attempts for the
// same buyer may also fetch the same nonce; the contract's nonce enforcement
// is the single source of truth and the loser surfaces ErrReverted.
type Payment struct {
	settlement Settlement
	session    *Session
	cfg        Config
	logger     *slog.Logger
	bindToken  TokenBinder
	now        func() time.Time

	quote    PriceQuote
	quoteSig []byte
	permit   PermitData
	intent   *Intent

	state    State
	failure  error
	nonce    *big.Int
	order    Order
	orderSig []byte
	receipt  *Receipt
}

// PaymentOption configures a Payment.
type PaymentOption func(*Payment) error

// WithConfig overrides the default protocol timing configuration.
func WithConfig(cfg Config) PaymentOption {
	return func(p *Payment) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		p.cfg = cfg
		return nil
	}
}

// WithLogger enables structured logging of state transitions.
func WithLogger(logger *slog.Logger) PaymentOption {
	return func(p *Payment) error {
		p.logger = logger
		return nil
	}
}

// WithPermit bundles one-shot permit data with the settlement call and skips
// the discretionary allowance pre-step.
func WithPermit(permit PermitData) PaymentOption {
	return func(p *Payment) error {
		p.permit = permit
		return nil
	}
}

// WithTokenBinder enables the allowance pre-step for ERC-20 payments without
// permit data. Without a binder the pre-step is skipped and an insufficient
// allowance surfaces as an on-chain revert.
func WithTokenBinder(bind TokenBinder) PaymentOption {
	return func(p *Payment) error {
		p.bindToken = bind
		return nil
	}
}

// WithIntent pins the expected order parameters for the pre-signing
// quote-agreement check.
func WithIntent(intent Intent) PaymentOption {
	return func(p *Payment) error {
		p.intent = &intent
		return nil
	}
}

// NewPayment creates a payment attempt settling quote (with the seller's
// signature over it) through settlement, signing as the session's account.
func NewPayment(settlement Settlement, session *Session, quote PriceQuote, quoteSig []byte, opts ...PaymentOption) (*Payment, error) {
	if settlement == nil {
		return nil, fmt.Errorf("recipienthandler: payment requires a settlement binding")
	}
	if session == nil {
		return nil, fmt.Errorf("recipienthandler: payment requires a session")
	}
	if len(quoteSig) == 0 {
		return nil, fmt.Errorf("%w: missing seller quote signature", ErrInvalidOrderInput)
	}

	p := &Payment{
		settlement: settlement,
		session:    session,
		cfg:        DefaultConfig,
		logger:     slog.New(discardHandler{}),
		now:        time.Now,
		quote:      quote,
		quoteSig:   quoteSig,
		state:      StateIdle,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// State returns the current orchestration state.
func (p *Payment) State() State { return p.state }

// Err returns the retained failure reason when the payment is in StateFailed.
func (p *Payment) Err() error { return p.failure }

// Order returns the built order, valid from StateOrderBuilt onward.
func (p *Payment) Order() Order { return p.order }

// Receipt returns the settlement receipt, valid in StateConfirmed.
func (p *Payment) Receipt() *Receipt { return p.receipt }

// Reset returns the machine to StateIdle, discarding the fetched nonce, the
// built order, and any collected signature. Use when re-entering after time
// has passed and the nonce may be stale.
func (p *Payment) Reset() {
	p.state = StateIdle
	p.failure = nil
	p.nonce = nil
	p.order = Order{}
	p.orderSig = nil
	p.receipt = nil
}

// Execute runs the remaining steps from the current state through
// confirmation. After a recoverable failure, calling Execute again resumes
// from the step that failed.
func (p *Payment) Execute(ctx context.Context) (*Receipt, error) {
	for {
		var err error
		switch p.state {
		case StateIdle:
			err = p.FetchNonce(ctx)
		case StateNonceFetched:
			err = p.Build()
		case StateOrderBuilt:
			err = p.Sign(ctx)
		case StateOrderSigned:
			err = p.Submit(ctx)
		case StateConfirmed:
			return p.receipt, nil
		case StateFailed:
			return nil, p.failure
		default:
			return nil, fmt.Errorf("recipienthandler: payment in unexpected state %s", p.state)
		}
		if err != nil {
			return nil, err
		}
	}
}

// FetchNonce transitions Idle -> NonceFetched by reading the buyer's next
// nonce from the contract. Fails with ErrWalletNotReady if the session has no
// active account; transient read failures leave the machine in StateIdle for
// retry.
func (p *Payment) FetchNonce(ctx context.Context) error {
	if err := p.requireState(StateIdle); err != nil {
		return err
	}

	buyer, err := p.session.Account()
	if err != nil {
		return p.fail(err)
	}

	nonce, err := p.settlement.NextNonce(ctx, buyer)
	if err != nil {
		return fmt.Errorf("fetching nonce: %w", err)
	}

	p.nonce = nonce
	p.state = StateNonceFetched
	p.logger.Debug("nonce fetched", "buyer", buyer, "nonce", nonce)
	return nil
}

// Build transitions NonceFetched -> OrderBuilt. The order takes its amount,
// token, quote ID, and service ID from the quote; payTo is pinned to the
// settlement contract and the deadline is now + DeadlineWindow. Fails with
// ErrQuoteMismatch when an Intent was pinned and the quote disagrees.
func (p *Payment) Build() error {
	if err := p.requireState(StateNonceFetched); err != nil {
		return err
	}

	buyer, err := p.session.Account()
	if err != nil {
		return p.fail(err)
	}

	order, err := BuildOrder(OrderParams{
		Buyer:        buyer,
		PaymentToken: p.quote.PaymentToken,
		TotalAmount:  p.quote.Price,
		QuoteID:      p.quote.QuoteID,
		ServiceID:    p.quote.ServiceID,
	}, p.session.Contract(), p.nonce, p.now(), p.cfg.DeadlineWindow)
	if err != nil {
		return p.fail(err)
	}

	if p.intent != nil {
		if err := p.intent.check(p.quote); err != nil {
			return p.fail(err)
		}
	}
	if err := MatchQuote(order, p.quote); err != nil {
		return p.fail(err)
	}

	p.order = order
	p.state = StateOrderBuilt
	p.logger.Debug("order built",
		"buyer", order.Buyer, "nonce", order.Nonce,
		"amount", order.TotalAmount, "service", order.ServiceID,
		"deadline", order.Deadline)
	return nil
}

// Sign transitions OrderBuilt -> OrderSigned by collecting the buyer's
// signature through the session. ErrSigningRejected is recoverable and
// leaves the machine in StateOrderBuilt; any other signing failure is fatal
// to this attempt.
func (p *Payment) Sign(ctx context.Context) error {
	if err := p.requireState(StateOrderBuilt); err != nil {
		return err
	}

	signature, err := p.session.SignOrder(ctx, p.order)
	if err != nil {
		if errors.Is(err, ErrSigningRejected) {
			p.logger.Debug("signing rejected, awaiting retry")
			return err
		}
		return p.fail(err)
	}

	p.orderSig = signature
	p.state = StateOrderSigned
	p.logger.Debug("order signed", "buyer", p.order.Buyer, "nonce", p.order.Nonce)
	return nil
}

// Submit transitions OrderSigned -> Submitted -> Confirmed. When the payment
// pulls an ERC-20 without permit data, the allowance pre-step runs first.
// ErrSubmissionRejected is recoverable and returns the machine to
// StateOrderSigned; an on-chain revert is surfaced verbatim and is fatal.
func (p *Payment) Submit(ctx context.Context) error {
	if err := p.requireState(StateOrderSigned); err != nil {
		return err
	}

	if p.needsAllowance() {
		token, err := p.bindToken(p.order.PaymentToken)
		if err != nil {
			return p.fail(fmt.Errorf("binding payment token: %w", err))
		}
		if err := EnsureAllowance(ctx, token, p.order.Buyer, p.order.PayTo, p.order.TotalAmount); err != nil {
			if errors.Is(err, ErrSubmissionRejected) {
				p.logger.Debug("approval rejected, awaiting retry")
				return err
			}
			return p.fail(err)
		}
	}

	p.state = StateSubmitted
	p.logger.Debug("submitting settlement", "buyer", p.order.Buyer, "nonce", p.order.Nonce)

	receipt, err := p.settlement.PayWithEIP712(ctx, p.order, p.orderSig, p.quote, p.quoteSig, p.permit)
	if err != nil {
		if errors.Is(err, ErrSubmissionRejected) {
			p.state = StateOrderSigned
			p.logger.Debug("submission rejected, awaiting retry")
			return err
		}
		return p.fail(err)
	}

	p.receipt = receipt
	p.state = StateConfirmed
	p.logger.Info("payment confirmed",
		"buyer", p.order.Buyer, "seller", p.quote.Seller,
		"amount", p.order.TotalAmount, "tx", receipt.TxHash)
	return nil
}

func (p *Payment) needsAllowance() bool {
	return p.order.PaymentToken != NativeToken && p.permit.Empty() && p.bindToken != nil
}

func (p *Payment) requireState(want State) error {
	if p.state == StateFailed {
		return p.failure
	}
	if p.state != want {
		return fmt.Errorf("recipienthandler: step requires state %s, payment is %s", want, p.state)
	}
	return nil
}

// fail records a fatal failure and moves the machine to StateFailed.
func (p *Payment) fail(err error) error {
	p.state = StateFailed
	p.failure = err
	p.logger.Warn("payment failed", "reason", err)
	return err
}

// discardHandler is a no-op slog handler used when no logger is configured.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
