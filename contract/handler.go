// Package contract binds the RecipientHandler settlement contract and the
// ERC-20 token surface over go-ethereum. Handler implements
// recipienthandler.Settlement, ERC20 implements recipienthandler.Token, and
// Watcher decodes contract events into typed notifications.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	recipienthandler "github.com/IYA1738/recipienthandler-go"
	"github.com/IYA1738/recipienthandler-go/retry"
)

// Backend is the chain access the bindings need. Satisfied by ethclient.Client.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// abiOrder mirrors the Order tuple layout for ABI packing.
type abiOrder struct {
	Buyer        common.Address
	PayTo        common.Address
	PaymentToken common.Address
	TotalAmount  *big.Int
	Nonce        *big.Int
	QuoteId      [32]byte
	ServiceId    *big.Int
	Deadline     uint64
}

// abiQuote mirrors the PriceQuote tuple layout for ABI packing.
type abiQuote struct {
	QuoteId      [32]byte
	PaymentToken common.Address
	Seller       common.Address
	Price        *big.Int
	Cost         *big.Int
	ServiceId    *big.Int
	Expiry       uint64
}

func toABIOrder(o recipienthandler.Order) abiOrder {
	return abiOrder{
		Buyer:        o.Buyer,
		PayTo:        o.PayTo,
		PaymentToken: o.PaymentToken,
		TotalAmount:  o.TotalAmount,
		Nonce:        o.Nonce,
		QuoteId:      o.QuoteID,
		ServiceId:    o.ServiceID,
		Deadline:     o.Deadline,
	}
}

func toABIQuote(q recipienthandler.PriceQuote) abiQuote {
	return abiQuote{
		QuoteId:      q.QuoteID,
		PaymentToken: q.PaymentToken,
		Seller:       q.Seller,
		Price:        q.Price,
		Cost:         q.Cost,
		ServiceId:    q.ServiceID,
		Expiry:       q.Expiry,
	}
}

// Handler binds one deployed RecipientHandler instance.
type Handler struct {
	address  common.Address
	backend  Backend
	contract *bind.BoundContract
	opts     *bind.TransactOpts
	retry    retry.Config
}

var _ recipienthandler.Settlement = (*Handler)(nil)

// Option configures a Handler.
type Option func(*Handler) error

// WithTransactor attaches signed-transaction capability, typically from
// bind.NewKeyedTransactorWithChainID. Without it the handler is read-only.
func WithTransactor(opts *bind.TransactOpts) Option {
	return func(h *Handler) error {
		h.opts = opts
		return nil
	}
}

// WithRetry overrides the retry policy applied to read-only queries.
func WithRetry(cfg retry.Config) Option {
	return func(h *Handler) error {
		h.retry = cfg
		return nil
	}
}

// NewHandler binds the contract at address through backend.
func NewHandler(address common.Address, backend Backend, opts ...Option) (*Handler, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("contract: handler address cannot be zero")
	}
	if backend == nil {
		return nil, fmt.Errorf("contract: handler requires a backend")
	}

	parsed, err := handlerABI()
	if err != nil {
		return nil, fmt.Errorf("contract: parsing handler ABI: %w", err)
	}

	h := &Handler{
		address:  address,
		backend:  backend,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		retry:    retry.Default,
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Address returns the bound contract address.
func (h *Handler) Address() common.Address {
	return h.address
}

// PayWithEIP712 implements recipienthandler.Settlement.
func (h *Handler) PayWithEIP712(ctx context.Context, order recipienthandler.Order, orderSig []byte, quote recipienthandler.PriceQuote, quoteSig []byte, permit recipienthandler.PermitData) (*recipienthandler.Receipt, error) {
	permit2612 := permit.Permit2612
	if permit2612 == nil {
		permit2612 = []byte{}
	}
	permit2 := permit.Permit2
	if permit2 == nil {
		permit2 = []byte{}
	}
	return h.transact(ctx, "payWithEIP712", toABIOrder(order), orderSig, toABIQuote(quote), quoteSig, permit2612, permit2)
}

// Claim implements recipienthandler.Settlement.
func (h *Handler) Claim(ctx context.Context, token common.Address, amount *big.Int) (*recipienthandler.Receipt, error) {
	return h.transact(ctx, "claim", token, amount)
}

// RevokeQuote implements recipienthandler.Settlement.
func (h *Handler) RevokeQuote(ctx context.Context, quote recipienthandler.PriceQuote, quoteSig []byte) (*recipienthandler.Receipt, error) {
	return h.transact(ctx, "revokeQuote", toABIQuote(quote), quoteSig)
}

// UnrevokeQuote implements recipienthandler.Settlement.
func (h *Handler) UnrevokeQuote(ctx context.Context, quote recipienthandler.PriceQuote, quoteSig []byte) (*recipienthandler.Receipt, error) {
	return h.transact(ctx, "unrevokeQuote", toABIQuote(quote), quoteSig)
}

// SetServiceActive implements recipienthandler.Settlement.
func (h *Handler) SetServiceActive(ctx context.Context, serviceID *big.Int) (*recipienthandler.Receipt, error) {
	return h.transact(ctx, "setServiceActive", serviceID)
}

// CreateService implements recipienthandler.Settlement.
func (h *Handler) CreateService(ctx context.Context, serviceID *big.Int, seller common.Address) (*recipienthandler.Receipt, error) {
	return h.transact(ctx, "createService", serviceID, seller)
}

// NextNonce implements recipienthandler.Settlement.
func (h *Handler) NextNonce(ctx context.Context, account common.Address) (*big.Int, error) {
	var out []interface{}
	if err := h.call(ctx, &out, "nextNonce", account); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Nonces implements recipienthandler.Settlement.
func (h *Handler) Nonces(ctx context.Context, account common.Address) (*big.Int, error) {
	var out []interface{}
	if err := h.call(ctx, &out, "nonces", account); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// CommissionRate implements recipienthandler.Settlement.
func (h *Handler) CommissionRate(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := h.call(ctx, &out, "commissionRate"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// RevokedQuote implements recipienthandler.Settlement.
func (h *Handler) RevokedQuote(ctx context.Context, quoteID [32]byte) (bool, error) {
	var out []interface{}
	if err := h.call(ctx, &out, "revokedQuote", quoteID); err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// call runs a read-only query with the handler's retry policy. Reverts are
// permanent; transport failures are retried and surface as ErrNetworkUnavailable.
func (h *Handler) call(ctx context.Context, out *[]interface{}, method string, args ...interface{}) error {
	return retry.Do(ctx, h.retry, func() error {
		results := make([]interface{}, 0, 1)
		if err := h.contract.Call(&bind.CallOpts{Context: ctx}, &results, method, args...); err != nil {
			if reason, ok := revertReason(err); ok {
				return retry.Permanent(&recipienthandler.RevertError{Reason: reason})
			}
			return fmt.Errorf("%w: calling %s: %v", recipienthandler.ErrNetworkUnavailable, method, err)
		}
		*out = results
		return nil
	})
}

func (h *Handler) transact(ctx context.Context, method string, args ...interface{}) (*recipienthandler.Receipt, error) {
	if h.opts == nil {
		return nil, fmt.Errorf("%w: handler has no transactor", recipienthandler.ErrWalletNotReady)
	}

	opts := *h.opts
	opts.Context = ctx
	tx, err := h.contract.Transact(&opts, method, args...)
	if err != nil {
		// Reverts show up here when gas estimation executes the call.
		if reason, ok := revertReason(err); ok {
			return nil, &recipienthandler.RevertError{Reason: reason}
		}
		return nil, fmt.Errorf("%w: submitting %s: %v", recipienthandler.ErrNetworkUnavailable, method, err)
	}
	return waitMined(ctx, h.backend, tx)
}

// waitMined blocks until tx is included, converting the result to the
// protocol receipt type. Caller-controlled ctx is the only timeout.
func waitMined(ctx context.Context, backend bind.DeployBackend, tx *types.Transaction) (*recipienthandler.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: awaiting inclusion of %s: %v", recipienthandler.ErrNetworkUnavailable, tx.Hash(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, &recipienthandler.RevertError{Reason: "transaction reverted on-chain"}
	}
	return &recipienthandler.Receipt{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
		Status:      receipt.Status,
	}, nil
}

// revertReason extracts the revert string from an RPC error, if present.
func revertReason(err error) (string, bool) {
	const marker = "execution reverted"
	msg := err.Error()
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", false
	}
	reason := strings.TrimPrefix(msg[idx+len(marker):], ":")
	return strings.TrimSpace(reason), true
}
