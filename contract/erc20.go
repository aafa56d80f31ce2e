package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	recipienthandler "github.com/IYA1738/recipienthandler-go"
	"github.com/IYA1738/recipienthandler-go/retry"
)

// ERC20 binds the minimal token surface the allowance manager needs.
type ERC20 struct {
	address  common.Address
	backend  Backend
	contract *bind.BoundContract
	opts     *bind.TransactOpts
	retry    retry.Config
}

var _ recipienthandler.Token = (*ERC20)(nil)

// NewERC20 binds the token at address. opts carries the owner's
// signed-transaction capability and may be nil for read-only use.
func NewERC20(address common.Address, backend Backend, opts *bind.TransactOpts) (*ERC20, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("contract: token address cannot be zero")
	}
	if backend == nil {
		return nil, fmt.Errorf("contract: token binding requires a backend")
	}

	parsed, err := erc20ABI()
	if err != nil {
		return nil, fmt.Errorf("contract: parsing ERC-20 ABI: %w", err)
	}

	return &ERC20{
		address:  address,
		backend:  backend,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		opts:     opts,
		retry:    retry.Default,
	}, nil
}

// Address returns the token contract address.
func (t *ERC20) Address() common.Address {
	return t.address
}

// Allowance implements recipienthandler.Token.
func (t *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	err := retry.Do(ctx, t.retry, func() error {
		results := make([]interface{}, 0, 1)
		if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &results, "allowance", owner, spender); err != nil {
			return fmt.Errorf("%w: calling allowance: %v", recipienthandler.ErrNetworkUnavailable, err)
		}
		out = results
		return nil
	})
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Approve implements recipienthandler.Token.
func (t *ERC20) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*recipienthandler.Receipt, error) {
	if t.opts == nil {
		return nil, fmt.Errorf("%w: token binding has no transactor", recipienthandler.ErrWalletNotReady)
	}

	opts := *t.opts
	opts.Context = ctx
	tx, err := t.contract.Transact(&opts, "approve", spender, amount)
	if err != nil {
		if reason, ok := revertReason(err); ok {
			return nil, &recipienthandler.RevertError{Reason: reason}
		}
		return nil, fmt.Errorf("%w: submitting approve: %v", recipienthandler.ErrNetworkUnavailable, err)
	}

	return waitMined(ctx, t.backend, tx)
}
