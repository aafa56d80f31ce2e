package recipienthandler

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

// fakeToken tracks allowances like an ERC-20 and counts approvals.
type fakeToken struct {
	allowances map[common.Address]*big.Int
	approvals  int
	owner      common.Address
	queryErr   error
	approveErr error
}

func newFakeToken(owner common.Address) *fakeToken {
	return &fakeToken{
		allowances: make(map[common.Address]*big.Int),
		owner:      owner,
	}
}

func (f *fakeToken) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	current, ok := f.allowances[spender]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(current), nil
}

func (f *fakeToken) Approve(ctx context.Context, spender common.Address, amount *big.Int) (*Receipt, error) {
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	f.approvals++
	f.allowances[spender] = new(big.Int).Set(amount)
	return &Receipt{Status: 1}, nil
}

func TestEnsureAllowanceApprovesWhenInsufficient(t *testing.T) {
	token := newFakeToken(testBuyer)

	err := EnsureAllowance(context.Background(), token, testBuyer, testContract, big.NewInt(100))
	if err != nil {
		t.Fatalf("EnsureAllowance() error = %v", err)
	}
	if token.approvals != 1 {
		t.Errorf("approvals = %d; want 1", token.approvals)
	}
}

func TestEnsureAllowanceIdempotent(t *testing.T) {
	token := newFakeToken(testBuyer)
	amount := big.NewInt(100)

	for i := 0; i < 2; i++ {
		if err := EnsureAllowance(context.Background(), token, testBuyer, testContract, amount); err != nil {
			t.Fatalf("EnsureAllowance() call %d error = %v", i+1, err)
		}
	}
	if token.approvals != 1 {
		t.Errorf("approvals after two calls = %d; want at most 1", token.approvals)
	}
}

func TestEnsureAllowanceSufficientIsNoop(t *testing.T) {
	token := newFakeToken(testBuyer)
	token.allowances[testContract] = big.NewInt(1000)

	if err := EnsureAllowance(context.Background(), token, testBuyer, testContract, big.NewInt(100)); err != nil {
		t.Fatalf("EnsureAllowance() error = %v", err)
	}
	if token.approvals != 0 {
		t.Errorf("approvals = %d; want 0 when allowance already suffices", token.approvals)
	}
}

func TestEnsureAllowanceErrors(t *testing.T) {
	t.Run("nil token", func(t *testing.T) {
		if err := EnsureAllowance(context.Background(), nil, testBuyer, testContract, big.NewInt(1)); err == nil {
			t.Error("EnsureAllowance() should reject a nil token")
		}
	})
	t.Run("nil amount", func(t *testing.T) {
		token := newFakeToken(testBuyer)
		if err := EnsureAllowance(context.Background(), token, testBuyer, testContract, nil); !errors.Is(err, ErrInvalidOrderInput) {
			t.Errorf("EnsureAllowance() error = %v; want ErrInvalidOrderInput", err)
		}
	})
	t.Run("query failure", func(t *testing.T) {
		token := newFakeToken(testBuyer)
		token.queryErr = ErrNetworkUnavailable
		if err := EnsureAllowance(context.Background(), token, testBuyer, testContract, big.NewInt(1)); !errors.Is(err, ErrNetworkUnavailable) {
			t.Errorf("EnsureAllowance() error = %v; want ErrNetworkUnavailable", err)
		}
	})
	t.Run("approve rejected", func(t *testing.T) {
		token := newFakeToken(testBuyer)
		token.approveErr = ErrSubmissionRejected
		if err := EnsureAllowance(context.Background(), token, testBuyer, testContract, big.NewInt(1)); !errors.Is(err, ErrSubmissionRejected) {
			t.Errorf("EnsureAllowance() error = %v; want ErrSubmissionRejected", err)
		}
	})
}
