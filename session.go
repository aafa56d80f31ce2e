package recipienthandler

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/IYA1738/recipienthandler-go/eip712"
)

// Signer is a holder-of-key capability able to approve EIP-712 digests.
// Implementations may be interactive: SignDigest can block on a user prompt
// for an arbitrarily long time and return ErrSigningRejected if the user
// declines. A private-key implementation lives in signers/evm.
type Signer interface {
	// Address returns the account the signer signs for.
	Address() common.Address

	// SignDigest signs a 32-byte EIP-712 digest, returning a 65-byte
	// [R || S || V] signature with V in {27, 28}.
	SignDigest(ctx context.Context, digest [32]byte) ([]byte, error)
}

// ChainReader resolves the active chain. Satisfied by ethclient.Client.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// SessionState is the wallet session lifecycle state.
type SessionState int

const (
	// SessionDisconnected means no signer is attached.
	SessionDisconnected SessionState = iota

	// SessionConnecting means a connect is in flight.
	SessionConnecting

	// SessionConnected means a signer is attached and usable.
	SessionConnected
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case SessionDisconnected:
		return "disconnected"
	case SessionConnecting:
		return "connecting"
	case SessionConnected:
		return "connected"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Session holds the active signer and the signing-domain inputs for one
// settlement contract instance. It replaces ambient wallet globals with an
// explicit lifecycle: disconnected -> connecting -> connected.
//
// The signing domain (chain ID + verifying contract) is re-resolved on every
// signing call rather than cached, because the active network can change
// between calls and a signature bound to a stale domain fails verification
// silently, only surfacing at settlement.
type Session struct {
	chain    ChainReader
	contract common.Address
	network  string // expected CAIP-2 network, empty to skip the check

	mu     sync.Mutex
	state  SessionState
	signer Signer
}

// SessionOption configures a Session.
type SessionOption func(*Session) error

// WithExpectedNetwork makes the session verify the resolved chain against the
// given CAIP-2 network identifier before every signing call, failing with
// ErrNetworkMismatch instead of producing an unverifiable signature.
func WithExpectedNetwork(network string) SessionOption {
	return func(s *Session) error {
		if _, err := ChainID(network); err != nil {
			return err
		}
		s.network = network
		return nil
	}
}

// NewSession creates a disconnected session for the settlement contract at
// the given address, resolving the chain through chain.
func NewSession(chain ChainReader, contract common.Address, opts ...SessionOption) (*Session, error) {
	if chain == nil {
		return nil, fmt.Errorf("recipienthandler: session requires a chain reader")
	}
	if contract == (common.Address{}) {
		return nil, fmt.Errorf("recipienthandler: session requires a settlement contract address")
	}

	s := &Session{
		chain:    chain,
		contract: contract,
		state:    SessionDisconnected,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Connect attaches a signer and transitions the session to connected.
func (s *Session) Connect(signer Signer) error {
	if signer == nil {
		return ErrNoActiveSigner
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionConnecting
	s.signer = signer
	s.state = SessionConnected
	return nil
}

// Disconnect detaches the signer. Safe to call when already disconnected.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signer = nil
	s.state = SessionDisconnected
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Contract returns the settlement contract address the session signs for.
func (s *Session) Contract() common.Address {
	return s.contract
}

// Account returns the active signer's address, or ErrWalletNotReady if the
// session is not connected.
func (s *Session) Account() (common.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionConnected || s.signer == nil {
		return common.Address{}, ErrWalletNotReady
	}
	return s.signer.Address(), nil
}

// Domain resolves the current signing domain from the active chain. Called
// fresh for every signing operation.
func (s *Session) Domain(ctx context.Context) (eip712.Domain, error) {
	chainID, err := s.chain.ChainID(ctx)
	if err != nil {
		return eip712.Domain{}, fmt.Errorf("%w: resolving chain ID: %v", ErrNetworkUnavailable, err)
	}
	if s.network != "" {
		want, _ := ChainID(s.network)
		if chainID.Cmp(big.NewInt(want)) != 0 {
			return eip712.Domain{}, fmt.Errorf("%w: expected %s, connected to %s",
				ErrNetworkMismatch, s.network, Network(chainID.Int64()))
		}
	}
	return eip712.Domain{
		Name:              DomainName,
		Version:           DomainVersion,
		ChainID:           chainID,
		VerifyingContract: s.contract,
	}, nil
}

// SignOrder signs order under the freshly resolved domain. Fails with
// ErrNoActiveSigner when disconnected. A user decline surfaces as
// ErrSigningRejected and keeps the session connected; any other signer
// failure forces the session disconnected so a defunct signer is not reused.
func (s *Session) SignOrder(ctx context.Context, order Order) ([]byte, error) {
	return s.sign(ctx, func(domain eip712.Domain) ([32]byte, error) {
		return HashOrder(domain, order)
	})
}

// SignQuote signs quote under the freshly resolved domain; the seller-role
// counterpart of SignOrder with the same error semantics.
func (s *Session) SignQuote(ctx context.Context, quote PriceQuote) ([]byte, error) {
	return s.sign(ctx, func(domain eip712.Domain) ([32]byte, error) {
		return HashQuote(domain, quote)
	})
}

func (s *Session) sign(ctx context.Context, hash func(eip712.Domain) ([32]byte, error)) ([]byte, error) {
	s.mu.Lock()
	signer := s.signer
	connected := s.state == SessionConnected
	s.mu.Unlock()

	if !connected || signer == nil {
		return nil, ErrNoActiveSigner
	}

	domain, err := s.Domain(ctx)
	if err != nil {
		return nil, err
	}

	digest, err := hash(domain)
	if err != nil {
		return nil, err
	}

	signature, err := signer.SignDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, ErrSigningRejected) {
			return nil, err
		}
		// A signer that fails for any other reason is defunct.
		s.Disconnect()
		return nil, err
	}
	return signature, nil
}

// HandleAccountsChanged reacts to a wallet account-change notification. An
// empty account list or a switch away from the attached signer's account
// disconnects the session; the caller reconnects with a signer for the new
// account.
func (s *Session) HandleAccountsChanged(accounts []common.Address) {
	s.mu.Lock()
	signer := s.signer
	s.mu.Unlock()

	if signer == nil {
		return
	}
	for _, account := range accounts {
		if account == signer.Address() {
			return
		}
	}
	s.Disconnect()
}

// HandleChainChanged reacts to a wallet network-change notification. The
// session disconnects so no in-flight signature bound to the old domain can
// be submitted; reads resolve the new chain automatically on reconnect.
func (s *Session) HandleChainChanged() {
	s.Disconnect()
}
