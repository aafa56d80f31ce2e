// Package evm provides a private-key Signer for EVM chains.
package evm

import (
	"context"
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	recipienthandler "github.com/IYA1738/recipienthandler-go"
	"github.com/IYA1738/recipienthandler-go/eip712"
)

// Approver decides whether to approve signing a digest. It stands in for the
// interactive wallet prompt: returning false surfaces ErrSigningRejected to
// the caller as an ordinary, retryable outcome.
type Approver func(digest [32]byte) bool

// Signer signs EIP-712 digests with a local private key.
type Signer struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	approve    Approver
}

var _ recipienthandler.Signer = (*Signer)(nil)

// Option configures a Signer.
type Option func(*Signer) error

// WithApprover installs an approval hook consulted before every signature.
func WithApprover(approve Approver) Option {
	return func(s *Signer) error {
		s.approve = approve
		return nil
	}
}

// NewSigner creates a signer from a hex-encoded private key, with or without
// a 0x prefix.
func NewSigner(privateKeyHex string, opts ...Option) (*Signer, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, recipienthandler.ErrInvalidKey
	}
	return NewSignerFromKey(privateKey, opts...)
}

// NewSignerFromKey creates a signer from an in-memory key.
func NewSignerFromKey(key *ecdsa.PrivateKey, opts ...Option) (*Signer, error) {
	s := &Signer{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Address returns the account the signer signs for.
func (s *Signer) Address() common.Address {
	return s.address
}

// SignDigest signs a 32-byte EIP-712 digest, consulting the approver first
// when one is installed.
func (s *Signer) SignDigest(ctx context.Context, digest [32]byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.approve != nil && !s.approve(digest) {
		return nil, recipienthandler.ErrSigningRejected
	}
	return eip712.Sign(digest, s.privateKey)
}
