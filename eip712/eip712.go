// Package eip712 provides domain-separated hashing, signing, and signer
// recovery for EIP-712 typed data.
//
// Message schemas are static configuration supplied by the caller as ordered
// apitypes field lists; this package never introspects Go types. Two different
// domains, or two different field orderings, hash the same logical data to
// different digests, which is what prevents a signature collected for one
// contract/chain from being replayed against another.
package eip712

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Domain identifies the verifying contract a signature is bound to. Every
// field participates in the digest: a signature produced under one domain
// fails verification under any other.
type Domain struct {
	// Name is the EIP-712 domain name declared by the contract.
	Name string

	// Version is the EIP-712 domain version declared by the contract.
	Version string

	// ChainID is the chain the verifying contract is deployed on.
	ChainID *big.Int

	// VerifyingContract is the address of the verifying contract.
	VerifyingContract common.Address
}

// domainType is the canonical EIP712Domain field list.
var domainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

// Hash computes the EIP-712 digest of message under domain: keccak256 of
// 0x1901 || hashStruct(domain) || hashStruct(message). types holds the
// declared schema for primaryType; the EIP712Domain schema is added here.
func Hash(domain Domain, primaryType string, types apitypes.Types, message apitypes.TypedDataMessage) ([32]byte, error) {
	var digest [32]byte

	if domain.ChainID == nil {
		return digest, fmt.Errorf("eip712: domain chain ID is nil")
	}

	merged := make(apitypes.Types, len(types)+1)
	for name, fields := range types {
		merged[name] = fields
	}
	merged["EIP712Domain"] = domainType

	typedData := apitypes.TypedData{
		Types:       merged,
		PrimaryType: primaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           (*math.HexOrDecimal256)(domain.ChainID),
			VerifyingContract: domain.VerifyingContract.Hex(),
		},
		Message: message,
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return digest, fmt.Errorf("eip712: failed to hash domain: %w", err)
	}

	messageHash, err := typedData.HashStruct(primaryType, message)
	if err != nil {
		return digest, fmt.Errorf("eip712: failed to hash %s message: %w", primaryType, err)
	}

	rawData := append([]byte{0x19, 0x01}, append(domainSeparator, messageHash...)...)
	copy(digest[:], crypto.Keccak256(rawData))
	return digest, nil
}

// Sign produces a 65-byte [R || S || V] signature over digest with V in
// {27, 28}, the form the verifying contract expects.
func Sign(digest [32]byte, key *ecdsa.PrivateKey) ([]byte, error) {
	signature, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, fmt.Errorf("eip712: signing failed: %w", err)
	}
	signature[64] += 27
	return signature, nil
}

// RecoverSigner returns the address that produced signature over digest.
// Accepts V in either {0, 1} or {27, 28} form.
func RecoverSigner(digest [32]byte, signature []byte) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("eip712: signature must be %d bytes, got %d", crypto.SignatureLength, len(signature))
	}

	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, signature)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	pubkey, err := crypto.SigToPub(digest[:], normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("eip712: signer recovery failed: %w", err)
	}
	return crypto.PubkeyToAddress(*pubkey), nil
}
