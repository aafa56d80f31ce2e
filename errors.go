package recipienthandler

import "errors"

// Sentinel errors for payment operations.
var (
	// ErrNoActiveSigner indicates a signing operation ran without an attached signer.
	ErrNoActiveSigner = errors.New("recipienthandler: no active signer")

	// ErrWalletNotReady indicates no active account is available to act as buyer.
	ErrWalletNotReady = errors.New("recipienthandler: wallet not ready")

	// ErrSigningRejected indicates the key holder declined the signing prompt.
	// Recoverable: the caller may retry the signing step.
	ErrSigningRejected = errors.New("recipienthandler: signing rejected by user")

	// ErrInvalidOrderInput indicates malformed business input to a builder.
	ErrInvalidOrderInput = errors.New("recipienthandler: invalid order input")

	// ErrQuoteMismatch indicates the quote disagrees with the intended order
	// parameters. Caught client-side, before any signing prompt.
	ErrQuoteMismatch = errors.New("recipienthandler: quote does not match order parameters")

	// ErrSubmissionRejected indicates the user declined the transaction in
	// their wallet. Recoverable: the caller may retry the submission step.
	ErrSubmissionRejected = errors.New("recipienthandler: submission rejected by user")

	// ErrReverted indicates an authoritative rejection by the settlement
	// contract. Never retried automatically; see RevertError for the reason.
	ErrReverted = errors.New("recipienthandler: transaction reverted")

	// ErrNetworkUnavailable indicates a transport failure talking to the chain.
	ErrNetworkUnavailable = errors.New("recipienthandler: network unavailable")

	// ErrNetworkMismatch indicates the session's resolved chain differs from
	// the network it was configured for. Signing against the wrong chain would
	// produce a signature the contract silently fails to verify, so the
	// mismatch is surfaced before signing.
	ErrNetworkMismatch = errors.New("recipienthandler: connected to unexpected network")

	// ErrInvalidKey indicates an invalid private key.
	ErrInvalidKey = errors.New("recipienthandler: invalid private key")
)

// RevertError carries the contract-provided revert reason for an on-chain
// rejection (nonce already used, expired deadline or quote, revoked quote,
// insufficient allowance). It wraps ErrReverted so callers can test with
// errors.Is.
type RevertError struct {
	// Reason is the contract-provided revert string, if any.
	Reason string
}

// Error implements the error interface.
func (e *RevertError) Error() string {
	if e.Reason == "" {
		return ErrReverted.Error()
	}
	return ErrReverted.Error() + ": " + e.Reason
}

// Unwrap returns ErrReverted.
func (e *RevertError) Unwrap() error {
	return ErrReverted
}
