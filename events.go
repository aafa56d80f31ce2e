package recipienthandler

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxInfo identifies the transaction an event originated from.
type TxInfo struct {
	// TxHash is the originating transaction hash.
	TxHash common.Hash

	// BlockNumber is the block the transaction was included in.
	BlockNumber uint64
}

// UserPaidEvent is emitted when a payment settles.
type UserPaidEvent struct {
	Buyer       common.Address
	Seller      common.Address
	TotalAmount *big.Int
	ServiceID   *big.Int
	TxInfo
}

// SellerClaimedEvent is emitted when a seller withdraws funds.
type SellerClaimedEvent struct {
	Seller      common.Address
	Token       common.Address
	ClaimAmount *big.Int
	TxInfo
}

// QuoteRevokedEvent is emitted when a seller revokes a quote.
type QuoteRevokedEvent struct {
	Seller  common.Address
	QuoteID [32]byte
	TxInfo
}

// QuoteUnrevokedEvent is emitted when a seller reinstates a revoked quote.
type QuoteUnrevokedEvent struct {
	Seller  common.Address
	QuoteID [32]byte
	TxInfo
}

// CreatedServiceEvent is emitted when a service is registered for a seller.
type CreatedServiceEvent struct {
	Seller    common.Address
	ServiceID *big.Int
	TxInfo
}
