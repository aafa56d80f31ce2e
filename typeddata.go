package recipienthandler

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/IYA1738/recipienthandler-go/eip712"
)

// EIP-712 domain parameters declared by the RecipientHandler contract. The
// chain ID and verifying contract address are resolved at signing time from
// the active session, never hardcoded.
const (
	DomainName    = "RecipientHandler"
	DomainVersion = "1"
)

// OrderTypes is the declared EIP-712 schema for Order. Field names, types,
// and order must match the contract's type hash exactly; reordering fields
// produces a digest the contract will never verify.
var OrderTypes = apitypes.Types{
	"Order": []apitypes.Type{
		{Name: "buyer", Type: "address"},
		{Name: "payTo", Type: "address"},
		{Name: "paymentToken", Type: "address"},
		{Name: "totalAmount", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "quoteId", Type: "bytes32"},
		{Name: "serviceId", Type: "uint128"},
		{Name: "deadline", Type: "uint64"},
	},
}

// PriceQuoteTypes is the declared EIP-712 schema for PriceQuote.
var PriceQuoteTypes = apitypes.Types{
	"PriceQuote": []apitypes.Type{
		{Name: "quoteId", Type: "bytes32"},
		{Name: "paymentToken", Type: "address"},
		{Name: "seller", Type: "address"},
		{Name: "price", Type: "uint256"},
		{Name: "cost", Type: "uint256"},
		{Name: "serviceId", Type: "uint128"},
		{Name: "expiry", Type: "uint64"},
	},
}

func uintValue(v *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(v)
}

func (o Order) typedDataMessage() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"buyer":        o.Buyer.Hex(),
		"payTo":        o.PayTo.Hex(),
		"paymentToken": o.PaymentToken.Hex(),
		"totalAmount":  uintValue(o.TotalAmount),
		"nonce":        uintValue(o.Nonce),
		"quoteId":      common.BytesToHash(o.QuoteID[:]).Hex(),
		"serviceId":    uintValue(o.ServiceID),
		"deadline":     uintValue(new(big.Int).SetUint64(o.Deadline)),
	}
}

func (q PriceQuote) typedDataMessage() apitypes.TypedDataMessage {
	return apitypes.TypedDataMessage{
		"quoteId":      common.BytesToHash(q.QuoteID[:]).Hex(),
		"paymentToken": q.PaymentToken.Hex(),
		"seller":       q.Seller.Hex(),
		"price":        uintValue(q.Price),
		"cost":         uintValue(q.Cost),
		"serviceId":    uintValue(q.ServiceID),
		"expiry":       uintValue(new(big.Int).SetUint64(q.Expiry)),
	}
}

// HashOrder computes the EIP-712 digest a buyer signs for order under domain.
func HashOrder(domain eip712.Domain, order Order) ([32]byte, error) {
	return eip712.Hash(domain, "Order", OrderTypes, order.typedDataMessage())
}

// HashQuote computes the EIP-712 digest a seller signs for quote under domain.
func HashQuote(domain eip712.Domain, quote PriceQuote) ([32]byte, error) {
	return eip712.Hash(domain, "PriceQuote", PriceQuoteTypes, quote.typedDataMessage())
}
