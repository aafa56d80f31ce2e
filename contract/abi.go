package contract

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// handlerABIJSON is the RecipientHandler contract surface consumed by this
// module: the settlement entrypoint, seller/operator actions, the read-only
// queries, and the event set.
const handlerABIJSON = `[
  {"type":"function","name":"payWithEIP712","stateMutability":"nonpayable","inputs":[
    {"name":"order","type":"tuple","components":[
      {"name":"buyer","type":"address"},
      {"name":"payTo","type":"address"},
      {"name":"paymentToken","type":"address"},
      {"name":"totalAmount","type":"uint256"},
      {"name":"nonce","type":"uint256"},
      {"name":"quoteId","type":"bytes32"},
      {"name":"serviceId","type":"uint128"},
      {"name":"deadline","type":"uint64"}]},
    {"name":"sig","type":"bytes"},
    {"name":"quote","type":"tuple","components":[
      {"name":"quoteId","type":"bytes32"},
      {"name":"paymentToken","type":"address"},
      {"name":"seller","type":"address"},
      {"name":"price","type":"uint256"},
      {"name":"cost","type":"uint256"},
      {"name":"serviceId","type":"uint128"},
      {"name":"expiry","type":"uint64"}]},
    {"name":"sellerQuoteSig","type":"bytes"},
    {"name":"permit2612","type":"bytes"},
    {"name":"permit2Data","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"claim","stateMutability":"nonpayable","inputs":[
    {"name":"token","type":"address"},
    {"name":"claimAmount","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"revokeQuote","stateMutability":"nonpayable","inputs":[
    {"name":"quote","type":"tuple","components":[
      {"name":"quoteId","type":"bytes32"},
      {"name":"paymentToken","type":"address"},
      {"name":"seller","type":"address"},
      {"name":"price","type":"uint256"},
      {"name":"cost","type":"uint256"},
      {"name":"serviceId","type":"uint128"},
      {"name":"expiry","type":"uint64"}]},
    {"name":"sellerQuoteSig","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"unrevokeQuote","stateMutability":"nonpayable","inputs":[
    {"name":"quote","type":"tuple","components":[
      {"name":"quoteId","type":"bytes32"},
      {"name":"paymentToken","type":"address"},
      {"name":"seller","type":"address"},
      {"name":"price","type":"uint256"},
      {"name":"cost","type":"uint256"},
      {"name":"serviceId","type":"uint128"},
      {"name":"expiry","type":"uint64"}]},
    {"name":"sellerQuoteSig","type":"bytes"}],"outputs":[]},
  {"type":"function","name":"setServiceActive","stateMutability":"nonpayable","inputs":[
    {"name":"serviceId","type":"uint128"}],"outputs":[]},
  {"type":"function","name":"createService","stateMutability":"nonpayable","inputs":[
    {"name":"serviceId","type":"uint128"},
    {"name":"seller","type":"address"}],"outputs":[]},
  {"type":"function","name":"nextNonce","stateMutability":"view","inputs":[
    {"name":"user","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"nonces","stateMutability":"view","inputs":[
    {"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"commissionRate","stateMutability":"view","inputs":[],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"revokedQuote","stateMutability":"view","inputs":[
    {"name":"","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"UserPaid","inputs":[
    {"name":"buyer","type":"address","indexed":true},
    {"name":"seller","type":"address","indexed":true},
    {"name":"totalAmount","type":"uint256","indexed":false},
    {"name":"serviceId","type":"uint128","indexed":false}]},
  {"type":"event","name":"SellerClaimed","inputs":[
    {"name":"seller","type":"address","indexed":true},
    {"name":"token","type":"address","indexed":true},
    {"name":"claimAmount","type":"uint256","indexed":false}]},
  {"type":"event","name":"QuoteRevoked","inputs":[
    {"name":"seller","type":"address","indexed":true},
    {"name":"quoteId","type":"bytes32","indexed":true}]},
  {"type":"event","name":"QuoteUnrevoked","inputs":[
    {"name":"seller","type":"address","indexed":true},
    {"name":"quoteId","type":"bytes32","indexed":true}]},
  {"type":"event","name":"CreatedService","inputs":[
    {"name":"seller","type":"address","indexed":true},
    {"name":"serviceId","type":"uint128","indexed":true}]}
]`

// erc20ABIJSON is the minimal ERC-20 surface the allowance manager consumes.
const erc20ABIJSON = `[
  {"type":"function","name":"allowance","stateMutability":"view","inputs":[
    {"name":"owner","type":"address"},
    {"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[
    {"name":"spender","type":"address"},
    {"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

var handlerABI = sync.OnceValues(func() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(handlerABIJSON))
})

var erc20ABI = sync.OnceValues(func() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(erc20ABIJSON))
})
