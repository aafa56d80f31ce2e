package validation

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	recipienthandler "github.com/IYA1738/recipienthandler-go"
)

var (
	buyerAddr  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	sellerAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")
	handlerAdr = common.HexToAddress("0x3333333333333333333333333333333333333333")
	tokenAddr  = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

func validOrder(now time.Time) recipienthandler.Order {
	return recipienthandler.Order{
		Buyer:        buyerAddr,
		PayTo:        handlerAdr,
		PaymentToken: tokenAddr,
		TotalAmount:  big.NewInt(100),
		Nonce:        big.NewInt(0),
		QuoteID:      [32]byte{0x01},
		ServiceID:    big.NewInt(7),
		Deadline:     uint64(now.Add(time.Hour).Unix()),
	}
}

func validQuote(now time.Time) recipienthandler.PriceQuote {
	return recipienthandler.PriceQuote{
		QuoteID:      [32]byte{0x01},
		PaymentToken: tokenAddr,
		Seller:       sellerAddr,
		Price:        big.NewInt(100),
		Cost:         big.NewInt(40),
		ServiceID:    big.NewInt(7),
		Expiry:       uint64(now.Add(15 * time.Minute).Unix()),
	}
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{"valid lowercase", "0x1111111111111111111111111111111111111111", false},
		{"valid mixed case", "0xAbCd111111111111111111111111111111111111", false},
		{"empty", "", true},
		{"missing prefix", "1111111111111111111111111111111111111111", true},
		{"too short", "0x1111", true},
		{"too long", "0x11111111111111111111111111111111111111111111", true},
		{"non-hex", "0xZZ11111111111111111111111111111111111111", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddress(%q) error = %v; wantErr %v", tt.address, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  *big.Int
		wantErr bool
	}{
		{"positive", big.NewInt(1), false},
		{"large", new(big.Int).Lsh(big.NewInt(1), 120), false},
		{"nil", nil, true},
		{"zero", big.NewInt(0), true},
		{"negative", big.NewInt(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.amount)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAmount(%v) error = %v; wantErr %v", tt.amount, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOrder(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name    string
		mutate  func(*recipienthandler.Order)
		wantErr bool
	}{
		{"valid", func(o *recipienthandler.Order) {}, false},
		{"zero buyer", func(o *recipienthandler.Order) { o.Buyer = common.Address{} }, true},
		{"zero payTo", func(o *recipienthandler.Order) { o.PayTo = common.Address{} }, true},
		{"nil amount", func(o *recipienthandler.Order) { o.TotalAmount = nil }, true},
		{"zero amount", func(o *recipienthandler.Order) { o.TotalAmount = big.NewInt(0) }, true},
		{"nil nonce", func(o *recipienthandler.Order) { o.Nonce = nil }, true},
		{"negative nonce", func(o *recipienthandler.Order) { o.Nonce = big.NewInt(-1) }, true},
		{"zero quote ID", func(o *recipienthandler.Order) { o.QuoteID = [32]byte{} }, true},
		{"nil service ID", func(o *recipienthandler.Order) { o.ServiceID = nil }, true},
		{"deadline passed", func(o *recipienthandler.Order) { o.Deadline = uint64(now.Add(-time.Second).Unix()) }, true},
		{"deadline exactly now", func(o *recipienthandler.Order) { o.Deadline = uint64(now.Unix()) }, true},
		{"native token", func(o *recipienthandler.Order) { o.PaymentToken = recipienthandler.NativeToken }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder(now)
			tt.mutate(&order)
			err := ValidateOrder(order, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOrder() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuote(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name    string
		mutate  func(*recipienthandler.PriceQuote)
		wantErr bool
	}{
		{"valid", func(q *recipienthandler.PriceQuote) {}, false},
		{"zero seller", func(q *recipienthandler.PriceQuote) { q.Seller = common.Address{} }, true},
		{"zero quote ID", func(q *recipienthandler.PriceQuote) { q.QuoteID = [32]byte{} }, true},
		{"nil price", func(q *recipienthandler.PriceQuote) { q.Price = nil }, true},
		{"zero price", func(q *recipienthandler.PriceQuote) { q.Price = big.NewInt(0) }, true},
		{"nil cost", func(q *recipienthandler.PriceQuote) { q.Cost = nil }, true},
		{"zero cost is legal", func(q *recipienthandler.PriceQuote) { q.Cost = big.NewInt(0) }, false},
		{"negative cost", func(q *recipienthandler.PriceQuote) { q.Cost = big.NewInt(-1) }, true},
		{"nil service ID", func(q *recipienthandler.PriceQuote) { q.ServiceID = nil }, true},
		{"expiry passed", func(q *recipienthandler.PriceQuote) { q.Expiry = uint64(now.Add(-time.Second).Unix()) }, true},
		{"expiry exactly now", func(q *recipienthandler.PriceQuote) { q.Expiry = uint64(now.Unix()) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := validQuote(now)
			tt.mutate(&quote)
			err := ValidateQuote(quote, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateQuote() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}
