package recipienthandler

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/IYA1738/recipienthandler-go/eip712"
)

func testDomain() eip712.Domain {
	return eip712.Domain{
		Name:              DomainName,
		Version:           DomainVersion,
		ChainID:           big.NewInt(31337),
		VerifyingContract: common.HexToAddress("0xfc5B00Ab67CDd589c88E6eb7450d0806D5fcE1d9"),
	}
}

func testOrder() Order {
	return Order{
		Buyer:        common.HexToAddress("0x1111111111111111111111111111111111111111"),
		PayTo:        common.HexToAddress("0xfc5B00Ab67CDd589c88E6eb7450d0806D5fcE1d9"),
		PaymentToken: common.HexToAddress("0x4444444444444444444444444444444444444444"),
		TotalAmount:  big.NewInt(100),
		Nonce:        big.NewInt(0),
		QuoteID:      [32]byte{0xaa},
		ServiceID:    big.NewInt(7),
		Deadline:     1700003600,
	}
}

func testQuote() PriceQuote {
	return PriceQuote{
		QuoteID:      [32]byte{0xaa},
		PaymentToken: common.HexToAddress("0x4444444444444444444444444444444444444444"),
		Seller:       common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Price:        big.NewInt(100),
		Cost:         big.NewInt(60),
		ServiceID:    big.NewInt(7),
		Expiry:       1700003600,
	}
}

func TestHashOrderDeterministic(t *testing.T) {
	first, err := HashOrder(testDomain(), testOrder())
	if err != nil {
		t.Fatalf("HashOrder() error = %v", err)
	}
	second, err := HashOrder(testDomain(), testOrder())
	if err != nil {
		t.Fatalf("HashOrder() error = %v", err)
	}
	if first != second {
		t.Error("identical orders produced different digests")
	}
}

func TestHashOrderFieldChanges(t *testing.T) {
	base, err := HashOrder(testDomain(), testOrder())
	if err != nil {
		t.Fatalf("HashOrder() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Order)
	}{
		{"buyer", func(o *Order) { o.Buyer = common.HexToAddress("0x9999999999999999999999999999999999999999") }},
		{"amount", func(o *Order) { o.TotalAmount = big.NewInt(101) }},
		{"nonce", func(o *Order) { o.Nonce = big.NewInt(1) }},
		{"quote ID", func(o *Order) { o.QuoteID = [32]byte{0xbb} }},
		{"service ID", func(o *Order) { o.ServiceID = big.NewInt(8) }},
		{"deadline", func(o *Order) { o.Deadline++ }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder()
			tt.mutate(&order)
			digest, err := HashOrder(testDomain(), order)
			if err != nil {
				t.Fatalf("HashOrder() error = %v", err)
			}
			if digest == base {
				t.Errorf("changing %s should change the digest", tt.name)
			}
		})
	}
}

func TestHashOrderDomainBinding(t *testing.T) {
	base, err := HashOrder(testDomain(), testOrder())
	if err != nil {
		t.Fatalf("HashOrder() error = %v", err)
	}

	other := testDomain()
	other.ChainID = big.NewInt(1)
	moved, err := HashOrder(other, testOrder())
	if err != nil {
		t.Fatalf("HashOrder() error = %v", err)
	}
	if base == moved {
		t.Error("same order on a different chain should produce a different digest")
	}
}

func TestHashQuoteDeterministic(t *testing.T) {
	first, err := HashQuote(testDomain(), testQuote())
	if err != nil {
		t.Fatalf("HashQuote() error = %v", err)
	}
	second, err := HashQuote(testDomain(), testQuote())
	if err != nil {
		t.Fatalf("HashQuote() error = %v", err)
	}
	if first != second {
		t.Error("identical quotes produced different digests")
	}
}
