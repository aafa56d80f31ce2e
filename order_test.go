package recipienthandler

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	testBuyer    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testSeller   = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testContract = common.HexToAddress("0xfc5B00Ab67CDd589c88E6eb7450d0806D5fcE1d9")
	testToken    = common.HexToAddress("0x4444444444444444444444444444444444444444")
)

func validOrderParams() OrderParams {
	return OrderParams{
		Buyer:        testBuyer,
		PaymentToken: testToken,
		TotalAmount:  big.NewInt(100),
		QuoteID:      [32]byte{0xaa},
		ServiceID:    big.NewInt(7),
	}
}

func TestBuildOrder(t *testing.T) {
	now := time.Unix(1700000000, 0)

	order, err := BuildOrder(validOrderParams(), testContract, big.NewInt(3), now, time.Hour)
	if err != nil {
		t.Fatalf("BuildOrder() error = %v", err)
	}

	if order.PayTo != testContract {
		t.Errorf("PayTo = %s; want the settlement contract %s", order.PayTo, testContract)
	}
	if want := uint64(now.Add(time.Hour).Unix()); order.Deadline != want {
		t.Errorf("Deadline = %d; want %d", order.Deadline, want)
	}
	if order.Nonce.Int64() != 3 {
		t.Errorf("Nonce = %v; want 3", order.Nonce)
	}
	if order.TotalAmount.Int64() != 100 {
		t.Errorf("TotalAmount = %v; want 100", order.TotalAmount)
	}
}

func TestBuildOrderCopiesInputs(t *testing.T) {
	now := time.Unix(1700000000, 0)
	params := validOrderParams()
	nonce := big.NewInt(3)

	order, err := BuildOrder(params, testContract, nonce, now, time.Hour)
	if err != nil {
		t.Fatalf("BuildOrder() error = %v", err)
	}

	nonce.SetInt64(99)
	params.TotalAmount.SetInt64(99)
	if order.Nonce.Int64() != 3 {
		t.Error("order nonce should not alias the caller's big.Int")
	}
	if order.TotalAmount.Int64() != 100 {
		t.Error("order amount should not alias the caller's big.Int")
	}
}

func TestBuildOrderInvalidInput(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name   string
		mutate func(*OrderParams)
	}{
		{"missing buyer", func(p *OrderParams) { p.Buyer = common.Address{} }},
		{"nil amount", func(p *OrderParams) { p.TotalAmount = nil }},
		{"zero amount", func(p *OrderParams) { p.TotalAmount = big.NewInt(0) }},
		{"negative amount", func(p *OrderParams) { p.TotalAmount = big.NewInt(-1) }},
		{"zero quote ID", func(p *OrderParams) { p.QuoteID = [32]byte{} }},
		{"nil service ID", func(p *OrderParams) { p.ServiceID = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validOrderParams()
			tt.mutate(&params)
			_, err := BuildOrder(params, testContract, big.NewInt(0), now, time.Hour)
			if !errors.Is(err, ErrInvalidOrderInput) {
				t.Errorf("BuildOrder() error = %v; want ErrInvalidOrderInput", err)
			}
		})
	}

	t.Run("nil nonce", func(t *testing.T) {
		_, err := BuildOrder(validOrderParams(), testContract, nil, now, time.Hour)
		if !errors.Is(err, ErrInvalidOrderInput) {
			t.Errorf("BuildOrder() error = %v; want ErrInvalidOrderInput", err)
		}
	})
	t.Run("zero contract", func(t *testing.T) {
		_, err := BuildOrder(validOrderParams(), common.Address{}, big.NewInt(0), now, time.Hour)
		if !errors.Is(err, ErrInvalidOrderInput) {
			t.Errorf("BuildOrder() error = %v; want ErrInvalidOrderInput", err)
		}
	})
	t.Run("zero window", func(t *testing.T) {
		_, err := BuildOrder(validOrderParams(), testContract, big.NewInt(0), now, 0)
		if !errors.Is(err, ErrInvalidOrderInput) {
			t.Errorf("BuildOrder() error = %v; want ErrInvalidOrderInput", err)
		}
	})
}

func TestBuildQuote(t *testing.T) {
	now := time.Unix(1700000000, 0)

	quote, err := BuildQuote(QuoteParams{
		Seller:       testSeller,
		PaymentToken: testToken,
		Price:        big.NewInt(100),
		Cost:         big.NewInt(60),
		ServiceID:    big.NewInt(7),
	}, now, 15*time.Minute)
	if err != nil {
		t.Fatalf("BuildQuote() error = %v", err)
	}

	if quote.QuoteID == ([32]byte{}) {
		t.Error("QuoteID should be generated")
	}
	if want := uint64(now.Add(15 * time.Minute).Unix()); quote.Expiry != want {
		t.Errorf("Expiry = %d; want %d", quote.Expiry, want)
	}

	// Zero cost is legal: commission can be computed on a zero basis.
	if _, err := BuildQuote(QuoteParams{
		Seller:    testSeller,
		Price:     big.NewInt(1),
		Cost:      big.NewInt(0),
		ServiceID: big.NewInt(1),
	}, now, time.Minute); err != nil {
		t.Errorf("BuildQuote() with zero cost error = %v", err)
	}
}

func TestBuildQuoteInvalidInput(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name   string
		params QuoteParams
	}{
		{"missing seller", QuoteParams{Price: big.NewInt(1), Cost: big.NewInt(0), ServiceID: big.NewInt(1)}},
		{"nil price", QuoteParams{Seller: testSeller, Cost: big.NewInt(0), ServiceID: big.NewInt(1)}},
		{"nil cost", QuoteParams{Seller: testSeller, Price: big.NewInt(1), ServiceID: big.NewInt(1)}},
		{"nil service ID", QuoteParams{Seller: testSeller, Price: big.NewInt(1), Cost: big.NewInt(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildQuote(tt.params, now, time.Minute); !errors.Is(err, ErrInvalidOrderInput) {
				t.Errorf("BuildQuote() error = %v; want ErrInvalidOrderInput", err)
			}
		})
	}
}

func TestNewQuoteID(t *testing.T) {
	seen := make(map[[32]byte]bool)
	for i := 0; i < 100; i++ {
		id := NewQuoteID()
		if id == ([32]byte{}) {
			t.Fatal("NewQuoteID() returned zero")
		}
		if seen[id] {
			t.Fatal("NewQuoteID() returned a duplicate")
		}
		seen[id] = true
	}
}

func TestMatchQuote(t *testing.T) {
	order := testOrder()
	quote := testQuote()

	if err := MatchQuote(order, quote); err != nil {
		t.Fatalf("MatchQuote() on matching pair error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*PriceQuote)
	}{
		{"quote ID", func(q *PriceQuote) { q.QuoteID = [32]byte{0xbb} }},
		{"payment token", func(q *PriceQuote) { q.PaymentToken = common.Address{} }},
		{"service ID", func(q *PriceQuote) { q.ServiceID = big.NewInt(8) }},
		{"price", func(q *PriceQuote) { q.Price = big.NewInt(101) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := testQuote()
			tt.mutate(&quote)
			if err := MatchQuote(order, quote); !errors.Is(err, ErrQuoteMismatch) {
				t.Errorf("MatchQuote() error = %v; want ErrQuoteMismatch", err)
			}
		})
	}
}

func TestExpiryInclusiveBoundary(t *testing.T) {
	deadline := uint64(1700003600)
	order := testOrder()
	order.Deadline = deadline
	quote := testQuote()
	quote.Expiry = deadline

	justBefore := time.Unix(int64(deadline)-1, 0)
	atDeadline := time.Unix(int64(deadline), 0)
	justAfter := time.Unix(int64(deadline)+1, 0)

	if order.Expired(justBefore) {
		t.Error("order one tick before deadline should not be expired")
	}
	if !order.Expired(atDeadline) {
		t.Error("order at its exact deadline should be expired (inclusive boundary)")
	}
	if !order.Expired(justAfter) {
		t.Error("order one tick after deadline should be expired")
	}

	if quote.Expired(justBefore) {
		t.Error("quote one tick before expiry should not be expired")
	}
	if !quote.Expired(atDeadline) {
		t.Error("quote at its exact expiry should be expired (inclusive boundary)")
	}
}
