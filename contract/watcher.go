package contract

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"

	recipienthandler "github.com/IYA1738/recipienthandler-go"
)

// Watcher correlates raw RecipientHandler logs with typed event records and
// delivers them to registered observers. Each On* call opens one log
// subscription; Close tears all of them down and is idempotent.
type Watcher struct {
	contract *bind.BoundContract

	mu     sync.Mutex
	subs   []event.Subscription
	closed bool
}

// NewWatcher creates a watcher for the contract at address. filterer may be
// nil when only the Parse* decoders are needed.
func NewWatcher(address common.Address, filterer bind.ContractFilterer) (*Watcher, error) {
	if address == (common.Address{}) {
		return nil, fmt.Errorf("contract: watcher address cannot be zero")
	}

	parsed, err := handlerABI()
	if err != nil {
		return nil, fmt.Errorf("contract: parsing handler ABI: %w", err)
	}

	return &Watcher{
		contract: bind.NewBoundContract(address, parsed, nil, nil, filterer),
	}, nil
}

// OnUserPaid delivers settled payments to fn until the returned subscription
// is unsubscribed or the watcher is closed.
func (w *Watcher) OnUserPaid(fn func(recipienthandler.UserPaidEvent)) (event.Subscription, error) {
	return w.watch("UserPaid", func(log types.Log) error {
		ev, err := w.ParseUserPaid(log)
		if err != nil {
			return err
		}
		fn(ev)
		return nil
	})
}

// OnSellerClaimed delivers seller fund withdrawals to fn.
func (w *Watcher) OnSellerClaimed(fn func(recipienthandler.SellerClaimedEvent)) (event.Subscription, error) {
	return w.watch("SellerClaimed", func(log types.Log) error {
		ev, err := w.ParseSellerClaimed(log)
		if err != nil {
			return err
		}
		fn(ev)
		return nil
	})
}

// OnQuoteRevoked delivers quote revocations to fn.
func (w *Watcher) OnQuoteRevoked(fn func(recipienthandler.QuoteRevokedEvent)) (event.Subscription, error) {
	return w.watch("QuoteRevoked", func(log types.Log) error {
		ev, err := w.ParseQuoteRevoked(log)
		if err != nil {
			return err
		}
		fn(ev)
		return nil
	})
}

// OnQuoteUnrevoked delivers quote reinstatements to fn.
func (w *Watcher) OnQuoteUnrevoked(fn func(recipienthandler.QuoteUnrevokedEvent)) (event.Subscription, error) {
	return w.watch("QuoteUnrevoked", func(log types.Log) error {
		ev, err := w.ParseQuoteUnrevoked(log)
		if err != nil {
			return err
		}
		fn(ev)
		return nil
	})
}

// OnCreatedService delivers service registrations to fn.
func (w *Watcher) OnCreatedService(fn func(recipienthandler.CreatedServiceEvent)) (event.Subscription, error) {
	return w.watch("CreatedService", func(log types.Log) error {
		ev, err := w.ParseCreatedService(log)
		if err != nil {
			return err
		}
		fn(ev)
		return nil
	})
}

func (w *Watcher) watch(name string, deliver func(types.Log) error) (event.Subscription, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, fmt.Errorf("contract: watcher is closed")
	}
	w.mu.Unlock()

	logs, sub, err := w.contract.WatchLogs(&bind.WatchOpts{}, name)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribing to %s: %v", recipienthandler.ErrNetworkUnavailable, name, err)
	}

	w.mu.Lock()
	w.subs = append(w.subs, sub)
	w.mu.Unlock()

	go func() {
		for {
			select {
			case log, ok := <-logs:
				if !ok {
					return
				}
				if log.Removed {
					continue
				}
				// Undecodable logs are dropped; the ABI is fixed so this
				// only happens on a topic collision from another contract.
				_ = deliver(log)
			case <-sub.Err():
				return
			}
		}
	}()

	return sub, nil
}

// Close unsubscribes every registered observer. Idempotent: closing an
// already-closed watcher, or one with no observers, is a no-op.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sub := range w.subs {
		sub.Unsubscribe()
	}
	w.subs = nil
	w.closed = true
}

func txInfo(log types.Log) recipienthandler.TxInfo {
	return recipienthandler.TxInfo{
		TxHash:      log.TxHash,
		BlockNumber: log.BlockNumber,
	}
}

// ParseUserPaid decodes a raw UserPaid log.
func (w *Watcher) ParseUserPaid(log types.Log) (recipienthandler.UserPaidEvent, error) {
	var raw struct {
		Buyer       common.Address
		Seller      common.Address
		TotalAmount *big.Int
		ServiceId   *big.Int
	}
	if err := w.contract.UnpackLog(&raw, "UserPaid", log); err != nil {
		return recipienthandler.UserPaidEvent{}, fmt.Errorf("contract: decoding UserPaid: %w", err)
	}
	return recipienthandler.UserPaidEvent{
		Buyer:       raw.Buyer,
		Seller:      raw.Seller,
		TotalAmount: raw.TotalAmount,
		ServiceID:   raw.ServiceId,
		TxInfo:      txInfo(log),
	}, nil
}

// ParseSellerClaimed decodes a raw SellerClaimed log.
func (w *Watcher) ParseSellerClaimed(log types.Log) (recipienthandler.SellerClaimedEvent, error) {
	var raw struct {
		Seller      common.Address
		Token       common.Address
		ClaimAmount *big.Int
	}
	if err := w.contract.UnpackLog(&raw, "SellerClaimed", log); err != nil {
		return recipienthandler.SellerClaimedEvent{}, fmt.Errorf("contract: decoding SellerClaimed: %w", err)
	}
	return recipienthandler.SellerClaimedEvent{
		Seller:      raw.Seller,
		Token:       raw.Token,
		ClaimAmount: raw.ClaimAmount,
		TxInfo:      txInfo(log),
	}, nil
}

// ParseQuoteRevoked decodes a raw QuoteRevoked log.
func (w *Watcher) ParseQuoteRevoked(log types.Log) (recipienthandler.QuoteRevokedEvent, error) {
	var raw struct {
		Seller  common.Address
		QuoteId [32]byte
	}
	if err := w.contract.UnpackLog(&raw, "QuoteRevoked", log); err != nil {
		return recipienthandler.QuoteRevokedEvent{}, fmt.Errorf("contract: decoding QuoteRevoked: %w", err)
	}
	return recipienthandler.QuoteRevokedEvent{
		Seller:  raw.Seller,
		QuoteID: raw.QuoteId,
		TxInfo:  txInfo(log),
	}, nil
}

// ParseQuoteUnrevoked decodes a raw QuoteUnrevoked log.
func (w *Watcher) ParseQuoteUnrevoked(log types.Log) (recipienthandler.QuoteUnrevokedEvent, error) {
	var raw struct {
		Seller  common.Address
		QuoteId [32]byte
	}
	if err := w.contract.UnpackLog(&raw, "QuoteUnrevoked", log); err != nil {
		return recipienthandler.QuoteUnrevokedEvent{}, fmt.Errorf("contract: decoding QuoteUnrevoked: %w", err)
	}
	return recipienthandler.QuoteUnrevokedEvent{
		Seller:  raw.Seller,
		QuoteID: raw.QuoteId,
		TxInfo:  txInfo(log),
	}, nil
}

// ParseCreatedService decodes a raw CreatedService log.
func (w *Watcher) ParseCreatedService(log types.Log) (recipienthandler.CreatedServiceEvent, error) {
	var raw struct {
		Seller    common.Address
		ServiceId *big.Int
	}
	if err := w.contract.UnpackLog(&raw, "CreatedService", log); err != nil {
		return recipienthandler.CreatedServiceEvent{}, fmt.Errorf("contract: decoding CreatedService: %w", err)
	}
	return recipienthandler.CreatedServiceEvent{
		Seller:    raw.Seller,
		ServiceID: raw.ServiceId,
		TxInfo:    txInfo(log),
	}, nil
}
