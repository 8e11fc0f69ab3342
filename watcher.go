// FILE: watcher.go
// Package main – Polling loop and one-shot order trigger.
//
// The watcher is an explicit state machine:
//
//   POLLING → (price <= target) → SUBMITTING → DONE
//
// POLLING is the only looping state: fetch the latest price, compare against
// the target, sleep PollInterval, repeat. The first observation at or below
// the target moves to SUBMITTING, which places exactly one GTC limit buy and
// finishes. Every error — price poll or submission — is fatal to the run;
// there is no retry and no second submission attempt.
//
// Time is injected through the Clock interface so tests can advance ticks
// without real delays.
package main

import (
	"context"
	"fmt"
	"log"
	"time"
)

// State is the watcher's lifecycle phase.
type State string

const (
	StatePolling    State = "POLLING"
	StateSubmitting State = "SUBMITTING"
	StateDone       State = "DONE"
)

// Clock abstracts time for the polling loop.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Watcher polls a product price and buys the dip once.
type Watcher struct {
	cfg    Config
	broker Broker
	clock  Clock
	state  State
}

func NewWatcher(cfg Config, broker Broker) *Watcher {
	return &Watcher{cfg: cfg, broker: broker, clock: realClock{}, state: StatePolling}
}

// State reports the current lifecycle phase.
func (w *Watcher) State() State { return w.state }

// Run polls until the trigger fires, submits the single order, and returns
// its acknowledgment. It returns early on context cancellation or on the
// first error from the broker.
func (w *Watcher) Run(ctx context.Context) (*PlacedOrder, error) {
	log.Printf("watching %s on %s: buy when price <= %s USD, spending %s USD, polling every %s",
		w.cfg.ProductID, w.broker.Name(), w.cfg.TargetPrice, w.cfg.USDToSpend, w.cfg.PollInterval)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		price, err := w.broker.GetNowPrice(ctx, w.cfg.ProductID)
		if err != nil {
			return nil, fmt.Errorf("price poll: %w", err)
		}
		IncPricePolls()
		SetLastPrice(price.InexactFloat64())
		log.Printf("current price: %s USD", price.StringFixed(2))

		if price.LessThanOrEqual(w.cfg.TargetPrice) {
			w.state = StateSubmitting
			IncTriggers()
			log.Printf("target hit (%s <= %s), placing buy order", price.StringFixed(2), w.cfg.TargetPrice.StringFixed(2))

			order, err := w.submit(ctx)
			if err != nil {
				return nil, fmt.Errorf("order submit: %w", err)
			}
			w.state = StateDone
			return order, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-w.clock.After(w.cfg.PollInterval):
		}
	}
}

// submit sizes the order from the configured spend and places the GTC limit
// buy. The limit price is the configured target: the trigger guarantees the
// market is already at or below it, so the order is immediately marketable.
func (w *Watcher) submit(ctx context.Context) (*PlacedOrder, error) {
	limitPrice := w.cfg.TargetPrice
	baseSize := w.cfg.USDToSpend.DivRound(limitPrice, 8)

	log.Printf("placing limit BUY: product=%s limit_price=%s base_size=%s",
		w.cfg.ProductID, limitPrice.StringFixed(2), baseSize.StringFixed(8))

	order, err := w.broker.PlaceLimitGTC(ctx, w.cfg.ProductID, SideBuy, limitPrice, baseSize)
	if err != nil {
		return nil, err
	}
	IncOrders(w.broker.Name(), string(order.Side))
	return order, nil
}
