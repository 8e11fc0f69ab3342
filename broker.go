// FILE: broker.go
// Package main – Broker abstraction shared by the live and dry-run backends.
//
// The watcher only needs two things from an execution backend: the current
// price for a product and the ability to place a single GTC limit order.
// Two concrete implementations exist:
//   • client.go        – signed Coinbase Advanced Trade REST client
//   • broker_paper.go  – dry-run broker (real prices, simulated orders)
package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide is the side of a trade.
type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// PlacedOrder is a normalized view of an acknowledged limit order. Fill
// status is never tracked; the lifecycle ends at acknowledgment.
type PlacedOrder struct {
	ID            string
	ClientOrderID string
	ProductID     string
	Side          OrderSide
	LimitPrice    decimal.Decimal
	BaseSize      decimal.Decimal // base units (e.g., BTC)
	QuoteSpend    decimal.Decimal // intended quote outlay (e.g., USD)
	CreateTime    time.Time
	Raw           json.RawMessage // exchange response as received
}

// Broker is the minimal surface the watcher needs to operate.
type Broker interface {
	Name() string
	GetNowPrice(ctx context.Context, product string) (decimal.Decimal, error)
	PlaceLimitGTC(ctx context.Context, product string, side OrderSide, limitPrice, baseSize decimal.Decimal) (*PlacedOrder, error)
}
