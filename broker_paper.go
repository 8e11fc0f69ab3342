// FILE: broker_paper.go
// Package main – Dry-run broker (real prices, simulated orders).
//
// Used when DRY_RUN=true. Price lookups are delegated to the real public
// product endpoint so the trigger behaves exactly as it would live; order
// placement is simulated and never touches the exchange.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceSource is the read-only half of Broker.
type PriceSource interface {
	GetNowPrice(ctx context.Context, product string) (decimal.Decimal, error)
}

// PaperBroker simulates execution against real market prices.
type PaperBroker struct {
	prices PriceSource
}

func NewPaperBroker(prices PriceSource) *PaperBroker {
	return &PaperBroker{prices: prices}
}

func (p *PaperBroker) Name() string { return "paper" }

func (p *PaperBroker) GetNowPrice(ctx context.Context, product string) (decimal.Decimal, error) {
	return p.prices.GetNowPrice(ctx, product)
}

// PlaceLimitGTC acknowledges the order locally without submitting it.
func (p *PaperBroker) PlaceLimitGTC(ctx context.Context, product string, side OrderSide, limitPrice, baseSize decimal.Decimal) (*PlacedOrder, error) {
	if !limitPrice.IsPositive() || !baseSize.IsPositive() {
		return nil, fmt.Errorf("invalid order: limit_price=%s base_size=%s", limitPrice, baseSize)
	}
	id := uuid.New().String()
	raw, _ := json.Marshal(map[string]any{
		"success":          true,
		"success_response": map[string]string{"order_id": id},
		"paper":            true,
	})
	return &PlacedOrder{
		ID:            id,
		ClientOrderID: id,
		ProductID:     product,
		Side:          side,
		LimitPrice:    limitPrice,
		BaseSize:      baseSize,
		QuoteSpend:    limitPrice.Mul(baseSize),
		CreateTime:    time.Now().UTC(),
		Raw:           raw,
	}, nil
}

var _ Broker = (*PaperBroker)(nil)
