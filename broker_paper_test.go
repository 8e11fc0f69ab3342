package main

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type staticPrice struct{ p string }

func (s staticPrice) GetNowPrice(ctx context.Context, product string) (decimal.Decimal, error) {
	return decimal.RequireFromString(s.p), nil
}

func TestPaperBrokerDelegatesPrice(t *testing.T) {
	b := NewPaperBroker(staticPrice{"91000"})
	price, err := b.GetNowPrice(context.Background(), "BTC-USD")
	if err != nil {
		t.Fatalf("GetNowPrice returned error: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(91000)) {
		t.Fatalf("unexpected price: %s", price)
	}
}

func TestPaperBrokerSimulatesOrder(t *testing.T) {
	b := NewPaperBroker(staticPrice{"91000"})
	order, err := b.PlaceLimitGTC(context.Background(), "BTC-USD",
		SideBuy, decimal.NewFromInt(90000), decimal.RequireFromString("0.00111111"))
	if err != nil {
		t.Fatalf("PlaceLimitGTC returned error: %v", err)
	}
	if order.ID == "" {
		t.Fatalf("expected a simulated order id")
	}
	if !strings.Contains(string(order.Raw), `"paper":true`) {
		t.Fatalf("raw response should be marked as paper: %s", order.Raw)
	}
}

func TestPaperBrokerRejectsInvalidOrder(t *testing.T) {
	b := NewPaperBroker(staticPrice{"91000"})
	if _, err := b.PlaceLimitGTC(context.Background(), "BTC-USD",
		SideBuy, decimal.Zero, decimal.RequireFromString("0.001")); err == nil {
		t.Fatalf("expected error for non-positive limit price")
	}
}
