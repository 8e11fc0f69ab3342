// FILE: metrics.go
// Package main – Prometheus metrics for observability.
//
// Metrics the bot updates during operation:
//   • bot_price_polls_total      – Count of price observations fetched
//   • bot_last_price_usd         – Most recent observed price (gauge)
//   • bot_triggers_total         – Times the buy condition fired
//   • bot_orders_total{mode,side} – Orders placed (mode: paper|coinbase)
//
// Registered in init() and served by the HTTP handler started in main.go at
// /metrics (Prometheus text exposition format).
package main

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxPolls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_price_polls_total",
			Help: "Price observations fetched",
		},
	)

	mtxLastPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_last_price_usd",
			Help: "Most recent observed price in USD",
		},
	)

	mtxTriggers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_triggers_total",
			Help: "Times the buy condition fired",
		},
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Orders placed",
		},
		[]string{"mode", "side"},
	)
)

func init() {
	prometheus.MustRegister(mtxPolls, mtxLastPrice, mtxTriggers, mtxOrders)
}

func IncPricePolls()              { mtxPolls.Inc() }
func SetLastPrice(v float64)      { mtxLastPrice.Set(v) }
func IncTriggers()                { mtxTriggers.Inc() }
func IncOrders(mode, side string) { mtxOrders.WithLabelValues(mode, side).Inc() }
