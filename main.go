//go:build !balances

// FILE: main.go
// Package main – Program entrypoint and HTTP/metrics server.
//
// Boot sequence:
//   1) cfg := loadConfig()       – .env hydration + env-overridable defaults
//   2) creds := LoadCredentials() – JSON key file or env pair (skipped checks
//      in DRY_RUN, where a key is optional)
//   3) wire broker (live Coinbase client, or paper when DRY_RUN=true)
//   4) start Prometheus /metrics + /healthz server on cfg.Port
//   5) run the watcher until the single buy lands, then exit 0
//
// Unhandled errors exit non-zero via log.Fatalf. The only cancellation path
// is an external signal (SIGINT/SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Credentials & broker wiring ----
	var broker Broker
	if cfg.DryRun {
		// Paper mode polls real prices through the public endpoint; a key is
		// attached only if one happens to be configured.
		creds, err := LoadCredentials()
		if err != nil {
			if !errors.Is(err, ErrMissingCredentials) {
				log.Fatalf("credentials: %v", err)
			}
			creds = nil
		}
		broker = NewPaperBroker(NewCoinbaseClient(cfg, creds))
	} else {
		creds, err := LoadCredentials()
		if err != nil {
			log.Fatalf("credentials: %v", err)
		}
		broker = NewCoinbaseClient(cfg, creds)
	}

	// ---- HTTP metrics/health ----
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}
	go func() {
		log.Printf("serving metrics on :%d/metrics", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	// ---- Watch & buy ----
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	order, err := NewWatcher(cfg, broker).Run(ctx)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	log.Printf("order placed: id=%s product=%s side=%s limit_price=%s base_size=%s",
		order.ID, order.ProductID, order.Side, order.LimitPrice.StringFixed(2), order.BaseSize.StringFixed(8))

	// ---- Graceful shutdown for HTTP server ----
	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)
}
