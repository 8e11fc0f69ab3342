//go:build balances

package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"
)

// One-off balance check: go run -tags balances .
// Prints available balances per currency using the same signed client the
// bot trades with.
func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	creds, err := LoadCredentials()
	if err != nil {
		log.Fatalf("credentials: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	balances, err := NewCoinbaseClient(cfg, creds).ListBalances(ctx)
	if err != nil {
		log.Fatalf("accounts: %v", err)
	}
	if len(balances) == 0 {
		fmt.Println("no accounts with balances")
		return
	}

	currencies := make([]string, 0, len(balances))
	for cur := range balances {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)
	for _, cur := range currencies {
		fmt.Printf("%-6s %s\n", cur, balances[cur].String())
	}
}
