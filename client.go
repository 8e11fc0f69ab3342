// FILE: client.go
// Package main – Signed Coinbase Advanced Trade REST client.
//
// Auth: each authenticated request carries a short-lived ES256 JWT minted
// from the API key's EC private key (kid + nonce headers, uri claim per the
// Advanced Trade scheme). Public GETs (product lookup) attach auth only when
// credentials are configured, so the dry-run path works without a key.
//
// There is no retry and no backoff anywhere: a failed call surfaces to the
// caller immediately as an *APIError (non-2xx) or a transport error.
package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// APIError is a non-success HTTP response from the exchange.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coinbase: status %d: %s", e.StatusCode, e.Body)
}

// CoinbaseClient talks to the Advanced Trade REST API.
type CoinbaseClient struct {
	apiBase string // default https://api.coinbase.com
	hc      *http.Client
	creds   *Credentials // nil => unauthenticated (public endpoints only)
}

// NewCoinbaseClient builds a client. creds may be nil for price-only use.
func NewCoinbaseClient(cfg Config, creds *Credentials) *CoinbaseClient {
	return &CoinbaseClient{
		apiBase: strings.TrimRight(cfg.APIBase, "/"),
		hc:      &http.Client{Timeout: cfg.HTTPTimeout},
		creds:   creds,
	}
}

func (c *CoinbaseClient) Name() string { return "coinbase" }

// ---------- Price ----------

// GetNowPrice fetches the latest price for the product. The latest single
// observation is used as-is; no smoothing, no outlier rejection.
func (c *CoinbaseClient) GetNowPrice(ctx context.Context, product string) (decimal.Decimal, error) {
	path := "/api/v3/brokerage/products/" + url.PathEscape(product)
	var j map[string]any
	if err := c.do(ctx, http.MethodGet, path, nil, &j); err != nil {
		return decimal.Zero, err
	}
	// Prefer the last trade price; fall back to book-derived fields.
	for _, k := range []string{"price", "mid_market_price", "best_ask", "best_bid"} {
		s, ok := j[k].(string)
		if !ok {
			continue
		}
		p, err := decimal.NewFromString(strings.TrimSpace(s))
		if err == nil && p.IsPositive() {
			return p, nil
		}
	}
	return decimal.Zero, errors.New("no usable price in product payload")
}

// ---------- Orders ----------

type orderResponse struct {
	Success         bool `json:"success"`
	SuccessResponse struct {
		OrderID       string `json:"order_id"`
		ClientOrderID string `json:"client_order_id"`
	} `json:"success_response"`
	ErrorResponse json.RawMessage `json:"error_response"`
}

// PlaceLimitGTC submits a Good-Til-Canceled limit order and returns the
// acknowledgment. Fill status is not tracked.
func (c *CoinbaseClient) PlaceLimitGTC(ctx context.Context, product string, side OrderSide, limitPrice, baseSize decimal.Decimal) (*PlacedOrder, error) {
	if !limitPrice.IsPositive() || !baseSize.IsPositive() {
		return nil, fmt.Errorf("invalid order: limit_price=%s base_size=%s", limitPrice, baseSize)
	}
	clientOrderID := uuid.New().String()
	body := map[string]any{
		"client_order_id": clientOrderID,
		"product_id":      product,
		"side":            string(side),
		"order_configuration": map[string]any{
			"limit_limit_gtc": map[string]string{
				"base_size":   baseSize.StringFixed(8),
				"limit_price": limitPrice.StringFixed(2),
			},
		},
	}

	raw, err := c.doRaw(ctx, http.MethodPost, "/api/v3/brokerage/orders", body)
	if err != nil {
		return nil, err
	}
	log.Printf("raw order response: %s", string(raw))

	var or orderResponse
	if err := json.Unmarshal(raw, &or); err != nil {
		return nil, fmt.Errorf("order response: %w", err)
	}
	if !or.Success {
		return nil, fmt.Errorf("order rejected: %s", string(or.ErrorResponse))
	}
	orderID := strings.TrimSpace(or.SuccessResponse.OrderID)
	if orderID == "" {
		orderID = clientOrderID
	}
	return &PlacedOrder{
		ID:            orderID,
		ClientOrderID: clientOrderID,
		ProductID:     product,
		Side:          side,
		LimitPrice:    limitPrice,
		BaseSize:      baseSize,
		QuoteSpend:    limitPrice.Mul(baseSize),
		CreateTime:    time.Now().UTC(),
		Raw:           raw,
	}, nil
}

// ---------- Balances ----------

// AvailableBalance sums the available balance across accounts holding the
// given currency (used by the balances tool).
func (c *CoinbaseClient) AvailableBalance(ctx context.Context, currency string) (decimal.Decimal, error) {
	balances, err := c.ListBalances(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for cur, v := range balances {
		if strings.EqualFold(cur, currency) {
			total = total.Add(v)
		}
	}
	return total, nil
}

// ListBalances returns available balances keyed by currency.
func (c *CoinbaseClient) ListBalances(ctx context.Context) (map[string]decimal.Decimal, error) {
	var j struct {
		Accounts []struct {
			AvailableBalance struct {
				Value    string `json:"value"`
				Currency string `json:"currency"`
			} `json:"available_balance"`
		} `json:"accounts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v3/brokerage/accounts?limit=250", nil, &j); err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(j.Accounts))
	for _, a := range j.Accounts {
		cur := strings.ToUpper(strings.TrimSpace(a.AvailableBalance.Currency))
		if cur == "" {
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(a.AvailableBalance.Value))
		if err != nil {
			continue
		}
		out[cur] = out[cur].Add(v)
	}
	return out, nil
}

// ---------- Transport ----------

func (c *CoinbaseClient) do(ctx context.Context, method, path string, body any, out any) error {
	raw, err := c.doRaw(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *CoinbaseClient) doRaw(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "btcbot/coinbase-go")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.addAuth(req, method, path); err != nil {
		return nil, err
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	rb, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		return nil, &APIError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(rb))}
	}
	return rb, nil
}

// addAuth mints and attaches a per-request JWT. GETs stay unauthenticated
// when no credentials are configured (product data is public); everything
// else requires a key.
func (c *CoinbaseClient) addAuth(req *http.Request, method, path string) error {
	if c.creds == nil {
		if method == http.MethodGet {
			return nil
		}
		return errors.New("coinbase auth not configured (set COINBASE_API_JSON_PATH or COINBASE_API_KEY + COINBASE_API_SECRET)")
	}
	host := req.URL.Host
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	token, err := mintCoinbaseJWT(c.creds, fmt.Sprintf("%s %s%s", method, host, path), 2*time.Minute)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// mintCoinbaseJWT builds the ES256 JWT the Advanced Trade API expects:
// kid + nonce in the header, key name as sub, and the request uri claim.
func mintCoinbaseJWT(creds *Credentials, uri string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": creds.KeyName,
		"iss": "cdp",
		"nbf": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"uri": uri,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	t.Header["kid"] = creds.KeyName
	t.Header["nonce"] = newNonce()
	return t.SignedString(creds.PrivateKey)
}

func newNonce() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

var _ Broker = (*CoinbaseClient)(nil)
