// FILE: credentials.go
// Package main – API credential resolution and validation.
//
// Credentials come from one of two sources, checked in order:
//   1) COINBASE_API_JSON_PATH – path to the JSON key file downloaded from
//      Coinbase (fields "name"/"id" and "privateKey"), or
//   2) COINBASE_API_KEY + COINBASE_API_SECRET env vars (the secret is the
//      PEM EC private key; embedded newlines may be literal or escaped).
//
// The PEM key is parsed here so a malformed key fails at startup rather
// than on the first signed request.
package main

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrMissingCredentials means no credential source yielded both fields.
	ErrMissingCredentials = errors.New("missing credentials: set COINBASE_API_JSON_PATH or both COINBASE_API_KEY and COINBASE_API_SECRET")
	// ErrMalformedCredential means a source was present but unusable.
	ErrMalformedCredential = errors.New("malformed credential")
)

// Credentials identifies an Advanced Trade API key. Held in process memory
// only; never persisted.
type Credentials struct {
	KeyName    string // e.g. organizations/{org}/apiKeys/{key}
	PrivateKey *ecdsa.PrivateKey
}

// LoadCredentials resolves credentials per the order above.
func LoadCredentials() (*Credentials, error) {
	if path := strings.TrimSpace(os.Getenv("COINBASE_API_JSON_PATH")); path != "" {
		return loadCredentialsFromJSON(path)
	}

	keyName := strings.TrimSpace(os.Getenv("COINBASE_API_KEY"))
	secret := strings.TrimSpace(os.Getenv("COINBASE_API_SECRET"))
	if keyName == "" || secret == "" {
		return nil, ErrMissingCredentials
	}
	return newCredentials(keyName, secret)
}

// loadCredentialsFromJSON parses the Coinbase key file. The downloaded file
// names the key "name"; older exports used "id" — both are accepted.
func loadCredentialsFromJSON(path string) (*Credentials, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read JSON file %s: %v", ErrMalformedCredential, path, err)
	}

	var doc struct {
		Name       string `json:"name"`
		ID         string `json:"id"`
		PrivateKey string `json:"privateKey"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: cannot parse JSON file %s: %v", ErrMalformedCredential, path, err)
	}

	keyName := strings.TrimSpace(doc.Name)
	if keyName == "" {
		keyName = strings.TrimSpace(doc.ID)
	}
	if keyName == "" {
		return nil, fmt.Errorf("%w: JSON file %s is missing 'name'/'id'", ErrMalformedCredential, path)
	}
	if strings.TrimSpace(doc.PrivateKey) == "" {
		return nil, fmt.Errorf("%w: JSON file %s is missing 'privateKey'", ErrMalformedCredential, path)
	}
	return newCredentials(keyName, doc.PrivateKey)
}

func newCredentials(keyName, privatePEM string) (*Credentials, error) {
	key, err := parseECPrivateKey(normalizeMultiline(privatePEM))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	return &Credentials{KeyName: keyName, PrivateKey: key}, nil
}

func parseECPrivateKey(privatePEM string) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(strings.TrimSpace(privatePEM)))
	if block == nil {
		return nil, errors.New("invalid private key (no PEM block)")
	}
	switch block.Type {
	case "EC PRIVATE KEY":
		return x509.ParseECPrivateKey(block.Bytes)
	case "PRIVATE KEY":
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}
		ec, ok := k.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.New("not an EC private key")
		}
		return ec, nil
	default:
		return nil, fmt.Errorf("unsupported key type: %s", block.Type)
	}
}

// normalizeMultiline turns escaped newlines back into real ones so PEM keys
// survive single-line env vars.
func normalizeMultiline(s string) string {
	if strings.Contains(s, `\n`) {
		return strings.ReplaceAll(s, `\n`, "\n")
	}
	return s
}
