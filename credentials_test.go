package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// genECKeyPEM returns a fresh P-256 private key in SEC1 PEM form.
func genECKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
}

func writeKeyFile(t *testing.T, doc map[string]string) string {
	t.Helper()
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal key file: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cdp_api_key.json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	return path
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	os.Unsetenv("COINBASE_API_JSON_PATH")
	os.Unsetenv("COINBASE_API_KEY")
	os.Unsetenv("COINBASE_API_SECRET")
}

func TestLoadCredentialsFromJSONFile(t *testing.T) {
	clearCredentialEnv(t)
	path := writeKeyFile(t, map[string]string{
		"name":       "organizations/test-org/apiKeys/test-key",
		"privateKey": genECKeyPEM(t),
	})
	t.Setenv("COINBASE_API_JSON_PATH", path)

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials returned error: %v", err)
	}
	if creds.KeyName != "organizations/test-org/apiKeys/test-key" {
		t.Fatalf("unexpected KeyName: %s", creds.KeyName)
	}
	if creds.PrivateKey == nil {
		t.Fatalf("expected parsed private key")
	}
}

func TestLoadCredentialsJSONAcceptsIDField(t *testing.T) {
	clearCredentialEnv(t)
	path := writeKeyFile(t, map[string]string{
		"id":         "legacy-key-id",
		"privateKey": genECKeyPEM(t),
	})
	t.Setenv("COINBASE_API_JSON_PATH", path)

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials returned error: %v", err)
	}
	if creds.KeyName != "legacy-key-id" {
		t.Fatalf("unexpected KeyName: %s", creds.KeyName)
	}
}

func TestLoadCredentialsJSONMissingPrivateKey(t *testing.T) {
	clearCredentialEnv(t)
	path := writeKeyFile(t, map[string]string{
		"name": "organizations/test-org/apiKeys/test-key",
	})
	t.Setenv("COINBASE_API_JSON_PATH", path)

	_, err := LoadCredentials()
	if !errors.Is(err, ErrMalformedCredential) {
		t.Fatalf("expected ErrMalformedCredential, got %v", err)
	}
	if !strings.Contains(err.Error(), "privateKey") {
		t.Fatalf("error should name the missing field, got: %v", err)
	}
}

func TestLoadCredentialsJSONMissingFile(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("COINBASE_API_JSON_PATH", filepath.Join(t.TempDir(), "nope.json"))

	_, err := LoadCredentials()
	if !errors.Is(err, ErrMalformedCredential) {
		t.Fatalf("expected ErrMalformedCredential, got %v", err)
	}
}

func TestLoadCredentialsFromEnvPair(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("COINBASE_API_KEY", "organizations/test-org/apiKeys/env-key")
	t.Setenv("COINBASE_API_SECRET", genECKeyPEM(t))

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials returned error: %v", err)
	}
	if creds.KeyName != "organizations/test-org/apiKeys/env-key" {
		t.Fatalf("unexpected KeyName: %s", creds.KeyName)
	}
}

func TestLoadCredentialsEnvPairEscapedNewlines(t *testing.T) {
	clearCredentialEnv(t)
	escaped := strings.ReplaceAll(genECKeyPEM(t), "\n", `\n`)
	t.Setenv("COINBASE_API_KEY", "env-key")
	t.Setenv("COINBASE_API_SECRET", escaped)

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials returned error: %v", err)
	}
	if creds.PrivateKey == nil {
		t.Fatalf("expected parsed private key")
	}
}

func TestLoadCredentialsMissingEverything(t *testing.T) {
	clearCredentialEnv(t)

	_, err := LoadCredentials()
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestLoadCredentialsPartialEnvPair(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("COINBASE_API_KEY", "env-key")

	_, err := LoadCredentials()
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestLoadCredentialsBadPEM(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("COINBASE_API_KEY", "env-key")
	t.Setenv("COINBASE_API_SECRET", "not a pem key")

	_, err := LoadCredentials()
	if !errors.Is(err, ErrMalformedCredential) {
		t.Fatalf("expected ErrMalformedCredential, got %v", err)
	}
}
