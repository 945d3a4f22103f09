package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func testKeyPEM(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	return key, string(pem.EncodeToMemory(block))
}

func TestTokenSource_ServiceAccount(t *testing.T) {
	key, keyPEM := testKeyPEM(t)

	var gotClaims jwt.MapClaims
	var gotKid any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if g := r.PostForm.Get("grant_type"); g != "urn:ietf:params:oauth:grant-type:jwt-bearer" {
			t.Errorf("grant_type = %q", g)
		}
		tok, err := jwt.Parse(r.PostForm.Get("assertion"), func(tok *jwt.Token) (any, error) {
			gotKid = tok.Header["kid"]
			return &key.PublicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		if err != nil {
			t.Errorf("assertion did not verify: %v", err)
		} else {
			gotClaims = tok.Claims.(jwt.MapClaims)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	creds, _ := json.Marshal(map[string]string{
		"type":           "service_account",
		"client_email":   "bot@project.iam.gserviceaccount.com",
		"private_key":    keyPEM,
		"private_key_id": "kid-1",
		"token_uri":      srv.URL,
	})

	ts, err := TokenSource(context.Background(), creds, Options{Subject: "user@example.com"}, Scopes...)
	if err != nil {
		t.Fatalf("TokenSource() error = %v", err)
	}
	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "at-1" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if tok.Expiry.IsZero() {
		t.Error("Expiry not set")
	}
	if gotClaims["iss"] != "bot@project.iam.gserviceaccount.com" {
		t.Errorf("iss = %v", gotClaims["iss"])
	}
	if gotClaims["sub"] != "user@example.com" {
		t.Errorf("sub = %v", gotClaims["sub"])
	}
	if gotClaims["aud"] != srv.URL {
		t.Errorf("aud = %v", gotClaims["aud"])
	}
	if scope, _ := gotClaims["scope"].(string); !strings.Contains(scope, "gmail.send") {
		t.Errorf("scope = %q", scope)
	}
	if gotKid != "kid-1" {
		t.Errorf("kid = %v", gotKid)
	}
}

func TestTokenSource_ServiceAccountExchangeFailure(t *testing.T) {
	_, keyPEM := testKeyPEM(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	creds, _ := json.Marshal(map[string]string{
		"type":         "service_account",
		"client_email": "bot@example.com",
		"private_key":  keyPEM,
		"token_uri":    srv.URL,
	})
	ts, err := TokenSource(context.Background(), creds, Options{})
	if err != nil {
		t.Fatalf("TokenSource() error = %v", err)
	}
	if _, err := ts.Token(); err == nil || !strings.Contains(err.Error(), "invalid_grant") {
		t.Fatalf("Token() error = %v, want invalid_grant", err)
	}
}

func TestTokenSource_AuthorizedUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("grant_type") != "refresh_token" || r.Form.Get("refresh_token") != "rt-1" {
			t.Errorf("unexpected form %v", r.Form)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-2","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	creds, _ := json.Marshal(map[string]string{
		"type":          "authorized_user",
		"client_id":     "cid",
		"client_secret": "secret",
		"refresh_token": "rt-1",
		"token_uri":     srv.URL,
	})
	ts, err := TokenSource(context.Background(), creds, Options{})
	if err != nil {
		t.Fatalf("TokenSource() error = %v", err)
	}
	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != "at-2" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
}

func TestTokenSource_Rejects(t *testing.T) {
	tests := map[string]string{
		"not json":       `nope`,
		"installed":      `{"installed":{"client_id":"x"}}`,
		"unknown type":   `{"type":"external_account"}`,
		"no refresh":     `{"type":"authorized_user","client_id":"x"}`,
		"bad key":        `{"type":"service_account","client_email":"a@b","private_key":"junk"}`,
		"missing fields": `{"type":"service_account"}`,
	}
	for name, creds := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := TokenSource(context.Background(), []byte(creds), Options{}); err == nil {
				t.Fatal("TokenSource() expected error")
			}
		})
	}
}
