// Package auth turns stored Google credential JSON into an oauth2.TokenSource.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes needed to read every supported format and send through Gmail.
var Scopes = []string{
	"https://www.googleapis.com/auth/drive.readonly",
	"https://www.googleapis.com/auth/documents.readonly",
	"https://www.googleapis.com/auth/spreadsheets.readonly",
	"https://www.googleapis.com/auth/presentations.readonly",
	"https://www.googleapis.com/auth/gmail.send",
}

type credentialsFile struct {
	Type string `json:"type"`

	// service_account
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`

	// authorized_user
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`

	// OAuth client secrets downloaded from the console
	Installed json.RawMessage `json:"installed"`
	Web       json.RawMessage `json:"web"`
}

// Options tune TokenSource.
type Options struct {
	// Subject is the user a delegated service account acts for.
	Subject string
	// HTTPClient is used for token exchanges; nil means http.DefaultClient.
	HTTPClient *http.Client
}

// TokenSource parses credential JSON and returns a caching token source.
// Service-account keys use the JWT-bearer grant, authorized_user files use
// their refresh token. Interactive client secrets are rejected since they
// need a browser.
func TokenSource(ctx context.Context, data []byte, opts Options, scopes ...string) (oauth2.TokenSource, error) {
	var cf credentialsFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	switch {
	case cf.Type == "service_account":
		if err := checkServiceAccount(cf); err != nil {
			return nil, err
		}
		conf, err := google.JWTConfigFromJSON(data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to load service account: %w", err)
		}
		conf.Subject = opts.Subject
		return conf.TokenSource(ctx), nil

	case cf.Type == "authorized_user":
		if cf.RefreshToken == "" {
			return nil, errors.New("authorized_user credentials have no refresh_token")
		}
		endpoint := google.Endpoint
		if cf.TokenURI != "" {
			endpoint.TokenURL = cf.TokenURI
		}
		conf := &oauth2.Config{
			ClientID:     cf.ClientID,
			ClientSecret: cf.ClientSecret,
			Scopes:       scopes,
			Endpoint:     endpoint,
		}
		return conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cf.RefreshToken}), nil

	case len(cf.Installed) > 0 || len(cf.Web) > 0:
		return nil, errors.New("interactive OAuth client secrets are not supported; use a service account key or authorized_user credentials")

	default:
		return nil, fmt.Errorf("unsupported credentials type %q", cf.Type)
	}
}

// checkServiceAccount fails at load time on keys the token exchange would
// only reject on first use.
func checkServiceAccount(cf credentialsFile) error {
	if cf.ClientEmail == "" || cf.PrivateKey == "" {
		return errors.New("service account credentials need client_email and private_key")
	}
	if _, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cf.PrivateKey)); err != nil {
		return fmt.Errorf("failed to parse service account private key: %w", err)
	}
	return nil
}
