package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"

	appLog "daydesk/internal/log"
)

// GoogleAuth locates the OAuth client secrets and cached token for one
// Google account.
type GoogleAuth struct {
	// CredentialsFile is the downloaded client_id/client_secret JSON.
	CredentialsFile string
	// TokenFile is the cached user token (access + refresh).
	TokenFile string
}

// Client builds an authenticated HTTP client for the given scopes. The
// token must already exist; obtaining one interactively is a setup step
// outside the running service.
func (a GoogleAuth) Client(ctx context.Context, scopes ...string) (*http.Client, error) {
	secrets, err := os.ReadFile(a.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials %s: %w", a.CredentialsFile, err)
	}
	cfg, err := google.ConfigFromJSON(secrets, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	tok, err := loadToken(a.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("load google token %s: %w", a.TokenFile, err)
	}

	return cfg.Client(ctx, tok), nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// mapGoogleErr converts a Google API 404 into ErrNotFound so edit
// commits against vanished records report failure uniformly.
func mapGoogleErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == http.StatusNotFound {
		appLog.Warn("google: record gone", "op", op)
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
