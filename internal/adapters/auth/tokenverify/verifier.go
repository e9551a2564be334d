// Package tokenverify valida bearer tokens contra un endpoint de introspección del IAM.
package tokenverify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vet-care-reminders/internal/platform/httpclient"
	"vet-care-reminders/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("token verifier not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrUnauthorized  = errors.New("token unauthorized")
	ErrUpstream      = errors.New("token verifier upstream error")
)

type Config struct {
	// VerifyURL es la URL absoluta del endpoint (POST {"token": "..."}).
	VerifyURL string
	APIKey    string
	// APIKeyHeader por defecto es X-Api-Key.
	APIKeyHeader string
	Timeout      time.Duration
}

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	http      *httpclient.Client
	verifyURL string
}

func New(cfg Config) (*Verifier, error) {
	verifyURL := strings.TrimSpace(cfg.VerifyURL)
	if verifyURL == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c, err := httpclient.New("", timeout)
	if err != nil {
		return nil, err
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		h := strings.TrimSpace(cfg.APIKeyHeader)
		if h == "" {
			h = "X-Api-Key"
		}
		c.Header.Set(h, key)
	}
	return &Verifier{http: c, verifyURL: verifyURL}, nil
}

type verifyResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	AccountID string `json:"account_id"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.http == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var out verifyResponse
	err := v.http.DoJSON(ctx, http.MethodPost, v.verifyURL,
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token},
		&out,
	)
	switch st := httpclient.StatusOf(err); {
	case err == nil:
	case st == http.StatusUnauthorized || st == http.StatusForbidden:
		return auth.Claims{}, ErrUnauthorized
	default:
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	claims := auth.Claims{
		UserID:    strings.TrimSpace(out.UserID),
		Email:     strings.TrimSpace(out.Email),
		AccountID: strings.TrimSpace(out.AccountID),
	}
	if claims.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrUpstream)
	}
	if claims.AccountID == "" {
		claims.AccountID = claims.UserID
	}
	return claims, nil
}
