package logoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"logoobjects/internal/core/apperror"
)

// defaultTokenTTL applies when the token response carries neither
// expires_in nor a JWT exp claim.
const defaultTokenTTL = 20 * time.Minute

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// TokenSource obtains and caches bearer tokens using the password grant.
// It is safe for concurrent use.
type TokenSource struct {
	cfg  Config
	http *http.Client
	now  func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource creates a token source for cfg.
func NewTokenSource(cfg Config, httpClient *http.Client) *TokenSource {
	return &TokenSource{cfg: cfg, http: httpClient, now: time.Now}
}

// Token returns a cached token or fetches a new one.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiry) {
		return s.token, nil
	}

	token, expiry, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}
	s.token, s.expiry = token, expiry
	return token, nil
}

// Invalidate drops the cached token so the next call fetches a fresh one.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.expiry = time.Time{}
	s.mu.Unlock()
}

func (s *TokenSource) fetch(ctx context.Context) (string, time.Time, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {s.cfg.Username},
		"password":   {s.cfg.Password},
		"firmno":     {s.cfg.FirmNo},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.root()+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if s.cfg.ClientID != "" {
		req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", time.Time{}, apperror.NewTransport(fmt.Errorf("token request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := readRemoteError(resp)
		return "", time.Time{}, apperror.NewUnauthorized("token request rejected: "+remote.Message).
			WithDetail("remote_status", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", time.Time{}, apperror.NewTransport(fmt.Errorf("decode token response: %w", err))
	}
	if tr.AccessToken == "" {
		return "", time.Time{}, apperror.NewUnauthorized("token response has no access_token")
	}

	return tr.AccessToken, s.expiryOf(tr).Add(-s.cfg.TokenSkew), nil
}

func (s *TokenSource) expiryOf(tr tokenResponse) time.Time {
	if tr.ExpiresIn > 0 {
		return s.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	if exp, ok := jwtExpiry(tr.AccessToken); ok {
		return exp
	}
	return s.now().Add(defaultTokenTTL)
}

// jwtExpiry reads the exp claim without verifying the signature; the token
// is opaque to us and only the server validates it.
func jwtExpiry(raw string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
