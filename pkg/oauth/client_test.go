package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func sessionBody(expiresAt int64) map[string]interface{} {
	body := map[string]interface{}{
		"access_token":  "access-token-123",
		"token_type":    "bearer",
		"expires_in":    3600,
		"refresh_token": "refresh-token-456",
		"user": map[string]interface{}{
			"id":    "user-1",
			"email": "dev@example.com",
		},
	}
	if expiresAt > 0 {
		body["expires_at"] = expiresAt
	}
	return body
}

func TestNewClient(t *testing.T) {
	t.Run("creates client with defaults", func(t *testing.T) {
		c := NewClient("https://auth.example.com/", "anon")
		if c.httpClient == nil {
			t.Error("expected httpClient to be set")
		}
		if c.logger == nil {
			t.Error("expected logger to be set")
		}
		if c.baseURL != "https://auth.example.com" {
			t.Errorf("expected trailing slash to be trimmed, got %s", c.baseURL)
		}
	})

	t.Run("applies options", func(t *testing.T) {
		customHTTP := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://auth.example.com", "anon", WithHTTPClient(customHTTP))
		if c.httpClient != customHTTP {
			t.Error("expected custom httpClient to be set")
		}
	})
}

func TestBuildAuthorizationURL(t *testing.T) {
	c := NewClient("https://auth.example.com", "anon")

	t.Run("includes all required parameters", func(t *testing.T) {
		pkce, err := GeneratePKCE()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		raw, err := c.BuildAuthorizationURL(AuthorizeParams{
			Provider:    "github",
			RedirectTo:  "http://127.0.0.1:3456/auth/callback",
			SkipBrowser: true,
			PKCE:        pkce,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		parsed, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("failed to parse URL: %v", err)
		}
		if parsed.Path != "/auth/v1/authorize" {
			t.Errorf("expected /auth/v1/authorize, got %s", parsed.Path)
		}

		q := parsed.Query()
		expected := map[string]string{
			"provider":              "github",
			"response_type":         "code",
			"code_challenge":        pkce.CodeChallenge,
			"code_challenge_method": "S256",
			"skip_browser_redirect": "true",
			"redirect_to":           "http://127.0.0.1:3456/auth/callback",
		}
		for key, want := range expected {
			if got := q.Get(key); got != want {
				t.Errorf("expected %s=%s, got %s", key, want, got)
			}
		}
		if q.Get("code_verifier") != "" {
			t.Error("verifier must never appear in the authorization URL")
		}
	})

	t.Run("requires a challenge", func(t *testing.T) {
		_, err := c.BuildAuthorizationURL(AuthorizeParams{Provider: "github"})
		if err == nil {
			t.Error("expected error without PKCE challenge")
		}
	})
}

func TestExchangeCode(t *testing.T) {
	t.Run("exchanges code for session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/auth/v1/token" {
				t.Errorf("expected /auth/v1/token path, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("grant_type") != "pkce" {
				t.Errorf("expected grant_type pkce, got %s", r.URL.Query().Get("grant_type"))
			}
			if r.Header.Get("apikey") != "anon" {
				t.Errorf("expected apikey header, got %q", r.Header.Get("apikey"))
			}

			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["auth_code"] != "auth-code" {
				t.Errorf("expected auth_code auth-code, got %s", body["auth_code"])
			}
			if body["code_verifier"] != "verifier123" {
				t.Errorf("expected code_verifier verifier123, got %s", body["code_verifier"])
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(sessionBody(1700003600))
		}))
		defer server.Close()

		c := NewClient(server.URL, "anon", WithHTTPClient(server.Client()))
		token, err := c.ExchangeCode(context.Background(), "auth-code", "verifier123")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token.AccessToken != "access-token-123" {
			t.Errorf("expected access token, got %s", token.AccessToken)
		}
		if token.ExpiresAt != 1700003600 {
			t.Errorf("expected provider expires_at to be kept, got %d", token.ExpiresAt)
		}
		if token.User.Email != "dev@example.com" {
			t.Errorf("expected user email, got %s", token.User.Email)
		}
	})

	t.Run("derives expires_at from expires_in", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(sessionBody(0))
		}))
		defer server.Close()

		fixed := time.Unix(1700000000, 0)
		c := NewClient(server.URL, "anon",
			WithHTTPClient(server.Client()),
			WithClock(func() time.Time { return fixed }))

		token, err := c.ExchangeCode(context.Background(), "code", "verifier")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token.ExpiresAt != 1700003600 {
			t.Errorf("expected expires_at 1700003600, got %d", token.ExpiresAt)
		}
	})

	t.Run("returns protocol error on rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error_code": "bad_code_verifier", "msg": "code challenge does not match"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "anon", WithHTTPClient(server.Client()))
		_, err := c.ExchangeCode(context.Background(), "invalid-code", "verifier123")

		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) {
			t.Fatalf("expected ProtocolError, got %v", err)
		}
		if protoErr.StatusCode != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", protoErr.StatusCode)
		}
		if protoErr.Code != "bad_code_verifier" {
			t.Errorf("expected code bad_code_verifier, got %s", protoErr.Code)
		}
		if protoErr.Description != "code challenge does not match" {
			t.Errorf("unexpected description %q", protoErr.Description)
		}
		if !IsProviderRejection(err) {
			t.Error("expected rejection classification")
		}
	})

	t.Run("rejects malformed success body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"access_token": ""}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "anon", WithHTTPClient(server.Client()))
		_, err := c.ExchangeCode(context.Background(), "code", "verifier")
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("transport failure is not a rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		c := NewClient(server.URL, "anon")
		_, err := c.ExchangeCode(context.Background(), "code", "verifier")
		if err == nil {
			t.Fatal("expected error")
		}
		if IsProviderRejection(err) {
			t.Error("transport failures must not be classified as rejections")
		}
	})
}

func TestRefreshToken(t *testing.T) {
	t.Run("refreshes session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("grant_type") != "refresh_token" {
				t.Errorf("expected grant_type refresh_token, got %s", r.URL.Query().Get("grant_type"))
			}
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["refresh_token"] != "old-refresh" {
				t.Errorf("expected refresh_token old-refresh, got %s", body["refresh_token"])
			}
			json.NewEncoder(w).Encode(sessionBody(1700007200))
		}))
		defer server.Close()

		c := NewClient(server.URL, "anon", WithHTTPClient(server.Client()))
		token, err := c.RefreshToken(context.Background(), "old-refresh")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token.RefreshToken != "refresh-token-456" {
			t.Errorf("expected new refresh token, got %s", token.RefreshToken)
		}
	})

	t.Run("returns error on revoked token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_grant", "error_description": "Invalid Refresh Token: Already Used"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "anon", WithHTTPClient(server.Client()))
		_, err := c.RefreshToken(context.Background(), "used")

		var protoErr *ProtocolError
		if !errors.As(err, &protoErr) {
			t.Fatalf("expected ProtocolError, got %v", err)
		}
		if protoErr.Code != "invalid_grant" {
			t.Errorf("expected invalid_grant, got %s", protoErr.Code)
		}
	})
}

func TestProtocolErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ProtocolError
		want string
	}{
		{"code and description", &ProtocolError{400, "invalid_grant", "expired"}, "provider returned 400 invalid_grant: expired"},
		{"description only", &ProtocolError{500, "", "boom"}, "provider returned 500: boom"},
		{"code only", &ProtocolError{401, "unauthorized", ""}, "provider returned 401 unauthorized"},
		{"empty", &ProtocolError{502, "", ""}, "provider returned status 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSetExpiresAtFromExpiresIn(t *testing.T) {
	now := time.Unix(1700000000, 0)

	tests := []struct {
		name string
		resp TokenResponse
		want int64
	}{
		{"relative expiry", TokenResponse{ExpiresIn: 3600}, 1700003600},
		{"absolute expiry wins", TokenResponse{ExpiresIn: 3600, ExpiresAt: 1700000100}, 1700000100},
		{"no expiry", TokenResponse{}, 0},
		{"very long lifetime", TokenResponse{ExpiresIn: 10000000000}, 1700000000 + 10000000000},
		{"lifetime past the int64 range", TokenResponse{ExpiresIn: math.MaxInt64}, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp
			resp.SetExpiresAtFromExpiresIn(now)
			if resp.ExpiresAt != tt.want {
				t.Errorf("ExpiresAt = %d, want %d", resp.ExpiresAt, tt.want)
			}
			if tt.want != 0 && resp.ExpiresAt <= now.Unix() {
				t.Errorf("ExpiresAt %d is not in the future", resp.ExpiresAt)
			}
		})
	}
}
