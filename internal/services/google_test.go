package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytsheet/internal/shared"
	"golang.org/x/oauth2"
)

func TestNewGoogleOAuthConfig(t *testing.T) {
	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewGoogleOAuthConfig(shared.GoogleConfig{ClientID: "id"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("defaults redirect and requests sheets scope", func(t *testing.T) {
		conf, err := NewGoogleOAuthConfig(shared.GoogleConfig{ClientID: "id", ClientSecret: "secret"})
		if err != nil {
			t.Fatalf("NewGoogleOAuthConfig() error = %v", err)
		}
		if conf.RedirectURL != "http://localhost:3000/callback" {
			t.Errorf("unexpected redirect %s", conf.RedirectURL)
		}
		if len(conf.Scopes) != 1 || conf.Scopes[0] != SheetsScope {
			t.Errorf("unexpected scopes %v", conf.Scopes)
		}
	})

	t.Run("auth url requests offline access", func(t *testing.T) {
		conf, _ := NewGoogleOAuthConfig(shared.GoogleConfig{ClientID: "id", ClientSecret: "secret"})
		u := GoogleAuthURL(conf, "state123")

		for _, want := range []string{"access_type=offline", "prompt=consent", "state=state123", "client_id=id"} {
			if !strings.Contains(u, want) {
				t.Errorf("expected auth URL to contain %q, got %s", want, u)
			}
		}
	})
}

func TestNewGoogleClient(t *testing.T) {
	t.Run("sends bearer token", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer valid-token" {
				t.Errorf("unexpected authorization header %q", got)
			}
			w.Write([]byte(`{}`))
		}))
		defer api.Close()

		conf := &oauth2.Config{ClientID: "id", ClientSecret: "secret"}
		token := &oauth2.Token{AccessToken: "valid-token", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
		client := NewGoogleClient(context.Background(), conf, token, filepath.Join(t.TempDir(), "token.json"), nil)

		resp, err := client.Get(api.URL)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
	})

	t.Run("refreshes and persists expired token", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "fresh-token", "token_type": "Bearer", "expires_in": 3600, "refresh_token": "refresh"}`))
		}))
		defer tokenServer.Close()

		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer fresh-token" {
				t.Errorf("unexpected authorization header %q", got)
			}
			w.Write([]byte(`{}`))
		}))
		defer api.Close()

		conf := &oauth2.Config{
			ClientID:     "id",
			ClientSecret: "secret",
			Endpoint:     oauth2.Endpoint{TokenURL: tokenServer.URL},
		}
		expired := &oauth2.Token{
			AccessToken:  "stale-token",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(-time.Hour),
		}
		tokenPath := filepath.Join(t.TempDir(), "token.json")

		client := NewGoogleClient(context.Background(), conf, expired, tokenPath, shared.NewLogger(nil))
		resp, err := client.Get(api.URL)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		saved, err := shared.LoadToken(tokenPath)
		if err != nil {
			t.Fatalf("expected refreshed token to be saved: %v", err)
		}
		if saved.AccessToken != "fresh-token" {
			t.Errorf("saved token = %q, want fresh-token", saved.AccessToken)
		}
	})
}
