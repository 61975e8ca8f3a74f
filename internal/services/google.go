package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsheet/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL  = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL = "https://oauth2.googleapis.com/token"

	// SheetsScope grants read and write access to the user's spreadsheets.
	SheetsScope = "https://www.googleapis.com/auth/spreadsheets"
)

// NewGoogleOAuthConfig builds the OAuth2 client configuration for the Sheets API.
func NewGoogleOAuthConfig(cfg shared.GoogleConfig) (*oauth2.Config, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{SheetsScope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}, nil
}

// GoogleAuthURL returns the consent page URL. Offline access with a forced consent prompt makes Google issue a refresh token.
func GoogleAuthURL(conf *oauth2.Config, state string) string {
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// persistingTokenSource writes every newly minted token back to disk.
type persistingTokenSource struct {
	base   oauth2.TokenSource
	path   string
	logger *log.Logger

	mu   sync.Mutex
	last string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrTokenExpired, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if token.AccessToken != p.last {
		p.last = token.AccessToken
		if err := shared.SaveToken(p.path, token); err != nil && p.logger != nil {
			p.logger.Warn("failed to persist refreshed token", "error", err)
		}
	}
	return token, nil
}

// NewGoogleClient returns an HTTP client authorized with token that refreshes it as needed and persists refreshed tokens to tokenPath.
func NewGoogleClient(ctx context.Context, conf *oauth2.Config, token *oauth2.Token, tokenPath string, logger *log.Logger) *http.Client {
	source := &persistingTokenSource{
		base:   conf.TokenSource(ctx, token),
		path:   tokenPath,
		logger: logger,
		last:   token.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, source))
}
