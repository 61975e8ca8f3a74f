package main

import (
	"context"
	"errors"
	"time"

	"github.com/desertthunder/ytsheet/internal/server"
	"github.com/desertthunder/ytsheet/internal/services"
	"github.com/desertthunder/ytsheet/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the OAuth consent flow through a local callback server and saves the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	google := r.config.Credentials.Google
	conf, err := services.NewGoogleOAuthConfig(google)
	if err != nil {
		return err
	}

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(conf, state)
	callback := server.NewCallbackServer(r.config.Server.Host, r.config.Server.Port, handler, cmd.Duration("timeout"), r.logger)
	authURL := services.GoogleAuthURL(conf, state)

	token, err := callback.WaitForToken(ctx, func() {
		r.writePlain("Open this URL to authorize access:\n\n%s\n\n", authURL)
		if cmd.Bool("no-browser") {
			return
		}
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	})
	if err != nil {
		return err
	}

	if err := shared.SaveToken(google.TokenPath, token); err != nil {
		return err
	}
	r.logger.Info("token saved", "path", google.TokenPath)

	return r.writePlain("✓ Authentication successful\n")
}

// AuthStatus reports whether a token is saved and when it expires.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	tokenPath := r.config.Credentials.Google.TokenPath
	token, err := shared.LoadToken(tokenPath)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return r.writePlain("✗ Not authenticated (run 'ytsheet auth login')\n")
	}
	if err != nil {
		return err
	}

	r.writePlain("Token: %s\n", tokenPath)
	switch {
	case token.Valid():
		r.writePlain("Authentication: ✓ Authenticated\n")
	case token.RefreshToken != "":
		r.writePlain("Authentication: ✓ Expired, will refresh on next use\n")
	default:
		r.writePlain("Authentication: ✗ Expired, run 'ytsheet auth login'\n")
	}

	if !token.Expiry.IsZero() {
		return r.writePlain("Expires: %s\n", token.Expiry.Local().Format(time.DateTime))
	}
	return nil
}
