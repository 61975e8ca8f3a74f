package server

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/oauth2"
)

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	Err   error
}

// OAuthHandler completes the authorization-code flow on the configured redirect path.
//
// Only the first callback is processed; later requests are rejected.
type OAuthHandler struct {
	config *oauth2.Config
	state  string
	path   string
	result chan OAuthResult
	once   sync.Once
}

// NewOAuthHandler creates a handler for config's redirect URL. state must be unguessable.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	path := "/callback"
	if u, err := url.Parse(config.RedirectURL); err == nil && u.Path != "" {
		path = u.Path
	}
	return &OAuthHandler{
		config: config,
		state:  state,
		path:   path,
		result: make(chan OAuthResult, 1),
	}
}

// Routes implements [Handler].
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	first := false
	h.once.Do(func() { first = true })
	if !first {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	if subtle.ConstantTimeCompare([]byte(q.Get("state")), []byte(h.state)) != 1 {
		h.send(OAuthResult{Err: fmt.Errorf("invalid state parameter")})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.send(OAuthResult{Err: fmt.Errorf("authorization denied: %s %s", q.Get("error"), q.Get("error_description"))})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.send(OAuthResult{Err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

func (h *OAuthHandler) send(result OAuthResult) {
	h.result <- result
	close(h.result)
}

// Result receives exactly one [OAuthResult].
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.result
}

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>ytsheet authorized</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0; }
        h1 { color: #0F9D58; }
    </style>
</head>
<body>
    <div>
        <h1>✓ Google Sheets access granted</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
