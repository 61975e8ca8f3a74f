// Package server receives the Google OAuth authorization-code callback for `ytsheet auth login`.
//
// # Callback Flow
//
// [CallbackServer] binds the host and port from the [server] config section, registers an [OAuthHandler]
// on the redirect URI's path, and blocks until one of:
//   - the callback delivers a code, which is exchanged for a token
//   - the callback reports an error or carries the wrong state
//   - the timeout or the caller's context ends
//
// The server shuts down before [CallbackServer.WaitForToken] returns.
//
// # Router Infrastructure
//
// [BasicRouter] implements [Router] with [http.ServeMux] method patterns and a [Middleware] stack.
// [LoggingMiddleware] records each request at debug level.
package server
