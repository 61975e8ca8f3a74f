package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenExpired     = fmt.Errorf("access token expired")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrRunNotFound        = fmt.Errorf("run not found")

	// Row store errors
	ErrFetchRows  = fmt.Errorf("failed to fetch rows")
	ErrDeleteRows = fmt.Errorf("failed to delete rows")

	// Row pipeline errors
	ErrInvalidRow = fmt.Errorf("invalid row")
	ErrAcquire    = fmt.Errorf("media acquisition failed")
	ErrTranscode  = fmt.Errorf("transcode failed")
	ErrTag        = fmt.Errorf("tagging failed")
	ErrImport     = fmt.Errorf("library import failed")
	ErrCleanup    = fmt.Errorf("cleanup failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
