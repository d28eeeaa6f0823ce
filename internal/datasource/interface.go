package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/bet-outlier/internal/models"
)

// Provider defines the interface for looking up player metadata from external providers
type Provider interface {
	// FetchPlayer returns the first player whose name matches the query
	FetchPlayer(ctx context.Context, name string) (*models.PlayerProfile, error)

	// Name returns the name of the provider
	Name() string

	// IsEnabled returns whether this provider is currently enabled
	IsEnabled() bool
}

// DataSourceError represents errors from provider operations
type DataSourceError struct {
	Source  string // Provider name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "disabled"
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the code of a DataSourceError anywhere in err's chain, or "" if there is none
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ""
}

// IsNotFound reports whether err means the provider has no such player
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound) || ErrorCode(err) == ErrCodeNotFound
}

func notFoundError(source, name string) DataSourceError {
	return NewDataSourceError(source, ErrCodeNotFound, "player "+name+" not found", models.ErrNotFound)
}
