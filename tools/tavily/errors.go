package tavily

import "fmt"

// ConfigError signals a missing or invalid search credential.
// It is raised before any network call is attempted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tavily config error: %s", e.Reason)
}

// ProviderError wraps any failure of the remote search call.
// This is the single translation point from provider specific failures
// (network, auth rejection, malformed response) to a stable error kind.
type ProviderError struct {
	Cause error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("tavily request failed: %v", e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
