package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionStorage   = fmt.Errorf("session storage failed")

	// API and transport errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrNetwork            = fmt.Errorf("network error")
	ErrUnexpectedResponse = fmt.Errorf("unexpected response")
	ErrNotFound           = fmt.Errorf("not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
