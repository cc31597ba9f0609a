package soapbox

import "fmt"

// Error codes produced by the client itself. Server-defined codes (for
// example a duplicate-vote rejection) pass through unchanged.
const (
	// CodeNetwork marks a transport failure before a usable response
	// was obtained: DNS, connection, timeout, or an undecodable body.
	CodeNetwork = "NETWORK_ERROR"

	// CodeValidation marks a client-side precondition failure. No
	// request is dispatched for these.
	CodeValidation = "VALIDATION_ERROR"
)

// APIError is the one error type every client operation returns. It carries
// a stable machine code plus the most specific human-readable message the
// response offered.
type APIError struct {
	Code    string // CodeNetwork, CodeValidation, HTTP_<status>, or a server code
	Status  int    // HTTP status when a response was received, else 0
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// httpCode formats the error code for a non-2xx status without a
// server-supplied code.
func httpCode(status int) string {
	return fmt.Sprintf("HTTP_%d", status)
}

func networkError(err error) *APIError {
	return &APIError{Code: CodeNetwork, Message: err.Error()}
}

func validationError(msg string) *APIError {
	return &APIError{Code: CodeValidation, Message: msg}
}
