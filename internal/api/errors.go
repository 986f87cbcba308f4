package api

import "fmt"

// networkErrorMessage is shown to users whenever the server is unreachable.
const networkErrorMessage = "Unable to reach the server. Check your connection and try again."

// NetworkError is returned when no HTTP response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return networkErrorMessage
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is returned for any non-2xx response. Message is the backend's
// message field, or a status fallback when the body carried none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func statusMessage(status int) string {
	return fmt.Sprintf("Request failed with status %d", status)
}
