package http

import "fmt"

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Reason     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d %s", e.StatusCode, e.Reason)
}

// DecodeError is returned when a 2xx body cannot be decoded into the success response.
type DecodeError struct {
	StatusCode int
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
