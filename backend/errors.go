package backend

import "fmt"

// StatusError is returned when the classify service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return "Network response was not ok: " + e.StatusText
}

// DecodeError is returned when a successful response body is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "invalid JSON in response body"
	}
	return fmt.Sprintf("invalid JSON in response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
