package fetcher

import (
	"errors"
	"fmt"
)

// Fetch failure causes. They are always wrapped in a *TransportError.
var (
	ErrUnexpectedStatus  = errors.New("unexpected status code")
	ErrMalformedResponse = errors.New("malformed response")
	ErrAPIFailure        = errors.New("api reported failure")
	ErrInvalidLimit      = errors.New("limit must be at least 1")
	ErrResponseTooLarge  = errors.New("response body exceeds size limit")
)

// TransportError aborts the pipeline: no partial data is ever returned with it.
type TransportError struct {
	Err        error
	URL        string
	StatusCode int
	Attempts   int
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed after %d attempt(s) (status %d): %v", e.URL, e.Attempts, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the fetch gave up because a deadline passed.
func (e *TransportError) Timeout() bool {
	return isTimeout(e.Err)
}

// IsTransportError reports whether err carries a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
