package licensesdk

import "fmt"

// APIError reports a non-2xx response from the service, i.e. an
// infrastructure fault rather than a domain outcome.
type APIError struct {
	StatusCode int
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("licensesdk: http %d", e.StatusCode)
	}
	return fmt.Sprintf("licensesdk: http %d (%s)", e.StatusCode, e.Reason)
}
