package bravia

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrEmptyResult is returned when the TV answers 200 without a result tuple
var ErrEmptyResult = errors.New("empty result")

// StatusError is returned when the TV answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// Unauthorized reports whether the TV rejected the pre-shared key
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// APIError is the JSON-RPC error tuple [code, message] the TV returns in
// place of a result.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bravia api error %d: %s", e.Code, e.Message)
}

// UnmarshalJSON decodes the [code, message] tuple
func (e *APIError) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw[0], &e.Code); err != nil {
			return err
		}
	}
	if len(raw) > 1 {
		if err := json.Unmarshal(raw[1], &e.Message); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON encodes the error back into the wire tuple
func (e APIError) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Code, e.Message})
}

// IsStatus reports whether err carries a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
