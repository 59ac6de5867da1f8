package transport

import (
	"encoding/json"
	"strings"

	"github.com/fastygo/taskflow/domain"
)

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// ErrorResponse is the body the remote store sends with non-2xx statuses.
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewError returns an error body carrying message.
func NewError(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

// ParseError extracts the server-provided reason from body, best effort.
func ParseError(body []byte) string {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(resp.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(resp.Error)
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e ErrorResponse) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
