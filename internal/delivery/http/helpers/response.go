package helpers

import (
	"encoding/json"
	"net/http"
	"time"

	"eventboard/internal/domain"
)

// APIError is the error payload returned by every failing endpoint.
// swagger:model APIError
type APIError struct {
	Message   string          `json:"message"`
	Reason    string          `json:"reason"`
	Status    int             `json:"status"`
	Timestamp domain.DateTime `json:"timestamp"`
}

// reasonFor maps an HTTP status to the generic reason line of APIError.
func reasonFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Incorrectly made request."
	case http.StatusNotFound:
		return "The required object was not found."
	case http.StatusConflict:
		return "For the requested operation the conditions are not met."
	case http.StatusUnauthorized:
		return "Authentication is required."
	default:
		return "Internal server error."
	}
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and
// encodes data.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an APIError with the given status and message.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, APIError{
		Message:   message,
		Reason:    reasonFor(statusCode),
		Status:    statusCode,
		Timestamp: domain.NewDateTime(time.Now()),
	})
}
