package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Code is the application error code carried in the response body.
type Code int

const (
	CodeInvalidData    Code = 4000
	CodeInvalidJSON    Code = 4001
	CodeNotFound       Code = 4040
	CodeInternalServer Code = 5000
)

var codeStatus = map[Code]int{
	CodeInvalidData:    http.StatusBadRequest,
	CodeInvalidJSON:    http.StatusBadRequest,
	CodeNotFound:       http.StatusNotFound,
	CodeInternalServer: http.StatusInternalServerError,
}

// APIError is the JSON error envelope.
type APIError struct {
	Status  int    `json:"status"` // HTTP status code
	Code    Code   `json:"code"`   // code in response body
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status code: %d, error code: %d, message: %s", e.Status, e.Code, e.Message)
}

// newError builds an APIError for the code.
func newError(c Code, message string) *APIError {
	status, ok := codeStatus[c]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &APIError{Status: status, Code: c, Message: message}
}

func writeError(w http.ResponseWriter, e *APIError) {
	writeJSON(w, e.Status, e)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
