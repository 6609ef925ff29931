// internal/app/system/respond/respond.go
//
// Package respond writes the JSON envelope every API endpoint uses:
// {"success":true,"data":...} on success and
// {"success":false,"message":...} on failure. Err maps domain errors
// to HTTP status codes so handlers never pick codes themselves.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/coursehub/internal/domain/apperr"
	"go.uber.org/zap"
)

// Envelope is the wire shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Data writes a success envelope with the given status code.
func Data(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// OK writes a success envelope with 200.
func OK(w http.ResponseWriter, data any) {
	Data(w, http.StatusOK, data)
}

// Created writes a success envelope with 201.
func Created(w http.ResponseWriter, data any) {
	Data(w, http.StatusCreated, data)
}

// Error writes a failure envelope with the given status and message.
func Error(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Message: msg})
}

// Err maps a domain error to its HTTP status and writes the failure
// envelope. Unrecognized errors become 500 with a generic message and
// are logged; domain error messages pass through to the client as-is.
func Err(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case apperr.IsValidation(err):
		Error(w, http.StatusBadRequest, err.Error())
	case apperr.IsAuthorization(err):
		Error(w, http.StatusForbidden, err.Error())
	case apperr.IsNotFound(err):
		Error(w, http.StatusNotFound, err.Error())
	case apperr.IsConflict(err):
		Error(w, http.StatusConflict, err.Error())
	default:
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
