package httpapi

import (
	"encoding/json"
	"net/http"

	"crudd/internal/crud"
	"crudd/internal/schema"
	"crudd/internal/store"
	"crudd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSON writes an arbitrary payload with the JSON content type.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case schema.IsValidation(err):
		return http.StatusUnprocessableEntity
	case store.IsNotFound(err), crud.IsResourceNotFound(err):
		return http.StatusNotFound
	case store.IsConflict(err):
		return http.StatusConflict
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeServiceError renders err using the shared error payload, attaching
// per-field messages for validation failures.
func writeServiceError(w http.ResponseWriter, err error) int {
	status := errorStatus(err)
	if fields := schema.FieldErrors(err); fields != nil {
		writeJSON(w, status, types.ErrorResponse{Error: err.Error(), Code: status, Fields: fields})
		return status
	}
	writeJSONError(w, status, err.Error())
	return status
}
