// Package api contains the HTTP layer: routing, auth, request binding, and
// response formatting.
package api

import (
	"encoding/json"
	"net/http"
)

// apiError is the standard error body: {"error": {"code": ..., "message": ...}}.
// Success bodies are written as-is because the analyze schema is fixed by the
// chat platform and must stay flat.
type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serialises v into the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing left to do but drop it.
		_ = err
	}
}

// ok writes a 200 response with the payload as-is.
func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

// badRequest writes a 400 error response.
func badRequest(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusBadRequest, errorEnvelope{apiError{Code: code, Message: message}})
}

// unauthorized writes a 401 error response.
func unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, errorEnvelope{apiError{Code: "UNAUTHORIZED", Message: message}})
}

// notFound writes a 404 error response.
func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorEnvelope{apiError{Code: "NOT_FOUND", Message: message}})
}

// internalError writes a 500 error response.
func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		apiError{Code: "INTERNAL_ERROR", Message: "an unexpected error occurred"},
	})
}
