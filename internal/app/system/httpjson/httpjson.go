// Package httpjson holds the JSON request/response helpers shared by every
// API handler: one place that sets headers, encodes bodies, and maps the
// application's error taxonomy onto status codes.
package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies; none of the API's payloads are large.
const maxBodyBytes = 1 << 20

// ErrorBody is the uniform JSON error shape. Field is set for validation
// errors so the caller knows which input was rejected.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Respond writes v as JSON with the given status code.
func Respond(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v as JSON with status 200.
func OK(w http.ResponseWriter, v any) {
	Respond(w, http.StatusOK, v)
}

// Error writes a JSON error body with the given status code.
func Error(w http.ResponseWriter, code int, msg string) {
	Respond(w, code, ErrorBody{Error: msg})
}

// FieldError writes a 422 naming the offending input field.
func FieldError(w http.ResponseWriter, msg, field string) {
	Respond(w, http.StatusUnprocessableEntity, ErrorBody{Error: msg, Field: field})
}

// NotFound writes a 404 error body.
func NotFound(w http.ResponseWriter, what string) {
	Error(w, http.StatusNotFound, what+" not found")
}

// Forbidden writes a 403 error body.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "forbidden")
}

// ServerError writes a generic 500; the handler logs the real cause.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "internal error")
}

// Decode reads the request body into dst, rejecting unknown fields and
// trailing garbage. The returned error message is safe to surface.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
