// Package apierror defines the JSON bodies the HTTP layer returns on failure.
// Handlers never serialize raw errors; everything a client sees goes through
// one of these envelopes so internal detail (SQL, stack traces) stays inside.
package apierror

// APIError is the single-message envelope for 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation carries the per-field tag failures from request binding. Distinct
// from the domain error taxonomy: this one only ever describes request shape.
type Validation struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *Validation {
	return &Validation{Detail: "error de validación", Fields: fields}
}
