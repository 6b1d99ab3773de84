// internal/app/features/errors/render.go

// Package errors renders JSON error responses for the admin API and wraps
// the logging that goes with them, so handlers stay one-liners at their
// failure exits.
package errors

import (
	"encoding/json"
	"net/http"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`

	// Duplicates is set only on duplicate-word conflicts, so the client
	// can show the operator the prompt with the exact values.
	Duplicates []string `json:"duplicates,omitempty"`
}

func render(w http.ResponseWriter, status int, msg string, duplicates []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: msg, Duplicates: duplicates})
}

// RenderBadRequest writes a 400 with the given operator-facing message.
func RenderBadRequest(w http.ResponseWriter, msg string) {
	render(w, http.StatusBadRequest, msg, nil)
}

// RenderNotFound writes a 404.
func RenderNotFound(w http.ResponseWriter, msg string) {
	render(w, http.StatusNotFound, msg, nil)
}

// RenderConflict writes a 409 (duplicate identifier, unconfirmed delete).
func RenderConflict(w http.ResponseWriter, msg string) {
	render(w, http.StatusConflict, msg, nil)
}

// RenderDuplicateWords writes the 409 that suspends a save: the candidate
// list contains the given duplicated values and the operator must choose
// keep or remove.
func RenderDuplicateWords(w http.ResponseWriter, duplicates []string) {
	render(w, http.StatusConflict,
		"list contains duplicate entries; resubmit with duplicate_policy=keep or remove",
		duplicates)
}

// RenderUnprocessable writes a 422 for validation failures.
func RenderUnprocessable(w http.ResponseWriter, msg string) {
	render(w, http.StatusUnprocessableEntity, msg, nil)
}

// RenderServerError writes a 500.
func RenderServerError(w http.ResponseWriter, msg string) {
	render(w, http.StatusInternalServerError, msg, nil)
}
