// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"contenthub/internal/models"
	"contenthub/internal/store"
	"contenthub/internal/uploads"
)

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("malformed request")

// writeJSON encodes data as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError sends a {"message": ...} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// statusFor maps an error to the HTTP status the client sees.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalid),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, uploads.ErrTooManyFiles),
		errors.Is(err, uploads.ErrFileTooLarge),
		errors.Is(err, uploads.ErrUnsupportedType),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and writes msg with the status matching err. Details stay
// in the log; the client only gets the generic message.
func fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, "path", r.URL.Path, "error", err)
	} else {
		slog.Warn(msg, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, msg)
}
