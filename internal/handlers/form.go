// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"contenthub/internal/uploads"
)

// maxMemory is how much of a multipart body is kept in memory; larger
// parts spill to temp files.
const maxMemory = 32 << 20

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// isJSON reports whether the request body is JSON.
func isJSON(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/json"
}

// decodeJSON decodes a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// parseUploadForm parses a multipart (or urlencoded) body capped at the
// size of the given upload fields.
func (a *API) parseUploadForm(w http.ResponseWriter, r *http.Request, fields ...uploads.Field) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.uploads.MaxRequestSize(fields...))
	err := r.ParseMultipartForm(maxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: %v", uploads.ErrFileTooLarge, err)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// cleanupForm removes temp files created while parsing a multipart body.
func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}

// formValue returns the trimmed value of a form field.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// formPtr returns the trimmed value of a form field, or nil when the
// field is absent from the body.
func formPtr(r *http.Request, key string) *string {
	vals, ok := r.PostForm[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := strings.TrimSpace(vals[0])
	return &v
}
