// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage holds the blob backends uploaded files are written to:
// a local directory served under /uploads, or an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrExists is returned by Save when an object with the same name is
// already stored. Existing objects are never overwritten.
var ErrExists = errors.New("object already exists")

// Object describes a stored file.
type Object struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Backend stores uploaded files under flat names.
type Backend interface {
	// Save writes r under name and returns the number of bytes stored.
	Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (int64, error)
	// Delete removes the named object. Deleting a missing object is not
	// an error.
	Delete(ctx context.Context, name string) error
	// List returns every stored object.
	List(ctx context.Context) ([]Object, error)
	// URL returns the public URL of the named object.
	URL(name string) string
	// NameFromURL reverses URL. ok is false for URLs this backend did
	// not produce.
	NameFromURL(url string) (name string, ok bool)
}
