// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// stagingPrefix marks in-flight writes. Names starting with "." are never
// produced by the upload naming scheme and are skipped by List.
const stagingPrefix = ".staging-"

// Disk stores files in a local directory that is served at urlPrefix.
type Disk struct {
	dir       string
	urlPrefix string
}

// NewDisk creates the upload directory if needed and returns a Disk
// backend. urlPrefix is the public path the directory is served under,
// e.g. "/uploads".
func NewDisk(dir, urlPrefix string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Disk{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Dir returns the directory files are written to.
func (d *Disk) Dir() string {
	return d.dir
}

// path resolves name inside the upload directory, rejecting anything that
// is not a plain file name.
func (d *Disk) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(d.dir, name), nil
}

// Save writes r to a staging file in the upload directory and then links
// it into place, so readers never observe a partial file and an existing
// name is never overwritten.
func (d *Disk) Save(ctx context.Context, name, _ string, r io.Reader, _ int64) (int64, error) {
	dst, err := d.path(name)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(d.dir, stagingPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("create staging file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Link(tmp.Name(), dst); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, ErrExists
		}
		return 0, fmt.Errorf("link %s: %w", name, err)
	}
	return n, nil
}

// Delete removes the named file.
func (d *Disk) Delete(_ context.Context, name string) error {
	p, err := d.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// List returns the regular files in the upload directory.
func (d *Disk) List(_ context.Context) ([]Object, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("list upload dir: %w", err)
	}
	var objs []Object
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		objs = append(objs, Object{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return objs, nil
}

// URL returns urlPrefix/name.
func (d *Disk) URL(name string) string {
	return d.urlPrefix + "/" + name
}

// NameFromURL returns the file name of a URL under urlPrefix.
func (d *Disk) NameFromURL(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, d.urlPrefix+"/")
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}

// ctxReader stops a copy once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
