// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package uploads turns multipart file fields into stored files. It
// enforces per-field count limits, a per-file size limit and image-only
// fields, then writes each file to a storage backend under a unique
// "{unixMillis}-{name}{ext}" name.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"contenthub/internal/slug"
	"contenthub/internal/storage"
)

// DefaultMaxFileSize is the per-file limit (100 MB).
const DefaultMaxFileSize = 100 << 20

const (
	// maxNameAttempts bounds the timestamp bumps on name collisions.
	maxNameAttempts = 20
	// maxBaseLen caps the slugified base name.
	maxBaseLen = 100
	// formOverhead is extra body room for text fields and multipart framing.
	formOverhead = 1 << 20
)

var (
	ErrTooManyFiles    = errors.New("too many files")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Field describes a multipart file field and its limits.
type Field struct {
	Name       string
	MaxFiles   int
	ImagesOnly bool
}

// Upload fields accepted by the API.
var (
	Images = Field{Name: "images", MaxFiles: 10, ImagesOnly: true}
	Files  = Field{Name: "files", MaxFiles: 5}
	Image  = Field{Name: "image", MaxFiles: 1, ImagesOnly: true}
)

// isImage reports whether a sniffed content type is accepted in an image
// field. Any image subtype is allowed.
func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Saved is one stored upload.
type Saved struct {
	Name         string // stored object name
	OriginalName string
	URL          string
	Size         int64
	ContentType  string
}

// Processor validates and stores multipart uploads.
type Processor struct {
	backend     storage.Backend
	maxFileSize int64
	now         func() time.Time
}

// NewProcessor returns a Processor writing to backend. A maxFileSize of
// zero selects DefaultMaxFileSize.
func NewProcessor(backend storage.Backend, maxFileSize int64) *Processor {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Processor{backend: backend, maxFileSize: maxFileSize, now: time.Now}
}

// MaxFileSize returns the per-file limit in bytes.
func (p *Processor) MaxFileSize() int64 {
	return p.maxFileSize
}

// MaxRequestSize returns the body limit for a request carrying the given
// fields at their maximum counts and sizes.
func (p *Processor) MaxRequestSize(fields ...Field) int64 {
	total := int64(formOverhead)
	for _, f := range fields {
		total += int64(f.MaxFiles) * p.maxFileSize
	}
	return total
}

// Validate checks every given field of the form before anything is
// written, so a request with one bad file stores nothing.
func (p *Processor) Validate(form *multipart.Form, fields ...Field) error {
	if form == nil {
		return nil
	}
	for _, f := range fields {
		headers := form.File[f.Name]
		if len(headers) > f.MaxFiles {
			return fmt.Errorf("%w: %s accepts at most %d", ErrTooManyFiles, f.Name, f.MaxFiles)
		}
		for _, fh := range headers {
			if fh.Size > p.maxFileSize {
				return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, fh.Filename, fh.Size)
			}
			if !f.ImagesOnly {
				continue
			}
			ct, err := sniff(fh)
			if err != nil {
				return err
			}
			if !isImage(ct) {
				return fmt.Errorf("%w: %s is %s", ErrUnsupportedType, fh.Filename, ct)
			}
		}
	}
	return nil
}

// Save validates and stores all files of one field. Files are written
// concurrently; the result keeps the order of the request. On error some
// files may already be stored; the orphan sweeper removes them.
func (p *Processor) Save(ctx context.Context, form *multipart.Form, f Field) ([]Saved, error) {
	if err := p.Validate(form, f); err != nil {
		return nil, err
	}
	if form == nil || len(form.File[f.Name]) == 0 {
		return nil, nil
	}

	headers := form.File[f.Name]
	saved := make([]Saved, len(headers))
	g, ctx := errgroup.WithContext(ctx)
	for i, fh := range headers {
		g.Go(func() error {
			s, err := p.saveOne(ctx, fh)
			if err != nil {
				return err
			}
			saved[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return saved, nil
}

func (p *Processor) saveOne(ctx context.Context, fh *multipart.FileHeader) (Saved, error) {
	ct, err := sniff(fh)
	if err != nil {
		return Saved{}, err
	}

	ts := p.now().UnixMilli()
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := FileName(ts+int64(attempt), fh.Filename)

		file, err := fh.Open()
		if err != nil {
			return Saved{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		n, err := p.backend.Save(ctx, name, ct, file, fh.Size)
		file.Close()
		if errors.Is(err, storage.ErrExists) {
			slog.Debug("upload name taken, retrying", "name", name)
			continue
		}
		if err != nil {
			return Saved{}, fmt.Errorf("save upload %s: %w", fh.Filename, err)
		}

		return Saved{
			Name:         name,
			OriginalName: fh.Filename,
			URL:          p.backend.URL(name),
			Size:         n,
			ContentType:  ct,
		}, nil
	}
	return Saved{}, fmt.Errorf("save upload %s: no free name after %d attempts", fh.Filename, maxNameAttempts)
}

// FileName builds the stored name for an upload: the millisecond
// timestamp, the slugified base name (or "file") and the lowercased
// extension.
func FileName(unixMillis int64, original string) string {
	original = filepath.Base(strings.ReplaceAll(original, `\`, "/"))
	ext := cleanExt(filepath.Ext(original))
	base := slug.Truncate(slug.Generate(strings.TrimSuffix(original, filepath.Ext(original))), maxBaseLen)
	if base == "" {
		base = "file"
	}
	return strconv.FormatInt(unixMillis, 10) + "-" + base + ext
}

// cleanExt lowercases ext and drops anything but ASCII letters and digits.
func cleanExt(ext string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimPrefix(ext, ".")) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}

// sniff detects the content type from the first 512 bytes of the file.
func sniff(fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	ct := http.DetectContentType(buf[:n])
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}

	// DetectContentType reports SVG as text/xml or text/plain.
	if strings.HasSuffix(strings.ToLower(fh.Filename), ".svg") &&
		(strings.Contains(ct, "xml") || strings.Contains(ct, "text/plain")) {
		ct = "image/svg+xml"
	}
	return ct, nil
}
