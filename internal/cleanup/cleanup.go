// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cleanup removes uploaded files that no post or news article
// references. Files are written before their database row, so a failed
// insert leaves an orphan behind; the sweeper collects those once they
// are older than a grace period.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/robfig/cron/v3"

	"contenthub/internal/storage"
)

const (
	// DefaultGrace protects files whose database write may still be in flight.
	DefaultGrace = time.Hour

	// DefaultSchedule runs the sweep at the top of every hour.
	DefaultSchedule = "0 0 * * * *"
)

// ReferenceSource lists the file URLs a table still points to.
type ReferenceSource interface {
	ReferencedFiles(ctx context.Context) ([]string, error)
}

// Result summarizes one sweep.
type Result struct {
	Scanned int
	Orphans []string
	Deleted int
}

// Sweeper finds and deletes unreferenced uploads.
type Sweeper struct {
	backend storage.Backend
	sources []ReferenceSource
	grace   time.Duration
	now     func() time.Time
}

// NewSweeper returns a Sweeper over backend. A grace of zero selects
// DefaultGrace.
func NewSweeper(backend storage.Backend, grace time.Duration, sources ...ReferenceSource) *Sweeper {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Sweeper{backend: backend, sources: sources, grace: grace, now: time.Now}
}

// Sweep deletes every stored file that is older than the grace period and
// not referenced by any source. With dryRun set it only reports them.
func (s *Sweeper) Sweep(ctx context.Context, dryRun bool) (Result, error) {
	// List objects before references: a file saved after this point is
	// newer than the cutoff and skipped anyway.
	objs, err := s.backend.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("sweep list: %w", err)
	}

	referenced := make(map[string]bool)
	for _, src := range s.sources {
		urls, err := src.ReferencedFiles(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("sweep references: %w", err)
		}
		for _, u := range urls {
			if name, ok := s.backend.NameFromURL(u); ok {
				referenced[name] = true
			}
			// Stored names are unique, so the trailing segment also keeps
			// files referenced under an earlier URL prefix or bucket host.
			if name := baseName(u); name != "" {
				referenced[name] = true
			}
		}
	}

	res := Result{Scanned: len(objs)}
	cutoff := s.now().Add(-s.grace)
	for _, o := range objs {
		if referenced[o.Name] || o.ModTime.After(cutoff) {
			continue
		}
		res.Orphans = append(res.Orphans, o.Name)
		if dryRun {
			continue
		}
		if err := s.backend.Delete(ctx, o.Name); err != nil {
			slog.Warn("orphan delete failed", "name", o.Name, "error", err)
			continue
		}
		res.Deleted++
	}

	slog.Info("orphan sweep finished",
		"scanned", res.Scanned,
		"orphans", len(res.Orphans),
		"deleted", res.Deleted,
		"dry_run", dryRun,
	)
	return res, nil
}

// baseName returns the last path segment of a file URL, ignoring any query
// or fragment.
func baseName(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// Schedule starts a cron scheduler running Sweep on spec (with a seconds
// field). The caller stops it with Stop on shutdown.
func (s *Sweeper) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(ctx, false); err != nil {
			slog.Error("scheduled orphan sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule sweep %q: %w", spec, err)
	}
	c.Start()
	slog.Info("orphan sweeper scheduled", "schedule", spec, "grace", s.grace)
	return c, nil
}
