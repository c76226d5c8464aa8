package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
)

// SeedCategory is one category of a seed preset. An empty ID gets a
// generated UUID.
type SeedCategory struct {
	ID   string
	Name string
	Slug string
}

// DefaultPreset is the preset seeded on first start.
const DefaultPreset = "default"

// Presets lists the category sets that can be seeded.
var Presets = map[string][]SeedCategory{
	"default": {
		{Name: "Games", Slug: "games"},
		{Name: "Software", Slug: "software"},
		{Name: "3D Models", Slug: "3d-models"},
		{Name: "Textures", Slug: "textures"},
		{Name: "Audio", Slug: "audio"},
	},
	// legacy pins readable IDs used by older deployments.
	"legacy": {
		{ID: "warcraft-3", Name: "Warcraft 3", Slug: "warcraft-3"},
		{ID: "minecraft", Name: "Minecraft", Slug: "minecraft"},
		{ID: "books", Name: "Books", Slug: "books"},
		{ID: "3d", Name: "3D", Slug: "3d"},
		{ID: "other", Name: "Other", Slug: "other"},
	},
	"extended": {
		{Name: "Minecraft", Slug: "minecraft"},
		{Name: "Warcraft 3", Slug: "warcraft-3"},
		{Name: "3D Models", Slug: "3d-models"},
		{Name: "Concept Art", Slug: "concept-art"},
		{Name: "Reference", Slug: "reference"},
		{Name: "Miscellaneous", Slug: "miscellaneous"},
	},
}

// PresetNames returns the known preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Seed inserts the categories of a preset exactly once per database. The
// run is gated by a seed_markers row claimed in the same transaction, so
// two processes starting together cannot both seed: the second blocks on
// the marker row and then skips. Categories deleted later are not
// recreated on restart.
func Seed(ctx context.Context, db *sql.DB, preset string) error {
	cats, ok := Presets[preset]
	if !ok {
		return fmt.Errorf("seed: unknown preset %q", preset)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	marker := "categories:" + preset
	var claimed string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO seed_markers (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING name
	`, marker).Scan(&claimed)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Info("database already seeded, skipping", "preset", preset)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed claim marker: %w", err)
	}

	created, err := insertCategories(ctx, tx, cats)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("default categories initialized", "preset", preset, "created", created)
	return nil
}

// insertCategories adds each category unless its id, name or slug is
// already taken.
func insertCategories(ctx context.Context, ex execer, cats []SeedCategory) (int, error) {
	created := 0
	for _, c := range cats {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		res, err := ex.ExecContext(ctx, `
			INSERT INTO categories (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, id, c.Name, c.Slug)
		if err != nil {
			return created, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return created, fmt.Errorf("seed category %s rows: %w", c.Slug, err)
		}
		if n > 0 {
			created++
			slog.Info("category created", "name", c.Name, "slug", c.Slug)
		} else {
			slog.Debug("category already exists", "name", c.Name, "slug", c.Slug)
		}
	}
	return created, nil
}
