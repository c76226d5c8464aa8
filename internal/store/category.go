// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"contenthub/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by name.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create validates and inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		uuid.NewString(), in.Name, in.Slug,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, wrapErr("create category", err)
	}
	return c, nil
}

// Update applies the fields present in the patch. Returns nil if the
// category does not exist.
func (s *CategoryStore) Update(ctx context.Context, id string, p models.CategoryPatch) (*models.Category, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if p.IsEmpty() {
		return s.FindByID(ctx, id)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE categories SET
			name = COALESCE($1, name),
			slug = COALESCE($2, slug)
		WHERE id = $3
		RETURNING `+categoryColumns,
		p.Name, p.Slug, id,
	)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("update category", err)
	}
	return c, nil
}

// Delete removes a category by ID and reports whether a row was removed.
// Posts that reference it keep their categoryId.
func (s *CategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return n > 0, nil
}

// EnsureBySlug inserts the category unless one with the same slug or name
// already exists. An empty id gets a generated UUID. It returns the stored
// category and whether it was created. When only the id collides with an
// unrelated row the error wraps ErrDuplicate.
func (s *CategoryStore) EnsureBySlug(ctx context.Context, id string, in models.CategoryInput) (*models.Category, bool, error) {
	if err := in.Validate(); err != nil {
		return nil, false, fmt.Errorf("ensure category: %w", err)
	}
	if id == "" {
		id = uuid.NewString()
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
		RETURNING `+categoryColumns,
		id, in.Name, in.Slug,
	)
	c, err := scanCategory(row)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("ensure category: %w", err)
	}

	existing, err := s.FindBySlug(ctx, in.Slug)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		existing, err = s.findByName(ctx, in.Name)
		if err != nil {
			return nil, false, err
		}
	}
	if existing == nil {
		return nil, false, fmt.Errorf("ensure category %s: id %s taken: %w", in.Slug, id, ErrDuplicate)
	}
	return existing, false, nil
}

func (s *CategoryStore) findByName(ctx context.Context, name string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}
