// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"contenthub/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns lists the columns selected in post queries.
const postColumns = `id, title, description, category_id, price, is_free,
	images, download_files, download_count, created_at`

// scanPost scans a post row from the result set.
func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.CategoryID, &p.Price, &p.IsFree,
		&p.Images, &p.DownloadFiles, &p.DownloadCount, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostFilter narrows a post listing. Zero values match everything.
type PostFilter struct {
	CategoryID string
	Search     string
}

// List returns posts matching the filter, newest first.
func (s *PostStore) List(ctx context.Context, f PostFilter) ([]models.Post, error) {
	var (
		where []string
		args  []any
	)
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		where = append(where, "category_id = $"+strconv.Itoa(len(args)))
	}
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		n := "$" + strconv.Itoa(len(args))
		where = append(where, "(title ILIKE "+n+" OR description ILIKE "+n+")")
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Search returns posts whose title or description contains the query,
// case-insensitively, newest first.
func (s *PostStore) Search(ctx context.Context, query string) ([]models.Post, error) {
	return s.List(ctx, PostFilter{Search: query})
}

// FindByID retrieves a single post by ID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create validates and inserts a new post. isFree is derived from the
// price and the download counter starts at zero.
func (s *PostStore) Create(ctx context.Context, in models.PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	price := in.NormalizedPrice()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, title, description, category_id, price, is_free,
			images, download_files)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+postColumns,
		uuid.NewString(), in.Title, in.Description, in.CategoryID,
		price, models.IsFreePrice(price),
		models.StringList(in.Images), models.DownloadFiles(in.DownloadFiles),
	)
	p, err := scanPost(row)
	if err != nil {
		return nil, wrapErr("create post", err)
	}
	return p, nil
}

// Update applies the fields present in the patch and appends any new
// images and files to the stored lists. isFree is recomputed from the
// resulting price. Returns nil if the post does not exist.
func (s *PostStore) Update(ctx context.Context, id string, p models.PostPatch) (*models.Post, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	var price *string
	if p.Price != nil {
		v := strings.TrimSpace(*p.Price)
		if v == "" {
			v = models.DefaultPrice
		}
		price = &v
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			category_id = COALESCE($3, category_id),
			price = COALESCE($4::numeric, price),
			is_free = COALESCE($4::numeric, price) = 0,
			images = images || $5::jsonb,
			download_files = download_files || $6::jsonb
		WHERE id = $7
		RETURNING `+postColumns,
		p.Title, p.Description, p.CategoryID, price,
		models.StringList(p.AddImages), models.DownloadFiles(p.AddDownloadFiles),
		id,
	)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("update post", err)
	}
	return post, nil
}

// Delete removes a post by ID and reports whether a row was removed.
func (s *PostStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return n > 0, nil
}

// IncrementDownloads bumps the download counter in a single statement and
// returns the new value. found is false when the post does not exist.
func (s *PostStore) IncrementDownloads(ctx context.Context, id string) (count int64, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		UPDATE posts SET download_count = download_count + 1
		WHERE id = $1
		RETURNING download_count
	`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("increment downloads: %w", err)
	}
	return count, true, nil
}

// ReferencedFiles returns every image and download URL stored on a post.
func (s *PostStore) ReferencedFiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT jsonb_array_elements_text(images) FROM posts
		UNION
		SELECT f->>'url' FROM posts, jsonb_array_elements(download_files) AS f
	`)
	if err != nil {
		return nil, fmt.Errorf("post referenced files: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u sql.NullString
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan referenced file: %w", err)
		}
		if u.Valid && u.String != "" {
			urls = append(urls, u.String)
		}
	}
	return urls, rows.Err()
}
