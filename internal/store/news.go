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

// NewsStore handles news article database operations.
type NewsStore struct {
	db *sql.DB
}

// NewNewsStore creates a new NewsStore.
func NewNewsStore(db *sql.DB) *NewsStore {
	return &NewsStore{db: db}
}

const newsColumns = `id, title, content, excerpt, image, created_at`

func scanNews(row scanner) (*models.NewsArticle, error) {
	var a models.NewsArticle
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.Image, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// nullIfEmpty maps "" to SQL NULL.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// List returns all news articles, newest first.
func (s *NewsStore) List(ctx context.Context) ([]models.NewsArticle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+newsColumns+` FROM news_articles ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	items := []models.NewsArticle{}
	for rows.Next() {
		a, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByID retrieves a news article by ID. Returns nil if not found.
func (s *NewsStore) FindByID(ctx context.Context, id string) (*models.NewsArticle, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news_articles WHERE id = $1`, id)
	a, err := scanNews(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find news by id: %w", err)
	}
	return a, nil
}

// Create validates and inserts a news article. An empty image is stored
// as NULL.
func (s *NewsStore) Create(ctx context.Context, in models.NewsArticleInput) (*models.NewsArticle, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO news_articles (id, title, content, excerpt, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+newsColumns,
		uuid.NewString(), in.Title, in.Content, in.Excerpt, nullIfEmpty(in.Image),
	)
	a, err := scanNews(row)
	if err != nil {
		return nil, wrapErr("create news", err)
	}
	return a, nil
}

// Update applies the fields present in the patch. A new image replaces the
// stored one. Returns nil if the article does not exist.
func (s *NewsStore) Update(ctx context.Context, id string, p models.NewsArticlePatch) (*models.NewsArticle, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("update news: %w", err)
	}
	var image sql.NullString
	if p.Image != nil {
		image = nullIfEmpty(*p.Image)
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE news_articles SET
			title = COALESCE($1, title),
			content = COALESCE($2, content),
			excerpt = COALESCE($3, excerpt),
			image = COALESCE($4, image)
		WHERE id = $5
		RETURNING `+newsColumns,
		p.Title, p.Content, p.Excerpt, image, id,
	)
	a, err := scanNews(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("update news", err)
	}
	return a, nil
}

// Delete removes a news article and reports whether a row was removed.
func (s *NewsStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM news_articles WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete news: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete news: %w", err)
	}
	return n > 0, nil
}

// ReferencedFiles returns every stored news image URL.
func (s *NewsStore) ReferencedFiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT image FROM news_articles WHERE image IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("news referenced files: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan referenced file: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
