// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON REST API for categories, posts and
// news articles. Each handler parses and validates the request, writes any
// uploaded files, performs one store operation and encodes the result.
package handlers

import (
	"context"

	"contenthub/internal/cache"
	"contenthub/internal/models"
	"contenthub/internal/store"
	"contenthub/internal/uploads"
)

// CategoryStore is the category persistence used by the API.
type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id string, p models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// PostStore is the post persistence used by the API.
type PostStore interface {
	List(ctx context.Context, f store.PostFilter) ([]models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, in models.PostInput) (*models.Post, error)
	Update(ctx context.Context, id string, p models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id string) (bool, error)
	IncrementDownloads(ctx context.Context, id string) (int64, bool, error)
}

// NewsStore is the news persistence used by the API.
type NewsStore interface {
	List(ctx context.Context) ([]models.NewsArticle, error)
	FindByID(ctx context.Context, id string) (*models.NewsArticle, error)
	Create(ctx context.Context, in models.NewsArticleInput) (*models.NewsArticle, error)
	Update(ctx context.Context, id string, p models.NewsArticlePatch) (*models.NewsArticle, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// API groups the REST handlers and their dependencies.
type API struct {
	categories CategoryStore
	posts      PostStore
	news       NewsStore
	uploads    *uploads.Processor
	cache      *cache.ResponseCache // nil disables response caching
}

// NewAPI creates the API handler group.
func NewAPI(categories CategoryStore, posts PostStore, news NewsStore, processor *uploads.Processor, rc *cache.ResponseCache) *API {
	return &API{
		categories: categories,
		posts:      posts,
		news:       news,
		uploads:    processor,
		cache:      rc,
	}
}
