// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"contenthub/internal/cache"
	"contenthub/internal/models"
	"contenthub/internal/uploads"
)

// NewsList returns all news articles, newest first.
func (a *API) NewsList(w http.ResponseWriter, r *http.Request) {
	a.cachedList(w, r, cache.GroupNews, nil, "Failed to fetch news articles", func() (any, error) {
		return a.news.List(r.Context())
	})
}

// NewsGet returns one article by id.
func (a *API) NewsGet(w http.ResponseWriter, r *http.Request) {
	n, err := a.news.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, "Failed to fetch article")
		return
	}
	if n == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// NewsCreate creates an article from a multipart body with an optional
// image field, or from a JSON body without an image.
func (a *API) NewsCreate(w http.ResponseWriter, r *http.Request) {
	const msg = "Failed to create article"
	var in models.NewsArticleInput
	if isJSON(r) {
		if err := decodeJSON(w, r, &in); err != nil {
			fail(w, r, err, msg)
			return
		}
	} else {
		if err := a.parseUploadForm(w, r, uploads.Image); err != nil {
			fail(w, r, err, msg)
			return
		}
		defer cleanupForm(r)
		in = models.NewsArticleInput{
			Title:   formValue(r, "title"),
			Content: formValue(r, "content"),
			Excerpt: formValue(r, "excerpt"),
		}
	}
	if err := in.Validate(); err != nil {
		fail(w, r, err, msg)
		return
	}

	image, err := a.saveNewsImage(r)
	if err != nil {
		fail(w, r, err, msg)
		return
	}
	if image != nil {
		in.Image = *image
	}

	n, err := a.news.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err, msg)
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupNews)
	writeJSON(w, http.StatusCreated, n)
}

// NewsUpdate applies a partial update from a multipart or JSON body. An
// uploaded image replaces the stored one.
func (a *API) NewsUpdate(w http.ResponseWriter, r *http.Request) {
	const msg = "Failed to update article"
	id := chi.URLParam(r, "id")

	existing, err := a.news.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, msg)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}

	var patch models.NewsArticlePatch
	if isJSON(r) {
		if err := decodeJSON(w, r, &patch); err != nil {
			fail(w, r, err, msg)
			return
		}
	} else {
		if err := a.parseUploadForm(w, r, uploads.Image); err != nil {
			fail(w, r, err, msg)
			return
		}
		defer cleanupForm(r)
		patch = models.NewsArticlePatch{
			Title:   formPtr(r, "title"),
			Content: formPtr(r, "content"),
			Excerpt: formPtr(r, "excerpt"),
		}
	}
	if err := patch.Validate(); err != nil {
		fail(w, r, err, msg)
		return
	}

	patch.Image, err = a.saveNewsImage(r)
	if err != nil {
		fail(w, r, err, msg)
		return
	}

	n, err := a.news.Update(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err, msg)
		return
	}
	if n == nil {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupNews)
	writeJSON(w, http.StatusOK, n)
}

// NewsDelete removes an article.
func (a *API) NewsDelete(w http.ResponseWriter, r *http.Request) {
	ok, err := a.news.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, "Failed to delete article")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Article not found")
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupNews)
	w.WriteHeader(http.StatusNoContent)
}

// saveNewsImage stores the image field and returns its URL, or nil when
// no image was uploaded.
func (a *API) saveNewsImage(r *http.Request) (*string, error) {
	saved, err := a.uploads.Save(r.Context(), r.MultipartForm, uploads.Image)
	if err != nil || len(saved) == 0 {
		return nil, err
	}
	return &saved[0].URL, nil
}
