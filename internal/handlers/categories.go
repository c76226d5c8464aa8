// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"contenthub/internal/cache"
	"contenthub/internal/models"
)

// CategoriesList returns all categories ordered by name.
func (a *API) CategoriesList(w http.ResponseWriter, r *http.Request) {
	a.cachedList(w, r, cache.GroupCategories, nil, "Failed to fetch categories", func() (any, error) {
		return a.categories.List(r.Context())
	})
}

// CategoryGet returns one category by id.
func (a *API) CategoryGet(w http.ResponseWriter, r *http.Request) {
	c, err := a.categories.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, "Failed to fetch category")
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryGetBySlug returns one category by slug.
func (a *API) CategoryGetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := a.categories.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		fail(w, r, err, "Failed to fetch category")
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryCreate creates a category from a JSON or form body.
func (a *API) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if isJSON(r) {
		if err := decodeJSON(w, r, &in); err != nil {
			fail(w, r, err, "Invalid category data")
			return
		}
	} else {
		if err := a.parseUploadForm(w, r); err != nil {
			fail(w, r, err, "Invalid category data")
			return
		}
		defer cleanupForm(r)
		in = models.CategoryInput{Name: formValue(r, "name"), Slug: formValue(r, "slug")}
	}

	c, err := a.categories.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err, "Invalid category data")
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupCategories)
	writeJSON(w, http.StatusCreated, c)
}

// CategoryUpdate applies a partial update from a JSON or form body.
func (a *API) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	var p models.CategoryPatch
	if isJSON(r) {
		if err := decodeJSON(w, r, &p); err != nil {
			fail(w, r, err, "Invalid category data")
			return
		}
	} else {
		if err := a.parseUploadForm(w, r); err != nil {
			fail(w, r, err, "Invalid category data")
			return
		}
		defer cleanupForm(r)
		p = models.CategoryPatch{Name: formPtr(r, "name"), Slug: formPtr(r, "slug")}
	}

	c, err := a.categories.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		fail(w, r, err, "Invalid category data")
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupCategories)
	writeJSON(w, http.StatusOK, c)
}

// CategoryDelete removes a category. Posts keep their categoryId.
func (a *API) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	ok, err := a.categories.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, "Failed to delete category")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupCategories)
	w.WriteHeader(http.StatusNoContent)
}
