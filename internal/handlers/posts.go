// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"contenthub/internal/cache"
	"contenthub/internal/models"
	"contenthub/internal/store"
	"contenthub/internal/uploads"
)

// downloadResponse is the body of a successful download count bump.
type downloadResponse struct {
	Message       string `json:"message"`
	DownloadCount int64  `json:"downloadCount,string"`
}

// PostsList returns posts newest first, optionally narrowed by the
// categoryId and search query parameters. Both may be combined.
func (a *API) PostsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.PostFilter{
		CategoryID: strings.TrimSpace(q.Get("categoryId")),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	// Key only on the parameters that change the result.
	params := url.Values{}
	if f.CategoryID != "" {
		params.Set("categoryId", f.CategoryID)
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}

	a.cachedList(w, r, cache.GroupPosts, params, "Failed to fetch posts", func() (any, error) {
		return a.posts.List(r.Context(), f)
	})
}

// PostGet returns one post by id.
func (a *API) PostGet(w http.ResponseWriter, r *http.Request) {
	p, err := a.posts.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, "Failed to fetch post")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PostCreate creates a post from a multipart body with optional images
// and files fields, or from a JSON body without uploads. Fields are
// validated before any file is written.
func (a *API) PostCreate(w http.ResponseWriter, r *http.Request) {
	const msg = "Failed to create post"
	var in models.PostInput
	if isJSON(r) {
		if err := decodeJSON(w, r, &in); err != nil {
			fail(w, r, err, msg)
			return
		}
	} else {
		if err := a.parseUploadForm(w, r, uploads.Images, uploads.Files); err != nil {
			fail(w, r, err, msg)
			return
		}
		defer cleanupForm(r)
		in = models.PostInput{
			Title:       formValue(r, "title"),
			Description: formValue(r, "description"),
			CategoryID:  formValue(r, "categoryId"),
			Price:       formValue(r, "price"),
		}
	}
	if err := in.Validate(); err != nil {
		fail(w, r, err, msg)
		return
	}
	if err := a.uploads.Validate(r.MultipartForm, uploads.Images, uploads.Files); err != nil {
		fail(w, r, err, msg)
		return
	}

	images, files, err := a.savePostUploads(r)
	if err != nil {
		fail(w, r, err, msg)
		return
	}
	in.Images = images
	in.DownloadFiles = files

	p, err := a.posts.Create(r.Context(), in)
	if err != nil {
		fail(w, r, err, msg)
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupPosts)
	writeJSON(w, http.StatusCreated, p)
}

// PostUpdate applies a partial update from a multipart or JSON body.
// Present text fields replace the stored ones; uploaded images and files
// are appended.
func (a *API) PostUpdate(w http.ResponseWriter, r *http.Request) {
	const msg = "Failed to update post"
	id := chi.URLParam(r, "id")

	existing, err := a.posts.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, msg)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	var patch models.PostPatch
	if isJSON(r) {
		if err := decodeJSON(w, r, &patch); err != nil {
			fail(w, r, err, msg)
			return
		}
	} else {
		if err := a.parseUploadForm(w, r, uploads.Images, uploads.Files); err != nil {
			fail(w, r, err, msg)
			return
		}
		defer cleanupForm(r)
		patch = models.PostPatch{
			Title:       formPtr(r, "title"),
			Description: formPtr(r, "description"),
			CategoryID:  formPtr(r, "categoryId"),
			Price:       formPtr(r, "price"),
		}
	}
	if err := patch.Validate(); err != nil {
		fail(w, r, err, msg)
		return
	}
	if err := a.uploads.Validate(r.MultipartForm, uploads.Images, uploads.Files); err != nil {
		fail(w, r, err, msg)
		return
	}

	patch.AddImages, patch.AddDownloadFiles, err = a.savePostUploads(r)
	if err != nil {
		fail(w, r, err, msg)
		return
	}

	p, err := a.posts.Update(r.Context(), id, patch)
	if err != nil {
		fail(w, r, err, msg)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupPosts)
	writeJSON(w, http.StatusOK, p)
}

// PostDelete removes a post. Its files are left for the orphan sweeper.
func (a *API) PostDelete(w http.ResponseWriter, r *http.Request) {
	ok, err := a.posts.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, "Failed to delete post")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupPosts)
	w.WriteHeader(http.StatusNoContent)
}

// PostDownload increments the download counter and returns the new value.
func (a *API) PostDownload(w http.ResponseWriter, r *http.Request) {
	count, found, err := a.posts.IncrementDownloads(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, "Failed to increment download count")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	a.cache.Invalidate(r.Context(), cache.GroupPosts)
	writeJSON(w, http.StatusOK, downloadResponse{
		Message:       "Download count incremented",
		DownloadCount: count,
	})
}

// savePostUploads stores the images and files fields of the request.
func (a *API) savePostUploads(r *http.Request) ([]string, []models.DownloadFile, error) {
	savedImages, err := a.uploads.Save(r.Context(), r.MultipartForm, uploads.Images)
	if err != nil {
		return nil, nil, err
	}
	savedFiles, err := a.uploads.Save(r.Context(), r.MultipartForm, uploads.Files)
	if err != nil {
		return nil, nil, err
	}

	var images []string
	for _, s := range savedImages {
		images = append(images, s.URL)
	}
	var files []models.DownloadFile
	for _, s := range savedFiles {
		files = append(files, models.DownloadFile{Name: s.OriginalName, URL: s.URL, Size: s.Size})
	}
	return images, files, nil
}
