// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// fakes_test.go provides in-memory stores and a test environment wired
// through the real router, so handler tests need no database.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"contenthub/internal/handlers"
	"contenthub/internal/models"
	"contenthub/internal/router"
	"contenthub/internal/storage"
	"contenthub/internal/store"
	"contenthub/internal/uploads"
)

// pngBytes starts with the PNG signature so content sniffing reports
// image/png.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type fakeCategories struct {
	mu   sync.Mutex
	rows []models.Category
	err  error
}

func (f *fakeCategories) List(_ context.Context) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.rows), nil
}

func (f *fakeCategories) FindByID(_ context.Context, id string) (*models.Category, error) {
	return f.find(func(c models.Category) bool { return c.ID == id })
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	return f.find(func(c models.Category) bool { return c.Slug == slug })
}

func (f *fakeCategories) find(match func(models.Category) bool) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.rows {
		if match(c) {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) Create(_ context.Context, in models.CategoryInput) (*models.Category, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.Name == in.Name || c.Slug == in.Slug {
			return nil, fmt.Errorf("create category: %w", store.ErrDuplicate)
		}
	}
	c := models.Category{ID: uuid.NewString(), Name: in.Name, Slug: in.Slug}
	f.rows = append(f.rows, c)
	return &c, nil
}

func (f *fakeCategories) Update(_ context.Context, id string, p models.CategoryPatch) (*models.Category, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID != id {
			continue
		}
		if p.Name != nil {
			f.rows[i].Name = *p.Name
		}
		if p.Slug != nil {
			f.rows[i].Slug = *p.Slug
		}
		c := f.rows[i]
		return &c, nil
	}
	return nil, nil
}

func (f *fakeCategories) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = slices.Delete(f.rows, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

type fakePosts struct {
	mu   sync.Mutex
	rows []models.Post // insertion order, oldest first
	err  error
}

func (f *fakePosts) List(_ context.Context, flt store.PostFilter) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Post{}
	term := strings.ToLower(flt.Search)
	for i := len(f.rows) - 1; i >= 0; i-- {
		p := f.rows[i]
		if flt.CategoryID != "" && p.CategoryID != flt.CategoryID {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePosts) FindByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.rows {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePosts) Create(_ context.Context, in models.PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	price := in.NormalizedPrice()
	p := models.Post{
		ID:            uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		Price:         price,
		IsFree:        models.IsFreePrice(price),
		Images:        models.StringList(in.Images),
		DownloadFiles: models.DownloadFiles(in.DownloadFiles),
		CreatedAt:     time.Now(),
	}
	f.rows = append(f.rows, p)
	return &p, nil
}

func (f *fakePosts) Update(_ context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		p := &f.rows[i]
		if p.ID != id {
			continue
		}
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.CategoryID != nil {
			p.CategoryID = *patch.CategoryID
		}
		if patch.Price != nil {
			p.Price = *patch.Price
			if p.Price == "" {
				p.Price = models.DefaultPrice
			}
		}
		p.IsFree = models.IsFreePrice(p.Price)
		p.Images = append(p.Images, patch.AddImages...)
		p.DownloadFiles = append(p.DownloadFiles, patch.AddDownloadFiles...)
		out := *p
		return &out, nil
	}
	return nil, nil
}

func (f *fakePosts) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = slices.Delete(f.rows, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePosts) IncrementDownloads(_ context.Context, id string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, false, f.err
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].DownloadCount++
			return f.rows[i].DownloadCount, true, nil
		}
	}
	return 0, false, nil
}

type fakeNews struct {
	mu   sync.Mutex
	rows []models.NewsArticle
	err  error
}

func (f *fakeNews) List(_ context.Context) ([]models.NewsArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.NewsArticle{}
	for i := len(f.rows) - 1; i >= 0; i-- {
		out = append(out, f.rows[i])
	}
	return out, nil
}

func (f *fakeNews) FindByID(_ context.Context, id string) (*models.NewsArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.rows {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, nil
}

func (f *fakeNews) Create(_ context.Context, in models.NewsArticleInput) (*models.NewsArticle, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n := models.NewsArticle{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		CreatedAt: time.Now(),
	}
	if in.Image != "" {
		img := in.Image
		n.Image = &img
	}
	f.rows = append(f.rows, n)
	return &n, nil
}

func (f *fakeNews) Update(_ context.Context, id string, p models.NewsArticlePatch) (*models.NewsArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		n := &f.rows[i]
		if n.ID != id {
			continue
		}
		if p.Title != nil {
			n.Title = *p.Title
		}
		if p.Content != nil {
			n.Content = *p.Content
		}
		if p.Excerpt != nil {
			n.Excerpt = *p.Excerpt
		}
		if p.Image != nil {
			n.Image = p.Image
		}
		out := *n
		return &out, nil
	}
	return nil, nil
}

func (f *fakeNews) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = slices.Delete(f.rows, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

// testEnv is the full HTTP stack over in-memory stores and a temp-dir
// upload backend.
type testEnv struct {
	Handler    http.Handler
	Categories *fakeCategories
	Posts      *fakePosts
	News       *fakeNews
	UploadDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, router.Options{})
}

func newTestEnvWith(t *testing.T, opts router.Options) *testEnv {
	t.Helper()
	dir := t.TempDir()
	backend, err := storage.NewDisk(dir, "/uploads")
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}

	env := &testEnv{
		Categories: &fakeCategories{},
		Posts:      &fakePosts{},
		News:       &fakeNews{},
		UploadDir:  dir,
	}
	api := handlers.NewAPI(env.Categories, env.Posts, env.News, uploads.NewProcessor(backend, 1<<20), nil)
	opts.UploadDir = dir
	opts.UploadURLPrefix = "/uploads"
	env.Handler = router.New(api, opts)
	return env
}

// do sends a request through the router and returns the recorder.
func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.Handler.ServeHTTP(rec, req)
	return rec
}

// uploadFile is one file part of a multipart test body.
type uploadFile struct {
	Field string
	Name  string
	Data  []byte
}

// multipartRequest builds a multipart request with text fields and files.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...uploadFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["message"]
}

// fetch GETs url through the router and returns the body.
func (e *testEnv) fetch(t *testing.T, url string) []byte {
	t.Helper()
	rec := e.do(t, httptest.NewRequest(http.MethodGet, url, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, rec.Code)
	}
	b, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read %s: %v", url, err)
	}
	return b
}
