// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/oblog-go/internal/handler"
	"github.com/olegiv/oblog-go/internal/imaging"
	"github.com/olegiv/oblog-go/internal/middleware"
	"github.com/olegiv/oblog-go/internal/render"
	"github.com/olegiv/oblog-go/internal/store"
	"github.com/olegiv/oblog-go/internal/testutil"
	"github.com/olegiv/oblog-go/web"
)

// testApp wires a handler against an in-memory database and the embedded
// templates, with a helper to issue requests as a given user.
type testApp struct {
	db     *sql.DB
	router http.Handler
	sm     *scs.SessionManager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := scs.New()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	h := handler.New(db, renderer, sm, imaging.NewProcessor(t.TempDir()))

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sm, db))
		r.Get("/", h.Home)
		r.Get("/posts/{id}", h.PostDetail)
		r.Get("/category/{slug}", h.Category)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sm), middleware.LoadUser(sm, db))
		r.Post("/posts/{id}/edit", h.UpdatePost)
		r.Post("/posts/{id}/delete", h.DeletePost)
		r.Post("/comments/{id}/delete", h.DeleteComment)
	})

	return &testApp{db: db, router: sm.LoadAndSave(r), sm: sm}
}

// do issues a request, optionally logged in as userID (0 for anonymous).
func (a *testApp) do(t *testing.T, method, target string, userID int64, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	if userID != 0 {
		// Seed the session before routing, the way a login would
		inner := a.router
		rec := httptest.NewRecorder()
		seeded := a.sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.sm.Put(r.Context(), middleware.SessionKeyUserID, userID)
		}))
		seeded.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
		rec = httptest.NewRecorder()
		inner.ServeHTTP(rec, req)
		return rec
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestDeletePost_ForeignUserRedirectsToPost(t *testing.T) {
	app := newTestApp(t)
	q := store.New(app.db)

	author := testutil.CreateUser(t, q, "alice")
	intruder := testutil.CreateUser(t, q, "bob")
	category := testutil.CreateCategory(t, q, "travel", true)
	post := testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: true,
	})

	target := "/posts/" + strconv.FormatInt(post.ID, 10) + "/delete"
	rec := app.do(t, http.MethodPost, target, intruder.ID, url.Values{})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	wantLoc := "/posts/" + strconv.FormatInt(post.ID, 10)
	if loc := rec.Header().Get("Location"); loc != wantLoc {
		t.Errorf("Location = %q, want %q", loc, wantLoc)
	}

	// The post survives the denied attempt
	if _, err := q.GetPostByID(context.Background(), post.ID); err != nil {
		t.Errorf("post should still exist: %v", err)
	}
}

func TestDeletePost_OwnerSucceeds(t *testing.T) {
	app := newTestApp(t)
	q := store.New(app.db)

	author := testutil.CreateUser(t, q, "alice")
	category := testutil.CreateCategory(t, q, "travel", true)
	post := testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: true,
	})

	target := "/posts/" + strconv.FormatInt(post.ID, 10) + "/delete"
	rec := app.do(t, http.MethodPost, target, author.ID, url.Values{})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/profile/alice" {
		t.Errorf("Location = %q, want /profile/alice", loc)
	}

	if _, err := q.GetPostByID(context.Background(), post.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("post should be gone, got err=%v", err)
	}
}

func TestDeletePost_AnonymousRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	q := store.New(app.db)

	author := testutil.CreateUser(t, q, "alice")
	category := testutil.CreateCategory(t, q, "travel", true)
	post := testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: true,
	})

	target := "/posts/" + strconv.FormatInt(post.ID, 10) + "/delete"
	rec := app.do(t, http.MethodPost, target, 0, url.Values{})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestDeleteComment_ForeignUserRedirectsToPost(t *testing.T) {
	app := newTestApp(t)
	q := store.New(app.db)

	author := testutil.CreateUser(t, q, "alice")
	intruder := testutil.CreateUser(t, q, "bob")
	category := testutil.CreateCategory(t, q, "travel", true)
	post := testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: true,
	})

	comment := testutil.CreateComment(t, q, post.ID, author.ID, "mine")

	target := "/comments/" + strconv.FormatInt(comment.ID, 10) + "/delete"
	rec := app.do(t, http.MethodPost, target, intruder.ID, url.Values{})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	wantLoc := "/posts/" + strconv.FormatInt(post.ID, 10)
	if loc := rec.Header().Get("Location"); loc != wantLoc {
		t.Errorf("Location = %q, want %q", loc, wantLoc)
	}

	if _, err := q.GetCommentByID(context.Background(), comment.ID); err != nil {
		t.Errorf("comment should still exist: %v", err)
	}
}

func TestCategory_SlugValidation(t *testing.T) {
	app := newTestApp(t)
	q := store.New(app.db)

	author := testutil.CreateUser(t, q, "alice")
	category := testutil.CreateCategory(t, q, "travel", true)
	testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: true,
	})

	if rec := app.do(t, http.MethodGet, "/category/travel", 0, nil); rec.Code != http.StatusOK {
		t.Errorf("published category: status = %d, want 200", rec.Code)
	}

	// Malformed slugs are rejected before any lookup
	for _, slug := range []string{"TRAVEL", "bad_slug", "-travel", "tra--vel"} {
		if rec := app.do(t, http.MethodGet, "/category/"+slug, 0, nil); rec.Code != http.StatusNotFound {
			t.Errorf("slug %q: status = %d, want 404", slug, rec.Code)
		}
	}

	// Well-formed but unknown slugs fall through to the store and 404 there
	if rec := app.do(t, http.MethodGet, "/category/no-such-place", 0, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown category: status = %d, want 404", rec.Code)
	}
}

func TestPostDetail_DraftHiddenFromOthers(t *testing.T) {
	app := newTestApp(t)
	q := store.New(app.db)

	author := testutil.CreateUser(t, q, "alice")
	other := testutil.CreateUser(t, q, "bob")
	category := testutil.CreateCategory(t, q, "travel", true)
	draft := testutil.CreatePost(t, q, testutil.PostSpec{
		AuthorID: author.ID, CategoryID: category.ID, IsPublished: false,
	})

	target := "/posts/" + strconv.FormatInt(draft.ID, 10)

	if rec := app.do(t, http.MethodGet, target, other.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("foreign viewer: status = %d, want 404", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, target, 0, nil); rec.Code != http.StatusNotFound {
		t.Errorf("anonymous viewer: status = %d, want 404", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, target, author.ID, nil); rec.Code != http.StatusOK {
		t.Errorf("author: status = %d, want 200", rec.Code)
	}
}
