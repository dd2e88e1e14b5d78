package server

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testBook = map[string]any{
	"isbn":       "0691161518",
	"amazon_url": "http://a.co/eobPtX2",
	"author":     "Matthew Lane",
	"language":   "english",
	"pages":      float64(264),
	"publisher":  "Princeton University Press",
	"title":      "Power-Up: Unlocking the Hidden Mathematics in Video Games",
	"year":       float64(2017),
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, "sqlite", "", zap.NewNop()))

	repo := book.NewSQLiteRepo(db, time.Second)
	_, err = repo.Create(ctx, book.Book{
		ISBN:      "0691161518",
		AmazonURL: "http://a.co/eobPtX2",
		Author:    "Matthew Lane",
		Language:  "english",
		Pages:     264,
		Publisher: "Princeton University Press",
		Title:     "Power-Up: Unlocking the Hidden Mathematics in Video Games",
		Year:      2017,
	})
	require.NoError(t, err)

	if opts.RateLimitRPS == 0 {
		opts.RateLimitRPS = 1000
		opts.RateLimitBurst = 1000
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	srv := New(book.NewService(repo, nil), opts)
	t.Cleanup(srv.Close)
	return srv
}

func TestBooks_List(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	books, ok := resp.Body["books"].([]any)
	require.True(t, ok)
	require.Len(t, books, 1)
	assert.Equal(t, testBook, books[0])
}

func TestBooks_GetOne(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books/0691161518", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, testBook, resp.Body["book"])

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books/999", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, float64(http.StatusNotFound), resp.Body["status"])
	assert.NotEmpty(t, resp.Body["request_id"])
}

func TestBooks_Create(t *testing.T) {
	srv := newTestServer(t, Options{})
	newBook := map[string]any{
		"isbn":       "1234567890",
		"amazon_url": "https://a.co/d/eobPtX2",
		"author":     "John Doe",
		"language":   "english",
		"pages":      float64(300),
		"publisher":  "Test Publisher",
		"title":      "Test Book",
		"year":       float64(2021),
	}

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodPost, "/books", newBook))
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, newBook, resp.Body["book"])

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books", nil))
	assert.Len(t, resp.Body["books"], 2)

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books?year=2021", nil))
	assert.Equal(t, []any{newBook}, resp.Body["books"])
}

func TestBooks_CreateDuplicate(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodPost, "/books", testBook))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestBooks_CreateInvalid(t *testing.T) {
	srv := newTestServer(t, Options{})
	invalid := map[string]any{
		"isbn":  "1234567890",
		"pages": "three hundred",
		"year":  2021.5,
	}

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodPost, "/books", invalid))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	messages, ok := resp.Body["message"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 7, messages)
	for _, field := range []string{"amazon_url", "author", "language", "publisher", "title"} {
		assert.Contains(t, messages, field+": missing property")
	}
	joined := ""
	for _, m := range messages {
		joined += m.(string) + "\n"
	}
	assert.Contains(t, joined, "pages: ")
	assert.Contains(t, joined, "year: ")

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books/1234567890", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBooks_CreateIntegralFloats(t *testing.T) {
	srv := newTestServer(t, Options{})
	body := `{"isbn": "1234567890", "amazon_url": "https://a.co/d/eobPtX2", "author": "John Doe",
		"language": "english", "pages": 300.0, "publisher": "Test Publisher", "title": "Test Book", "year": 2021.0}`

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodPost, "/books", body))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body)

	created, ok := resp.Body["book"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(300), created["pages"])
	assert.Equal(t, float64(2021), created["year"])

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books/1234567890", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestBooks_Update(t *testing.T) {
	srv := newTestServer(t, Options{})
	updated := map[string]any{
		"isbn":       "0691161518",
		"amazon_url": "http://a.co/d/eobPtX3",
		"author":     "John Doe Updated",
		"language":   "spanish",
		"pages":      float64(350),
		"publisher":  "Test Publisher Updated",
		"title":      "Test Book Updated",
		"year":       float64(2022),
	}

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodPut, "/books/0691161518", updated))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, updated, resp.Body["book"])

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books/0691161518", nil))
	assert.Equal(t, updated, resp.Body["book"])

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodPut, "/books/999", testBook))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBooks_Delete(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodDelete, "/books/0691161518", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, map[string]any{"message": "Book deleted"}, resp.Body)

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/books/0691161518", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodDelete, "/books/999", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBodySizeLimit(t *testing.T) {
	srv := newTestServer(t, Options{MaxBodyBytes: 64})

	body := `{"title": "` + strings.Repeat("x", 200) + `"}`
	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodPost, "/books", body))

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = testutil.Serve(srv, testutil.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ready", string(resp.Raw))
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp := testutil.Serve(srv, testutil.NewRequest(http.MethodPatch, "/books/0691161518", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
}
