package book

import (
	"context"
	"errors"
	"testing"

	"bookcatalog/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBook = Book{
	ISBN:      "0691161518",
	AmazonURL: "http://a.co/eobPtX2",
	Author:    "Matthew Lane",
	Language:  "english",
	Pages:     264,
	Publisher: "Princeton University Press",
	Title:     "Power-Up: Unlocking the Hidden Mathematics in Video Games",
	Year:      2017,
}

var otherBook = Book{
	ISBN:      "1234567890",
	AmazonURL: "https://a.co/d/eobPtX2",
	Author:    "John Doe",
	Language:  "english",
	Pages:     300,
	Publisher: "Test Publisher",
	Title:     "Test Book",
	Year:      2021,
}

// runRepositoryTests exercises any Repository. newRepo must return an empty
// store each time it is called.
func runRepositoryTests(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("create then find one", func(t *testing.T) {
		repo := newRepo(t)

		created, err := repo.Create(ctx, testBook)
		require.NoError(t, err)
		assert.Equal(t, testBook, created)

		found, err := repo.FindOne(ctx, testBook.ISBN)
		require.NoError(t, err)
		assert.Equal(t, testBook, found)
	})

	t.Run("find one missing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.FindOne(ctx, "999")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, 404, apperr.Status(err))
	})

	t.Run("duplicate isbn is a data access error", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Create(ctx, testBook)
		require.NoError(t, err)
		_, err = repo.Create(ctx, testBook)

		var dae *apperr.DataAccessError
		assert.ErrorAs(t, err, &dae)
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("find all", func(t *testing.T) {
		repo := newRepo(t)

		books, err := repo.FindAll(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)

		for _, b := range []Book{testBook, otherBook} {
			_, err := repo.Create(ctx, b)
			require.NoError(t, err)
		}

		books, err = repo.FindAll(ctx, Filter{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []Book{testBook, otherBook}, books)
		// ordered by title
		assert.Equal(t, testBook.ISBN, books[0].ISBN)
	})

	t.Run("find all with filters", func(t *testing.T) {
		repo := newRepo(t)
		for _, b := range []Book{testBook, otherBook} {
			_, err := repo.Create(ctx, b)
			require.NoError(t, err)
		}

		books, err := repo.FindAll(ctx, Filter{"year": 2021})
		require.NoError(t, err)
		assert.Equal(t, []Book{otherBook}, books)

		books, err = repo.FindAll(ctx, Filter{"language": "english", "author": "Matthew Lane"})
		require.NoError(t, err)
		assert.Equal(t, []Book{testBook}, books)

		books, err = repo.FindAll(ctx, Filter{"publisher": "nobody"})
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("update keeps path key", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, testBook)
		require.NoError(t, err)

		changes := Book{
			ISBN:      "ignored",
			AmazonURL: "http://a.co/d/eobPtX3",
			Author:    "John Doe Updated",
			Language:  "spanish",
			Pages:     350,
			Publisher: "Test Publisher Updated",
			Title:     "Test Book Updated",
			Year:      2022,
		}
		updated, err := repo.Update(ctx, testBook.ISBN, changes)
		require.NoError(t, err)

		want := changes
		want.ISBN = testBook.ISBN
		assert.Equal(t, want, updated)

		found, err := repo.FindOne(ctx, testBook.ISBN)
		require.NoError(t, err)
		assert.Equal(t, want, found)

		_, err = repo.FindOne(ctx, "ignored")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("update missing", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Update(ctx, "999", testBook)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("remove", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, testBook)
		require.NoError(t, err)

		require.NoError(t, repo.Remove(ctx, testBook.ISBN))

		_, err = repo.FindOne(ctx, testBook.ISBN)
		assert.True(t, errors.Is(err, ErrNotFound))

		err = repo.Remove(ctx, testBook.ISBN)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, newRepo(t).Ping(ctx))
	})
}
