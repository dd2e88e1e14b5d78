package main

import (
	"context"
	"errors"
	"log"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/database"
	"bookcatalog/internal/platform/logger"

	"go.uber.org/zap"
)

var sampleBooks = []book.Book{
	{
		ISBN:      "0691161518",
		AmazonURL: "http://a.co/eobPtX2",
		Author:    "Matthew Lane",
		Language:  "english",
		Pages:     264,
		Publisher: "Princeton University Press",
		Title:     "Power-Up: Unlocking the Hidden Mathematics in Video Games",
		Year:      2017,
	},
	{
		ISBN:      "0262033844",
		AmazonURL: "https://a.co/d/8xK2fQe",
		Author:    "Thomas H. Cormen",
		Language:  "english",
		Pages:     1312,
		Publisher: "MIT Press",
		Title:     "Introduction to Algorithms",
		Year:      2009,
	},
	{
		ISBN:      "0134190440",
		AmazonURL: "https://a.co/d/3gYwQpL",
		Author:    "Alan A. A. Donovan",
		Language:  "english",
		Pages:     380,
		Publisher: "Addison-Wesley",
		Title:     "The Go Programming Language",
		Year:      2015,
	},
	{
		ISBN:      "8420412147",
		AmazonURL: "https://a.co/d/5hTzRmN",
		Author:    "Gabriel García Márquez",
		Language:  "spanish",
		Pages:     471,
		Publisher: "Alfaguara",
		Title:     "Cien años de soledad",
		Year:      2007,
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	repo, closeStore, err := open(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("open store", zap.Error(err))
	}
	defer closeStore()

	inserted, err := seed(ctx, repo, sampleBooks)
	if err != nil {
		zl.Fatal("seed failed", zap.Error(err))
	}
	zl.Info("seed complete", zap.Int("inserted", inserted), zap.Int("sample_size", len(sampleBooks)))
}

// seed inserts every book whose ISBN is not stored yet.
func seed(ctx context.Context, repo book.Repository, books []book.Book) (int, error) {
	inserted := 0
	for _, b := range books {
		_, err := repo.FindOne(ctx, b.ISBN)
		if err == nil {
			continue
		}
		if !errors.Is(err, book.ErrNotFound) {
			return inserted, err
		}
		if _, err := repo.Create(ctx, b); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func open(ctx context.Context, cfg config.Config, zl *zap.Logger) (book.Repository, func(), error) {
	if cfg.DBDriver == "sqlite" {
		db, err := database.OpenSQLite(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db, cfg.DBDriver, cfg.MigrationsDir, zl); err != nil {
			db.Close()
			return nil, nil, err
		}
		return book.NewSQLiteRepo(db, cfg.DBTimeout), func() { _ = db.Close() }, nil
	}

	pool, err := database.OpenPostgres(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	return book.NewPostgresRepo(pool, cfg.DBTimeout), pool.Close, nil
}
