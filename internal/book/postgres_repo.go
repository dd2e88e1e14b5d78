package book

import (
	"context"
	"errors"
	"time"

	"bookcatalog/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) FindAll(ctx context.Context, f Filter) ([]Book, error) {
	query, args := buildFindAll(f)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, apperr.DataAccess("find all", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, apperr.DataAccess("find all", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DataAccess("find all", err)
	}
	return out, nil
}

func (r *PostgresRepo) FindOne(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, findOneSQL, isbn))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, apperr.NotFound("book", isbn)
		}
		return Book{}, apperr.DataAccess("find one", err)
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b Book) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	created, err := scanBook(r.db.QueryRow(timeoutCtx, createSQL, createArgs(b)...))
	if err != nil {
		return Book{}, apperr.DataAccess("create", err)
	}
	return created, nil
}

func (r *PostgresRepo) Update(ctx context.Context, isbn string, b Book) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	updated, err := scanBook(r.db.QueryRow(timeoutCtx, updateSQL, updateArgs(isbn, b)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, apperr.NotFound("book", isbn)
		}
		return Book{}, apperr.DataAccess("update", err)
	}
	return updated, nil
}

func (r *PostgresRepo) Remove(ctx context.Context, isbn string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, removeSQL, isbn)
	if err != nil {
		return apperr.DataAccess("remove", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("book", isbn)
	}
	return nil
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
