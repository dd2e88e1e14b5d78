package book

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookcatalog/internal/apperr"
)

// SQLiteRepo stores books through database/sql. It backs single-node
// deployments (DB_DRIVER=sqlite) and the repository tests.
type SQLiteRepo struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLiteRepo(db *sql.DB, timeout time.Duration) *SQLiteRepo {
	return &SQLiteRepo{db: db, timeout: timeout}
}

func (r *SQLiteRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *SQLiteRepo) FindAll(ctx context.Context, f Filter) ([]Book, error) {
	query, args := buildFindAll(f)

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(timeoutCtx, query, args...)
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

func (r *SQLiteRepo) FindOne(ctx context.Context, isbn string) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRowContext(timeoutCtx, findOneSQL, isbn))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, apperr.NotFound("book", isbn)
		}
		return Book{}, apperr.DataAccess("find one", err)
	}
	return b, nil
}

func (r *SQLiteRepo) Create(ctx context.Context, b Book) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	created, err := scanBook(r.db.QueryRowContext(timeoutCtx, createSQL, createArgs(b)...))
	if err != nil {
		return Book{}, apperr.DataAccess("create", err)
	}
	return created, nil
}

func (r *SQLiteRepo) Update(ctx context.Context, isbn string, b Book) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	updated, err := scanBook(r.db.QueryRowContext(timeoutCtx, updateSQL, updateArgs(isbn, b)...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Book{}, apperr.NotFound("book", isbn)
		}
		return Book{}, apperr.DataAccess("update", err)
	}
	return updated, nil
}

func (r *SQLiteRepo) Remove(ctx context.Context, isbn string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(timeoutCtx, removeSQL, isbn)
	if err != nil {
		return apperr.DataAccess("remove", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.DataAccess("remove", err)
	}
	if n == 0 {
		return apperr.NotFound("book", isbn)
	}
	return nil
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
