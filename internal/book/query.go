package book

import (
	"fmt"
	"strings"
)

// Statements use $N placeholders, which both pgx and SQLite accept. Values
// never enter the SQL text; column names come from Columns only.

var selectColumns = strings.Join(Columns, ", ")

var (
	findOneSQL = fmt.Sprintf(`SELECT %s FROM books WHERE isbn = $1`, selectColumns)

	createSQL = fmt.Sprintf(`
		INSERT INTO books (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, selectColumns, selectColumns)

	updateSQL = fmt.Sprintf(`
		UPDATE books
		SET amazon_url = $1, author = $2, language = $3, pages = $4,
		    publisher = $5, title = $6, year = $7
		WHERE isbn = $8
		RETURNING %s`, selectColumns)

	removeSQL = `DELETE FROM books WHERE isbn = $1`
)

func buildFindAll(f Filter) (string, []any) {
	clauses := []string{}
	args := []any{}
	argn := 1

	for _, col := range Columns {
		v, ok := f[col]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, argn))
		args = append(args, v)
		argn++
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return fmt.Sprintf("SELECT %s FROM books%s ORDER BY title, isbn", selectColumns, where), args
}

func createArgs(b Book) []any {
	return []any{b.ISBN, b.AmazonURL, b.Author, b.Language, b.Pages, b.Publisher, b.Title, b.Year}
}

func updateArgs(isbn string, b Book) []any {
	return []any{b.AmazonURL, b.Author, b.Language, b.Pages, b.Publisher, b.Title, b.Year, isbn}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (Book, error) {
	var b Book
	err := row.Scan(&b.ISBN, &b.AmazonURL, &b.Author, &b.Language, &b.Pages, &b.Publisher, &b.Title, &b.Year)
	return b, err
}
