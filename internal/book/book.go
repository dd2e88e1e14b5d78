package book

import (
	_ "embed"
	"net/url"
	"strconv"
	"sync"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/schema"
)

// ErrNotFound matches the error returned when no book has the requested ISBN.
var ErrNotFound = apperr.ErrNotFound

// Book represents one catalog item. ISBN is the primary key.
type Book struct {
	ISBN      string `json:"isbn"`
	AmazonURL string `json:"amazon_url"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

// Columns lists the books table columns in select order. List filters are
// only accepted for these names.
var Columns = []string{"isbn", "amazon_url", "author", "language", "pages", "publisher", "title", "year"}

var integerColumns = map[string]bool{"pages": true, "year": true}

// Filter holds equality conditions keyed by column name.
type Filter map[string]any

// ParseFilter builds a Filter from query parameters. Unknown keys are
// ignored; integer columns must carry integer values.
func ParseFilter(values url.Values) (Filter, error) {
	f := Filter{}
	var messages []string
	for _, col := range Columns {
		if !values.Has(col) {
			continue
		}
		raw := values.Get(col)
		if !integerColumns[col] {
			f[col] = raw
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			messages = append(messages, col+": must be an integer")
			continue
		}
		f[col] = n
	}
	if len(messages) > 0 {
		return nil, apperr.Validation(messages...)
	}
	return f, nil
}

//go:embed book.schema.json
var schemaDoc []byte

var (
	compiledOnce sync.Once
	compiled     *schema.Schema
)

// Schema returns the compiled book payload schema.
func Schema() *schema.Schema {
	compiledOnce.Do(func() {
		compiled = schema.MustCompile("book.schema.json", schemaDoc)
	})
	return compiled
}
