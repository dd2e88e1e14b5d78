package book

import (
	"encoding/json"
	"math"
	"net/http"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/schema"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Routes mounts the book endpoints on mux. Writes pass through the payload
// schema first.
func (h *HTTPHandler) Routes(mux *http.ServeMux) {
	validate := schema.Middleware(Schema())

	mux.HandleFunc("GET /books", h.List)
	mux.HandleFunc("GET /books/{isbn}", h.Get)
	mux.Handle("POST /books", validate(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /books/{isbn}", validate(http.HandlerFunc(h.Update)))
	mux.HandleFunc("DELETE /books/{isbn}", h.Remove)
}

type listResponse struct {
	Books []Book `json:"books"`
}

type bookResponse struct {
	Book Book `json:"book"`
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	books, err := h.service.List(r.Context(), filter)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Books: books})
}

// Get handles GET /books/{isbn}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), r.PathValue("isbn"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookResponse{Book: b})
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBook(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), payload)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, bookResponse{Book: created})
}

// Update handles PUT /books/{isbn}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBook(r)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), r.PathValue("isbn"), payload)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bookResponse{Book: updated})
}

// Remove handles DELETE /books/{isbn}
func (h *HTTPHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), r.PathValue("isbn")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Book deleted"})
}

// bookPayload keeps pages and year as written. 300.0 and 3e2 are integers
// to the schema, so they must decode as integers here too.
type bookPayload struct {
	ISBN      string      `json:"isbn"`
	AmazonURL string      `json:"amazon_url"`
	Author    string      `json:"author"`
	Language  string      `json:"language"`
	Pages     json.Number `json:"pages"`
	Publisher string      `json:"publisher"`
	Title     string      `json:"title"`
	Year      json.Number `json:"year"`
}

func decodeBook(r *http.Request) (Book, error) {
	var p bookPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return Book{}, apperr.Validation("request body must be a book object")
	}

	var msgs []string
	pages, ok := wholeNumber(p.Pages)
	if !ok {
		msgs = append(msgs, "pages: must be an integer")
	}
	year, ok := wholeNumber(p.Year)
	if !ok {
		msgs = append(msgs, "year: must be an integer")
	}
	if len(msgs) > 0 {
		return Book{}, apperr.Validation(msgs...)
	}

	return Book{
		ISBN:      p.ISBN,
		AmazonURL: p.AmazonURL,
		Author:    p.Author,
		Language:  p.Language,
		Pages:     pages,
		Publisher: p.Publisher,
		Title:     p.Title,
		Year:      year,
	}, nil
}

func wholeNumber(n json.Number) (int, bool) {
	if i, err := n.Int64(); err == nil {
		if i < math.MinInt32 || i > math.MaxInt32 {
			return 0, false
		}
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
