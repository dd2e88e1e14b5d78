package schema

import (
	"bytes"
	"io"
	"net/http"

	"bookcatalog/internal/apperr"
	"bookcatalog/internal/httpx"
)

// Middleware rejects requests whose body does not satisfy s. The body is
// handed to next byte-for-byte when it does.
func Middleware(s *Schema) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			_ = r.Body.Close()

			if messages := s.Validate(body); len(messages) > 0 {
				httpx.WriteError(w, r, &apperr.ValidationError{Messages: messages})
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
