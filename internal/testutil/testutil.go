package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
)

// NewRequest creates a new HTTP request for testing. A string body is sent
// as-is; anything else is JSON encoded.
func NewRequest(method, path string, body any) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		encoded, _ := json.Marshal(b)
		reader = bytes.NewReader(encoded)
	}

	r := httptest.NewRequest(method, path, reader)
	if reader != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
	Raw    []byte
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
		Raw:    bodyBytes,
	}
}

// Decode unmarshals the recorded body into v.
func (r RecordResponse) Decode(v any) error {
	return json.Unmarshal(r.Raw, v)
}

// Serve runs one request through h and records the response.
func Serve(h http.Handler, r *http.Request) RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return RecordHTTPResponse(w)
}
