package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jaekwang-park/todo-lists/internal/model"
)

// maxBodyBytes caps request bodies; lists and items are small documents.
const maxBodyBytes = 1 << 20

// DecodeJSON reads a JSON request body into v. It writes a 400 and returns
// false when the body is missing or malformed.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "request body is required")
		return false
	}
	WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
	return false
}

// ParsePage reads the optional skip and batchSize query parameters.
func ParsePage(q url.Values) (model.Page, error) {
	var page model.Page
	var err error
	if page.Skip, err = nonNegative(q, "skip"); err != nil {
		return model.Page{}, err
	}
	if page.BatchSize, err = nonNegative(q, "batchSize"); err != nil {
		return model.Page{}, err
	}
	return page, nil
}

func nonNegative(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}

func parsePageOrFail(w http.ResponseWriter, r *http.Request) (model.Page, bool) {
	page, err := ParsePage(r.URL.Query())
	if err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return model.Page{}, false
	}
	return page, true
}

// pathParam returns the decoded route parameter. chi matches on RawPath
// when the request has one, so only those values still need unescaping.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
