package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssets() fstest.MapFS {
	return fstest.MapFS{
		"index.html": {Data: []byte("<!DOCTYPE html><title>tubefetch</title>")},
		"script.js":  {Data: []byte("console.log('ok')")},
	}
}

func TestPageHandlerIndex(t *testing.T) {
	handler := PageHandler{Assets: testAssets()}

	rec := httptest.NewRecorder()
	handler.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>tubefetch</title>")
}

func TestPageHandlerIndexMissing(t *testing.T) {
	rec := httptest.NewRecorder()
	PageHandler{Assets: fstest.MapFS{}}.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	PageHandler{}.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageHandlerStatic(t *testing.T) {
	handler := PageHandler{Assets: testAssets()}.Static()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/script.js", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log('ok')", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/missing.css", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
