package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"sukebei/config"
	"sukebei/handlers"
	"sukebei/services/source"
)

func newTestRouter() http.Handler {
	settings := handlers.NewSettingsHandler(config.NewManagerWithFs(afero.NewMemMapFs(), "settings.json"))
	sources := handlers.NewSourceHandler(source.NewRegistry())
	return NewRouter(settings, sources)
}

func TestRouter_RequestID(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sources", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/sources", nil)
	req.Header.Set(requestIDHeader, "caller-id")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "caller-id", rec.Header().Get(requestIDHeader))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/api/settings", "/api/sources", "/api/sources/sukebei/single"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestRouter_UnknownSource(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sources/nope/single?title=x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_DebugIsLocalOnly(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/debug/pprof/", nil)
	req.Host = "indexer.example:7777"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
