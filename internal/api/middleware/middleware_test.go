package middleware_test

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/holistic-provider-directory/internal/api/middleware"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	handler := middleware.CORSMiddleware([]string{"https://directory.example"})(okHandler("{}"))

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("Origin", "https://directory.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "https://directory.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rr.Header().Get("Vary"))
}

func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	handler := middleware.CORSMiddleware([]string{"https://directory.example"})(okHandler("{}"))

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	handler := middleware.CORSMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/providers", nil)
	req.Header.Set("Origin", "https://any.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	handler := middleware.LoggingMiddleware(okHandler("{}"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
}

func TestETag_NotModified(t *testing.T) {
	handler := middleware.ETag(okHandler(`{"providers":[]}`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/providers", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestETag_SkipsWrites(t *testing.T) {
	handler := middleware.ETag(okHandler("{}"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/providers", nil))

	assert.Empty(t, rr.Header().Get("ETag"))
}

func TestCompression_Gzip(t *testing.T) {
	body := `{"providers":[` + strings.Repeat(`{"name":"Ridgeview Acupuncture","specialty":["Acupuncture"]},`, 20) + `{}]}`
	handler := middleware.Compression(okHandler(body))

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("Accept-Encoding", "deflate, gzip;q=0.8")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", rr.Header().Get("Vary"))
	reader, err := gzip.NewReader(rr.Body)
	require.NoError(t, err)
	decoded, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, body, string(decoded))
}

func TestCompression_SmallBodyUntouched(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/providers/1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	middleware.Compression(okHandler(`{"id":1}`)).ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Equal(t, `{"id":1}`, rr.Body.String())
}

func TestCompression_NoContent(t *testing.T) {
	handler := middleware.Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/providers/1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Zero(t, rr.Body.Len())
}

func TestCompression_Plain(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.Compression(okHandler("{}")).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/providers", nil))

	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "{}", rr.Body.String())
}

func TestETag_WeakAndListMatch(t *testing.T) {
	handler := middleware.ETag(okHandler(`{"count":0}`))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/providers", nil))
	etag := rr.Header().Get("ETag")

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("If-None-Match", `"stale", W/`+etag)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotModified, rr.Code)
}

func TestETag_SkipsErrors(t *testing.T) {
	handler := middleware.ETag(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"provider not found"}`))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/providers/99", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, rr.Header().Get("ETag"))
	assert.Contains(t, rr.Body.String(), "provider not found")
}

func TestResponseOptimization_ETagOverUncompressedBody(t *testing.T) {
	body := `{"providers":[` + strings.Repeat(`{"name":"Cedar Grove Naturopathy","specialty":["Naturopathic Medicine"]},`, 20) + `{}]}`
	handler := middleware.ResponseOptimization(okHandler(body))

	plain := httptest.NewRecorder()
	handler.ServeHTTP(plain, httptest.NewRequest(http.MethodGet, "/api/providers", nil))
	require.Equal(t, http.StatusOK, plain.Code)
	etag := plain.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, body, plain.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	gz := httptest.NewRecorder()
	handler.ServeHTTP(gz, req)
	require.Equal(t, "gzip", gz.Header().Get("Content-Encoding"))
	assert.Equal(t, "W/"+etag, gz.Header().Get("ETag"))

	req = httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("If-None-Match", gz.Header().Get("ETag"))
	revalidated := httptest.NewRecorder()
	handler.ServeHTTP(revalidated, req)
	assert.Equal(t, http.StatusNotModified, revalidated.Code)
	assert.Empty(t, revalidated.Header().Get("Content-Encoding"))
	assert.Empty(t, revalidated.Body.String())
}

func TestCacheControl(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/providers/featured", "public, max-age=600, must-revalidate"},
		{http.MethodGet, "/api/providers", "public, max-age=120, must-revalidate"},
		{http.MethodGet, "/api/providers/suggest", "public, max-age=120, must-revalidate"},
		{http.MethodGet, "/api/providers/7", "public, max-age=300, must-revalidate"},
		{http.MethodPost, "/api/providers/match", "no-store"},
		{http.MethodGet, "/api/applications/abc", "private, no-cache, must-revalidate"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			middleware.CacheControl(okHandler("{}")).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rr.Header().Get("Cache-Control"))
		})
	}
}

func TestObservabilityMiddleware_PassesThrough(t *testing.T) {
	handler := middleware.ObservabilityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/providers/12", nil))

	assert.Equal(t, http.StatusTeapot, rr.Code)
}
