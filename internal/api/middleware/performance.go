package middleware

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"sync"
)

// minCompressSize is the smallest body worth gzipping.
const minCompressSize = 512

var gzipWriterPool = sync.Pool{
	New: func() any {
		gz, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return gz
	},
}

// Compression gzips responses for clients that accept it. The body is
// buffered up to minCompressSize before deciding, so tiny payloads and
// bodyless statuses go out untouched.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Add("Vary", "Accept-Encoding")

		cw := &compressWriter{ResponseWriter: w}
		defer cw.finish()
		next.ServeHTTP(cw, r)
	})
}

func acceptsGzip(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		coding, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(coding, "gzip") {
			return true
		}
	}
	return false
}

// compressWriter holds back the status line until it knows whether the body
// will be compressed.
type compressWriter struct {
	http.ResponseWriter
	status      int
	buf         []byte
	gz          *gzip.Writer
	passthrough bool
}

func (cw *compressWriter) WriteHeader(status int) {
	if cw.status == 0 {
		cw.status = status
	}
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.status == 0 {
		cw.status = http.StatusOK
	}
	switch {
	case cw.gz != nil:
		return cw.gz.Write(b)
	case cw.passthrough:
		return cw.ResponseWriter.Write(b)
	}

	cw.buf = append(cw.buf, b...)
	if len(cw.buf) >= minCompressSize {
		if err := cw.start(); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

// start commits to compressing or not and flushes the buffered prefix.
func (cw *compressWriter) start() error {
	h := cw.Header()
	if cw.status < http.StatusOK || cw.status == http.StatusNoContent || cw.status == http.StatusNotModified ||
		h.Get("Content-Encoding") != "" || len(cw.buf) < minCompressSize {
		cw.passthrough = true
		cw.ResponseWriter.WriteHeader(cw.status)
		_, err := cw.ResponseWriter.Write(cw.buf)
		cw.buf = nil
		return err
	}

	h.Set("Content-Encoding", "gzip")
	h.Del("Content-Length")
	if etag := h.Get("ETag"); etag != "" && !strings.HasPrefix(etag, "W/") {
		h.Set("ETag", "W/"+etag)
	}
	cw.ResponseWriter.WriteHeader(cw.status)

	cw.gz = gzipWriterPool.Get().(*gzip.Writer)
	cw.gz.Reset(cw.ResponseWriter)
	_, err := cw.gz.Write(cw.buf)
	cw.buf = nil
	return err
}

func (cw *compressWriter) finish() {
	if cw.gz == nil && !cw.passthrough {
		if cw.status == 0 {
			return
		}
		_ = cw.start()
	}
	if cw.gz != nil {
		_ = cw.gz.Close()
		gzipWriterPool.Put(cw.gz)
		cw.gz = nil
	}
}

func (cw *compressWriter) Flush() {
	if cw.gz == nil && !cw.passthrough && cw.status != 0 {
		_ = cw.start()
	}
	if cw.gz != nil {
		_ = cw.gz.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// ETag adds a content hash to successful GET and HEAD responses and answers
// 304 when the client already holds that version.
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		rec := &bufferedResponse{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status != http.StatusOK {
			rec.flush()
			return
		}

		sum := sha256.Sum256(rec.body.Bytes())
		etag := `"` + hex.EncodeToString(sum[:16]) + `"`
		w.Header().Set("ETag", etag)

		if etagMatches(r.Header.Get("If-None-Match"), etag) {
			w.Header().Del("Content-Length")
			w.WriteHeader(http.StatusNotModified)
			return
		}
		rec.flush()
	})
}

// etagMatches applies the weak comparison of If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// bufferedResponse captures a handler's status and body
type bufferedResponse struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *bufferedResponse) WriteHeader(status int) {
	b.status = status
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	return b.body.Write(p)
}

func (b *bufferedResponse) flush() {
	b.ResponseWriter.WriteHeader(b.status)
	_, _ = b.ResponseWriter.Write(b.body.Bytes())
}

// CacheControl sets cache headers for read endpoints. Featured lists change
// rarely; search and match results are short lived; writes are never cached.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case r.Method != http.MethodGet && r.Method != http.MethodHead:
			w.Header().Set("Cache-Control", "no-store")
		case path == "/api/providers/featured":
			w.Header().Set("Cache-Control", "public, max-age=600, must-revalidate")
		case path == "/api/providers/suggest" || path == "/api/providers":
			w.Header().Set("Cache-Control", "public, max-age=120, must-revalidate")
		case strings.HasPrefix(path, "/api/providers/"):
			w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "private, no-cache, must-revalidate")
		}

		next.ServeHTTP(w, r)
	})
}

// ResponseOptimization combines cache control, compression and ETag. The
// ETag is taken over the uncompressed body.
func ResponseOptimization(next http.Handler) http.Handler {
	return CacheControl(Compression(ETag(next)))
}
