package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cozy-creator/cropscan/internal/app"
	"github.com/cozy-creator/cropscan/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:              5000,
		Host:              "127.0.0.1",
		Environment:       "test",
		Predictor:         "mock",
		PreprocessWorkers: 1,
		MaxUploadMB:       1,
		SecretKey:         "test-secret",
	}

	a, err := app.NewApp(cfg, app.WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(a.Close)

	s, err := NewServer(cfg)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	s.SetupRoutes(a)

	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestNewServerAddr(t *testing.T) {
	s := newTestServer(t)

	if s.Addr() != "127.0.0.1:5000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:5000", s.Addr())
	}
}

func TestHealthz(t *testing.T) {
	w := do(newTestServer(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestIndexPage(t *testing.T) {
	w := do(newTestServer(t), httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `id="upload-form"`) {
		t.Error("index page missing upload form")
	}
	if strings.Contains(w.Body.String(), `id="page-error"`) {
		t.Error("index page rendered an error without one")
	}
}

func TestNotFoundPage(t *testing.T) {
	w := do(newTestServer(t), httptest.NewRequest(http.MethodGet, "/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Page not found") {
		t.Error("404 page missing error message")
	}
}

func TestAnalyzeRejectsGet(t *testing.T) {
	w := do(newTestServer(t), httptest.NewRequest(http.MethodGet, "/analyze", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	w := do(newTestServer(t), httptest.NewRequest(http.MethodGet, "/static/js/main.js", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/analyze") {
		t.Error("main.js does not post to /analyze")
	}
}

func TestServerErrorPage(t *testing.T) {
	s := newTestServer(t)
	s.ginEngine.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := do(s, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Server error occurred") {
		t.Error("500 page missing error message")
	}
}

func TestAnalyzeRoute(t *testing.T) {
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 30))); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "leaf.png")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	_, _ = fw.Write(img.Bytes())
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := do(newTestServer(t), req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	want := `{"xmin":50,"ymin":40,"xmax":200,"ymax":180,"label":"wheat_healthy","score":0.98}`
	if w.Body.String() != want {
		t.Errorf("body = %s, want %s", w.Body.String(), want)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestAnalyzeRouteNoFile(t *testing.T) {
	w := do(newTestServer(t), httptest.NewRequest(http.MethodPost, "/analyze", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if w.Body.String() != `{"error":"No file part"}` {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGetGinMode(t *testing.T) {
	tests := map[string]string{
		"dev":  gin.DebugMode,
		"test": gin.TestMode,
		"prod": gin.ReleaseMode,
		"":     gin.ReleaseMode,
	}

	for env, want := range tests {
		if got := getGinMode(env); got != want {
			t.Errorf("getGinMode(%q) = %q, want %q", env, got, want)
		}
	}
}
