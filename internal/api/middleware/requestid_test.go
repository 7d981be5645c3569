package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("%s = %q, want a UUID: %v", RequestIDHeader, id, err)
	}
	if w.Body.String() != id {
		t.Errorf("RequestID() = %q, want %q", w.Body.String(), id)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("%s = %q, want abc-123", RequestIDHeader, got)
	}
	if w.Body.String() != "abc-123" {
		t.Errorf("RequestID() = %q, want abc-123", w.Body.String())
	}
}
