package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"dishes-be/internal/middleware"
)

const (
	aliceID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	bobID   = "5f0c6c1e-4a55-4c3b-9d52-8f8a0e6d1a01"
	dishID  = "0d6a3f0e-2b7c-4e1a-9f3d-6c5b4a392817"

	testUserHeader = "X-Test-User"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

// asCaller stands in for AuthMiddleware: the caller id comes from a header.
func asCaller(c *gin.Context) {
	if id := c.GetHeader(testUserHeader); id != "" {
		c.Set(middleware.UserIDKey, id)
	}
	c.Next()
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(asCaller)
	return r
}

func perform(r http.Handler, method, path, caller string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(testUserHeader, caller)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}
