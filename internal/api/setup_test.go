package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

const testSecret = "test-secret"

// 1x1 transparent png
const pngDataURI = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupTestDatabase(t)
	cfg := &config.Config{
		JWTSecret: testSecret,
		JWTTTL:    time.Hour,
		MediaRoot: t.TempDir(),
		MediaURL:  "/media",
	}
	r := router.SetupRouter(router.Dependencies{
		Config: cfg,
		DB:     db,
		Images: service.NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL),
	})
	return &testServer{
		t:      t,
		db:     db,
		router: r,
		auth:   service.NewAuthService(db, testSecret, time.Hour),
	}
}

func (s *testServer) token(user *models.User) string {
	s.t.Helper()
	token, err := s.auth.GenerateToken(user)
	require.NoError(s.t, err)
	return token
}

// do sends a request; user may be nil for anonymous calls
func (s *testServer) do(method, path string, user *models.User, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(user))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func newRequest(method, path string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, path, body)
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
