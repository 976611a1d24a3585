package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"digital-ledger/auth"
	"digital-ledger/config"
	"digital-ledger/models"
	"digital-ledger/services"
	"digital-ledger/storage"
)

const testSecret = "router-test-secret"

// fakeStore satisfies storage.ObjectStore without touching the network.
type fakeStore struct {
	authorized int
}

func (f *fakeStore) Authorize(ctx context.Context, kind, filename, contentType string) (*storage.UploadAuthorization, error) {
	f.authorized++
	key := "uploads/" + kind + "/" + uuid.NewString()
	return &storage.UploadAuthorization{
		URL:       "https://store.test/bucket/" + key,
		Method:    "PUT",
		Key:       key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (f *fakeStore) Finalize(ctx context.Context, uploadURL string) (string, error) {
	return "https://cdn.test/uploads/finalized", nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	store  *fakeStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	cfg := &config.Config{
		FrontendURL: "http://localhost:5173",
		JWTSecret:   testSecret,
	}
	logger := zap.NewNop()
	// SMTP stays unconfigured: mail sends are skipped in tests.
	mailer, err := services.NewMailer(cfg, logger)
	require.NoError(t, err)

	store := &fakeStore{}
	return &testEnv{
		router: newRouter(cfg, db, store, mailer, logger),
		db:     db,
		store:  store,
	}
}

func mintToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	claims := auth.Claims{
		UserID: userID,
		Email:  fmt.Sprintf("user%d@x.test", userID),
		Name:   fmt.Sprintf("User %d", userID),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

type request struct {
	method  string
	path    string
	token   string
	body    interface{}
	headers map[string]string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	httpReq := httptest.NewRequest(req.method, req.path, body)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httpReq)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, request{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBrokenTokenIsRejected(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, request{method: http.MethodGet, path: "/api/news", token: "not-a-jwt"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
