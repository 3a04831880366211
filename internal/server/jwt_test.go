package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken("scoring-worker")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "scoring-worker", claims.Subject)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)

	token, err := svc.GenerateToken("scoring-worker")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Hour)

	token, err := svc.GenerateToken("scoring-worker")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_EmptyToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	_, err := svc.ValidateToken("")
	assert.Error(t, err)
}

func newAuthTestServer() *Server {
	return New(Config{Port: 0, JWTSecret: "test-secret"},
		newFakeStorage(), &fakeScorer{}, nil, nil, zap.NewNop())
}

func TestWithAuth_MissingToken(t *testing.T) {
	s := newAuthTestServer()

	body := bytes.NewBufferString(`{"title": "X", "description": "Y"}`)
	req := httptest.NewRequest(http.MethodPost, "/jobs", body)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuth_InvalidToken(t *testing.T) {
	s := newAuthTestServer()

	body := bytes.NewBufferString(`{"title": "X", "description": "Y"}`)
	req := httptest.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuth_ValidToken(t *testing.T) {
	s := newAuthTestServer()

	token, err := s.jwtService.GenerateToken("admin")
	require.NoError(t, err)

	body := bytes.NewBufferString(`{"title": "Backend Engineer", "description": "Go services"}`)
	req := httptest.NewRequest(http.MethodPost, "/jobs", body)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWithAuth_ReadsStayOpen(t *testing.T) {
	s := newAuthTestServer()

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
