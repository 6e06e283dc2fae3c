package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ipede/negocio-verification-service/internal/application"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/jwt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPasswordReset struct{}

func (stubPasswordReset) RequestReset(context.Context, string) {}

func (stubPasswordReset) CheckResetCode(context.Context, string, string) error { return nil }

func (stubPasswordReset) ConfirmReset(context.Context, string, string, string) error { return nil }

type stubRegistration struct{}

func (stubRegistration) RequestCode(context.Context, string, *int64) error { return nil }

func (stubRegistration) ConfirmCode(_ context.Context, email, _ string) (*application.RegistrationVerification, error) {
	return &application.RegistrationVerification{Email: email}, nil
}

type stubMaintenance struct{}

func (stubMaintenance) PurgeExpired(context.Context) (int64, error) { return 2, nil }

type stubHealth struct {
	err error
}

func (s stubHealth) Ping() error { return s.err }

func newTestRouter(t *testing.T, health HealthChecker) (*Router, *jwt.JWT) {
	t.Helper()
	signer, err := jwt.New("test-secret")
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"}))

	return NewRouter(Services{
		PasswordReset: stubPasswordReset{},
		Registration:  stubRegistration{},
		Maintenance:   stubMaintenance{},
		JWT:           signer,
		Health:        health,
		Metrics:       registry,

		AllowedOrigins: []string{"http://localhost:4200"},
	}, zap.NewNop()), signer
}

func TestRouter_PublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t, stubHealth{})

	tests := []struct {
		path string
		body string
	}{
		{"/api/auth/forgot-password", `{"email":"owner@example.com"}`},
		{"/api/auth/verify-reset-code", `{"email":"owner@example.com","code":"483920"}`},
		{"/api/auth/reset-password", `{"email":"owner@example.com","code":"483920","newPassword":"NewSecret1"}`},
		{"/api/auth/registration/send-code", `{"email":"new@example.com","planId":3}`},
		{"/api/auth/registration/verify-code", `{"email":"new@example.com","code":"555123"}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRouter_AdminRoutes(t *testing.T) {
	router, signer := newTestRouter(t, stubHealth{})
	admin, err := signer.GenerateToken("1", []string{"admin"}, time.Minute)
	require.NoError(t, err)

	t.Run("without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/verification-codes/expired", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("with admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/admin/verification-codes/expired", nil)
		req.Header.Set("Authorization", "Bearer "+admin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":2}`, w.Body.String())
	})
}

func TestRouter_AdminRoutesDisabled(t *testing.T) {
	router := NewRouter(Services{
		PasswordReset: stubPasswordReset{},
		Registration:  stubRegistration{},
		Maintenance:   stubMaintenance{},
		Health:        stubHealth{},
		Metrics:       prometheus.NewRegistry(),
	}, zap.NewNop())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/admin/verification-codes/expired", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORS(t *testing.T) {
	router, _ := newTestRouter(t, stubHealth{})

	t.Run("preflight from frontend", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/forgot-password", nil)
		req.Header.Set("Origin", "http://localhost:4200")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/forgot-password", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		health         HealthChecker
		expectedStatus int
	}{
		{"health", "/health", stubHealth{}, http.StatusOK},
		{"live", "/health/live", stubHealth{}, http.StatusOK},
		{"ready", "/health/ready", stubHealth{}, http.StatusOK},
		{"not ready", "/health/ready", stubHealth{err: errors.New("down")}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t, tt.health)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	router, _ := newTestRouter(t, stubHealth{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "router_test_total")
}
