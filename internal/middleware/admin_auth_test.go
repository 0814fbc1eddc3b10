package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubValidator struct{ err error }

func (s stubValidator) ValidateToken(string) error { return s.err }

func TestAdminAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid token passes through", func(t *testing.T) {
		handler := AdminAuth(stubValidator{})(next)
		req := httptest.NewRequest(http.MethodPost, "/admin/packages", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		handler := AdminAuth(stubValidator{err: errors.New("expired")})(next)
		req := httptest.NewRequest(http.MethodPost, "/admin/packages", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		handler := AdminAuth(stubValidator{})(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/packages", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}
