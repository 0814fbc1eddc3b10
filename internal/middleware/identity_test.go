package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-identity-secret")

func mintToken(t *testing.T, secret []byte, providerID, sub, email string, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"email": email,
		"exp":   exp.Unix(),
		"user_metadata": map[string]any{
			"provider_id": providerID,
			"sub":         sub,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestVerifyExtractsDiscordIdentity(t *testing.T) {
	v := NewIdentityVerifier(testSecret)
	token := mintToken(t, testSecret, "907231041167716352", "", "user@example.com", time.Now().Add(time.Hour))

	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.DiscordID != "907231041167716352" {
		t.Errorf("discord id = %q", id.DiscordID)
	}
	if id.Email != "user@example.com" {
		t.Errorf("email = %q", id.Email)
	}
}

func TestVerifyFallsBackToMetadataSub(t *testing.T) {
	v := NewIdentityVerifier(testSecret)
	token := mintToken(t, testSecret, "", "907231041167716352", "", time.Now().Add(time.Hour))

	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.DiscordID != "907231041167716352" {
		t.Errorf("discord id = %q", id.DiscordID)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	v := NewIdentityVerifier(testSecret)

	cases := []struct {
		name  string
		token string
	}{
		{"wrong secret", mintToken(t, []byte("other-secret"), "1", "", "", time.Now().Add(time.Hour))},
		{"expired", mintToken(t, testSecret, "1", "", "", time.Now().Add(-time.Hour))},
		{"no discord identity", mintToken(t, testSecret, "", "", "user@example.com", time.Now().Add(time.Hour))},
		{"garbage", "not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := v.Verify(tc.token); err == nil {
				t.Error("expected verification failure")
			}
		})
	}
}

func TestIdentityAuthMiddleware(t *testing.T) {
	v := NewIdentityVerifier(testSecret)
	var seen *Identity
	handler := IdentityAuth(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "907231041167716352", "", "user@example.com", time.Now().Add(time.Hour)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if seen == nil || seen.DiscordID != "907231041167716352" {
			t.Errorf("identity in context = %+v", seen)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}
