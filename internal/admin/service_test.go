package admin

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T, pin string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	return NewService(hash, []byte("test-signing-secret"))
}

func TestVerifyPINIssuesValidToken(t *testing.T) {
	svc := newTestService(t, "482913")

	token, err := svc.VerifyPIN("482913")
	if err != nil {
		t.Fatalf("VerifyPIN: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if err := svc.ValidateToken(token); err != nil {
		t.Errorf("ValidateToken: %v", err)
	}
}

func TestVerifyPINRejectsWrongPIN(t *testing.T) {
	svc := newTestService(t, "482913")
	if _, err := svc.VerifyPIN("000000"); !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("err = %v, want ErrInvalidPIN", err)
	}
}

func TestVerifyPINUnconfigured(t *testing.T) {
	svc := NewService(nil, []byte("secret"))
	if _, err := svc.VerifyPIN("482913"); err == nil {
		t.Fatal("missing hash must error")
	}
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestService(t, "482913")

	hash, _ := bcrypt.GenerateFromPassword([]byte("482913"), bcrypt.MinCost)
	other := NewService(hash, []byte("another-secret"))
	forged, err := other.VerifyPIN("482913")
	if err != nil {
		t.Fatalf("VerifyPIN: %v", err)
	}
	if err := svc.ValidateToken(forged); err == nil {
		t.Error("token signed with another secret must be rejected")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t, "482913")
	if err := svc.ValidateToken("not-a-jwt"); err == nil {
		t.Error("garbage token must be rejected")
	}
}
