package session

import (
	"testing"
	"time"

	"bookvault/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	user := domain.User{ID: 42, Name: "bookworm", Email: "b@example.com"}

	token, err := m.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	uid, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if uid != 42 {
		t.Fatalf("user id = %d, want 42", uid)
	}
	if claims.Email != "b@example.com" || claims.Name != "bookworm" {
		t.Fatalf("claims = %+v, want name/email carried over", claims)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Issue(domain.User{ID: 1})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Fatalf("expected verification failure for wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)
	m.ttl = -time.Minute // force issuance in the past
	token, err := m.Issue(domain.User{ID: 1})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Verify(token); err == nil {
		t.Fatalf("expected verification failure for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	if _, err := m.Verify("not-a-token"); err == nil {
		t.Fatalf("expected verification failure for malformed token")
	}
}

func TestDefaultTTLApplied(t *testing.T) {
	m := NewManager("test-secret", 0)
	if m.ttl != DefaultTTL {
		t.Fatalf("ttl = %v, want %v", m.ttl, DefaultTTL)
	}
	token, err := m.Issue(domain.User{ID: 7})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < DefaultTTL-time.Minute || ttl > DefaultTTL {
		t.Fatalf("expiry %v from now, want about %v", ttl, DefaultTTL)
	}
}
