package auth

import (
	"testing"
	"time"

	"github.com/erazemk/pixelpet/internal/model"
)

func testUser() *model.User {
	return &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}
}

func TestIssueAndValidate(t *testing.T) {
	issuer, err := NewIssuer("test-secret-key", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	token, issued, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if claims.UserID != 1 {
		t.Errorf("expected user_id 1, got %d", claims.UserID)
	}
	if claims.Username != "admin" {
		t.Errorf("expected username 'admin', got %q", claims.Username)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", claims.Role)
	}
	if claims.ID != issued.ID {
		t.Errorf("expected jti %q, got %q", issued.ID, claims.ID)
	}
}

func TestUniqueJTI(t *testing.T) {
	issuer, _ := NewIssuer("secret", time.Hour)

	_, a, _ := issuer.Issue(testUser())
	_, b, _ := issuer.Issue(testUser())
	if a.ID == b.ID {
		t.Error("expected distinct token ids")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	i1, _ := NewIssuer("secret1", time.Hour)
	i2, _ := NewIssuer("secret2", time.Hour)

	token, _, _ := i1.Issue(testUser())
	if _, err := i2.Validate(token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateInvalid(t *testing.T) {
	issuer, _ := NewIssuer("secret", time.Hour)
	if _, err := issuer.Validate("not-a-token"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestValidateExpired(t *testing.T) {
	issuer, _ := NewIssuer("secret", time.Hour)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	token, _, _ := issuer.Issue(testUser())

	issuer.now = func() time.Time { return start.Add(2 * time.Hour) }
	if _, err := issuer.Validate(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestNewIssuer(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}

	issuer, err := NewIssuer("secret", 0)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	if issuer.TTL() != DefaultTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultTTL, issuer.TTL())
	}
}
