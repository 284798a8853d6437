package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	issuer := "homely-test"
	ttl := 15 * time.Minute

	manager := NewJWTManager(secret, issuer, ttl)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	validatedID, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if validatedID != userID {
		t.Errorf("expected userID %s, got %s", userID, validatedID)
	}
}

func TestJWTManager_Validate_Empty(t *testing.T) {
	manager := NewJWTManager("test-secret-at-least-32-chars-long-for-security", "homely-test", time.Minute)

	if _, err := manager.ValidateAccessToken(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestJWTManager_Validate_WrongSecret(t *testing.T) {
	issuer := "homely-test"
	m1 := NewJWTManager("first-secret-at-least-32-chars-long-aaaa", issuer, time.Minute)
	m2 := NewJWTManager("other-secret-at-least-32-chars-long-bbbb", issuer, time.Minute)

	token, err := m1.GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := m2.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for token signed with different secret")
	}
}

func TestJWTManager_Validate_WrongIssuer(t *testing.T) {
	secret := "test-secret-at-least-32-chars-long-for-security"
	m1 := NewJWTManager(secret, "issuer-one", time.Minute)
	m2 := NewJWTManager(secret, "issuer-two", time.Minute)

	token, err := m1.GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = m2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer")
	}
	if !strings.Contains(err.Error(), "issuer") {
		t.Errorf("expected issuer error, got %v", err)
	}
}

func TestJWTManager_Validate_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret-at-least-32-chars-long-for-security", "homely-test", -time.Minute)

	token, err := manager.GenerateAccessToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected mismatch for wrong password")
	}
}
