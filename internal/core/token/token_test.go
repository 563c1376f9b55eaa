package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestManager_IssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	signed, err := m.Issue(42, "ana@x.com", "Ana", "Diaz")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := m.Verify(signed)
	if err != nil {
		t.Fatalf("Verify rejected a fresh token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Email != "ana@x.com" || claims.Name != "Ana" || claims.LastName != "Diaz" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Hour {
		t.Fatalf("expiry not set within TTL: %v", claims.ExpiresAt)
	}
}

func TestManager_Verify_Missing(t *testing.T) {
	m := NewManager("secret", time.Hour)
	if _, err := m.Verify(""); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestManager_Verify_Malformed(t *testing.T) {
	m := NewManager("secret", time.Hour)
	if _, err := m.Verify("not.a.token"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	other := NewManager("other-secret", time.Hour)
	signed, err := other.Issue(1, "a@b.co", "", "")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	m := NewManager("secret", time.Hour)
	if _, err := m.Verify(signed); !errors.Is(err, ErrSignature) {
		t.Fatalf("expected ErrSignature, got %v", err)
	}
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager("secret", time.Hour)

	now := time.Now()
	claims := Claims{
		Email: "a@b.co",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(signed); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

// A token signed with a different algorithm must be rejected even when its
// signature would check out under that algorithm.
func TestManager_Verify_AlgorithmPinned(t *testing.T) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	m := NewManager("secret", time.Hour)
	if _, err := m.Verify(signed); !errors.Is(err, ErrSignature) {
		t.Fatalf("expected ErrSignature for HS512 token, got %v", err)
	}
}

func TestManager_Verify_NonNumericSubject(t *testing.T) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "abc",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	m := NewManager("secret", time.Hour)
	if _, err := m.Verify(signed); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for non-numeric subject, got %v", err)
	}
}

func TestNewManager_DefaultTTL(t *testing.T) {
	m := NewManager("secret", 0)
	if m.TTL() != time.Hour {
		t.Fatalf("expected 1h default TTL, got %v", m.TTL())
	}
}
