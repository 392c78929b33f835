package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeKeys generates a throwaway RSA pair under dir
func writeKeys(t *testing.T, dir string) (priv, pub string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}

	priv = filepath.Join(dir, "jwt_private.pem")
	privBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	if err := os.WriteFile(priv, privBytes, 0o600); err != nil {
		t.Fatal(err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	pub = filepath.Join(dir, "jwt_public.pem")
	if err := os.WriteFile(pub, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}), 0o644); err != nil {
		t.Fatal(err)
	}
	return priv, pub
}

func TestGenerateAndVerify(t *testing.T) {
	priv, pub := writeKeys(t, t.TempDir())
	m, err := NewJWTManager(priv, pub, "breakerbox")
	if err != nil {
		t.Fatalf("NewJWTManager failed: %v", err)
	}

	tok, exp, err := m.GenerateAccessToken("alice", []string{RoleEditor}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry %v is in the past", exp)
	}

	claims, err := m.VerifyToken(tok)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.Subject != "alice" || claims.Kind != AccessToken || claims.JTI == "" {
		t.Errorf("claims = %+v", claims)
	}
	if !claims.CanEdit() {
		t.Error("editor token should allow edits")
	}
}

func TestVerifyRejects(t *testing.T) {
	dir := t.TempDir()
	priv, pub := writeKeys(t, dir)
	m, err := NewJWTManager(priv, pub, "breakerbox")
	if err != nil {
		t.Fatal(err)
	}

	expired, _, err := m.GenerateAccessToken("bob", nil, -time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyToken(expired); err == nil {
		t.Error("expected expired token to be rejected")
	}

	other, err := NewJWTManager(priv, pub, "someone-else")
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, err := other.GenerateAccessToken("bob", nil, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.VerifyToken(foreign); err == nil {
		t.Error("expected wrong issuer to be rejected")
	}

	if _, err := m.VerifyToken("not-a-token"); err == nil {
		t.Error("expected garbage to be rejected")
	}
}

func TestVerifyOnlyManager(t *testing.T) {
	_, pub := writeKeys(t, t.TempDir())
	m, err := NewJWTManager(filepath.Join(t.TempDir(), "missing.pem"), pub, "breakerbox")
	if err != nil {
		t.Fatalf("missing private key should be allowed: %v", err)
	}
	if _, _, err := m.GenerateAccessToken("x", nil, time.Minute); !errors.Is(err, ErrNoSigningKey) {
		t.Errorf("expected ErrNoSigningKey, got %v", err)
	}

	if _, err := NewJWTManager("", filepath.Join(t.TempDir(), "nope.pem"), "breakerbox"); err == nil {
		t.Error("expected error for missing public key")
	}
}

func TestCanEdit(t *testing.T) {
	tests := []struct {
		roles []string
		want  bool
	}{
		{nil, false},
		{[]string{"viewer"}, false},
		{[]string{"viewer", RoleEditor}, true},
		{[]string{RoleAdmin}, true},
	}
	for _, tt := range tests {
		c := &Claims{Roles: tt.roles}
		if got := c.CanEdit(); got != tt.want {
			t.Errorf("CanEdit(%v) = %v, want %v", tt.roles, got, tt.want)
		}
	}
}
