package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const AccessToken TokenKind = "access"

// Roles allowed to change a panel's breakers
const (
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

var (
	ErrNoSigningKey = errors.New("no private key configured")
	ErrInvalidToken = errors.New("invalid token")
)

type JWTManager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// Claims is the verified subset of an access token the API relies on
type Claims struct {
	Subject string
	Kind    TokenKind
	Roles   []string
	JTI     string
	Expires time.Time
}

// CanEdit reports whether the token grants breaker edits
func (c *Claims) CanEdit() bool {
	return slices.Contains(c.Roles, RoleEditor) || slices.Contains(c.Roles, RoleAdmin)
}

// NewJWTManager loads the RSA key pair. The private key is optional: the API
// server only verifies, panelctl token also signs.
func NewJWTManager(privatePath, publicPath, issuer string) (*JWTManager, error) {
	m := &JWTManager{issuer: issuer}

	pubPem, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	m.publicKey, err = jwt.ParseRSAPublicKeyFromPEM(pubPem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	if privatePath == "" {
		return m, nil
	}
	privPem, err := os.ReadFile(privatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m, nil
		}
		return nil, fmt.Errorf("read private key: %w", err)
	}
	m.privateKey, err = jwt.ParseRSAPrivateKeyFromPEM(privPem)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return m, nil
}

// GenerateAccessToken signs an RS256 access token for the subject
func (m *JWTManager) GenerateAccessToken(subject string, roles []string, ttl time.Duration) (string, time.Time, error) {
	if m.privateKey == nil {
		return "", time.Time{}, ErrNoSigningKey
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"iss": m.issuer,
		"sub": subject,
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"jti": uuid.New().String(),
		"typ": string(AccessToken),
	}
	if len(roles) > 0 {
		claims["roles"] = roles
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenStr, err := token.SignedString(m.privateKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenStr, exp, nil
}

// VerifyToken checks the RS256 signature, expiry and issuer and returns the claims
func (m *JWTManager) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.publicKey, nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	out := &Claims{}
	out.Subject, _ = mc["sub"].(string)
	kind, _ := mc["typ"].(string)
	out.Kind = TokenKind(kind)
	out.JTI, _ = mc["jti"].(string)
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.Expires = exp.Time
	}
	if raw, ok := mc["roles"].([]interface{}); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				out.Roles = append(out.Roles, s)
			}
		}
	}
	return out, nil
}
