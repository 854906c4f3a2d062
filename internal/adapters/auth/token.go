package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventmanagement/internal/domain"
)

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Username  string `json:"username"`
	TokenType string `json:"typ"`
}

// JWTManager issues and verifies HS256 access and refresh tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewJWTManager returns a JWTManager signing with secret. It implements both
// domain.TokenIssuer and domain.TokenVerifier.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccess signs a short-lived access token for the user.
func (m *JWTManager) IssueAccess(userID, username string) (string, error) {
	return m.issue(userID, username, TokenTypeAccess, m.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for the user.
func (m *JWTManager) IssueRefresh(userID, username string) (string, error) {
	return m.issue(userID, username, TokenTypeRefresh, m.refreshTTL)
}

func (m *JWTManager) issue(userID, username, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:  username,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify accepts a valid access token and returns its subject.
func (m *JWTManager) Verify(token string) (string, error) {
	return m.verify(token, TokenTypeAccess)
}

// VerifyRefresh accepts a valid refresh token and returns its subject.
func (m *JWTManager) VerifyRefresh(token string) (string, error) {
	return m.verify(token, TokenTypeRefresh)
}

func (m *JWTManager) verify(token, wantType string) (string, error) {
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("%w: expired", domain.ErrInvalidToken)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return "", fmt.Errorf("%w: expected %s token", domain.ErrInvalidToken, wantType)
	}
	return claims.Subject, nil
}
