package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/homebuilt/warranty-service/internal/domain"
)

const (
	tokenIssuer     = "warranty-service"
	tokenLeeway     = 30 * time.Second
	defaultTokenTTL = time.Hour
)

var errNoAccount = errors.New("token requires an account")

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewTokenManager builds a manager. A non-positive ttl falls back to one hour.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	ttl := time.Duration(ttlMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(tokenIssuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(tokenLeeway),
		),
	}
}

// AccessClaims is the token payload. The subject is the account id; Role and
// the homeowner or builder link record the scope the token was issued for.
type AccessClaims struct {
	Role        domain.AccountRole `json:"role"`
	HomeownerID string             `json:"homeowner_id,omitempty"`
	BuilderID   string             `json:"builder_id,omitempty"`
	jwt.RegisteredClaims
}

// AccountID returns the account the token was issued to.
func (c *AccessClaims) AccountID() string {
	return c.Subject
}

// Matches reports whether account still has the role and scope the token
// was issued for.
func (c *AccessClaims) Matches(account *domain.Account) bool {
	if account == nil || account.ID != c.Subject || account.Role != c.Role {
		return false
	}
	return c.HomeownerID == deref(account.HomeownerID) && c.BuilderID == deref(account.BuilderID)
}

// GenerateToken signs a token scoped to account.
func (tm *TokenManager) GenerateToken(account *domain.Account) (string, time.Time, error) {
	if account == nil || account.ID == "" {
		return "", time.Time{}, errNoAccount
	}
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &AccessClaims{
		Role:        account.Role,
		HomeownerID: deref(account.HomeownerID),
		BuilderID:   deref(account.BuilderID),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, issuer and expiry.
func (tm *TokenManager) ParseToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, err := tm.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}); err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	return claims, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
