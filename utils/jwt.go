package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cppla/blogapi/models"
)

// Identity is the token payload and the value attached to authenticated requests.
type Identity struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// Claims defines JWT claims: the identity plus the expiry, nothing else.
type Claims struct {
	UserID string      `json:"id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. There is no revocation list;
// a token stays valid until it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret, tokens live for ttl.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the given identity.
func (s *TokenService) Issue(id Identity) (string, error) {
	claims := Claims{
		UserID: id.ID,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates signature and expiry and returns the identity the token was issued for.
// Every failure is reported as Unauthorized.
func (s *TokenService) Verify(tokenStr string) (*Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, NewUnauthorizedError("Token not valid!").WithCause(err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, NewUnauthorizedError("Token not valid!")
	}

	return &Identity{ID: claims.UserID, Role: claims.Role}, nil
}
