package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/mdsabbir/vaxchain/internal/domain"
)

// Claims carries the identity issued by the external auth provider. Only
// the subject and role are consumed here.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ParseValidate verifies the token signature and returns the user identity.
func ParseValidate(tokenStr, secret string) (*domain.User, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return nil, errors.New("invalid subject")
	}
	role := domain.Role(c.Role)
	if role != domain.RolePatient && role != domain.RoleDoctor {
		return nil, errors.New("unknown role")
	}
	return &domain.User{ID: id, Role: role}, nil
}

// IssueToken signs a token for the given identity. The API never issues
// tokens in the request path; this exists for tests and local tooling.
func IssueToken(user domain.User, secret string, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
