package generates

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authgate/authgate"
	"github.com/authgate/authgate/errors"
)

// JWTAccessClaims jwt claims
type JWTAccessClaims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id,omitempty"`
	// Scope is space-separated per RFC 6749
	Scope string `json:"scope,omitempty"`
}

// NewJWTAccessGenerate create to generate the jwt access token instance
func NewJWTAccessGenerate(kid string, key []byte, method jwt.SigningMethod) *JWTAccessGenerate {
	return &JWTAccessGenerate{
		SignedKeyID:  kid,
		SignedKey:    key,
		SignedMethod: method,
	}
}

// JWTAccessGenerate generate the jwt access token
type JWTAccessGenerate struct {
	SignedKeyID  string
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
}

// Token signs an access token for the given authorization.
func (a *JWTAccessGenerate) Token(ctx context.Context, auth *authgate.Authorization, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTAccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{auth.ClientID},
			Subject:   auth.OwnerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
		ClientID: auth.ClientID,
		Scope:    auth.Scope.String(),
	}

	token := jwt.NewWithClaims(a.SignedMethod, claims)
	if a.SignedKeyID != "" {
		token.Header["kid"] = a.SignedKeyID
	}
	return token.SignedString(a.SignedKey)
}

// Verify implements authgate.TokenVerifier for tokens this generator
// signed. A valid token without a subject yields a BearerContext with
// an empty OwnerID; the caller decides what that means.
func (a *JWTAccessGenerate) Verify(ctx context.Context, tokenString string) (*authgate.BearerContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTAccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != a.SignedMethod.Alg() {
			return nil, errors.ErrInvalidGrant
		}
		return a.SignedKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.ErrAccessDenied
	}

	claims, ok := token.Claims.(*JWTAccessClaims)
	if !ok {
		return nil, errors.ErrAccessDenied
	}
	return &authgate.BearerContext{
		OwnerID:  claims.Subject,
		ClientID: claims.ClientID,
		Scope:    authgate.ParseScope(claims.Scope),
	}, nil
}
