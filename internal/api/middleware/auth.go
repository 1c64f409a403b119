package middleware

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID string
	Email  string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller identity when the request carried a
// valid token.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Auth inspects the Authorization header and, when it holds a valid
// bearer token, attaches the caller identity to the request context.
// Requests without a usable token continue as anonymous — resolvers
// decide whether authentication is required.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return next(c)
			}

			userID, _ := claims["userId"].(string)
			email, _ := claims["email"].(string)
			if userID == "" {
				return next(c)
			}

			ctx := WithIdentity(c.Request().Context(), Identity{UserID: userID, Email: email})
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
