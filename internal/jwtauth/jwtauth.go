package jwtauth

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Identity is the slice of the access-token claims this service needs.
// Token issuance lives in the auth service, here we only verify.
type Identity struct {
	UserID uint
	Role   string
}

func parseClaims(c echo.Context, secret []byte) (jwt.MapClaims, error) {
	cookie, err := c.Cookie("accessToken")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing auth cookie")
	}
	tokenString := cookie.Value
	if tokenString == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token: "+err.Error())
	}
	if !token.Valid {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func FromContext(c echo.Context, secret []byte) (Identity, error) {
	claims, err := parseClaims(c, secret)
	if err != nil {
		return Identity{}, err
	}

	subRaw, ok := claims["sub"].(float64)
	if !ok {
		return Identity{}, echo.NewHTTPError(http.StatusBadRequest, "invalid subject claim")
	}

	role, _ := claims["role"].(string)

	return Identity{UserID: uint(subRaw), Role: role}, nil
}

// RequireLogin rejects requests without a valid access token and stores
// the identity on the echo context under "identity".
func RequireLogin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := FromContext(c, secret)
			if err != nil {
				return err
			}
			c.Set("identity", id)
			return next(c)
		}
	}
}

// RequireAdmin additionally demands the admin role claim.
func RequireAdmin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := FromContext(c, secret)
			if err != nil {
				return err
			}
			if id.Role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			c.Set("identity", id)
			return next(c)
		}
	}
}

// MustIdentity reads the identity stored by the middleware.
func MustIdentity(c echo.Context) (Identity, error) {
	id, ok := c.Get("identity").(Identity)
	if !ok {
		return Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
