package http

import (
	"fmt"
	"net/http"
	"strings"

	"fulfillment/internal/core/application/access"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const principalContextKey = "principal"

// AuthMiddleware validates the Bearer token and resolves the caller into an
// access.Principal stored on the request context. Identity is trusted from
// the token alone; participant checks happen per operation in the core.
func AuthMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			}

			principal, err := principalFromToken(tokenString, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			}

			c.Set(principalContextKey, principal)
			return next(c)
		}
	}
}

func principalFromToken(tokenString string, secret []byte) (access.Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return access.Principal{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return access.Principal{}, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return access.Principal{}, err
	}
	id, err := kernel.UUIDFromString(subject)
	if err != nil {
		return access.Principal{}, err
	}

	roleClaim, _ := claims["role"].(string)
	role, err := access.RoleFromString(roleClaim)
	if err != nil {
		return access.Principal{}, err
	}

	return access.NewPrincipal(id, role)
}

// principalFrom returns the principal resolved by AuthMiddleware.
func principalFrom(c echo.Context) (access.Principal, bool) {
	principal, ok := c.Get(principalContextKey).(access.Principal)
	return principal, ok
}
