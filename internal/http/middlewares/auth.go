package middleware

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"

	apperrors "farm-task-service.com/farm-task-service/internal/errors"
	model "farm-task-service.com/farm-task-service/internal/models"
)

const actorKey = "actor"

// JWTAuth requires an HS256 bearer token and stores its subject as the
// acting user of the request.
func JWTAuth(secret string) echo.MiddlewareFunc {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw := strings.TrimPrefix(header, "Bearer ")
			if header == "" || raw == header {
				return apperrors.ErrUnauthorized
			}

			token, err := jwt.Parse(raw, keyFunc)
			if err != nil || !token.Valid {
				return apperrors.ErrUnauthorized
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return apperrors.ErrUnauthorized
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				return apperrors.ErrUnauthorized
			}

			c.Set(actorKey, model.Actor{UserID: sub})
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (model.Actor, bool) {
	actor, ok := c.Get(actorKey).(model.Actor)
	return actor, ok
}

// SignToken issues an HS256 token for userID. Used by tooling and tests.
func SignToken(secret, userID string, claims jwt.MapClaims) (string, error) {
	all := jwt.MapClaims{"sub": userID}
	for k, v := range claims {
		all[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, all).SignedString([]byte(secret))
}
