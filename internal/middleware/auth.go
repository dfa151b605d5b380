// Package middleware provides HTTP middleware shared by the API: authentication,
// structured logging, metrics, rate limiting and tracing.
package middleware

import (
	"context"
	"errors"
	"strings"

	"vidtube/internal/config"
	"vidtube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalUserID is the fiber.Locals key holding the authenticated caller's id.
const LocalUserID = "userID"

var (
	errMissingToken  = errors.New("authorization required")
	errInvalidToken  = errors.New("invalid or expired token")
	errInvalidIssuer = errors.New("invalid token issuer")
	errInvalidAud    = errors.New("invalid token audience")
	errInvalidSub    = errors.New("invalid user ID in token")
)

// ParseCaller verifies a bearer token and returns the caller id from its subject.
// Token issuance lives outside this service; only verification happens here.
func ParseCaller(cfg *config.Config, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, errMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errInvalidToken
	}

	if cfg.JWTIssuer != "" {
		if iss, _ := claims.GetIssuer(); iss != cfg.JWTIssuer {
			return uuid.Nil, errInvalidIssuer
		}
	}
	if cfg.JWTAudience != "" {
		aud, _ := claims.GetAudience()
		found := false
		for _, a := range aud {
			if a == cfg.JWTAudience {
				found = true
				break
			}
		}
		if !found {
			return uuid.Nil, errInvalidAud
		}
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, errInvalidSub
	}
	id, err := uuid.Parse(sub)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errInvalidSub
	}
	return id, nil
}

// AuthRequired rejects requests without a valid bearer token and stores the
// caller id in c.Locals(LocalUserID) and the user context.
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if parts := strings.SplitN(c.Get("Authorization"), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = strings.TrimSpace(parts[1])
		}

		callerID, err := ParseCaller(cfg, tokenString)
		if err != nil {
			msg := strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
		}

		c.Locals(LocalUserID, callerID)
		c.SetUserContext(WithUserID(c.UserContext(), callerID))
		return c.Next()
	}
}

// CallerID returns the authenticated caller stored by AuthRequired.
func CallerID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalUserID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// CallerFromContext returns the caller id carried by ctx, if any.
func CallerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}
