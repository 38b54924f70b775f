// Package middleware provides authentication, logging and rate-limiting
// middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"okai/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the session token for browser
// clients that do not send an Authorization header.
const SessionCookieName = "okai_session"

// AuthRequired returns middleware that enforces authentication for protected
// routes. The identity is resolved from the Authorization header first, then
// from the session cookie. On success the user ID is stored in c.Locals("userID").
func AuthRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := extractToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "로그인이 필요합니다.",
				"code":  "AUTHENTICATION_REQUIRED",
			})
		}

		userID, ok := ParseUserID(tokenString, cfg.JWTSecret)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "유효하지 않은 세션입니다. 다시 로그인해주세요.",
				"code":  "AUTHENTICATION_REQUIRED",
			})
		}

		c.Locals("userID", userID)
		return c.Next()
	}
}

// OptionalAuth resolves an identity when present but lets anonymous requests
// through. List/detail endpoints use it to compute per-user fields (liked).
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := extractToken(c); ok {
			if userID, valid := ParseUserID(tokenString, cfg.JWTSecret); valid {
				c.Locals("userID", userID)
			}
		}
		return c.Next()
	}
}

// extractToken pulls the raw token from the Authorization header or, failing
// that, the session cookie.
func extractToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1], true
		}
		return "", false
	}

	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie, true
	}
	return "", false
}

// ParseUserID validates the token signature and extracts the user ID from the
// "sub" claim. Returns false for any malformed, expired or forged token.
func ParseUserID(tokenString, secret string) (uint, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, false
	}
	return uint(userID), true
}
