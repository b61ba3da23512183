package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityResolver maps the email carried in a token subject to a user id.
type IdentityResolver func(ctx context.Context, email string) (uint, error)

// AuthRequired verifies a bearer token signed with secret. Tokens carry the
// user's email in the "sub" claim; the resolved id and email are stored in
// c.Locals("userID") and c.Locals("email").
func AuthRequired(secret string, resolve IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		email, err := token.Claims.GetSubject()
		if err != nil || email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token structure - missing subject",
			})
		}

		userID, err := resolve(c.UserContext(), email)
		if err != nil || userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unknown user",
			})
		}

		c.Locals("userID", userID)
		c.Locals("email", email)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))

		return c.Next()
	}
}
