package middleware

import (
	"log"
	"strings"

	"smartbar/internal/repositories"
	"smartbar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid access token. It
// resolves the token's subject to a stored user, so a token for a deleted
// account is rejected even when the signature is still valid.
func AuthRequired(authService *services.AuthService, userRepo repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateAccessToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		username, _ := claims["sub"].(string)
		user, err := userRepo.GetByUsername(username)
		if err != nil {
			log.Printf("Token subject lookup failed for %q: %v", username, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token subject no longer exists",
			})
		}

		// Store identity in Fiber context for subsequent handlers
		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)

		// Continue to the next handler
		return c.Next()
	}
}
