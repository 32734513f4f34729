package middleware

import (
	"errors"
	"log"
	"strings"

	"storefront/internal/permissions"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// Authenticate resolves the bearer token into an actor and stores it in the
// Fiber context. Requests without an Authorization header proceed as
// anonymous; a header that is present but unusable is rejected.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			c.Locals(actorKey, permissions.Actor{})
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		actor, err := authService.ResolveActor(c.UserContext(), parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			if !errors.Is(err, services.ErrInvalidToken) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not authenticate request",
					"error":   err.Error(),
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by Authenticate, or the anonymous actor.
func ActorFrom(c *fiber.Ctx) permissions.Actor {
	if actor, ok := c.Locals(actorKey).(permissions.Actor); ok {
		return actor
	}
	return permissions.Actor{}
}
