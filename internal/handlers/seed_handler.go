package handlers

import (
	"log"

	"smartbar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SeedHandler exposes the default-data seeding of the caller's account.
type SeedHandler struct {
	service *services.SeedService
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(service *services.SeedService) *SeedHandler {
	return &SeedHandler{
		service: service,
	}
}

// RegisterRoutes registers the seed routes with the Fiber app.
func (h *SeedHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/seed")
	routes.Post("/", h.HandleSeed)
	routes.Get("/status", h.HandleSeedStatus)
}

// HandleSeed seeds the caller's account with the default spirit types and
// recipes. Running it on an already-seeded account reports zero created rows.
func (h *SeedHandler) HandleSeed(c *fiber.Ctx) error {
	summary, err := h.service.SeedUserData(currentUserID(c))
	if err != nil {
		log.Printf("Error seeding user %s: %v", currentUserID(c), err)
		return errorResponse(c, "Could not seed account", err)
	}
	return c.JSON(summary)
}

// HandleSeedStatus reports whether the caller's account was already seeded.
func (h *SeedHandler) HandleSeedStatus(c *fiber.Ctx) error {
	seeded, err := h.service.IsUserSeeded(currentUserID(c))
	if err != nil {
		log.Printf("Error checking seed status for user %s: %v", currentUserID(c), err)
		return errorResponse(c, "Could not check seed status", err)
	}
	return c.JSON(fiber.Map{
		"is_user_seeded": seeded,
	})
}
