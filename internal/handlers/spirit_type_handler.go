package handlers

import (
	"log"

	"smartbar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SpiritTypeHandler handles HTTP requests for spirit types.
type SpiritTypeHandler struct {
	service  *services.SpiritTypeService
	validate *validator.Validate
}

// NewSpiritTypeHandler creates a new SpiritTypeHandler.
func NewSpiritTypeHandler(service *services.SpiritTypeService) *SpiritTypeHandler {
	return &SpiritTypeHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the spirit type routes with the Fiber app.
func (h *SpiritTypeHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/spirit-types")
	routes.Get("/", h.HandleGetSpiritTypes)
	routes.Get("/:id", h.HandleGetSpiritTypeByID)
	routes.Post("/", h.HandleCreateSpiritType)
	routes.Put("/:id", h.HandleUpdateSpiritType)
	routes.Delete("/:id", h.HandleDeleteSpiritType)
}

// SpiritTypeRequest is the payload for creating or renaming a spirit type.
type SpiritTypeRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// HandleGetSpiritTypes lists the caller's spirit types, paged by skip/limit.
func (h *SpiritTypeHandler) HandleGetSpiritTypes(c *fiber.Ctx) error {
	skip, limit := pageParams(c)
	spiritTypes, err := h.service.GetAllSpiritTypes(currentUserID(c), skip, limit)
	if err != nil {
		log.Printf("Error getting spirit types: %v", err)
		return errorResponse(c, "Could not retrieve spirit types", err)
	}
	return c.JSON(spiritTypes)
}

// HandleGetSpiritTypeByID retrieves one of the caller's spirit types.
func (h *SpiritTypeHandler) HandleGetSpiritTypeByID(c *fiber.Ctx) error {
	spiritType, err := h.service.GetSpiritTypeByID(c.Params("id"), currentUserID(c))
	if err != nil {
		log.Printf("Error getting spirit type %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not retrieve spirit type", err)
	}
	return c.JSON(spiritType)
}

// HandleCreateSpiritType creates a spirit type for the caller.
func (h *SpiritTypeHandler) HandleCreateSpiritType(c *fiber.Ctx) error {
	var req SpiritTypeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing spirit type request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	spiritType, err := h.service.CreateSpiritType(currentUserID(c), req.Name)
	if err != nil {
		log.Printf("Error creating spirit type: %v", err)
		return errorResponse(c, "Could not create spirit type", err)
	}
	return c.Status(fiber.StatusCreated).JSON(spiritType)
}

// HandleUpdateSpiritType renames one of the caller's spirit types.
func (h *SpiritTypeHandler) HandleUpdateSpiritType(c *fiber.Ctx) error {
	var req SpiritTypeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing spirit type request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	spiritType, err := h.service.UpdateSpiritType(c.Params("id"), currentUserID(c), req.Name)
	if err != nil {
		log.Printf("Error updating spirit type %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not update spirit type", err)
	}
	return c.JSON(spiritType)
}

// HandleDeleteSpiritType deletes one of the caller's spirit types.
func (h *SpiritTypeHandler) HandleDeleteSpiritType(c *fiber.Ctx) error {
	if err := h.service.DeleteSpiritType(c.Params("id"), currentUserID(c)); err != nil {
		log.Printf("Error deleting spirit type %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not delete spirit type", err)
	}
	return c.JSON(fiber.Map{
		"message": "Spirit type deleted successfully",
	})
}
