package handlers

import (
	"log"

	"smartbar/internal/models"
	"smartbar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BottleHandler handles HTTP requests for bottles, including the AI-assisted
// label import endpoint.
type BottleHandler struct {
	service       *services.BottleService
	importService *services.BottleImportService
	validate      *validator.Validate
}

// NewBottleHandler creates a new BottleHandler.
func NewBottleHandler(service *services.BottleService, importService *services.BottleImportService) *BottleHandler {
	return &BottleHandler{
		service:       service,
		importService: importService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the bottle routes with the Fiber app.
func (h *BottleHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/bottles")
	routes.Get("/", h.HandleGetBottles)
	routes.Post("/", h.HandleCreateBottle)
	routes.Post("/import", h.HandleImportBottle)
	routes.Get("/:id", h.HandleGetBottleByID)
	routes.Put("/:id", h.HandleUpdateBottle)
	routes.Delete("/:id", h.HandleDeleteBottle)
}

// HandleGetBottles lists the caller's bottles, optionally filtered by the
// spirit_type_id query parameter and paged by skip/limit.
func (h *BottleHandler) HandleGetBottles(c *fiber.Ctx) error {
	skip, limit := pageParams(c)
	bottles, err := h.service.GetAllBottles(currentUserID(c), c.Query("spirit_type_id"), skip, limit)
	if err != nil {
		log.Printf("Error getting bottles: %v", err)
		return errorResponse(c, "Could not retrieve bottles", err)
	}
	return c.JSON(bottles)
}

// HandleGetBottleByID retrieves one of the caller's bottles.
func (h *BottleHandler) HandleGetBottleByID(c *fiber.Ctx) error {
	bottle, err := h.service.GetBottleByID(c.Params("id"), currentUserID(c))
	if err != nil {
		log.Printf("Error getting bottle %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not retrieve bottle", err)
	}
	return c.JSON(bottle)
}

// HandleCreateBottle creates a bottle for the caller.
func (h *BottleHandler) HandleCreateBottle(c *fiber.Ctx) error {
	var bottle models.Bottle
	if err := c.BodyParser(&bottle); err != nil {
		log.Printf("Error parsing bottle request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(bottle); err != nil {
		return validationResponse(c, err)
	}

	if err := h.service.CreateBottle(currentUserID(c), &bottle); err != nil {
		log.Printf("Error creating bottle: %v", err)
		return errorResponse(c, "Could not create bottle", err)
	}
	return c.Status(fiber.StatusCreated).JSON(bottle)
}

// HandleUpdateBottle applies a partial update to one of the caller's bottles.
func (h *BottleHandler) HandleUpdateBottle(c *fiber.Ctx) error {
	var update services.BottleUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing bottle update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	bottle, err := h.service.UpdateBottle(c.Params("id"), currentUserID(c), update)
	if err != nil {
		log.Printf("Error updating bottle %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not update bottle", err)
	}
	return c.JSON(bottle)
}

// HandleDeleteBottle deletes one of the caller's bottles.
func (h *BottleHandler) HandleDeleteBottle(c *fiber.Ctx) error {
	if err := h.service.DeleteBottle(c.Params("id"), currentUserID(c)); err != nil {
		log.Printf("Error deleting bottle %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not delete bottle", err)
	}
	return c.JSON(fiber.Map{
		"message": "Bottle deleted successfully",
	})
}

// ImportRequest is the payload for the label import endpoint.
type ImportRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
}

// ImportResponse is the flat wire shape of a bottle analysis. The extracted
// fields are only present on success; the raw model text is carried either
// way for review and debugging.
type ImportResponse struct {
	Success       bool   `json:"success"`
	Name          string `json:"name,omitempty"`
	Brand         string `json:"brand,omitempty"`
	FlavorProfile string `json:"flavor_profile,omitempty"`
	CapacityML    int    `json:"capacity_ml,omitempty"`
	SpiritType    string `json:"spirit_type,omitempty"`
	LLMResponse   string `json:"llm_response,omitempty"`
	Error         string `json:"error,omitempty"`
}

// HandleImportBottle analyzes a bottle photograph with the vision model. The
// endpoint always answers 200 with a success flag: model failures are data
// for the client to display, not transport errors. The extracted attributes
// are a draft for the user to review, not a created bottle.
func (h *BottleHandler) HandleImportBottle(c *fiber.Ctx) error {
	var req ImportRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing import request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationResponse(c, err)
	}

	result := h.importService.AnalyzeBottleImage(c.Context(), req.ImageBase64)

	resp := ImportResponse{
		Success:     result.Success,
		LLMResponse: result.LLMResponse,
		Error:       result.Error,
	}
	if result.Data != nil {
		resp.Name = result.Data.Name
		resp.Brand = result.Data.Brand
		resp.FlavorProfile = result.Data.FlavorProfile
		resp.CapacityML = result.Data.CapacityML
		resp.SpiritType = result.Data.SpiritType
	}
	return c.JSON(resp)
}
