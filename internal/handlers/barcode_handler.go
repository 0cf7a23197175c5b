package handlers

import (
	"log"

	"smartbar/internal/models"
	"smartbar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BarcodeHandler handles HTTP requests for the shared barcode registry.
type BarcodeHandler struct {
	service  *services.BarcodeService
	validate *validator.Validate
}

// NewBarcodeHandler creates a new BarcodeHandler.
func NewBarcodeHandler(service *services.BarcodeService) *BarcodeHandler {
	return &BarcodeHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the barcode routes with the Fiber app.
func (h *BarcodeHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/barcodes")
	routes.Get("/:barcode", h.HandleLookupBarcode)
	routes.Post("/", h.HandleRegisterBarcode)
}

// HandleLookupBarcode looks a barcode up in the shared registry. An unknown
// barcode is not an error: the response carries found=false plus guidance.
func (h *BarcodeHandler) HandleLookupBarcode(c *fiber.Ctx) error {
	lookup, err := h.service.LookupBarcode(c.Params("barcode"))
	if err != nil {
		log.Printf("Error looking up barcode %s: %v", c.Params("barcode"), err)
		return errorResponse(c, "Could not look up barcode", err)
	}
	return c.JSON(lookup)
}

// HandleRegisterBarcode registers or overwrites a barcode's bottle template.
func (h *BarcodeHandler) HandleRegisterBarcode(c *fiber.Ctx) error {
	var entry models.BarcodeRegistry
	if err := c.BodyParser(&entry); err != nil {
		log.Printf("Error parsing barcode request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(entry); err != nil {
		return validationResponse(c, err)
	}

	stored, err := h.service.RegisterBarcode(&entry, currentUserID(c))
	if err != nil {
		log.Printf("Error registering barcode %s: %v", entry.Barcode, err)
		return errorResponse(c, "Could not register barcode", err)
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}
