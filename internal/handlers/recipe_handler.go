package handlers

import (
	"log"

	"smartbar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service  *services.RecipeService
	validate *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the recipe routes with the Fiber app.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/recipes")
	routes.Get("/", h.HandleGetRecipes)
	routes.Get("/:id", h.HandleGetRecipeByID)
	routes.Post("/", h.HandleCreateRecipe)
	routes.Put("/:id", h.HandleUpdateRecipe)
	routes.Delete("/:id", h.HandleDeleteRecipe)
}

// HandleGetRecipes lists the caller's recipes, paged by skip/limit.
func (h *RecipeHandler) HandleGetRecipes(c *fiber.Ctx) error {
	skip, limit := pageParams(c)
	recipes, err := h.service.GetAllRecipes(currentUserID(c), skip, limit)
	if err != nil {
		log.Printf("Error getting recipes: %v", err)
		return errorResponse(c, "Could not retrieve recipes", err)
	}
	return c.JSON(recipes)
}

// HandleGetRecipeByID retrieves one of the caller's recipes.
func (h *RecipeHandler) HandleGetRecipeByID(c *fiber.Ctx) error {
	recipe, err := h.service.GetRecipeByID(c.Params("id"), currentUserID(c))
	if err != nil {
		log.Printf("Error getting recipe %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not retrieve recipe", err)
	}
	return c.JSON(recipe)
}

// HandleCreateRecipe creates a recipe for the caller.
func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing recipe request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return validationResponse(c, err)
	}

	recipe, err := h.service.CreateRecipe(currentUserID(c), input)
	if err != nil {
		log.Printf("Error creating recipe: %v", err)
		return errorResponse(c, "Could not create recipe", err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// HandleUpdateRecipe replaces one of the caller's recipes.
func (h *RecipeHandler) HandleUpdateRecipe(c *fiber.Ctx) error {
	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing recipe request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return validationResponse(c, err)
	}

	recipe, err := h.service.UpdateRecipe(c.Params("id"), currentUserID(c), input)
	if err != nil {
		log.Printf("Error updating recipe %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not update recipe", err)
	}
	return c.JSON(recipe)
}

// HandleDeleteRecipe deletes one of the caller's recipes.
func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	if err := h.service.DeleteRecipe(c.Params("id"), currentUserID(c)); err != nil {
		log.Printf("Error deleting recipe %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not delete recipe", err)
	}
	return c.JSON(fiber.Map{
		"message": "Recipe deleted successfully",
	})
}
