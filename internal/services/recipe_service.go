package services

import (
	"fmt"
	"strings"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"
	"smartbar/internal/repositories"
)

// RecipeService handles business logic related to recipes.
type RecipeService struct {
	recipeRepo repositories.RecipeRepository
	spiritRepo repositories.SpiritTypeRepository
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(recipeRepo repositories.RecipeRepository, spiritRepo repositories.SpiritTypeRepository) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		spiritRepo: spiritRepo,
	}
}

// RecipeInput is the payload for creating or replacing a recipe.
type RecipeInput struct {
	Name          string              `json:"name" validate:"required,min=1,max=255"`
	Instructions  string              `json:"instructions" validate:"required"`
	Ingredients   []models.Ingredient `json:"ingredients" validate:"dive"`
	SpiritTypeIDs []string            `json:"spirit_type_ids"`
}

// GetAllRecipes retrieves a page of the recipes owned by the user.
func (s *RecipeService) GetAllRecipes(userID string, skip, limit int) ([]models.Recipe, error) {
	return s.recipeRepo.GetAllByUser(userID, skip, limit)
}

// GetRecipeByID retrieves a single recipe owned by the user.
func (s *RecipeService) GetRecipeByID(id, userID string) (*models.Recipe, error) {
	return s.recipeRepo.GetByIDForUser(id, userID)
}

// CreateRecipe creates a recipe for the user. Every referenced spirit type id
// must resolve to a spirit type owned by the same user; on failure the error
// names the missing ids and nothing is persisted.
func (s *RecipeService) CreateRecipe(userID string, input RecipeInput) (*models.Recipe, error) {
	spiritTypes, err := s.resolveSpiritTypes(input.SpiritTypeIDs, userID)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:         input.Name,
		Instructions: input.Instructions,
		Ingredients:  input.Ingredients,
		SpiritTypes:  spiritTypes,
		UserID:       userID,
	}
	if err := s.recipeRepo.Create(recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// UpdateRecipe replaces a recipe's fields and spirit type associations,
// re-validating every referenced id against the caller's spirit types.
func (s *RecipeService) UpdateRecipe(id, userID string, input RecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByIDForUser(id, userID)
	if err != nil {
		return nil, err
	}

	spiritTypes, err := s.resolveSpiritTypes(input.SpiritTypeIDs, userID)
	if err != nil {
		return nil, err
	}

	recipe.Name = input.Name
	recipe.Instructions = input.Instructions
	recipe.Ingredients = input.Ingredients
	recipe.SpiritTypes = spiritTypes

	if err := s.recipeRepo.Update(recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe deletes a recipe owned by the user.
func (s *RecipeService) DeleteRecipe(id, userID string) error {
	return s.recipeRepo.Delete(id, userID)
}

// resolveSpiritTypes loads the referenced spirit types scoped to the user and
// fails with a validation error naming every id that did not resolve.
func (s *RecipeService) resolveSpiritTypes(ids []string, userID string) ([]models.SpiritType, error) {
	ids = dedupe(ids)
	spiritTypes, err := s.spiritRepo.GetByIDsForUser(ids, userID)
	if err != nil {
		return nil, err
	}
	if len(spiritTypes) != len(ids) {
		found := make(map[string]bool, len(spiritTypes))
		for _, st := range spiritTypes {
			found[st.ID] = true
		}
		var missing []string
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("spirit types do not exist for this user: %s: %w",
			strings.Join(missing, ", "), apperrors.ErrValidation)
	}
	return spiritTypes, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
