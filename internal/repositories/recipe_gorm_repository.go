package repositories

import (
	"fmt"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

// Create creates a new recipe together with its spirit type associations.
// The SpiritTypes slice must already hold validated, existing rows.
func (r *GORMRecipeRepository) Create(recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if err := r.db.Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// GetAllByUser retrieves a page of the recipes owned by the given user.
func (r *GORMRecipeRepository) GetAllByUser(userID string, skip, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	query := r.db.Preload("SpiritTypes").Where("user_id = ?", userID)
	if err := paginate(query, skip, limit).Order("name").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipes for user %s: %w", userID, err)
	}
	return recipes, nil
}

// GetByIDForUser retrieves a recipe by ID, scoped to the owning user.
func (r *GORMRecipeRepository) GetByIDForUser(id, userID string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.Preload("SpiritTypes").First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("recipe with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recipe by ID %s: %w", id, err)
	}
	return &recipe, nil
}

// GetByNameForUser retrieves a recipe by exact name, scoped to the owning
// user. The seed service uses this to skip already-present template recipes.
func (r *GORMRecipeRepository) GetByNameForUser(name, userID string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.First(&recipe, "name = ? AND user_id = ?", name, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("recipe named %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get recipe by name %q: %w", name, err)
	}
	return &recipe, nil
}

// Update persists changes to a recipe's fields and replaces its spirit type
// associations with the (already validated) set on the struct.
func (r *GORMRecipeRepository) Update(recipe *models.Recipe) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Struct-based update so the ingredients serializer applies; a map
		// value would reach the driver as a raw struct slice.
		res := tx.Model(recipe).
			Where("user_id = ?", recipe.UserID).
			Select("name", "instructions", "ingredients", "updated_at").
			Updates(recipe)
		if res.Error != nil {
			return fmt.Errorf("failed to update recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("recipe with ID %s for update: %w", recipe.ID, apperrors.ErrNotFound)
		}
		if err := tx.Model(recipe).Association("SpiritTypes").Replace(recipe.SpiritTypes); err != nil {
			return fmt.Errorf("failed to replace recipe spirit types: %w", err)
		}
		return nil
	})
}

// Delete deletes a recipe and its association rows, scoped to the owning user.
func (r *GORMRecipeRepository) Delete(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("recipe with ID %s for deletion: %w", id, apperrors.ErrNotFound)
			}
			return fmt.Errorf("failed to load recipe for deletion: %w", err)
		}
		if err := tx.Model(&recipe).Association("SpiritTypes").Clear(); err != nil {
			return fmt.Errorf("failed to clear recipe spirit types: %w", err)
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

// CountByUser counts the recipes owned by the given user.
func (r *GORMRecipeRepository) CountByUser(userID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Recipe{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes for user %s: %w", userID, err)
	}
	return count, nil
}
