package repositories

import "smartbar/internal/models"

// RecipeRepository defines the interface for recipe data access.
// Every read and write is scoped to the owning user.
type RecipeRepository interface {
	Create(recipe *models.Recipe) error
	// GetAllByUser lists a user's recipes. skip and limit page the result;
	// limit <= 0 means no cap.
	GetAllByUser(userID string, skip, limit int) ([]models.Recipe, error)
	GetByIDForUser(id, userID string) (*models.Recipe, error)
	GetByNameForUser(name, userID string) (*models.Recipe, error)
	Update(recipe *models.Recipe) error
	Delete(id, userID string) error
	CountByUser(userID string) (int64, error)
}
