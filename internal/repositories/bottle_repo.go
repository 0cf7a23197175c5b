package repositories

import "smartbar/internal/models"

// BottleRepository defines the interface for bottle data access.
// Every read and write is scoped to the owning user.
type BottleRepository interface {
	Create(bottle *models.Bottle) error
	// GetAllByUser lists a user's bottles, optionally filtered by spirit type
	// (empty spiritTypeID means no filter). skip and limit page the result;
	// limit <= 0 means no cap.
	GetAllByUser(userID, spiritTypeID string, skip, limit int) ([]models.Bottle, error)
	GetByIDForUser(id, userID string) (*models.Bottle, error)
	Update(bottle *models.Bottle) error
	Delete(id, userID string) error
}
