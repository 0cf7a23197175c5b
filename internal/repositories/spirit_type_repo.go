package repositories

import "smartbar/internal/models"

// SpiritTypeRepository defines the interface for spirit type data access.
// Every read and write is scoped to the owning user.
type SpiritTypeRepository interface {
	Create(spiritType *models.SpiritType) error
	// GetAllByUser lists a user's spirit types. skip and limit page the
	// result; limit <= 0 means no cap.
	GetAllByUser(userID string, skip, limit int) ([]models.SpiritType, error)
	GetByIDForUser(id, userID string) (*models.SpiritType, error)
	GetByNameForUser(name, userID string) (*models.SpiritType, error)
	GetByIDsForUser(ids []string, userID string) ([]models.SpiritType, error)
	Update(spiritType *models.SpiritType) error
	Delete(id, userID string) error
}
