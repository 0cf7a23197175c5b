package repositories

import (
	"fmt"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBottleRepository is a GORM implementation of BottleRepository.
type GORMBottleRepository struct {
	db *gorm.DB
}

// NewGORMBottleRepository creates a new instance of GORMBottleRepository.
func NewGORMBottleRepository(db *gorm.DB) *GORMBottleRepository {
	return &GORMBottleRepository{
		db: db,
	}
}

// Create creates a new bottle in the database.
func (r *GORMBottleRepository) Create(bottle *models.Bottle) error {
	if bottle.ID == "" {
		bottle.ID = uuid.New().String()
	}
	if err := r.db.Create(bottle).Error; err != nil {
		return fmt.Errorf("failed to create bottle: %w", err)
	}
	return nil
}

// GetAllByUser retrieves a page of a user's bottles, optionally filtered by
// spirit type.
func (r *GORMBottleRepository) GetAllByUser(userID, spiritTypeID string, skip, limit int) ([]models.Bottle, error) {
	var bottles []models.Bottle
	query := r.db.Where("user_id = ?", userID)
	if spiritTypeID != "" {
		query = query.Where("spirit_type_id = ?", spiritTypeID)
	}
	if err := paginate(query, skip, limit).Order("name").Find(&bottles).Error; err != nil {
		return nil, fmt.Errorf("failed to get bottles for user %s: %w", userID, err)
	}
	return bottles, nil
}

// GetByIDForUser retrieves a bottle by ID, scoped to the owning user.
func (r *GORMBottleRepository) GetByIDForUser(id, userID string) (*models.Bottle, error) {
	var bottle models.Bottle
	if err := r.db.First(&bottle, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("bottle with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bottle by ID %s: %w", id, err)
	}
	return &bottle, nil
}

// Update persists changes to an existing bottle.
func (r *GORMBottleRepository) Update(bottle *models.Bottle) error {
	res := r.db.Model(&models.Bottle{}).
		Where("id = ? AND user_id = ?", bottle.ID, bottle.UserID).
		Updates(map[string]interface{}{
			"name":           bottle.Name,
			"brand":          bottle.Brand,
			"flavor_profile": bottle.FlavorProfile,
			"capacity_ml":    bottle.CapacityML,
			"spirit_type_id": bottle.SpiritTypeID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update bottle: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("bottle with ID %s for update: %w", bottle.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes a bottle by its ID, scoped to the owning user.
func (r *GORMBottleRepository) Delete(id, userID string) error {
	res := r.db.Delete(&models.Bottle{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete bottle: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("bottle with ID %s for deletion: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
