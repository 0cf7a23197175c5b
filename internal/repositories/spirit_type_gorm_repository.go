package repositories

import (
	"fmt"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSpiritTypeRepository is a GORM implementation of SpiritTypeRepository.
type GORMSpiritTypeRepository struct {
	db *gorm.DB
}

// NewGORMSpiritTypeRepository creates a new instance of GORMSpiritTypeRepository.
func NewGORMSpiritTypeRepository(db *gorm.DB) *GORMSpiritTypeRepository {
	return &GORMSpiritTypeRepository{
		db: db,
	}
}

// Create creates a new spirit type in the database.
func (r *GORMSpiritTypeRepository) Create(spiritType *models.SpiritType) error {
	if spiritType.ID == "" {
		spiritType.ID = uuid.New().String()
	}
	if err := r.db.Create(spiritType).Error; err != nil {
		return fmt.Errorf("failed to create spirit type: %w", err)
	}
	return nil
}

// GetAllByUser retrieves a page of the spirit types owned by the given user.
func (r *GORMSpiritTypeRepository) GetAllByUser(userID string, skip, limit int) ([]models.SpiritType, error) {
	var spiritTypes []models.SpiritType
	if err := paginate(r.db.Where("user_id = ?", userID), skip, limit).Order("name").Find(&spiritTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to get spirit types for user %s: %w", userID, err)
	}
	return spiritTypes, nil
}

// GetByIDForUser retrieves a spirit type by ID, scoped to the owning user.
func (r *GORMSpiritTypeRepository) GetByIDForUser(id, userID string) (*models.SpiritType, error) {
	var spiritType models.SpiritType
	if err := r.db.First(&spiritType, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("spirit type with ID %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get spirit type by ID %s: %w", id, err)
	}
	return &spiritType, nil
}

// GetByNameForUser retrieves a spirit type by name, case-insensitively, scoped
// to the owning user. Used to enforce per-user name uniqueness before insert.
func (r *GORMSpiritTypeRepository) GetByNameForUser(name, userID string) (*models.SpiritType, error) {
	var spiritType models.SpiritType
	if err := r.db.First(&spiritType, "LOWER(name) = LOWER(?) AND user_id = ?", name, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("spirit type named %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get spirit type by name %q: %w", name, err)
	}
	return &spiritType, nil
}

// GetByIDsForUser retrieves the spirit types matching the given IDs that are
// owned by the user. Callers compare the result length against the request to
// detect missing or foreign references.
func (r *GORMSpiritTypeRepository) GetByIDsForUser(ids []string, userID string) ([]models.SpiritType, error) {
	var spiritTypes []models.SpiritType
	if len(ids) == 0 {
		return spiritTypes, nil
	}
	if err := r.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&spiritTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to get spirit types by IDs: %w", err)
	}
	return spiritTypes, nil
}

// Update updates an existing spirit type in the database.
func (r *GORMSpiritTypeRepository) Update(spiritType *models.SpiritType) error {
	res := r.db.Model(&models.SpiritType{}).
		Where("id = ? AND user_id = ?", spiritType.ID, spiritType.UserID).
		Updates(map[string]interface{}{"name": spiritType.Name})
	if res.Error != nil {
		return fmt.Errorf("failed to update spirit type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("spirit type with ID %s for update: %w", spiritType.ID, apperrors.ErrNotFound)
	}
	return nil
}

// Delete deletes a spirit type by its ID, scoped to the owning user.
func (r *GORMSpiritTypeRepository) Delete(id, userID string) error {
	res := r.db.Delete(&models.SpiritType{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete spirit type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("spirit type with ID %s for deletion: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
