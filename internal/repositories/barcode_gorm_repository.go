package repositories

import (
	"fmt"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMBarcodeRepository is a GORM implementation of BarcodeRepository.
type GORMBarcodeRepository struct {
	db *gorm.DB
}

// NewGORMBarcodeRepository creates a new instance of GORMBarcodeRepository.
func NewGORMBarcodeRepository(db *gorm.DB) *GORMBarcodeRepository {
	return &GORMBarcodeRepository{
		db: db,
	}
}

// GetByBarcode retrieves a registry entry by its barcode value.
func (r *GORMBarcodeRepository) GetByBarcode(barcode string) (*models.BarcodeRegistry, error) {
	var entry models.BarcodeRegistry
	if err := r.db.First(&entry, "barcode = ?", barcode).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("barcode %s: %w", barcode, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get barcode %s: %w", barcode, err)
	}
	return &entry, nil
}

// Upsert inserts or overwrites a registry entry keyed by barcode. The database
// resolves the conflict atomically, so concurrent registrations of the same
// barcode cannot produce duplicate rows.
func (r *GORMBarcodeRepository) Upsert(entry *models.BarcodeRegistry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "barcode"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "brand", "flavor_profile", "capacity_ml", "spirit_type_name", "updated_at",
		}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert barcode %s: %w", entry.Barcode, err)
	}
	return nil
}
