package repositories

import "smartbar/internal/models"

// BarcodeRepository defines the interface for the global barcode registry.
// Unlike the other repositories it is not user-scoped.
type BarcodeRepository interface {
	GetByBarcode(barcode string) (*models.BarcodeRegistry, error)
	// Upsert inserts a registry entry, or overwrites the template fields of an
	// existing entry with the same barcode.
	Upsert(entry *models.BarcodeRegistry) error
}
