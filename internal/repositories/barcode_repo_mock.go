package repositories

import (
	"fmt"
	"sync"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"

	"github.com/google/uuid"
)

// MockBarcodeRepository is an in-memory implementation of BarcodeRepository.
type MockBarcodeRepository struct {
	entries map[string]models.BarcodeRegistry // keyed by barcode
	mu      sync.RWMutex
}

// NewMockBarcodeRepository creates a new instance of MockBarcodeRepository.
func NewMockBarcodeRepository() *MockBarcodeRepository {
	return &MockBarcodeRepository{
		entries: make(map[string]models.BarcodeRegistry),
	}
}

// GetByBarcode returns the entry registered under the given barcode.
func (r *MockBarcodeRepository) GetByBarcode(barcode string) (*models.BarcodeRegistry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[barcode]
	if !ok {
		return nil, fmt.Errorf("barcode %s: %w", barcode, apperrors.ErrNotFound)
	}
	return &entry, nil
}

// Upsert inserts or overwrites the entry keyed by the barcode value.
func (r *MockBarcodeRepository) Upsert(entry *models.BarcodeRegistry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[entry.Barcode]; ok {
		entry.ID = existing.ID
		entry.CreatedByUserID = existing.CreatedByUserID
	} else if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	r.entries[entry.Barcode] = *entry
	return nil
}
