package services

import (
	"errors"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"
	"smartbar/internal/repositories"
)

// BarcodeService handles the global barcode-to-bottle-template registry.
type BarcodeService struct {
	repo repositories.BarcodeRepository
}

// NewBarcodeService creates a new BarcodeService.
func NewBarcodeService(repo repositories.BarcodeRepository) *BarcodeService {
	return &BarcodeService{
		repo: repo,
	}
}

// BarcodeLookup is the result of a registry lookup. Found is false for an
// unknown barcode; Message then carries guidance for the client.
type BarcodeLookup struct {
	Found   bool                    `json:"found"`
	Data    *models.BarcodeRegistry `json:"data,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// LookupBarcode looks up a barcode in the shared registry. The registry is
// shared across users, so no ownership filter applies.
func (s *BarcodeService) LookupBarcode(barcode string) (*BarcodeLookup, error) {
	entry, err := s.repo.GetByBarcode(barcode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &BarcodeLookup{
				Found:   false,
				Message: "Barcode not registered yet. Fill in the bottle details to register it for everyone.",
			}, nil
		}
		return nil, err
	}
	return &BarcodeLookup{Found: true, Data: entry}, nil
}

// RegisterBarcode registers or overwrites the template for a barcode. The
// contributing user is recorded on first registration only.
func (s *BarcodeService) RegisterBarcode(entry *models.BarcodeRegistry, userID string) (*models.BarcodeRegistry, error) {
	entry.CreatedByUserID = userID
	if err := s.repo.Upsert(entry); err != nil {
		return nil, err
	}
	// Re-read so the caller sees the stored row (the upsert may have hit an
	// existing entry with a different id and contributor).
	return s.repo.GetByBarcode(entry.Barcode)
}
