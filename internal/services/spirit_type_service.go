package services

import (
	"errors"
	"fmt"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"
	"smartbar/internal/repositories"
)

// SpiritTypeService handles business logic related to spirit types.
type SpiritTypeService struct {
	repo repositories.SpiritTypeRepository
}

// NewSpiritTypeService creates a new SpiritTypeService.
func NewSpiritTypeService(repo repositories.SpiritTypeRepository) *SpiritTypeService {
	return &SpiritTypeService{
		repo: repo,
	}
}

// GetAllSpiritTypes retrieves a page of the spirit types owned by the user.
func (s *SpiritTypeService) GetAllSpiritTypes(userID string, skip, limit int) ([]models.SpiritType, error) {
	return s.repo.GetAllByUser(userID, skip, limit)
}

// GetSpiritTypeByID retrieves a single spirit type owned by the user.
func (s *SpiritTypeService) GetSpiritTypeByID(id, userID string) (*models.SpiritType, error) {
	return s.repo.GetByIDForUser(id, userID)
}

// CreateSpiritType creates a new spirit type for the user. Names are unique
// per user, compared case-insensitively.
func (s *SpiritTypeService) CreateSpiritType(userID, name string) (*models.SpiritType, error) {
	if existing, err := s.repo.GetByNameForUser(name, userID); err == nil && existing != nil {
		return nil, fmt.Errorf("spirit type '%s' already exists: %w", name, apperrors.ErrConflict)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	spiritType := &models.SpiritType{
		Name:   name,
		UserID: userID,
	}
	if err := s.repo.Create(spiritType); err != nil {
		return nil, err
	}
	return spiritType, nil
}

// UpdateSpiritType renames an existing spirit type, keeping per-user name
// uniqueness intact.
func (s *SpiritTypeService) UpdateSpiritType(id, userID, name string) (*models.SpiritType, error) {
	spiritType, err := s.repo.GetByIDForUser(id, userID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByNameForUser(name, userID); err == nil && existing != nil && existing.ID != id {
		return nil, fmt.Errorf("spirit type '%s' already exists: %w", name, apperrors.ErrConflict)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	spiritType.Name = name
	if err := s.repo.Update(spiritType); err != nil {
		return nil, err
	}
	return spiritType, nil
}

// DeleteSpiritType deletes a spirit type owned by the user.
func (s *SpiritTypeService) DeleteSpiritType(id, userID string) error {
	return s.repo.Delete(id, userID)
}
