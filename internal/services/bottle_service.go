package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"
	"smartbar/internal/repositories"
)

// BottleService handles business logic related to bottles.
type BottleService struct {
	bottleRepo repositories.BottleRepository
	spiritRepo repositories.SpiritTypeRepository
	publisher  EventPublisher
}

// NewBottleService creates a new BottleService.
func NewBottleService(bottleRepo repositories.BottleRepository, spiritRepo repositories.SpiritTypeRepository, publisher EventPublisher) *BottleService {
	return &BottleService{
		bottleRepo: bottleRepo,
		spiritRepo: spiritRepo,
		publisher:  publisher,
	}
}

// BottleUpdate carries a partial bottle update; nil fields are left untouched.
type BottleUpdate struct {
	Name          *string `json:"name"`
	Brand         *string `json:"brand"`
	FlavorProfile *string `json:"flavor_profile"`
	CapacityML    *int    `json:"capacity_ml"`
	SpiritTypeID  *string `json:"spirit_type_id"`
}

// GetAllBottles retrieves a page of the user's bottles, optionally filtered
// by spirit type (empty string means no filter).
func (s *BottleService) GetAllBottles(userID, spiritTypeID string, skip, limit int) ([]models.Bottle, error) {
	return s.bottleRepo.GetAllByUser(userID, spiritTypeID, skip, limit)
}

// GetBottleByID retrieves a single bottle owned by the user.
func (s *BottleService) GetBottleByID(id, userID string) (*models.Bottle, error) {
	return s.bottleRepo.GetByIDForUser(id, userID)
}

// CreateBottle creates a new bottle for the user. The referenced spirit type
// must exist and belong to the same user; a dangling or foreign reference
// fails with a validation error before anything is written.
func (s *BottleService) CreateBottle(userID string, bottle *models.Bottle) error {
	if err := s.checkSpiritType(bottle.SpiritTypeID, userID); err != nil {
		return err
	}

	bottle.UserID = userID
	if err := s.bottleRepo.Create(bottle); err != nil {
		return err
	}

	s.publishEvent(EventBottleCreated, bottle)
	return nil
}

// UpdateBottle applies a partial update to a bottle owned by the user. A
// changed spirit type reference is re-validated against the caller's spirit
// types.
func (s *BottleService) UpdateBottle(id, userID string, update BottleUpdate) (*models.Bottle, error) {
	bottle, err := s.bottleRepo.GetByIDForUser(id, userID)
	if err != nil {
		return nil, err
	}

	if update.SpiritTypeID != nil && *update.SpiritTypeID != bottle.SpiritTypeID {
		if err := s.checkSpiritType(*update.SpiritTypeID, userID); err != nil {
			return nil, err
		}
		bottle.SpiritTypeID = *update.SpiritTypeID
	}
	if update.Name != nil {
		bottle.Name = *update.Name
	}
	if update.Brand != nil {
		bottle.Brand = *update.Brand
	}
	if update.FlavorProfile != nil {
		bottle.FlavorProfile = *update.FlavorProfile
	}
	if update.CapacityML != nil {
		bottle.CapacityML = *update.CapacityML
	}

	if err := s.bottleRepo.Update(bottle); err != nil {
		return nil, err
	}
	return bottle, nil
}

// DeleteBottle deletes a bottle owned by the user.
func (s *BottleService) DeleteBottle(id, userID string) error {
	return s.bottleRepo.Delete(id, userID)
}

func (s *BottleService) checkSpiritType(spiritTypeID, userID string) error {
	if spiritTypeID == "" {
		return fmt.Errorf("spirit_type_id is required: %w", apperrors.ErrValidation)
	}
	if _, err := s.spiritRepo.GetByIDForUser(spiritTypeID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("spirit type %s does not exist for this user: %w", spiritTypeID, apperrors.ErrValidation)
		}
		return err
	}
	return nil
}

// publishEvent emits a bottle lifecycle event. Publishing is best effort: a
// broker failure is logged and never fails the request.
func (s *BottleService) publishEvent(eventType string, bottle *models.Bottle) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"bottle_id":      bottle.ID,
		"user_id":        bottle.UserID,
		"name":           bottle.Name,
		"spirit_type_id": bottle.SpiritTypeID,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for bottle %s: %v", eventType, bottle.ID, err)
	}
}
