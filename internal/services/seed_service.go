package services

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"smartbar/internal/apperrors"
	"smartbar/internal/models"
	"smartbar/internal/repositories"
)

//go:embed seed_data/default_recipes.json
var defaultSeedData []byte

// seedTemplate is the static document of default spirit types and recipes a
// new account starts with.
type seedTemplate struct {
	SpiritTypes []string         `json:"spirit_types"`
	Recipes     []seedRecipeSpec `json:"recipes"`
}

type seedRecipeSpec struct {
	Name         string              `json:"name"`
	Instructions string              `json:"instructions"`
	Ingredients  []models.Ingredient `json:"ingredients"`
	SpiritTypes  []string            `json:"spirit_types"`
}

// SeedSummary reports how many rows a seeding run actually created.
type SeedSummary struct {
	SpiritTypes int `json:"spirit_types"`
	Recipes     int `json:"recipes"`
}

// SeedService idempotently populates a new user account with default spirit
// types and recipes from the embedded template: existing rows (matched by
// name and owner) are reused, missing ones are inserted.
type SeedService struct {
	spiritRepo repositories.SpiritTypeRepository
	recipeRepo repositories.RecipeRepository
}

// NewSeedService creates a new SeedService.
func NewSeedService(spiritRepo repositories.SpiritTypeRepository, recipeRepo repositories.RecipeRepository) *SeedService {
	return &SeedService{
		spiritRepo: spiritRepo,
		recipeRepo: recipeRepo,
	}
}

// SeedUserData seeds the user's account and reports what was created.
// Running it again is a no-op that reports zero created rows.
func (s *SeedService) SeedUserData(userID string) (*SeedSummary, error) {
	seeded, err := s.IsUserSeeded(userID)
	if err != nil {
		return nil, err
	}
	if seeded {
		return &SeedSummary{}, nil
	}

	var template seedTemplate
	if err := json.Unmarshal(defaultSeedData, &template); err != nil {
		return nil, fmt.Errorf("failed to parse seed template: %w", err)
	}

	summary := &SeedSummary{}

	// Spirit types first; recipes reference them by name. Reuse matches
	// case-insensitively, mirroring the per-user uniqueness rule: the user's
	// existing "whiskey" must be reused, not shadowed by a template "Whiskey"
	// that could never be inserted anyway.
	spiritTypesByName := make(map[string]models.SpiritType, len(template.SpiritTypes))
	for _, name := range template.SpiritTypes {
		existing, err := s.spiritRepo.GetByNameForUser(name, userID)
		if err == nil {
			spiritTypesByName[name] = *existing
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		spiritType := &models.SpiritType{Name: name, UserID: userID}
		if err := s.spiritRepo.Create(spiritType); err != nil {
			return nil, err
		}
		spiritTypesByName[name] = *spiritType
		summary.SpiritTypes++
	}

	for _, spec := range template.Recipes {
		_, err := s.recipeRepo.GetByNameForUser(spec.Name, userID)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		var spiritTypes []models.SpiritType
		for _, name := range spec.SpiritTypes {
			spiritType, ok := spiritTypesByName[name]
			if !ok {
				log.Printf("Seed template recipe %q references unknown spirit type %q", spec.Name, name)
				continue
			}
			spiritTypes = append(spiritTypes, spiritType)
		}

		recipe := &models.Recipe{
			Name:         spec.Name,
			Instructions: spec.Instructions,
			Ingredients:  spec.Ingredients,
			SpiritTypes:  spiritTypes,
			UserID:       userID,
		}
		if err := s.recipeRepo.Create(recipe); err != nil {
			return nil, err
		}
		summary.Recipes++
	}

	log.Printf("Seeded user %s with %d spirit types and %d recipes", userID, summary.SpiritTypes, summary.Recipes)
	return summary, nil
}

// IsUserSeeded reports whether the user already received default data. Owning
// at least one recipe counts as seeded, which short-circuits reseeding.
func (s *SeedService) IsUserSeeded(userID string) (bool, error) {
	count, err := s.recipeRepo.CountByUser(userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
