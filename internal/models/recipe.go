package models

import "gorm.io/gorm"

// Ingredient is one structured entry of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Unit     string  `json:"unit"`
}

// Recipe is a cocktail recipe owned by a user. The spirit types it references
// are a many-to-many relation and each one must belong to the same user.
type Recipe struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name         string       `json:"name" gorm:"type:varchar(255)" validate:"required,min=1,max=255"`
	Instructions string       `json:"instructions" gorm:"type:text" validate:"required"`
	Ingredients  []Ingredient `json:"ingredients" gorm:"serializer:json"`
	SpiritTypes  []SpiritType `json:"spirit_types" gorm:"many2many:recipes_to_spirits"`
	UserID       string       `json:"user_id" gorm:"type:varchar(36);index"`
	gorm.Model                // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
