package models

import "gorm.io/gorm"

// SpiritType is a named spirit category (e.g. "Whiskey") owned by a user.
// Names are unique per owner, compared case-insensitively; the service layer
// enforces this before insert.
type SpiritType struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100);index" validate:"required,min=1,max=100"`
	UserID     string `json:"user_id" gorm:"type:varchar(36);index"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
