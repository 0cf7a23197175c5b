package models

import "gorm.io/gorm"

// Bottle is a single bottle in a user's collection. Every bottle references a
// SpiritType that must belong to the same user.
type Bottle struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string `json:"name" gorm:"type:varchar(255)" validate:"required,min=1,max=255"`
	Brand         string `json:"brand" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	FlavorProfile string `json:"flavor_profile" gorm:"type:text" validate:"omitempty,max=2000"`
	CapacityML    int    `json:"capacity_ml" validate:"omitempty,gt=0"`
	SpiritTypeID  string `json:"spirit_type_id" gorm:"type:varchar(36);index" validate:"required"`
	UserID        string `json:"user_id" gorm:"type:varchar(36);index"`
	gorm.Model           // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
