package models

import "gorm.io/gorm"

// BarcodeRegistry maps a barcode to template bottle attributes. The registry is
// shared across all users: once one user registers a barcode, everyone benefits.
// Registration is an upsert keyed by the barcode value, so there is no owner
// based access control, only an optional note of who contributed the entry.
type BarcodeRegistry struct {
	ID              string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Barcode         string `json:"barcode" gorm:"uniqueIndex;type:varchar(64)" validate:"required,min=1,max=64"`
	Name            string `json:"name" gorm:"type:varchar(255)" validate:"required,min=1,max=255"`
	Brand           string `json:"brand" gorm:"type:varchar(255)"`
	FlavorProfile   string `json:"flavor_profile" gorm:"type:text"`
	CapacityML      int    `json:"capacity_ml"`
	SpiritTypeName  string `json:"spirit_type_name" gorm:"type:varchar(100)"` // name, not id, for cross-user compatibility
	CreatedByUserID string `json:"created_by_user_id,omitempty" gorm:"type:varchar(36)"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
