package models

import "gorm.io/datatypes"

// Accommodation is a catalog entry for a lodge room or cabin.
type Accommodation struct {
	ID            string         `gorm:"primaryKey;size:36" json:"id"`
	Name          string         `gorm:"size:255" json:"name"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	Location      string         `gorm:"size:64;index" json:"location,omitempty"`
	PricePerNight string         `gorm:"column:price_per_night;size:32" json:"pricePerNight,omitempty"`
	Capacity      int            `gorm:"column:capacity" json:"capacity,omitempty"`
	Images        datatypes.JSON `gorm:"column:images" json:"images,omitempty"`
}
