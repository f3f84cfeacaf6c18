package models

import "gorm.io/datatypes"

// Tour is a catalog entry for a guided tour. Prices are decimal COP amounts
// kept as text; PriceFor2..PriceFor6 are per-person rates by group size.
type Tour struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"size:255" json:"name"`
	Category    string `gorm:"size:64;index" json:"category,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Detail      string `gorm:"column:detail;type:text" json:"detalle,omitempty"`
	Duration    string `gorm:"size:64" json:"duration,omitempty"`
	Location    string `gorm:"size:64;index" json:"location,omitempty"`

	PriceFor2 string `gorm:"column:price_2;size:32" json:"price2,omitempty"`
	PriceFor3 string `gorm:"column:price_3;size:32" json:"price3,omitempty"`
	PriceFor4 string `gorm:"column:price_4;size:32" json:"price4,omitempty"`
	PriceFor5 string `gorm:"column:price_5;size:32" json:"price5,omitempty"`
	PriceFor6 string `gorm:"column:price_6;size:32" json:"price6,omitempty"`
	BasePrice string `gorm:"column:base_price;size:32" json:"basePrice,omitempty"`

	Ref    string         `gorm:"size:64" json:"ref,omitempty"`
	Images datatypes.JSON `gorm:"column:images" json:"images,omitempty"`
}
