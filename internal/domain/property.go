package domain

import "time"

type Property struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Location      string    `json:"location"`
	Address       string    `json:"address"`
	Category      string    `json:"category"`
	Rating        float64   `json:"rating"`
	Guests        int       `json:"guests"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	PricePerNight float64   `json:"pricePerNight"`
	Images        []string  `json:"images" gorm:"serializer:json;type:text"`
	Amenities     []string  `json:"amenities" gorm:"serializer:json;type:text"`
	Featured      bool      `json:"featured"`
	IsActive      bool      `json:"isActive" gorm:"default:true"`
	OwnerID       *int64    `json:"ownerId,omitempty" gorm:"index"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Property) TableName() string { return "properties" }
