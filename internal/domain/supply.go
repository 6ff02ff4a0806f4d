package domain

import "time"

type Supply struct {
	ID           int64      `json:"id"`
	PropertyID   int64      `json:"propertyId" gorm:"index;not null"`
	Name         string     `json:"name" gorm:"not null"`
	Category     string     `json:"category"`
	Description  string     `json:"description,omitempty" gorm:"type:text"`
	UnitCost     float64    `json:"unitCost"`
	Quantity     int        `json:"quantity"`
	Unit         string     `json:"unit,omitempty"`
	Supplier     string     `json:"supplier,omitempty"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`
	IsRecurring  bool       `json:"isRecurring"`
	Frequency    string     `json:"frequency,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Supply) TableName() string { return "supplies" }
